package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/medx-platform/medx-api/internal/models"
)

// CreateFeedback сохраняет новый отзыв и возвращает его ID.
func (s *Storage) CreateFeedback(ctx context.Context, item models.FeedbackItem) (string, error) {
	const op = "storage.CreateFeedback"

	var newID string
	query := `INSERT INTO feedback (message, status, user_uid, email)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		item.Message, item.Status, item.UserUID, item.Email).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListFeedback возвращает отзывы с пагинацией, новые первыми.
func (s *Storage) ListFeedback(ctx context.Context, limit, offset int) ([]*models.FeedbackItem, error) {
	const op = "storage.ListFeedback"

	query := `SELECT id, message, submitted_at, status, user_uid, email
			  FROM feedback
			  ORDER BY submitted_at DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.FeedbackItem
	for rows.Next() {
		var f models.FeedbackItem
		var userUID, email sql.NullString
		if err = rows.Scan(&f.ID, &f.Message, &f.SubmittedAt, &f.Status,
			&userUID, &email); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if userUID.Valid {
			f.UserUID = &userUID.String
		}
		if email.Valid {
			f.Email = &email.String
		}
		result = append(result, &f)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateFeedbackStatus меняет статус отзыва.
func (s *Storage) UpdateFeedbackStatus(ctx context.Context, id, status string) (int64, error) {
	const op = "storage.UpdateFeedbackStatus"

	query := `UPDATE feedback SET status = $1 WHERE id = $2`
	res, err := s.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// DeleteFeedback удаляет отзыв по ID.
func (s *Storage) DeleteFeedback(ctx context.Context, id string) (int64, error) {
	const op = "storage.DeleteFeedback"

	query := `DELETE FROM feedback WHERE id = $1`
	res, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
