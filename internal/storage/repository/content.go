package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/medx-platform/medx-api/internal/models"
)

// CreateContent сохраняет новый материал и возвращает его ID.
func (s *Storage) CreateContent(ctx context.Context, item models.ContentItem) (string, error) {
	const op = "storage.CreateContent"

	var newID string
	query := `INSERT INTO content (id, title, description, author, level, is_premium, file_path, creator_uid)
			  VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		item.Title, item.Description, item.Author, item.Level,
		item.IsPremium, item.FilePath, nullableUID(item.CreatorUID)).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

func nullableUID(uid string) any {
	if uid == "" {
		return nil
	}
	return uid
}

// GetContent возвращает материал по ID независимо от партиции.
func (s *Storage) GetContent(ctx context.Context, id string) (*models.ContentItem, error) {
	const op = "storage.GetContent"

	query := `SELECT id, title, description, author, level, is_premium, file_path,
			      downloads, creator_uid, upload_date, last_update_date
			  FROM content
			  WHERE id = $1`
	c := &models.ContentItem{}
	var creatorUID sql.NullString
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Author, &c.Level,
		&c.IsPremium, &c.FilePath, &c.Downloads, &creatorUID,
		&c.UploadDate, &c.LastUpdateDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if creatorUID.Valid {
		c.CreatorUID = creatorUID.String
	}
	return c, nil
}

// ListContent возвращает материалы одной партиции уровень+тариф.
func (s *Storage) ListContent(ctx context.Context, level int, premium bool) ([]*models.ContentItem, error) {
	const op = "storage.ListContent"

	query := `SELECT id, title, description, author, level, is_premium, file_path,
			      downloads, creator_uid, upload_date, last_update_date
			  FROM content
			  WHERE level = $1 AND is_premium = $2
			  ORDER BY upload_date`
	rows, err := s.DB.QueryContext(ctx, query, level, premium)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.ContentItem
	for rows.Next() {
		var c models.ContentItem
		var creatorUID sql.NullString
		if err = rows.Scan(&c.ID, &c.Title, &c.Description, &c.Author, &c.Level,
			&c.IsPremium, &c.FilePath, &c.Downloads, &creatorUID,
			&c.UploadDate, &c.LastUpdateDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if creatorUID.Valid {
			c.CreatorUID = creatorUID.String
		}
		result = append(result, &c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// IncrementDownloads атомарно увеличивает счётчик открытий материала на 1.
// Инкремент выполняется на стороне базы, поэтому параллельные открытия
// не теряют обновления.
func (s *Storage) IncrementDownloads(ctx context.Context, id string) (int64, error) {
	const op = "storage.IncrementDownloads"

	query := `UPDATE content
			  SET downloads = downloads + 1
			  WHERE id = $1`
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

// InsertContentCopy записывает копию материала в партицию целевого тарифа,
// сохраняя ID. Используется первым шагом переноса между тарифами.
func (s *Storage) InsertContentCopy(ctx context.Context, item models.ContentItem) error {
	const op = "storage.InsertContentCopy"

	query := `INSERT INTO content (id, title, description, author, level, is_premium, file_path,
			      downloads, creator_uid, upload_date, last_update_date)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, CURRENT_TIMESTAMP)`
	_, err := s.DB.ExecContext(ctx, query,
		item.ID, item.Title, item.Description, item.Author, item.Level,
		item.IsPremium, item.FilePath, item.Downloads,
		nullableUID(item.CreatorUID), item.UploadDate)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteContentFromTier удаляет материал из партиции конкретного тарифа.
// Используется вторым шагом переноса между тарифами.
func (s *Storage) DeleteContentFromTier(ctx context.Context, id string, premium bool) (int64, error) {
	const op = "storage.DeleteContentFromTier"

	query := `DELETE FROM content WHERE id = $1 AND is_premium = $2`
	res, err := s.DB.ExecContext(ctx, query, id, premium)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// DeleteContent удаляет материал по ID из любой партиции.
func (s *Storage) DeleteContent(ctx context.Context, id string) (int64, error) {
	const op = "storage.DeleteContent"

	query := `DELETE FROM content WHERE id = $1`
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
