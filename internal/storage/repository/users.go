package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/medx-platform/medx-api/internal/models"
)

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"

	var newUID string
	query := `INSERT INTO users (email, username, display_name, password_hash, role, is_premium)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Username, user.DisplayName, user.PasswordHash, user.Role,
		user.IsPremium).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"

	query := `SELECT uid, email, username, display_name, password_hash, role, is_premium, subscription_expiry
			  FROM users
			  WHERE username = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, username), op)
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"

	query := `SELECT uid, email, username, display_name, password_hash, role, is_premium, subscription_expiry
			  FROM users
			  WHERE uid = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, userUID), op)
}

// GetUserByEmail возвращает пользователя по адресу электронной почты.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"

	query := `SELECT uid, email, username, display_name, password_hash, role, is_premium, subscription_expiry
			  FROM users
			  WHERE email = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, email), op)
}

func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	u := &models.User{}
	var subscriptionExpiry sql.NullTime
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.DisplayName, &u.PasswordHash,
		&u.Role, &u.IsPremium, &subscriptionExpiry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if subscriptionExpiry.Valid {
		u.SubscriptionExpiry = &subscriptionExpiry.Time
	}
	return u, nil
}

// ListUsers возвращает список пользователей с пагинацией.
func (s *Storage) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	const op = "storage.ListUsers"

	query := `SELECT uid, email, username, display_name, password_hash, role, is_premium, subscription_expiry
			  FROM users
			  ORDER BY username
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		var u models.User
		var subscriptionExpiry sql.NullTime
		if err = rows.Scan(&u.UID, &u.Email, &u.Username, &u.DisplayName, &u.PasswordHash,
			&u.Role, &u.IsPremium, &subscriptionExpiry); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if subscriptionExpiry.Valid {
			u.SubscriptionExpiry = &subscriptionExpiry.Time
		}
		result = append(result, &u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdatePremium выставляет флаг подписки и дату её окончания.
// Для снятия подписки expiry должен быть nil.
func (s *Storage) UpdatePremium(ctx context.Context, userUID string, premium bool, expiry *time.Time) (int64, error) {
	const op = "storage.UpdatePremium"

	query := `UPDATE users
			  SET is_premium = $1, subscription_expiry = $2
			  WHERE uid = $3`
	res, err := s.DB.ExecContext(ctx, query, premium, expiry, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// UpdateDisplayName меняет отображаемое имя пользователя.
func (s *Storage) UpdateDisplayName(ctx context.Context, userUID, displayName string) (int64, error) {
	const op = "storage.UpdateDisplayName"

	query := `UPDATE users
			  SET display_name = $1
			  WHERE uid = $2`
	res, err := s.DB.ExecContext(ctx, query, displayName, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// UpdateRole меняет роль пользователя.
func (s *Storage) UpdateRole(ctx context.Context, userUID, role string) (int64, error) {
	const op = "storage.UpdateRole"

	query := `UPDATE users
			  SET role = $1
			  WHERE uid = $2`
	res, err := s.DB.ExecContext(ctx, query, role, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// FindExpiredPremium возвращает пользователей, чья premium-подписка
// истекла к переданному моменту времени.
func (s *Storage) FindExpiredPremium(ctx context.Context, now time.Time) ([]*models.User, error) {
	const op = "storage.FindExpiredPremium"

	query := `SELECT uid, email, username, display_name, password_hash, role, is_premium, subscription_expiry
			  FROM users
			  WHERE is_premium = TRUE
			    AND subscription_expiry IS NOT NULL
			    AND subscription_expiry <= $1`
	rows, err := s.DB.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		var u models.User
		var subscriptionExpiry sql.NullTime
		if err = rows.Scan(&u.UID, &u.Email, &u.Username, &u.DisplayName, &u.PasswordHash,
			&u.Role, &u.IsPremium, &subscriptionExpiry); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if subscriptionExpiry.Valid {
			u.SubscriptionExpiry = &subscriptionExpiry.Time
		}
		result = append(result, &u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
