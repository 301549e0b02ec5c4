// Package repository реализует хранилище данных на основе PostgreSQL
// для платформы MED-X: пользователи, учебные материалы и отзывы.
// Учебные материалы партиционированы по уровню и тарифу; первичный ключ
// таблицы content включает is_premium, поэтому перенос материала между
// тарифами — это честная запись в целевую партицию и удаление из исходной.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrNotFound возвращается, когда запрошенная запись отсутствует в базе.
var ErrNotFound = errors.New("not found")

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с пользователями, материалами и отзывами.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и инициализирует необходимые таблицы и индексы.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = initializeSchema(db); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'users'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table users missing or query error: %w", err)
	}
	return nil
}

func initializeSchema(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS users(
            uid UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            email TEXT NOT NULL UNIQUE,
            username TEXT NOT NULL UNIQUE,
            display_name TEXT NOT NULL DEFAULT '',
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'student',
            is_premium BOOLEAN NOT NULL DEFAULT FALSE,
            subscription_expiry TIMESTAMPTZ
        );
    `)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS content(
            id UUID NOT NULL,
            title TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            author TEXT NOT NULL,
            level INT NOT NULL,
            is_premium BOOLEAN NOT NULL,
            file_path TEXT NOT NULL,
            downloads BIGINT NOT NULL DEFAULT 0,
            creator_uid UUID,
            upload_date TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
            last_update_date TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
            PRIMARY KEY (id, is_premium)
        );
    `)
	if err != nil {
		return fmt.Errorf("failed to create content table: %w", err)
	}

	_, err = db.Exec(`
        CREATE INDEX IF NOT EXISTS idx_content_level_tier
        ON content (level, is_premium);
    `)
	if err != nil {
		return fmt.Errorf("failed to create content index: %w", err)
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS feedback(
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            message TEXT NOT NULL,
            submitted_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
            status TEXT NOT NULL DEFAULT 'new',
            user_uid UUID,
            email TEXT
        );
    `)
	if err != nil {
		return fmt.Errorf("failed to create feedback table: %w", err)
	}

	return nil
}
