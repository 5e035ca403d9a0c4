// Package repository реализует хранилище данных на основе PostgreSQL
// для сервиса онлайн-записи: пользователи с пробным периодом, услуги,
// сотрудники, записи клиентов с токенами подтверждения и платежи.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrNotFound возвращается, когда запрошенная запись не найдена.
// Для токенов подтверждения под это определение одинаково попадают
// использованный, истекший и никогда не существовавший токен.
var ErrNotFound = errors.New("not found")

// ErrDuplicatePayment возвращается при повторной доставке вебхука
// с уже обработанным provider_payment_id.
var ErrDuplicatePayment = errors.New("duplicate payment")

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
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
        WHERE table_name = 'appointments'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table appointments missing or query error: %w", err)
	}
	return nil
}
