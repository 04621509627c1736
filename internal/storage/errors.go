package storage

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ストレージ層の呼び出し元が errors.Is で分類するための番兵エラー。
var (
	// ErrUserNotFound は指定されたユーザーが存在しないことを表します。
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken は username の一意制約に違反したことを表します。
	ErrUsernameTaken = errors.New("username already taken")
	// ErrHabitNotFound は指定された習慣が存在しないことを表します。
	ErrHabitNotFound = errors.New("habit not found")
)

// PostgreSQL のエラーコード（クラス23: 整合性制約違反）。
const (
	pgUniqueViolation = "23505"
)

// isUniqueViolation は一意制約違反かどうかを判定します。
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
