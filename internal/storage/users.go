package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// RoleDefault は登録時に付与される既定のロールです。
const RoleDefault = "usuario"

// User は tabla_usuarios の1行を表します。
// PasswordHash には bcrypt ダイジェストのみを保存し、生パスワードは保持しません。
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Rol          string
}

// UserRepository は tabla_usuarios への問い合わせをまとめたリポジトリです。
type UserRepository struct {
	db Pool
}

// NewUserRepository はユーザーリポジトリを作成します。
func NewUserRepository(db Pool) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser は新しいユーザーを1行挿入します。
// username の一意制約に違反した場合は ErrUsernameTaken を返します。
func (r *UserRepository) CreateUser(ctx context.Context, username, passwordHash, rol string) (*User, error) {
	if rol == "" {
		rol = RoleDefault
	}

	query := `
        INSERT INTO tabla_usuarios (username, password_hash, rol)
        VALUES ($1, $2, $3)
        RETURNING id, username, password_hash, rol
    `

	var user User
	err := r.db.QueryRow(ctx, query, username, passwordHash, rol).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Rol,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return &user, nil
}

// GetUserByID はIDでユーザーを1件取得します。
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*User, error) {
	query := `
        SELECT id, username, password_hash, rol
        FROM tabla_usuarios
        WHERE id = $1
    `

	var user User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Rol,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("select user by id: %w", err)
	}

	return &user, nil
}

// GetUserByUsername は username でユーザーを1件取得します。
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	query := `
        SELECT id, username, password_hash, rol
        FROM tabla_usuarios
        WHERE username = $1
    `

	var user User
	err := r.db.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Rol,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("select user by username: %w", err)
	}

	return &user, nil
}

// ListUsers は全ユーザーを返します。順序は保証しません。
func (r *UserRepository) ListUsers(ctx context.Context) ([]User, error) {
	query := `
        SELECT id, username, password_hash, rol
        FROM tabla_usuarios
    `

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Rol); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}

	return users, nil
}
