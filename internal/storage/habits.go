package storage

import (
	"context"
	"fmt"
)

// Habit は tabla_habitos の1行を表します。
// ユーザーとの関連は usuario_habito 結合テーブルが持ちます（多対多）。
type Habit struct {
	ID          int64
	Nombre      string
	Descripcion string
}

// HabitRepository は tabla_habitos と usuario_habito への問い合わせをまとめたリポジトリです。
type HabitRepository struct {
	db Pool
}

// NewHabitRepository は習慣リポジトリを作成します。
func NewHabitRepository(db Pool) *HabitRepository {
	return &HabitRepository{db: db}
}

// CreateHabitForUser は習慣を1行挿入し、作成したユーザーとの結合行を同一トランザクションで追加します。
// コミットに失敗した場合はロールバックされ、部分的な書き込みは残りません。
func (r *HabitRepository) CreateHabitForUser(ctx context.Context, userID int64, nombre, descripcion string) (*Habit, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin habit transaction: %w", err)
	}
	// コミット済みの場合の Rollback は no-op。
	defer tx.Rollback(ctx)

	insertHabit := `
        INSERT INTO tabla_habitos (nombre, descripcion)
        VALUES ($1, $2)
        RETURNING id, nombre, descripcion
    `

	var habit Habit
	err = tx.QueryRow(ctx, insertHabit, nombre, descripcion).Scan(
		&habit.ID,
		&habit.Nombre,
		&habit.Descripcion,
	)
	if err != nil {
		return nil, fmt.Errorf("insert habit: %w", err)
	}

	insertJoin := `
        INSERT INTO usuario_habito (usuario_id, habito_id)
        VALUES ($1, $2)
    `

	if _, err := tx.Exec(ctx, insertJoin, userID, habit.ID); err != nil {
		return nil, fmt.Errorf("insert usuario_habito row: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit habit transaction: %w", err)
	}

	return &habit, nil
}

// ListHabitsForUser は結合テーブル経由でユーザーに関連付いた習慣を返します。順序は保証しません。
func (r *HabitRepository) ListHabitsForUser(ctx context.Context, userID int64) ([]Habit, error) {
	query := `
        SELECT h.id, h.nombre, h.descripcion
        FROM tabla_habitos h
        JOIN usuario_habito uh ON uh.habito_id = h.id
        WHERE uh.usuario_id = $1
    `

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("select habits for user: %w", err)
	}
	defer rows.Close()

	var habits []Habit
	for rows.Next() {
		var habit Habit
		if err := rows.Scan(&habit.ID, &habit.Nombre, &habit.Descripcion); err != nil {
			return nil, fmt.Errorf("scan habit row: %w", err)
		}
		habits = append(habits, habit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate habit rows: %w", err)
	}

	return habits, nil
}

// ListHabits は全習慣を返します。管理ダッシュボード用で、フィルタもページングも行いません。
func (r *HabitRepository) ListHabits(ctx context.Context) ([]Habit, error) {
	query := `
        SELECT id, nombre, descripcion
        FROM tabla_habitos
    `

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select habits: %w", err)
	}
	defer rows.Close()

	var habits []Habit
	for rows.Next() {
		var habit Habit
		if err := rows.Scan(&habit.ID, &habit.Nombre, &habit.Descripcion); err != nil {
			return nil, fmt.Errorf("scan habit row: %w", err)
		}
		habits = append(habits, habit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate habit rows: %w", err)
	}

	return habits, nil
}
