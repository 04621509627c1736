package storage

import (
	"context"
	"fmt"
	"time"
)

// Entry は tabla_seguimiento の1行（ある日のある習慣の達成記録）を表します。
// (user_id, habit_id, fecha) に一意制約は張られておらず、同一日の重複記録は許容されます。
type Entry struct {
	ID       int64
	UserID   int64
	HabitID  int64
	Fecha    time.Time
	Cumplido bool
}

// TrackingRepository は tabla_seguimiento への問い合わせをまとめたリポジトリです。
type TrackingRepository struct {
	db Pool
}

// NewTrackingRepository は記録リポジトリを作成します。
func NewTrackingRepository(db Pool) *TrackingRepository {
	return &TrackingRepository{db: db}
}

// CreateEntry は達成記録を無条件に1行挿入します。
// habit_id が呼び出しユーザーに関連付いているかは検証しません。
func (r *TrackingRepository) CreateEntry(ctx context.Context, userID, habitID int64, fecha time.Time, cumplido bool) (*Entry, error) {
	query := `
        INSERT INTO tabla_seguimiento (user_id, habit_id, fecha, cumplido)
        VALUES ($1, $2, $3, $4)
        RETURNING id, user_id, habit_id, fecha, cumplido
    `

	var entry Entry
	err := r.db.QueryRow(ctx, query, userID, habitID, fecha, cumplido).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.HabitID,
		&entry.Fecha,
		&entry.Cumplido,
	)
	if err != nil {
		return nil, fmt.Errorf("insert tracking entry: %w", err)
	}

	return &entry, nil
}

// ListEntriesForUser はユーザーの全記録を返します。順序は保証しません。
func (r *TrackingRepository) ListEntriesForUser(ctx context.Context, userID int64) ([]Entry, error) {
	query := `
        SELECT id, user_id, habit_id, fecha, cumplido
        FROM tabla_seguimiento
        WHERE user_id = $1
    `

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("select tracking entries for user: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.HabitID, &entry.Fecha, &entry.Cumplido); err != nil {
			return nil, fmt.Errorf("scan tracking row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tracking rows: %w", err)
	}

	return entries, nil
}

// ListEntries は全記録を返します。管理ダッシュボード用で、小規模データ前提です。
func (r *TrackingRepository) ListEntries(ctx context.Context) ([]Entry, error) {
	query := `
        SELECT id, user_id, habit_id, fecha, cumplido
        FROM tabla_seguimiento
    `

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select tracking entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.HabitID, &entry.Fecha, &entry.Cumplido); err != nil {
			return nil, fmt.Errorf("scan tracking row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tracking rows: %w", err)
	}

	return entries, nil
}
