package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/habit-tracker/internal/storage"
)

func TestHabitRepository_CreateHabitForUser(t *testing.T) {
	ctx := context.Background()

	t.Run("inserta el hábito y la fila de asociación en una transacción", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO tabla_habitos").
			WithArgs("Leer", "30 min al día").
			WillReturnRows(pgxmock.NewRows([]string{"id", "nombre", "descripcion"}).
				AddRow(int64(5), "Leer", "30 min al día"))
		mock.ExpectExec("INSERT INTO usuario_habito").
			WithArgs(int64(9), int64(5)).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()
		mock.ExpectRollback() // defer の Rollback はコミット後の no-op

		repo := storage.NewHabitRepository(mock)

		habit, err := repo.CreateHabitForUser(ctx, 9, "Leer", "30 min al día")

		require.NoError(t, err)
		assert.Equal(t, int64(5), habit.ID)
		assert.Equal(t, "Leer", habit.Nombre)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fallo al insertar la asociación revierte la transacción", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		joinErr := errors.New("foreign key violation")

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO tabla_habitos").
			WithArgs("Leer", "30 min al día").
			WillReturnRows(pgxmock.NewRows([]string{"id", "nombre", "descripcion"}).
				AddRow(int64(5), "Leer", "30 min al día"))
		mock.ExpectExec("INSERT INTO usuario_habito").
			WithArgs(int64(9), int64(5)).
			WillReturnError(joinErr)
		mock.ExpectRollback()

		repo := storage.NewHabitRepository(mock)

		habit, err := repo.CreateHabitForUser(ctx, 9, "Leer", "30 min al día")

		assert.Nil(t, habit)
		assert.ErrorIs(t, err, joinErr)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestHabitRepository_ListHabitsForUser(t *testing.T) {
	ctx := context.Background()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"id", "nombre", "descripcion"}).
		AddRow(int64(1), "Leer", "30 min al día").
		AddRow(int64(2), "Correr", "5 km")

	mock.ExpectQuery("SELECT h.id, h.nombre, h.descripcion").
		WithArgs(int64(9)).
		WillReturnRows(rows)

	repo := storage.NewHabitRepository(mock)

	habits, err := repo.ListHabitsForUser(ctx, 9)

	require.NoError(t, err)
	require.Len(t, habits, 2)
	assert.Equal(t, "Leer", habits[0].Nombre)
	assert.Equal(t, "Correr", habits[1].Nombre)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHabitRepository_ListHabits(t *testing.T) {
	ctx := context.Background()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"id", "nombre", "descripcion"}).
		AddRow(int64(1), "Leer", "30 min al día")

	mock.ExpectQuery("SELECT id, nombre, descripcion").
		WillReturnRows(rows)

	repo := storage.NewHabitRepository(mock)

	habits, err := repo.ListHabits(ctx)

	require.NoError(t, err)
	require.Len(t, habits, 1)

	require.NoError(t, mock.ExpectationsWereMet())
}
