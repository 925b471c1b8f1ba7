package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"tradefair/internal/domain"
)

func TestSpeakerRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, name, photo, bio, created_at, updated_at FROM speakers WHERE id = \$1`).
					WithArgs("spk-1").
					WillReturnRows(sqlmock.NewRows([]string{"id", "name", "photo", "bio", "created_at", "updated_at"}).
						AddRow("spk-1", "Grace Hopper", nil, "Admiral", ts, ts))
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM speakers WHERE id = \$1`).WithArgs("spk-1").WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			got, err := NewSpeakerRepository(db).GetByID(ctx, "spk-1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "Grace Hopper", got.Name)
			require.Nil(t, got.Photo)
			require.NotNil(t, got.Bio)
			require.Equal(t, "Admiral", *got.Bio)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSpeakerRepository_Search(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`WHERE name ILIKE \$1`).
		WithArgs("%grace%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "photo", "bio", "created_at", "updated_at"}))

	got, err := NewSpeakerRepository(db).Search(context.Background(), "  grace ")
	require.NoError(t, err)
	require.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSpeakerRepository_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM speakers WHERE id = \$1`).WithArgs("spk-1").WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "still referenced",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM speakers`).WillReturnError(&pq.Error{Code: "23503"})
			},
			wantErr: domain.ErrSpeakerInUse,
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM speakers`).WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			err = NewSpeakerRepository(db).Delete(ctx, "spk-1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLikePattern(t *testing.T) {
	require.Equal(t, `%ada%`, likePattern(" ada "))
	require.Equal(t, `%50\%\_off\\%`, likePattern(`50%_off\`))
}
