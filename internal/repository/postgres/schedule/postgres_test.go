package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	domain "pharmaduty-go/internal/domain/schedule"
)

func setupMockDB(t *testing.T) (sqlmock.Sqlmock, *PostgresRepository) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)
	return mock, NewPostgres(gormDB)
}

func newSchedule() *domain.DutySchedule {
	return &domain.DutySchedule{
		PharmacyID: 3,
		DutyDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		StartTime:  domain.DefaultStartTime,
		EndTime:    domain.DefaultEndTime,
	}
}

func TestCreateMapsUniqueViolationToConflict(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "duty_schedules"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_duty_schedules_pharmacy_date"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), newSchedule())
	assert.ErrorIs(t, err, domain.ErrScheduleConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateIfAbsentReportsSkippedRow(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "duty_schedules" .* ON CONFLICT \("pharmacy_id","duty_date"\) DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	created, err := repo.CreateIfAbsent(context.Background(), newSchedule())
	require.NoError(t, err)
	assert.False(t, created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateIfAbsentInsertsRow(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "duty_schedules"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectCommit()

	schedule := newSchedule()
	created, err := repo.CreateIfAbsent(context.Background(), schedule)
	require.NoError(t, err)
	assert.True(t, created)
	assert.EqualValues(t, 11, schedule.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingRow(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "duty_schedules"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrScheduleNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
