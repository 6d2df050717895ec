package repository

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/board-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupMockDB returns a postgres-dialect gorm DB backed by sqlmock
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestTaskRepository_UpdateStatusBulk_Postgres(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "tasks" SET "status"=$1,"updated_at"=$2 WHERE id IN ($3,$4)`)).
		WithArgs("done", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	updated, err := repo.UpdateStatusBulk(ctx, []uint64{1, 2}, models.TaskStatusDone)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_DeleteBulk_RollsBackOnError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "task_comments" WHERE task_id IN ($1,$2)`)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "tasks" WHERE id IN ($1,$2)`)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	deleted, err := repo.DeleteBulk(ctx, []uint64{1, 2})
	assert.Error(t, err)
	assert.Zero(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditLogRepository_Create_PropagatesError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAuditLogRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "audit_logs"`)).
		WillReturnError(errors.New("disk full"))

	err := repo.Create(ctx, &models.AuditLog{Action: "login", EntityType: "user"})
	assert.EqualError(t, err, "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsRepository_GlobalTaskCounts_Postgres(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewStatsRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "boards"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "tasks"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(10))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "tasks" WHERE status = $1`)).
		WithArgs("done").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	counts, err := repo.GlobalTaskCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, GlobalTaskCounts{Boards: 3, TasksTotal: 10, Done: 4}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}
