package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/board-api/internal/auth"
	"github.com/yukikurage/board-api/internal/database"
	"github.com/yukikurage/board-api/internal/models"
	"github.com/yukikurage/board-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db        *gorm.DB
	userRepo  repository.UserRepository
	boardRepo repository.BoardRepository
	taskRepo  repository.TaskRepository
	statsRepo repository.StatsRepository
	auditRepo repository.AuditLogRepository
	audit     *AuditService
	issuer    *auth.TokenIssuer
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))

	auditRepo := repository.NewAuditLogRepository(db)
	return &testEnv{
		db:        db,
		userRepo:  repository.NewUserRepository(db),
		boardRepo: repository.NewBoardRepository(db),
		taskRepo:  repository.NewTaskRepository(db),
		statsRepo: repository.NewStatsRepository(db),
		auditRepo: auditRepo,
		audit:     NewAuditService(auditRepo),
		issuer:    auth.NewTokenIssuer("test-secret", time.Hour),
	}
}

func (env *testEnv) createUser(t *testing.T, username string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
		Role:         role,
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func (env *testEnv) createBoard(t *testing.T, title string, ownerID uint64, public bool) *models.Board {
	t.Helper()
	board := &models.Board{
		Title:   title,
		Public:  public,
		OwnerID: ownerID,
	}
	require.NoError(t, env.db.Create(board).Error)
	return board
}

func (env *testEnv) createTask(t *testing.T, title string, boardID, creatorID uint64, order int) *models.Task {
	t.Helper()
	task := &models.Task{
		Title:     title,
		Status:    models.TaskStatusTodo,
		Priority:  models.TaskPriorityMedium,
		SortOrder: order,
		BoardID:   boardID,
		CreatorID: creatorID,
	}
	require.NoError(t, env.db.Create(task).Error)
	return task
}

func (env *testEnv) reloadTask(t *testing.T, id uint64) *models.Task {
	t.Helper()
	var task models.Task
	require.NoError(t, env.db.First(&task, id).Error)
	return &task
}

func (env *testEnv) auditCount(t *testing.T, action, entityType string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, env.db.Model(&models.AuditLog{}).
		Where("action = ? AND entity_type = ?", action, entityType).
		Count(&count).Error)
	return count
}

func ownerActor(user *models.User) Actor {
	return Actor{UserID: user.ID, Role: user.Role}
}

var bg = context.Background()
