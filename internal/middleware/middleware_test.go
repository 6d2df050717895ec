package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/board-api/internal/auth"
	"github.com/yukikurage/board-api/internal/database"
	apierrors "github.com/yukikurage/board-api/internal/errors"
	"github.com/yukikurage/board-api/internal/models"
	"github.com/yukikurage/board-api/internal/policy"
	"github.com/yukikurage/board-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type middlewareEnv struct {
	db        *gorm.DB
	issuer    *auth.TokenIssuer
	userRepo  repository.UserRepository
	boardRepo repository.BoardRepository
	taskRepo  repository.TaskRepository
}

func setupMiddlewareEnv(t *testing.T) *middlewareEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})
	require.NoError(t, database.Migrate(db))

	return &middlewareEnv{
		db:        db,
		issuer:    auth.NewTokenIssuer("middleware-secret", time.Hour),
		userRepo:  repository.NewUserRepository(db),
		boardRepo: repository.NewBoardRepository(db),
		taskRepo:  repository.NewTaskRepository(db),
	}
}

func (env *middlewareEnv) createUser(t *testing.T, name string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{Username: name, Email: name + "@example.com", PasswordHash: "x", Role: role}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func (env *middlewareEnv) token(t *testing.T, userID uint64) string {
	t.Helper()
	token, err := env.issuer.Issue(userID)
	require.NoError(t, err)
	return token
}

func perform(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apierrors.APIError {
	t.Helper()
	var body apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRequireAuth(t *testing.T) {
	env := setupMiddlewareEnv(t)
	user := env.createUser(t, "alice", models.RoleGuest)

	router := gin.New()
	router.GET("/me", RequireAuth(env.issuer, env.userRepo), func(c *gin.Context) {
		actor, ok := GetActor(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": actor.UserID, "role": actor.Role})
	})

	w := perform(router, "GET", "/me", env.token(t, user.ID))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"role":"guest"}`, w.Body.String())

	w = perform(router, "GET", "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = perform(router, "GET", "/me", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apierrors.ErrCodeUnauthorized, decodeError(t, w).Code)

	expired, err := env.issuer.IssueWithExpiry(user.ID, -time.Minute)
	require.NoError(t, err)
	w = perform(router, "GET", "/me", expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apierrors.ErrCodeTokenExpired, decodeError(t, w).Code)

	// A valid token for a user that no longer exists
	w = perform(router, "GET", "/me", env.token(t, 4242))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireBoardAccess(t *testing.T) {
	env := setupMiddlewareEnv(t)
	owner := env.createUser(t, "owner", models.RoleUser)
	guest := env.createUser(t, "guest", models.RoleGuest)
	private := &models.Board{Title: "Private", OwnerID: owner.ID}
	require.NoError(t, env.db.Create(private).Error)

	router := gin.New()
	authed := router.Group("/", RequireAuth(env.issuer, env.userRepo))
	authed.GET("/boards/:id", RequireBoardAccess(env.boardRepo, policy.ActionRead), func(c *gin.Context) {
		board, ok := GetBoard(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": board.ID})
	})

	w := perform(router, "GET", "/boards/1", env.token(t, owner.ID))
	assert.Equal(t, http.StatusOK, w.Code)

	w = perform(router, "GET", "/boards/1", env.token(t, guest.ID))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, policy.ReasonGuestPrivate, decodeError(t, w).Message)

	w = perform(router, "GET", "/boards/99", env.token(t, owner.ID))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = perform(router, "GET", "/boards/abc", env.token(t, owner.ID))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequireTaskAccess(t *testing.T) {
	env := setupMiddlewareEnv(t)
	owner := env.createUser(t, "owner", models.RoleUser)
	reader := env.createUser(t, "reader", models.RoleUser)
	board := &models.Board{Title: "Public", OwnerID: owner.ID, Public: true}
	require.NoError(t, env.db.Create(board).Error)
	task := &models.Task{Title: "Task", Status: models.TaskStatusTodo, Priority: models.TaskPriorityLow, BoardID: board.ID, CreatorID: owner.ID}
	require.NoError(t, env.db.Create(task).Error)

	router := gin.New()
	authed := router.Group("/", RequireAuth(env.issuer, env.userRepo))
	authed.PUT("/tasks/:id/next-status", RequireTaskAccess(env.taskRepo, env.boardRepo, policy.ActionWrite), func(c *gin.Context) {
		loaded, ok := GetTask(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": loaded.ID})
	})

	w := perform(router, "PUT", "/tasks/1/next-status", env.token(t, owner.ID))
	assert.Equal(t, http.StatusOK, w.Code)

	w = perform(router, "PUT", "/tasks/1/next-status", env.token(t, reader.ID))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, policy.ReasonModifyForbidden, decodeError(t, w).Message)

	w = perform(router, "PUT", "/tasks/77/next-status", env.token(t, owner.ID))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
