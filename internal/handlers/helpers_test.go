package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/board-api/internal/auth"
	"github.com/yukikurage/board-api/internal/database"
	"github.com/yukikurage/board-api/internal/dto"
	apierrors "github.com/yukikurage/board-api/internal/errors"
	"github.com/yukikurage/board-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type apiEnv struct {
	db     *gorm.DB
	deps   Dependencies
	router *gin.Engine
}

func setupAPI(t *testing.T, suggester services.TaskSuggester) *apiEnv {
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
	require.NoError(t, database.MigrateDatabase(db))

	deps := NewDependencies(db, auth.NewTokenIssuer("handler-secret", time.Hour), suggester)
	router := gin.New()
	SetupRouter(router, deps)

	return &apiEnv{db: db, deps: deps, router: router}
}

func (env *apiEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// register creates an account through the given registration endpoint and returns its token
func (env *apiEnv) register(t *testing.T, endpoint, username string) string {
	t.Helper()
	w := env.do(t, http.MethodPost, endpoint, "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var token dto.TokenResponse
	decode(t, w, &token)
	require.Equal(t, "bearer", token.TokenType)
	return token.AccessToken
}

func (env *apiEnv) createBoard(t *testing.T, token, title string, public bool) dto.BoardDTO {
	t.Helper()
	w := env.do(t, http.MethodPost, "/boards", token, gin.H{"title": title, "public": public})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var board dto.BoardDTO
	decode(t, w, &board)
	return board
}

func (env *apiEnv) createTask(t *testing.T, token string, boardID uint64, body gin.H) dto.TaskDTO {
	t.Helper()
	w := env.do(t, http.MethodPost, boardPath(boardID, "/tasks"), token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var task dto.TaskDTO
	decode(t, w, &task)
	return task
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apierrors.APIError {
	t.Helper()
	var body apierrors.APIError
	decode(t, w, &body)
	return body
}

func boardPath(boardID uint64, suffix string) string {
	return fmt.Sprintf("/boards/%d%s", boardID, suffix)
}

func taskPath(taskID uint64, suffix string) string {
	return fmt.Sprintf("/tasks/%d%s", taskID, suffix)
}
