package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/board-api/internal/models"
	"golang.org/x/crypto/bcrypt"
)

func TestChangePassword(t *testing.T) {
	env := setupTestEnv(t)
	service := NewUserService(env.userRepo, env.taskRepo, env.audit)
	alice := env.createUser(t, "alice", models.RoleUser)
	bob := env.createUser(t, "bob", models.RoleUser)

	assert.ErrorIs(t, service.ChangePassword(bg, bob.ID, alice.ID, "newsecret"), ErrNotSelf)
	assert.ErrorIs(t, service.ChangePassword(bg, alice.ID, alice.ID, "123"), ErrPasswordTooShort)

	require.NoError(t, service.ChangePassword(bg, alice.ID, alice.ID, "newsecret"))
	reloaded, err := service.GetUser(bg, alice.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(reloaded.PasswordHash), []byte("newsecret")))
}

func TestChangeAvatar(t *testing.T) {
	env := setupTestEnv(t)
	service := NewUserService(env.userRepo, env.taskRepo, env.audit)
	alice := env.createUser(t, "alice", models.RoleUser)
	bob := env.createUser(t, "bob", models.RoleUser)

	_, err := service.ChangeAvatar(bg, bob.ID, alice.ID, "https://example.com/a.png")
	assert.ErrorIs(t, err, ErrNotSelf)

	_, err = service.ChangeAvatar(bg, alice.ID, alice.ID, "")
	assert.ErrorIs(t, err, ErrAvatarURLMissing)

	user, err := service.ChangeAvatar(bg, alice.ID, alice.ID, "https://example.com/a.png")
	require.NoError(t, err)
	require.NotNil(t, user.AvatarURL)
	assert.Equal(t, "https://example.com/a.png", *user.AvatarURL)
}

func TestListCreatedTasks(t *testing.T) {
	env := setupTestEnv(t)
	service := NewUserService(env.userRepo, env.taskRepo, env.audit)
	alice := env.createUser(t, "alice", models.RoleUser)
	bob := env.createUser(t, "bob", models.RoleUser)
	board := env.createBoard(t, "Board", alice.ID, true)
	env.createTask(t, "Mine", board.ID, alice.ID, 0)
	env.createTask(t, "Theirs", board.ID, bob.ID, 1)

	tasks, err := service.ListCreatedTasks(bg, alice.ID, 0, 100)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Mine", tasks[0].Title)

	_, err = service.GetUser(bg, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
