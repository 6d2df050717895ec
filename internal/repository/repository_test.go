package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/board-api/internal/database"
	"github.com/yukikurage/board-api/internal/models"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ctx = context.Background()

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})
	require.NoError(t, database.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{Username: name, Email: name + "@example.com", PasswordHash: "x", Role: models.RoleUser}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedBoard(t *testing.T, db *gorm.DB, ownerID uint64, title string, public bool) *models.Board {
	t.Helper()
	board := &models.Board{Title: title, OwnerID: ownerID, Public: public}
	require.NoError(t, db.Create(board).Error)
	return board
}

func seedTask(t *testing.T, db *gorm.DB, boardID, creatorID uint64, title string, order int) *models.Task {
	t.Helper()
	task := &models.Task{
		Title:     title,
		Status:    models.TaskStatusTodo,
		Priority:  models.TaskPriorityMedium,
		SortOrder: order,
		BoardID:   boardID,
		CreatorID: creatorID,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

func TestTaskRepository_ListByBoardOrdersByPosition(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	owner := seedUser(t, db, "owner")
	board := seedBoard(t, db, owner.ID, "Board", false)

	seedTask(t, db, board.ID, owner.ID, "third", 2)
	seedTask(t, db, board.ID, owner.ID, "first", 0)
	seedTask(t, db, board.ID, owner.ID, "second", 1)

	tasks, err := repo.ListByBoard(ctx, TaskFilter{BoardID: board.ID})
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, []string{"first", "second", "third"}, []string{tasks[0].Title, tasks[1].Title, tasks[2].Title})

	tasks, err = repo.ListByBoard(ctx, TaskFilter{BoardID: board.ID, Offset: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "second", tasks[0].Title)

	next, err := repo.NextSortOrder(ctx, board.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, next)

	empty := seedBoard(t, db, owner.ID, "Empty", false)
	next, err = repo.NextSortOrder(ctx, empty.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, next)
}

func TestTaskRepository_SearchRespectsVisibility(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	owner := seedUser(t, db, "owner")
	outsider := seedUser(t, db, "outsider")

	private := seedBoard(t, db, owner.ID, "Private", false)
	public := seedBoard(t, db, owner.ID, "Public", true)
	seedTask(t, db, private.ID, owner.ID, "Secret Plan", 0)
	seedTask(t, db, public.ID, owner.ID, "Open plan", 0)

	all, err := repo.Search(ctx, "PLAN", nil, 0, 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	visible, err := repo.Search(ctx, "plan", &outsider.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "Open plan", visible[0].Title)

	mine, err := repo.Search(ctx, "plan", &owner.ID, 0, 10)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestTaskRepository_BulkAndReorder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	owner := seedUser(t, db, "owner")
	board := seedBoard(t, db, owner.ID, "Board", false)
	other := seedBoard(t, db, owner.ID, "Other", false)

	a := seedTask(t, db, board.ID, owner.ID, "a", 0)
	b := seedTask(t, db, board.ID, owner.ID, "b", 1)
	foreign := seedTask(t, db, other.ID, owner.ID, "foreign", 0)

	reordered, err := repo.Reorder(ctx, board.ID, []uint64{b.ID, foreign.ID, a.ID, 999})
	require.NoError(t, err)
	assert.Equal(t, int64(2), reordered)

	got, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.SortOrder)
	got, err = repo.FindByID(ctx, foreign.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.SortOrder)

	updated, err := repo.UpdateStatusBulk(ctx, []uint64{a.ID, b.ID, 999}, models.TaskStatusDone)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	updated, err = repo.UpdateStatusBulk(ctx, nil, models.TaskStatusDone)
	require.NoError(t, err)
	assert.Zero(t, updated)

	require.NoError(t, repo.AddComment(ctx, &models.TaskComment{TaskID: a.ID, AuthorID: owner.ID, Content: "bye"}))
	deleted, err := repo.DeleteBulk(ctx, []uint64{a.ID, 999})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var comments int64
	require.NoError(t, db.Model(&models.TaskComment{}).Count(&comments).Error)
	assert.Zero(t, comments)

	err = repo.Delete(ctx, a.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestBoardRepository_DeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBoardRepository(db)
	taskRepo := NewTaskRepository(db)
	owner := seedUser(t, db, "owner")
	member := seedUser(t, db, "member")
	board := seedBoard(t, db, owner.ID, "Doomed", false)
	keep := seedBoard(t, db, owner.ID, "Keep", false)

	task := seedTask(t, db, board.ID, owner.ID, "gone", 0)
	kept := seedTask(t, db, keep.ID, owner.ID, "kept", 0)
	require.NoError(t, taskRepo.AddComment(ctx, &models.TaskComment{TaskID: task.ID, AuthorID: owner.ID, Content: "x"}))
	require.NoError(t, taskRepo.AddComment(ctx, &models.TaskComment{TaskID: kept.ID, AuthorID: owner.ID, Content: "y"}))
	require.NoError(t, repo.AddMember(ctx, &models.BoardMember{BoardID: board.ID, UserID: member.ID}))

	require.NoError(t, repo.Delete(ctx, board.ID))

	_, err := repo.FindByID(ctx, board.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	var tasks, comments, members int64
	require.NoError(t, db.Model(&models.Task{}).Count(&tasks).Error)
	require.NoError(t, db.Model(&models.TaskComment{}).Count(&comments).Error)
	require.NoError(t, db.Model(&models.BoardMember{}).Count(&members).Error)
	assert.Equal(t, int64(1), tasks)
	assert.Equal(t, int64(1), comments)
	assert.Zero(t, members)

	assert.True(t, errors.Is(repo.Delete(ctx, board.ID), gorm.ErrRecordNotFound))
}

func TestBoardRepository_ListVisibility(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBoardRepository(db)
	owner := seedUser(t, db, "owner")
	viewer := seedUser(t, db, "viewer")

	seedBoard(t, db, owner.ID, "Private", false)
	seedBoard(t, db, owner.ID, "Public", true)
	seedBoard(t, db, viewer.ID, "Viewer's", false)

	notArchived := false
	boards, err := repo.List(ctx, BoardFilter{Archived: &notArchived, VisibleTo: &viewer.ID})
	require.NoError(t, err)
	require.Len(t, boards, 2)
	assert.Equal(t, "Public", boards[0].Title)
	assert.Equal(t, "Viewer's", boards[1].Title)

	public := true
	boards, err = repo.List(ctx, BoardFilter{Public: &public})
	require.NoError(t, err)
	assert.Len(t, boards, 1)
}

func TestStatsRepository_Counts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStatsRepository(db)
	owner := seedUser(t, db, "owner")
	board := seedBoard(t, db, owner.ID, "Board", false)

	seedTask(t, db, board.ID, owner.ID, "a", 0)
	done := seedTask(t, db, board.ID, owner.ID, "b", 1)
	require.NoError(t, db.Model(done).Update("status", models.TaskStatusDone).Error)

	counts, err := repo.BoardTaskCounts(ctx, board.ID)
	require.NoError(t, err)
	assert.Equal(t, BoardTaskCounts{Total: 2, Todo: 1, Done: 1}, counts)

	global, err := repo.GlobalTaskCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, GlobalTaskCounts{Boards: 1, TasksTotal: 2, Done: 1}, global)

	activity, err := repo.UserActivityCounts(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), activity.CreatedTasks)
	assert.Equal(t, int64(1), activity.BoardsCreated)
}

func TestAuditLogRepository_ListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAuditLogRepository(db)
	actor := uint64(7)

	require.NoError(t, repo.Create(ctx, &models.AuditLog{ActorID: &actor, Action: "create", EntityType: "board"}))
	require.NoError(t, repo.Create(ctx, &models.AuditLog{ActorID: &actor, Action: "create", EntityType: "task", Details: datatypes.JSON(`{"title":"x"}`)}))
	require.NoError(t, repo.Create(ctx, &models.AuditLog{Action: "login", EntityType: "user"}))

	entries, err := repo.List(ctx, AuditLogFilter{ActorID: &actor})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Newest first
	assert.Equal(t, "task", entries[0].EntityType)

	action := "create"
	entityType := "board"
	entries, err = repo.List(ctx, AuditLogFilter{Action: &action, EntityType: &entityType})
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	entries, err = repo.List(ctx, AuditLogFilter{Offset: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "task", entries[0].EntityType)
}
