package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/board-api/internal/dto"
	apierrors "github.com/yukikurage/board-api/internal/errors"
	"github.com/yukikurage/board-api/internal/middleware"
	"github.com/yukikurage/board-api/internal/models"
	"github.com/yukikurage/board-api/internal/services"
	"github.com/yukikurage/board-api/internal/utils"
)

type BoardHandler struct {
	boardService *services.BoardService
}

func NewBoardHandler(boardService *services.BoardService) *BoardHandler {
	return &BoardHandler{
		boardService: boardService,
	}
}

// ListPublicBoards lists public, non-archived boards. No authentication needed.
func (h *BoardHandler) ListPublicBoards(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	boards, err := h.boardService.ListPublicBoards(c.Request.Context(), params.Offset, params.Limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardDTOs(boards))
}

// GetPublicBoard returns a public board with its tasks. No authentication needed.
func (h *BoardHandler) GetPublicBoard(c *gin.Context) {
	boardID, ok := parseIDParam(c, "id", "Invalid board ID")
	if !ok {
		return
	}

	board, err := h.boardService.GetPublicBoard(c.Request.Context(), boardID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardWithTasksDTO(*board))
}

// ListBoards lists the boards the caller may read.
// archived=true lists archived boards instead.
func (h *BoardHandler) ListBoards(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	archived := false
	if raw := c.Query("archived"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid archived flag")
			return
		}
		archived = parsed
	}
	params := utils.GetPaginationParams(c)

	boards, err := h.boardService.ListBoards(c.Request.Context(), actor, archived, params.Offset, params.Limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardDTOs(boards))
}

// CreateBoard creates a board owned by the caller
func (h *BoardHandler) CreateBoard(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	type CreateBoardRequest struct {
		Title       string  `json:"title" binding:"required"`
		Description *string `json:"description"`
		Public      bool    `json:"public"`
	}

	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	board, err := h.boardService.CreateBoard(c.Request.Context(), actor, services.CreateBoardInput{
		Title:       req.Title,
		Description: req.Description,
		Public:      req.Public,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToBoardDTO(*board))
}

// GetBoard returns a board with its tasks.
// Access is checked by RequireBoardAccess.
func (h *BoardHandler) GetBoard(c *gin.Context) {
	board, ok := boardFromContext(c)
	if !ok {
		return
	}

	loaded, err := h.boardService.GetBoard(c.Request.Context(), board.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardWithTasksDTO(*loaded))
}

// UpdateBoard updates the fields present in the request body
func (h *BoardHandler) UpdateBoard(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	board, ok := boardFromContext(c)
	if !ok {
		return
	}

	type UpdateBoardRequest struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Public      *bool   `json:"public"`
		Archived    *bool   `json:"archived"`
	}

	var req UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.boardService.UpdateBoard(c.Request.Context(), actor, board.ID, services.UpdateBoardInput{
		Title:       req.Title,
		Description: req.Description,
		Public:      req.Public,
		Archived:    req.Archived,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardDTO(*updated))
}

// DeleteBoard deletes a board and everything on it
func (h *BoardHandler) DeleteBoard(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	board, ok := boardFromContext(c)
	if !ok {
		return
	}

	if err := h.boardService.DeleteBoard(c.Request.Context(), actor, board.ID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ArchiveBoard hides a board from the default listing
func (h *BoardHandler) ArchiveBoard(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	board, ok := boardFromContext(c)
	if !ok {
		return
	}

	archived, err := h.boardService.ArchiveBoard(c.Request.Context(), actor, board.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardDTO(*archived))
}

// GetBoardStats counts the tasks of a board by status
func (h *BoardHandler) GetBoardStats(c *gin.Context) {
	board, ok := boardFromContext(c)
	if !ok {
		return
	}

	stats, err := h.boardService.BoardStats(c.Request.Context(), board.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ListMembers lists the members of a board
func (h *BoardHandler) ListMembers(c *gin.Context) {
	board, ok := boardFromContext(c)
	if !ok {
		return
	}

	members, err := h.boardService.ListMembers(c.Request.Context(), board.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberDTOs(members))
}

// AddMember adds a user to a board
func (h *BoardHandler) AddMember(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	board, ok := boardFromContext(c)
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "userId", "Invalid user ID")
	if !ok {
		return
	}

	if err := h.boardService.AddMember(c.Request.Context(), actor, board.ID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User added to board"})
}

// RemoveMember removes a user from a board
func (h *BoardHandler) RemoveMember(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	board, ok := boardFromContext(c)
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "userId", "Invalid user ID")
	if !ok {
		return
	}

	if err := h.boardService.RemoveMember(c.Request.Context(), actor, board.ID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// boardFromContext returns the board loaded by RequireBoardAccess
func boardFromContext(c *gin.Context) (*models.Board, bool) {
	board, ok := middleware.GetBoard(c)
	if !ok {
		apierrors.InternalError(c, "Board not found in context")
		return nil, false
	}
	return board, true
}
