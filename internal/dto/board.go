package dto

import (
	"time"

	"github.com/yukikurage/board-api/internal/models"
)

// BoardDTO represents a board in API responses
type BoardDTO struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Public      bool      `json:"public"`
	Archived    bool      `json:"archived"`
	OwnerID     uint64    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// BoardWithTasksDTO is a board together with its tasks in position order
type BoardWithTasksDTO struct {
	BoardDTO
	Tasks []TaskDTO `json:"tasks"`
}

// ToBoardDTO converts a Board model to BoardDTO
func ToBoardDTO(board models.Board) BoardDTO {
	return BoardDTO{
		ID:          board.ID,
		Title:       board.Title,
		Description: board.Description,
		Public:      board.Public,
		Archived:    board.Archived,
		OwnerID:     board.OwnerID,
		CreatedAt:   board.CreatedAt,
	}
}

// ToBoardDTOs converts a slice of boards
func ToBoardDTOs(boards []models.Board) []BoardDTO {
	result := make([]BoardDTO, len(boards))
	for i, board := range boards {
		result[i] = ToBoardDTO(board)
	}
	return result
}

// ToBoardWithTasksDTO converts a board with preloaded tasks
func ToBoardWithTasksDTO(board models.Board) BoardWithTasksDTO {
	return BoardWithTasksDTO{
		BoardDTO: ToBoardDTO(board),
		Tasks:    ToTaskDTOs(board.Tasks),
	}
}
