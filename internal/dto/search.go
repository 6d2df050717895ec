package dto

import "github.com/yukikurage/board-api/internal/models"

type BoardSummary struct {
	ID          uint64  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

type TaskSummary struct {
	ID          uint64  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	BoardID     uint64  `json:"board_id"`
}

type UserSummary struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// SearchResponse groups global search matches by kind
type SearchResponse struct {
	Boards []BoardSummary `json:"boards"`
	Tasks  []TaskSummary  `json:"tasks"`
	Users  []UserSummary  `json:"users"`
}

// ToSearchResponse builds the global search payload
func ToSearchResponse(boards []models.Board, tasks []models.Task, users []models.User) SearchResponse {
	resp := SearchResponse{
		Boards: make([]BoardSummary, len(boards)),
		Tasks:  make([]TaskSummary, len(tasks)),
		Users:  make([]UserSummary, len(users)),
	}
	for i, b := range boards {
		resp.Boards[i] = BoardSummary{ID: b.ID, Title: b.Title, Description: b.Description}
	}
	for i, t := range tasks {
		resp.Tasks[i] = TaskSummary{ID: t.ID, Title: t.Title, Description: t.Description, BoardID: t.BoardID}
	}
	for i, u := range users {
		resp.Users[i] = UserSummary{ID: u.ID, Username: u.Username, Email: u.Email}
	}
	return resp
}
