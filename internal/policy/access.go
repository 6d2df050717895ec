// Package policy decides who may read, write or delete a board.
package policy

import "github.com/yukikurage/board-api/internal/models"

type Action string

const (
	ActionRead   Action = "read"
	ActionWrite  Action = "write"
	ActionDelete Action = "delete"
)

// Deny reasons surfaced to clients.
const (
	ReasonModifyForbidden = "You don't have permission to modify this board"
	ReasonGuestReadOnly   = "Guests can only view public boards"
	ReasonGuestPrivate    = "This board is private. Guests can only view public boards"
	ReasonAccessDenied    = "Access denied"
)

// Decision is the outcome of an access check. Reason is empty when Allowed is true.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason string) Decision { return Decision{Reason: reason} }

// Authorize decides whether userID acting with role may perform action on board.
//
// Rules are applied in order: admins and the board owner are always allowed,
// a plain user may only read boards they do not own, a guest may only read
// public boards, and anyone else may read public boards.
// Board membership is not consulted.
func Authorize(board *models.Board, userID uint64, role models.Role, action Action) Decision {
	if role == models.RoleAdmin {
		return allow()
	}
	if board.OwnerID == userID {
		return allow()
	}

	switch role {
	case models.RoleUser:
		if action != ActionRead {
			return deny(ReasonModifyForbidden)
		}
	case models.RoleGuest:
		if action != ActionRead {
			return deny(ReasonGuestReadOnly)
		}
		if !board.Public {
			return deny(ReasonGuestPrivate)
		}
		return allow()
	}

	if action == ActionRead && board.Public {
		return allow()
	}
	return deny(ReasonAccessDenied)
}

// CanCreateBoard reports whether a user with role may create boards.
func CanCreateBoard(role models.Role) bool {
	return role == models.RoleAdmin || role == models.RoleUser
}

// SeesAllBoards reports whether role bypasses visibility filtering in listings.
func SeesAllBoards(role models.Role) bool {
	return role == models.RoleAdmin
}
