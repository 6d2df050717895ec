package constants

// Context keys shared between middleware and handlers
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
	ContextKeyBoard    = "board"
	ContextKeyTask     = "task"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 100
	MaxPageSize     = 500
)

// Validation
const (
	MinPasswordLength = 6
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MaxTitleLength    = 200
)

// Search
const SearchResultLimit = 10

// AI
const MaxAIGeneratedTasks = 20

// Auth
const (
	BearerPrefix = "Bearer "
	TokenType    = "bearer"
)
