package models

// Per-side actions on a match
const (
	ActionPending   = "pending"
	ActionLike      = "like"
	ActionPass      = "pass"
	ActionSuperLike = "super-like"
)

// Match statuses (derived by the state machine, never set directly by callers)
const (
	StatusPending = "pending"
	StatusMutual  = "mutual"
	StatusExpired = "expired"
	StatusBlocked = "blocked"
)

// Match types
const (
	MatchTypeUserToUser    = "user-to-user"
	MatchTypeUserToProject = "user-to-project"
)

// User role tags
const (
	UserTypeCreator     = "creator"
	UserTypeContributor = "contributor"
	UserTypeBoth        = "both"
)

// Project statuses
const (
	ProjectStatusDraft      = "draft"
	ProjectStatusOpen       = "open"
	ProjectStatusInProgress = "in-progress"
	ProjectStatusCompleted  = "completed"
	ProjectStatusCancelled  = "cancelled"
)
