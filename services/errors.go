package services

import "errors"

// Errors surfaced to the routing layer. Controllers map these to stable
// machine-readable kinds; anything else is reported as an internal error
// without its text.
var (
	// ErrInvalidPair - acting on yourself
	ErrInvalidPair = errors.New("a user cannot act on themself")
	// ErrNotFound - the target user, project, or match does not exist
	ErrNotFound = errors.New("not found")
	// ErrNotAParticipant - acting on a match the caller is not part of
	ErrNotAParticipant = errors.New("user is not part of this match")
	// ErrNotMutual - conversation requires a mutual match
	ErrNotMutual = errors.New("can only start conversation on mutual matches")
	// ErrInvalidRating - feedback rating outside 1-5
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)
