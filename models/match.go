package models

import (
	"time"
)

// MatchTTL is how long a pending match stays open before it auto-expires.
const MatchTTL = 7 * 24 * time.Hour

// MatchAction is one side's latest action on a match
type MatchAction struct {
	Action  string `dynamodbav:"action" json:"action"`
	ActedAt string `dynamodbav:"actedAt,omitempty" json:"actedAt,omitempty"` // RFC3339
}

// Conversation tracks whether the two sides started talking
type Conversation struct {
	Started       bool   `dynamodbav:"started" json:"started"`
	StartedAt     string `dynamodbav:"startedAt,omitempty" json:"startedAt,omitempty"`
	LastMessageAt string `dynamodbav:"lastMessageAt,omitempty" json:"lastMessageAt,omitempty"`
	MessageCount  int    `dynamodbav:"messageCount" json:"messageCount"`
}

// Feedback is one participant's rating of a match, append-only
type Feedback struct {
	FeedbackID string `dynamodbav:"feedbackId" json:"feedbackId"`
	FromUser   string `dynamodbav:"fromUser" json:"fromUser"`
	Rating     int    `dynamodbav:"rating" json:"rating"`
	Comment    string `dynamodbav:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt  string `dynamodbav:"createdAt" json:"createdAt"`
}

// Match is the single record for an unordered pair of users. The pair is
// always stored canonically with LowUserID < HighUserID, so exactly one
// record can exist per pair, and the matchId primary key is "low_high".
type Match struct {
	MatchID            string       `dynamodbav:"matchId" json:"matchId"`
	LowUserID          string       `dynamodbav:"lowUserId" json:"lowUserId"`
	HighUserID         string       `dynamodbav:"highUserId" json:"highUserId"`
	MatchType          string       `dynamodbav:"matchType" json:"matchType"`
	ProjectID          string       `dynamodbav:"projectId,omitempty" json:"projectId,omitempty"`
	InitiatedBy        string       `dynamodbav:"initiatedBy" json:"initiatedBy"`
	LowAction          MatchAction  `dynamodbav:"lowAction" json:"lowAction"`
	HighAction         MatchAction  `dynamodbav:"highAction" json:"highAction"`
	CompatibilityScore float64      `dynamodbav:"compatibilityScore" json:"compatibilityScore"`
	Status             string       `dynamodbav:"status" json:"status"`
	Conversation       Conversation `dynamodbav:"conversation" json:"conversation"`
	Feedback           []Feedback   `dynamodbav:"feedback,omitempty" json:"feedback,omitempty"`
	CreatedAt          string       `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt          string       `dynamodbav:"updatedAt" json:"updatedAt"`
	ExpiresAt          string       `dynamodbav:"expiresAt" json:"expiresAt"`
}

// MatchesTable is the DynamoDB table name for matches
const MatchesTable = "Matches"

// GSIs used to find all matches a user participates in
const (
	LowUserIndex  = "lowUserId-index"
	HighUserIndex = "highUserId-index"
)

// IsParticipant reports whether userID is one of the two sides
func (m *Match) IsParticipant(userID string) bool {
	return m.LowUserID == userID || m.HighUserID == userID
}

// OtherUser returns the participant that is not userID
func (m *Match) OtherUser(userID string) string {
	if m.LowUserID == userID {
		return m.HighUserID
	}
	return m.LowUserID
}

// ActionOf returns the action record belonging to userID's side
func (m *Match) ActionOf(userID string) MatchAction {
	if m.LowUserID == userID {
		return m.LowAction
	}
	return m.HighAction
}

// ActionOfOther returns the action record of the opposite side
func (m *Match) ActionOfOther(userID string) MatchAction {
	if m.LowUserID == userID {
		return m.HighAction
	}
	return m.LowAction
}

// ExpiresAtTime parses the stored expiry timestamp. A zero time is returned
// for records with a missing or malformed expiresAt, which the state machine
// treats as already expired.
func (m *Match) ExpiresAtTime() time.Time {
	t, err := time.Parse(time.RFC3339, m.ExpiresAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// DeriveStatus is the action state machine, evaluated after every action
// write and on every read:
//  1. both sides like  -> mutual
//  2. pending and past expiresAt -> expired
//  3. otherwise unchanged
//
// Blocked is operator-set and never transitions automatically.
func (m *Match) DeriveStatus(now time.Time) string {
	if m.Status == StatusBlocked {
		return StatusBlocked
	}
	if m.LowAction.Action == ActionLike && m.HighAction.Action == ActionLike {
		return StatusMutual
	}
	if m.Status == StatusPending && !now.Before(m.ExpiresAtTime()) {
		return StatusExpired
	}
	return m.Status
}
