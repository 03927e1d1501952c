package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"collabmatch_server/models"
	"collabmatch_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// statusWriteRetries bounds the compare-and-swap loop on the derived status
const statusWriteRetries = 3

type MatchService struct {
	Dynamo   *DynamoService
	Profiles *UserProfileService
	Projects *ProjectService
	Compat   *CompatibilityService
	Mirror   *LikeMirrorService
}

// LikedMeEntry is one row of the liked-me feed
type LikedMeEntry struct {
	User     *models.UserProfile `json:"user"`
	LikedAt  string              `json:"likedAt,omitempty"`
	IsMutual bool                `json:"isMutual"`
	MatchID  string              `json:"matchId"`
}

// MatchSummary is one row of my-matches, shaped around the other participant
type MatchSummary struct {
	MatchID            string              `json:"_id"`
	OtherUser          *models.UserProfile `json:"otherUser"`
	CompatibilityScore float64             `json:"compatibilityScore"`
	Status             string              `json:"status"`
	Conversation       models.Conversation `json:"conversation"`
}

// MatchStats aggregates a user's matching history
type MatchStats struct {
	TotalMatches         int     `json:"totalMatches"`
	MutualMatches        int     `json:"mutualMatches"`
	PendingMatches       int     `json:"pendingMatches"`
	ExpiredMatches       int     `json:"expiredMatches"`
	AverageCompatibility float64 `json:"averageCompatibility"`
	ConversationsStarted int     `json:"conversationsStarted"`
}

// Pagination describes a page of results
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

func matchKey(matchID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"matchId": &types.AttributeValueMemberS{Value: matchID},
	}
}

// GetMatch fetches a match by ID with its status reconciled against "now"
func (ms *MatchService) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	m, err := ms.getMatchRaw(ctx, matchID)
	if err != nil {
		return nil, err
	}
	ms.reconcile(ctx, m)
	return m, nil
}

func (ms *MatchService) getMatchRaw(ctx context.Context, matchID string) (*models.Match, error) {
	item, err := ms.Dynamo.GetItem(ctx, models.MatchesTable, matchKey(matchID))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("match '%s': %w", matchID, ErrNotFound)
	}

	var m models.Match
	if err := attributevalue.UnmarshalMap(item, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}
	return &m, nil
}

// GetOrCreateMatch returns the single match for the (actor, target) pair,
// creating it atomically when none exists. Two concurrent callers on a new
// pair converge on one record: the insert is conditional on the matchId not
// existing, and the loser re-reads the winner. On creation the initiating
// side's action is seeded with initialAction and the other side is pending.
func (ms *MatchService) GetOrCreateMatch(ctx context.Context, actorID, targetID, projectID, initialAction string) (*models.Match, bool, error) {
	low, high, err := utils.CanonicalPair(actorID, targetID)
	if err != nil {
		return nil, false, ErrInvalidPair
	}
	matchID := utils.PairMatchID(low, high)

	// fast path: already exists
	existing, err := ms.getMatchRaw(ctx, matchID)
	if err == nil {
		ms.reconcile(ctx, existing)
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	now := time.Now().UTC()
	nowStr := now.Format(time.RFC3339)
	m := models.Match{
		MatchID:            matchID,
		LowUserID:          low,
		HighUserID:         high,
		MatchType:          models.MatchTypeUserToUser,
		ProjectID:          projectID,
		InitiatedBy:        actorID,
		LowAction:          models.MatchAction{Action: models.ActionPending},
		HighAction:         models.MatchAction{Action: models.ActionPending},
		CompatibilityScore: ms.scoreForPair(ctx, actorID, targetID, projectID),
		Status:             models.StatusPending,
		Conversation:       models.Conversation{},
		CreatedAt:          nowStr,
		UpdatedAt:          nowStr,
		ExpiresAt:          now.Add(models.MatchTTL).Format(time.RFC3339),
	}
	if projectID != "" {
		m.MatchType = models.MatchTypeUserToProject
	}

	seeded := models.MatchAction{Action: initialAction, ActedAt: nowStr}
	if actorID == low {
		m.LowAction = seeded
	} else {
		m.HighAction = seeded
	}
	m.Status = m.DeriveStatus(now)

	err = ms.Dynamo.PutItemIfNotExists(ctx, models.MatchesTable, m, "matchId")
	if err != nil {
		if IsConditionalCheckFailed(err) {
			// a competing insert won the race; return the winner's record
			winner, readErr := ms.getMatchRaw(ctx, matchID)
			if readErr != nil {
				return nil, false, fmt.Errorf("failed to re-read match after conflict: %w", readErr)
			}
			ms.reconcile(ctx, winner)
			return winner, false, nil
		}
		return nil, false, err
	}

	log.Printf("Match created: %s (%s)", matchID, m.MatchType)
	return &m, true, nil
}

// scoreForPair computes the compatibility score stored at creation. A failed
// profile fetch falls back to the neutral score; the fallback is logged, not
// surfaced, so a degraded scorer never fails the action itself.
func (ms *MatchService) scoreForPair(ctx context.Context, actorID, targetID, projectID string) float64 {
	actor, err := ms.Profiles.GetUserProfile(ctx, actorID)
	if err != nil {
		log.Printf("⚠️ Scoring data missing for %s, using neutral score: %v", actorID, err)
		return NeutralCompatibilityScore
	}
	target, err := ms.Profiles.GetUserProfile(ctx, targetID)
	if err != nil {
		log.Printf("⚠️ Scoring data missing for %s, using neutral score: %v", targetID, err)
		return NeutralCompatibilityScore
	}

	if projectID != "" {
		project, err := ms.Projects.GetProject(ctx, projectID)
		if err != nil {
			log.Printf("⚠️ Scoring data missing for project %s, using neutral score: %v", projectID, err)
			return NeutralCompatibilityScore
		}
		// score the non-creator side against the project
		if project.Creator == actorID {
			return ms.Compat.ScoreUserProject(target, project)
		}
		if project.Creator == targetID {
			return ms.Compat.ScoreUserProject(actor, project)
		}
	}
	return ms.Compat.ScoreUsers(actor, target)
}

// ApplyAction sets actingUserID's side of the match to action and recomputes
// the derived status. The action write is a partial update restricted to that
// side's sub-field, so concurrent actions by the two participants never
// clobber each other; the status write is a compare-and-swap on both action
// snapshots, retried when a concurrent writer got there first.
func (ms *MatchService) ApplyAction(ctx context.Context, matchID, actingUserID, action string) (*models.Match, error) {
	m, err := ms.getMatchRaw(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !m.IsParticipant(actingUserID) {
		return nil, ErrNotAParticipant
	}

	side := "highAction"
	if m.LowUserID == actingUserID {
		side = "lowAction"
	}

	nowStr := time.Now().UTC().Format(time.RFC3339)
	actionAttr, err := attributevalue.Marshal(models.MatchAction{Action: action, ActedAt: nowStr})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal action: %w", err)
	}

	updated, err := ms.Dynamo.UpdateItem(ctx, models.MatchesTable,
		"SET #side = :act, updatedAt = :now",
		matchKey(matchID),
		map[string]types.AttributeValue{
			":act": actionAttr,
			":now": &types.AttributeValueMemberS{Value: nowStr},
		},
		map[string]string{"#side": side},
	)
	if err != nil {
		return nil, err
	}

	var fresh models.Match
	if err := attributevalue.UnmarshalMap(updated, &fresh); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated match: %w", err)
	}

	if err := ms.writeDerivedStatus(ctx, &fresh); err != nil {
		return nil, err
	}
	return &fresh, nil
}

// writeDerivedStatus persists DeriveStatus(now) when it differs from the
// stored status. The write is conditioned on the action snapshot it was
// derived from; a conditional failure means a concurrent action landed in
// between, so the match is re-read and the derivation retried.
func (ms *MatchService) writeDerivedStatus(ctx context.Context, m *models.Match) error {
	for attempt := 0; attempt < statusWriteRetries; attempt++ {
		derived := m.DeriveStatus(time.Now().UTC())
		if derived == m.Status {
			return nil
		}

		updated, err := ms.Dynamo.UpdateItemWithCondition(ctx, models.MatchesTable,
			"SET #st = :st, updatedAt = :now",
			"lowAction.#act = :la AND highAction.#act = :ha",
			matchKey(m.MatchID),
			map[string]types.AttributeValue{
				":st":  &types.AttributeValueMemberS{Value: derived},
				":now": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
				":la":  &types.AttributeValueMemberS{Value: m.LowAction.Action},
				":ha":  &types.AttributeValueMemberS{Value: m.HighAction.Action},
			},
			map[string]string{"#st": "status", "#act": "action"},
		)
		if err == nil {
			if unmarshalErr := attributevalue.UnmarshalMap(updated, m); unmarshalErr != nil {
				m.Status = derived
			}
			return nil
		}
		if !IsConditionalCheckFailed(err) {
			return err
		}

		refreshed, readErr := ms.getMatchRaw(ctx, m.MatchID)
		if readErr != nil {
			return readErr
		}
		*m = *refreshed
	}
	return fmt.Errorf("failed to settle status for match '%s' after %d attempts", m.MatchID, statusWriteRetries)
}

// reconcile applies the expiry rule at read time so the status is correct
// relative to "now" even when nothing wrote since the match expired. The
// flip to expired is persisted best-effort behind a pending-and-past-expiry
// condition; losing that race just means someone else already reconciled.
func (ms *MatchService) reconcile(ctx context.Context, m *models.Match) {
	now := time.Now().UTC()
	derived := m.DeriveStatus(now)
	if derived == m.Status {
		return
	}

	if derived == models.StatusExpired {
		_, err := ms.Dynamo.UpdateItemWithCondition(ctx, models.MatchesTable,
			"SET #st = :expired",
			"#st = :pending AND expiresAt <= :now",
			matchKey(m.MatchID),
			map[string]types.AttributeValue{
				":expired": &types.AttributeValueMemberS{Value: models.StatusExpired},
				":pending": &types.AttributeValueMemberS{Value: models.StatusPending},
				":now":     &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
			},
			map[string]string{"#st": "status"},
		)
		if err != nil && !IsConditionalCheckFailed(err) {
			log.Printf("⚠️ Failed to persist expiry for match %s: %v", m.MatchID, err)
		}
	}
	m.Status = derived
}

// ProcessLike records a like from actorID on targetID and reports whether
// the match is now mutual. Fails with ErrInvalidPair on self-likes and
// ErrNotFound when the target does not exist.
func (ms *MatchService) ProcessLike(ctx context.Context, actorID, targetID, projectID string) (*models.Match, bool, error) {
	if actorID == targetID {
		return nil, false, ErrInvalidPair
	}
	if _, err := ms.Profiles.GetUserProfile(ctx, targetID); err != nil {
		return nil, false, err
	}

	m, created, err := ms.GetOrCreateMatch(ctx, actorID, targetID, projectID, models.ActionLike)
	if err != nil {
		return nil, false, err
	}
	if !created {
		m, err = ms.ApplyAction(ctx, m.MatchID, actorID, models.ActionLike)
		if err != nil {
			return nil, false, err
		}
	}

	if ms.Mirror != nil {
		ms.Mirror.Enqueue(actorID, targetID, models.ActionLike)
	}
	return m, m.Status == models.StatusMutual, nil
}

// ProcessPass records a pass from actorID on targetID. A pass never changes
// the status by itself; it only prevents a future mutual unless the action
// is later changed back to like.
func (ms *MatchService) ProcessPass(ctx context.Context, actorID, targetID string) (*models.Match, error) {
	if actorID == targetID {
		return nil, ErrInvalidPair
	}
	if _, err := ms.Profiles.GetUserProfile(ctx, targetID); err != nil {
		return nil, err
	}

	m, created, err := ms.GetOrCreateMatch(ctx, actorID, targetID, "", models.ActionPass)
	if err != nil {
		return nil, err
	}
	if !created {
		m, err = ms.ApplyAction(ctx, m.MatchID, actorID, models.ActionPass)
		if err != nil {
			return nil, err
		}
	}

	if ms.Mirror != nil {
		ms.Mirror.Enqueue(actorID, targetID, models.ActionPass)
	}
	return m, nil
}

// MatchesForUser returns every match the user participates in, statuses
// reconciled. A user sits on exactly one side of each match, so the two GSI
// queries never overlap.
func (ms *MatchService) MatchesForUser(ctx context.Context, userID string) ([]models.Match, error) {
	var all []models.Match
	for _, q := range []struct {
		index string
		field string
	}{
		{models.LowUserIndex, "lowUserId"},
		{models.HighUserIndex, "highUserId"},
	} {
		items, err := ms.Dynamo.QueryItemsWithIndex(ctx, models.MatchesTable, q.index,
			fmt.Sprintf("%s = :u", q.field),
			map[string]types.AttributeValue{":u": &types.AttributeValueMemberS{Value: userID}},
			nil, 0)
		if err != nil {
			return nil, err
		}

		var matches []models.Match
		if err := attributevalue.UnmarshalListOfMaps(items, &matches); err != nil {
			return nil, fmt.Errorf("failed to unmarshal matches: %w", err)
		}
		all = append(all, matches...)
	}

	for i := range all {
		ms.reconcile(ctx, &all[i])
	}
	return all, nil
}

// GetLikedMe lists users whose side of a match is a like the requester has
// not answered with a like yet, newest like first.
func (ms *MatchService) GetLikedMe(ctx context.Context, userID string, page, limit int) ([]LikedMeEntry, Pagination, error) {
	page, limit = normalizePage(page, limit)
	matches, err := ms.MatchesForUser(ctx, userID)
	if err != nil {
		return nil, Pagination{}, err
	}

	var rows []LikedMeEntry
	for _, m := range matches {
		theirs := m.ActionOfOther(userID)
		mine := m.ActionOf(userID)
		if m.Status == models.StatusMutual || theirs.Action != models.ActionLike || mine.Action == models.ActionLike {
			continue
		}
		rows = append(rows, LikedMeEntry{
			LikedAt:  theirs.ActedAt,
			IsMutual: false,
			MatchID:  m.MatchID,
		})
		rows[len(rows)-1].User = ms.profileOrNil(ctx, m.OtherUser(userID))
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].LikedAt > rows[j].LikedAt })

	total := len(rows)
	rows = paginate(rows, page, limit)
	return rows, Pagination{Page: page, Limit: limit, Total: total, Pages: (total + limit - 1) / limit}, nil
}

// GetMyMatches lists the user's matches filtered by status:
// "mutual", "pending" (I liked, they have not answered), or "all".
// Expired matches show up only under "all".
func (ms *MatchService) GetMyMatches(ctx context.Context, userID, status string, page, limit int) ([]MatchSummary, Pagination, error) {
	page, limit = normalizePage(page, limit)
	matches, err := ms.MatchesForUser(ctx, userID)
	if err != nil {
		return nil, Pagination{}, err
	}

	var filtered []models.Match
	for _, m := range matches {
		switch status {
		case models.StatusMutual:
			if m.Status == models.StatusMutual {
				filtered = append(filtered, m)
			}
		case models.StatusPending:
			mine := m.ActionOf(userID)
			theirs := m.ActionOfOther(userID)
			if m.Status == models.StatusPending && mine.Action == models.ActionLike && theirs.Action != models.ActionLike {
				filtered = append(filtered, m)
			}
		default:
			filtered = append(filtered, m)
		}
	}

	sort.Slice(filtered, func(i, j int) bool { return filtered[i].CreatedAt > filtered[j].CreatedAt })

	total := len(filtered)
	filtered = paginate(filtered, page, limit)

	summaries := make([]MatchSummary, 0, len(filtered))
	for _, m := range filtered {
		summaries = append(summaries, MatchSummary{
			MatchID:            m.MatchID,
			OtherUser:          ms.profileOrNil(ctx, m.OtherUser(userID)),
			CompatibilityScore: m.CompatibilityScore,
			Status:             m.Status,
			Conversation:       m.Conversation,
		})
	}
	return summaries, Pagination{Page: page, Limit: limit, Total: total, Pages: (total + limit - 1) / limit}, nil
}

// GetStats aggregates the user's matching history
func (ms *MatchService) GetStats(ctx context.Context, userID string) (MatchStats, error) {
	matches, err := ms.MatchesForUser(ctx, userID)
	if err != nil {
		return MatchStats{}, err
	}

	stats := MatchStats{TotalMatches: len(matches)}
	var scoreSum float64
	for _, m := range matches {
		switch m.Status {
		case models.StatusMutual:
			stats.MutualMatches++
		case models.StatusPending:
			stats.PendingMatches++
		case models.StatusExpired:
			stats.ExpiredMatches++
		}
		if m.Conversation.Started {
			stats.ConversationsStarted++
		}
		scoreSum += m.CompatibilityScore
	}
	if len(matches) > 0 {
		stats.AverageCompatibility = scoreSum / float64(len(matches))
	}
	return stats, nil
}

// StartConversation flips the conversation flag on a mutual match. The write
// is conditioned on the match still being mutual, so an expiry or block that
// raced in can not be talked over.
func (ms *MatchService) StartConversation(ctx context.Context, matchID, userID string) (*models.Match, error) {
	m, err := ms.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !m.IsParticipant(userID) {
		return nil, ErrNotAParticipant
	}
	if m.Status != models.StatusMutual {
		return nil, ErrNotMutual
	}

	nowStr := time.Now().UTC().Format(time.RFC3339)
	conv := models.Conversation{Started: true, StartedAt: nowStr, MessageCount: m.Conversation.MessageCount}
	convAttr, err := attributevalue.Marshal(conv)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal conversation: %w", err)
	}

	updated, err := ms.Dynamo.UpdateItemWithCondition(ctx, models.MatchesTable,
		"SET conversation = :conv, updatedAt = :now",
		"#st = :mutual",
		matchKey(matchID),
		map[string]types.AttributeValue{
			":conv":   convAttr,
			":now":    &types.AttributeValueMemberS{Value: nowStr},
			":mutual": &types.AttributeValueMemberS{Value: models.StatusMutual},
		},
		map[string]string{"#st": "status"},
	)
	if err != nil {
		if IsConditionalCheckFailed(err) {
			return nil, ErrNotMutual
		}
		return nil, err
	}

	var fresh models.Match
	if err := attributevalue.UnmarshalMap(updated, &fresh); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated match: %w", err)
	}
	return &fresh, nil
}

// AddFeedback appends a feedback entry from a participant
func (ms *MatchService) AddFeedback(ctx context.Context, matchID, userID string, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}

	m, err := ms.getMatchRaw(ctx, matchID)
	if err != nil {
		return err
	}
	if !m.IsParticipant(userID) {
		return ErrNotAParticipant
	}

	fb := models.Feedback{
		FeedbackID: uuid.NewString(),
		FromUser:   userID,
		Rating:     rating,
		Comment:    comment,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	fbAttr, err := attributevalue.Marshal(fb)
	if err != nil {
		return fmt.Errorf("failed to marshal feedback: %w", err)
	}

	_, err = ms.Dynamo.UpdateItem(ctx, models.MatchesTable,
		"SET feedback = list_append(if_not_exists(feedback, :empty), :fb)",
		matchKey(matchID),
		map[string]types.AttributeValue{
			":empty": &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
			":fb":    &types.AttributeValueMemberL{Value: []types.AttributeValue{fbAttr}},
		},
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to add feedback: %w", err)
	}
	return nil
}

// profileOrNil fetches a profile for response enrichment; a missing profile
// degrades to nil rather than failing the listing.
func (ms *MatchService) profileOrNil(ctx context.Context, userID string) *models.UserProfile {
	profile, err := ms.Profiles.GetUserProfile(ctx, userID)
	if err != nil {
		log.Printf("⚠️ Could not enrich profile %s: %v", userID, err)
		return nil
	}
	return profile
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}
	return page, limit
}

func paginate[T any](rows []T, page, limit int) []T {
	start := (page - 1) * limit
	if start >= len(rows) {
		return nil
	}
	end := start + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}
