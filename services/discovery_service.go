package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"collabmatch_server/models"
)

// DiscoveryService builds the candidate feed for a requesting user
type DiscoveryService struct {
	Profiles *UserProfileService
	Projects *ProjectService
	Matches  *MatchService
	Compat   *CompatibilityService

	// ExcludeActedUpon hides candidates the requester already acted on.
	// Off by default: re-showing a passed user is a product decision.
	ExcludeActedUpon bool
}

// MatchDetails explains why a candidate was suggested
type MatchDetails struct {
	CommonCategories []string `json:"commonCategories,omitempty"`
	ReasonForMatch   string   `json:"reasonForMatch"`
	ConfidenceLevel  string   `json:"confidenceLevel"`
}

// DiscoveryEntry is one scored candidate in the feed
type DiscoveryEntry struct {
	User               *models.UserProfile `json:"user"`
	CompatibilityScore float64             `json:"compatibilityScore"`
	MatchDetails       MatchDetails        `json:"matchDetails"`
}

// ProjectEntry is one scored open project for the requesting user
type ProjectEntry struct {
	Project            *models.Project `json:"project"`
	CompatibilityScore float64         `json:"compatibilityScore"`
}

// Discover returns up to limit candidates for the requester. The pool is
// capped before scoring (store order, not ranked); a candidate that cannot
// be scored gets the neutral score rather than aborting the feed.
func (dsc *DiscoveryService) Discover(ctx context.Context, userID string, limit int) ([]DiscoveryEntry, error) {
	requester, err := dsc.Profiles.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if limit < 1 {
		limit = 10
	}

	exclude := map[string]struct{}{userID: {}}
	if dsc.ExcludeActedUpon {
		matches, err := dsc.Matches.MatchesForUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if m.ActionOf(userID).Action != models.ActionPending {
				exclude[m.OtherUser(userID)] = struct{}{}
			}
		}
	}

	candidates, err := dsc.Profiles.ListProfilesExcluding(ctx, userID, exclude, int32(limit))
	if err != nil {
		return nil, err
	}

	entries := make([]DiscoveryEntry, 0, len(candidates))
	for i := range candidates {
		candidate := &candidates[i]
		if candidate.UserID == "" {
			log.Printf("⚠️ Skipping malformed candidate profile in discovery feed for %s", userID)
			continue
		}

		score := dsc.Compat.ScoreUsers(requester, candidate)
		if len(candidate.Categories) == 0 && candidate.UserType == "" && candidate.Rating == nil {
			// nothing to score on; neutral beats a misleading zero
			log.Printf("⚠️ Candidate %s has no scoring data, using neutral score", candidate.UserID)
			score = NeutralCompatibilityScore
		}

		entries = append(entries, DiscoveryEntry{
			User:               candidate,
			CompatibilityScore: score,
			MatchDetails: MatchDetails{
				CommonCategories: commonCategories(requester, candidate),
				ReasonForMatch:   matchReason(requester, candidate, score),
				ConfidenceLevel:  confidenceLevel(score),
			},
		})
	}
	return entries, nil
}

// DiscoverProjects ranks open projects for the user with the user-to-project
// scorer, highest score first.
func (dsc *DiscoveryService) DiscoverProjects(ctx context.Context, userID string, limit int) ([]ProjectEntry, error) {
	user, err := dsc.Profiles.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if limit < 1 {
		limit = 10
	}
	projects, err := dsc.Projects.ListOpenProjects(ctx, int32(limit))
	if err != nil {
		return nil, err
	}

	entries := make([]ProjectEntry, 0, len(projects))
	for i := range projects {
		if projects[i].Creator == userID {
			continue
		}
		entries = append(entries, ProjectEntry{
			Project:            &projects[i],
			CompatibilityScore: dsc.Compat.ScoreUserProject(user, &projects[i]),
		})
	}
	return entries, nil
}

func commonCategories(a, b *models.UserProfile) []string {
	var common []string
	for _, cat := range a.Categories {
		for _, other := range b.Categories {
			if cat == other {
				common = append(common, cat)
				break
			}
		}
	}
	return common
}

func matchReason(a, b *models.UserProfile, score float64) string {
	common := commonCategories(a, b)
	switch {
	case score >= 80:
		return fmt.Sprintf("Excellent match! You both work in %s and have complementary skills.", strings.Join(common, ", "))
	case score >= 60:
		return fmt.Sprintf("Great potential! You share interests in %s.", strings.Join(common, ", "))
	case score >= 40:
		return "Interesting match with some overlapping areas."
	default:
		return "Different backgrounds might bring fresh perspectives."
	}
}

func confidenceLevel(score float64) string {
	switch {
	case score >= 70:
		return "high"
	case score >= 40:
		return "medium"
	default:
		return "low"
	}
}
