package services

import (
	"strings"
	"time"

	"collabmatch_server/models"
)

// NeutralCompatibilityScore is the fallback used when scoring inputs cannot
// be fetched. The caller decides when to fall back; the scorer itself never
// fails on missing optional fields.
const NeutralCompatibilityScore = 87.0

// CompatibilityService computes 0-100 compatibility scores. Pure, no store
// access; "now" is timezone-normalized to UTC.
type CompatibilityService struct{}

// ScoreUsers scores user a against user b. The rating and recency terms are
// asymmetric: they score the other party (b).
//
//	category overlap  30
//	role compatibility 25
//	experience equality 20
//	rating factor      15
//	recency factor     10
func (cs *CompatibilityService) ScoreUsers(a, b *models.UserProfile) float64 {
	now := time.Now().UTC()
	score := 0.0

	// Category overlap (30% weight)
	overlap := 0
	for _, cat := range a.Categories {
		for _, other := range b.Categories {
			if cat == other {
				overlap++
				break
			}
		}
	}
	denom := len(a.Categories)
	if len(b.Categories) > denom {
		denom = len(b.Categories)
	}
	if denom < 1 {
		denom = 1
	}
	score += float64(overlap) / float64(denom) * 30

	// Role compatibility (25% weight)
	if a.UserType == models.UserTypeBoth || b.UserType == models.UserTypeBoth {
		score += 25
	} else if (a.UserType == models.UserTypeCreator && b.UserType == models.UserTypeContributor) ||
		(a.UserType == models.UserTypeContributor && b.UserType == models.UserTypeCreator) {
		score += 25
	}

	// Experience compatibility (20% weight)
	if a.Experience != "" && b.Experience != "" && a.Experience == b.Experience {
		score += 20
	}

	// Rating factor (15% weight), absent rating contributes 0
	if b.Rating != nil {
		score += (b.Rating.Average / 5) * 15
	}

	// Activity factor (10% weight), floored at 0
	lastActive := now
	if b.LastActive != "" {
		if t, err := time.Parse(time.RFC3339, b.LastActive); err == nil {
			lastActive = t.UTC()
		}
	}
	daysSinceActive := int(now.Sub(lastActive).Hours() / 24)
	activityScore := float64(10 - daysSinceActive)
	if activityScore < 0 {
		activityScore = 0
	}
	score += activityScore

	return clampScore(score)
}

// ScoreUserProject scores a user against a project:
//
//	category match    40
//	skill overlap     30
//	role eligibility  20
//	rating factor     10
func (cs *CompatibilityService) ScoreUserProject(user *models.UserProfile, project *models.Project) float64 {
	score := 0.0

	// Category match (40% weight)
	for _, cat := range user.Categories {
		if cat == project.Category {
			score += 40
			break
		}
	}

	// Skills match (30% weight), 0 when the project requires none
	if len(project.RequiredSkills) > 0 {
		userSkills := make(map[string]struct{}, len(user.Skills))
		for _, s := range user.Skills {
			userSkills[strings.ToLower(s.Name)] = struct{}{}
		}
		matched := 0
		for _, rs := range project.RequiredSkills {
			if _, ok := userSkills[strings.ToLower(rs.Skill)]; ok {
				matched++
			}
		}
		score += float64(matched) / float64(len(project.RequiredSkills)) * 30
	}

	// Role eligibility (20% weight)
	if user.UserType == models.UserTypeContributor || user.UserType == models.UserTypeBoth {
		score += 20
	}

	// Rating factor (10% weight)
	if user.Rating != nil {
		score += (user.Rating.Average / 5) * 10
	}

	return clampScore(score)
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
