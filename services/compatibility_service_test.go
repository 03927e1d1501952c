package services

import (
	"testing"
	"time"

	"collabmatch_server/models"

	"github.com/stretchr/testify/assert"
)

func TestScoreUsers_ReferenceScenario(t *testing.T) {
	cs := &CompatibilityService{}

	a := &models.UserProfile{
		UserID:     "a",
		Categories: []string{"Technology", "Design"},
		UserType:   models.UserTypeCreator,
		Experience: "5y",
		Rating:     &models.Rating{Average: 4.8},
	}
	b := &models.UserProfile{
		UserID:     "b",
		Categories: []string{"Technology", "Business"},
		UserType:   models.UserTypeContributor,
		Experience: "5y",
		Rating:     &models.Rating{Average: 4.9},
		LastActive: time.Now().UTC().Format(time.RFC3339),
	}

	// category (1/2)*30 + role 25 + experience 20 + rating (4.9/5)*15 + recency 10
	assert.InDelta(t, 84.7, cs.ScoreUsers(a, b), 0.001)
}

func TestScoreUsers_MissingOptionalFields(t *testing.T) {
	cs := &CompatibilityService{}

	a := &models.UserProfile{UserID: "a", Categories: []string{"Technology"}, UserType: models.UserTypeCreator}
	b := &models.UserProfile{UserID: "b", Categories: []string{"Technology"}, UserType: models.UserTypeContributor,
		LastActive: time.Now().UTC().Format(time.RFC3339)}

	// category 30 + role 25 + experience 0 + rating 0 + recency 10
	assert.InDelta(t, 65.0, cs.ScoreUsers(a, b), 0.001)
}

func TestScoreUsers_RoleCompatibility(t *testing.T) {
	cs := &CompatibilityService{}
	now := time.Now().UTC().Format(time.RFC3339)

	creator := &models.UserProfile{UserType: models.UserTypeCreator, LastActive: now}
	contributor := &models.UserProfile{UserType: models.UserTypeContributor, LastActive: now}
	both := &models.UserProfile{UserType: models.UserTypeBoth, LastActive: now}

	// recency always contributes 10 here; role is the difference
	assert.InDelta(t, 35, cs.ScoreUsers(creator, contributor), 0.001)
	assert.InDelta(t, 35, cs.ScoreUsers(creator, both), 0.001)
	assert.InDelta(t, 35, cs.ScoreUsers(both, both), 0.001)
	assert.InDelta(t, 10, cs.ScoreUsers(creator, creator), 0.001)
}

func TestScoreUsers_RecencyDecay(t *testing.T) {
	cs := &CompatibilityService{}

	stale := &models.UserProfile{
		UserType:   models.UserTypeCreator,
		LastActive: time.Now().UTC().Add(-30 * 24 * time.Hour).Format(time.RFC3339),
	}
	// 30 days idle floors the recency term at 0, roles do not complement
	assert.InDelta(t, 0, cs.ScoreUsers(&models.UserProfile{UserType: models.UserTypeCreator}, stale), 0.001)

	threeDays := &models.UserProfile{
		UserType:   models.UserTypeContributor,
		LastActive: time.Now().UTC().Add(-3 * 24 * time.Hour).Format(time.RFC3339),
	}
	// role 25 + recency (10-3)
	assert.InDelta(t, 32, cs.ScoreUsers(&models.UserProfile{UserType: models.UserTypeCreator}, threeDays), 0.001)
}

func TestScoreUsers_Bounded(t *testing.T) {
	cs := &CompatibilityService{}
	now := time.Now().UTC().Format(time.RFC3339)

	maxed := &models.UserProfile{
		Categories: []string{"Technology"},
		UserType:   models.UserTypeBoth,
		Experience: "10y",
		Rating:     &models.Rating{Average: 5},
		LastActive: now,
	}
	score := cs.ScoreUsers(maxed, maxed)
	assert.LessOrEqual(t, score, 100.0)
	assert.GreaterOrEqual(t, score, 0.0)

	empty := &models.UserProfile{}
	score = cs.ScoreUsers(empty, empty)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 100.0)
}

func TestScoreUserProject(t *testing.T) {
	cs := &CompatibilityService{}

	user := &models.UserProfile{
		Categories: []string{"Technology"},
		UserType:   models.UserTypeContributor,
		Skills:     []models.Skill{{Name: "Go"}, {Name: "React"}},
		Rating:     &models.Rating{Average: 4.0},
	}
	project := &models.Project{
		Category: "Technology",
		RequiredSkills: []models.RequiredSkill{
			{Skill: "go"}, {Skill: "terraform"},
		},
	}

	// category 40 + skills (1/2)*30 + role 20 + rating (4/5)*10
	assert.InDelta(t, 83, cs.ScoreUserProject(user, project), 0.001)
}

func TestScoreUserProject_NoRequiredSkills(t *testing.T) {
	cs := &CompatibilityService{}

	user := &models.UserProfile{Categories: []string{"Design"}, UserType: models.UserTypeBoth}
	project := &models.Project{Category: "Design"}

	// category 40 + skills 0 + role 20 + rating 0
	assert.InDelta(t, 60, cs.ScoreUserProject(user, project), 0.001)
}

func TestScoreUserProject_CreatorRoleIneligible(t *testing.T) {
	cs := &CompatibilityService{}

	user := &models.UserProfile{UserType: models.UserTypeCreator}
	project := &models.Project{Category: "Events"}

	assert.InDelta(t, 0, cs.ScoreUserProject(user, project), 0.001)
}
