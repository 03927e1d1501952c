package models

// Skill is a named skill with a rough proficiency level
type Skill struct {
	Name  string `dynamodbav:"name" json:"name"`
	Level string `dynamodbav:"level,omitempty" json:"level,omitempty"`
}

// Rating aggregates feedback received by a user
type Rating struct {
	Average float64 `dynamodbav:"average" json:"average"`
	Count   int     `dynamodbav:"count" json:"count"`
}

// UserProfile defines the structure for user profiles
type UserProfile struct {
	UserID            string   `dynamodbav:"userId" json:"_id"`
	Name              string   `dynamodbav:"name,omitempty" json:"name"`
	Avatar            string   `dynamodbav:"avatar,omitempty" json:"avatar"`
	UserType          string   `dynamodbav:"userType,omitempty" json:"userType"` // creator, contributor, both
	Categories        []string `dynamodbav:"categories,omitempty" json:"categories"`
	Skills            []Skill  `dynamodbav:"skills,omitempty" json:"skills,omitempty"`
	Bio               string   `dynamodbav:"bio,omitempty" json:"bio"`
	Experience        string   `dynamodbav:"experience,omitempty" json:"experience"`
	Location          string   `dynamodbav:"location,omitempty" json:"location"`
	CompletedProjects int      `dynamodbav:"completedProjects,omitempty" json:"completedProjects"`
	Rating            *Rating  `dynamodbav:"rating,omitempty" json:"rating,omitempty"`
	LastActive        string   `dynamodbav:"lastActive,omitempty" json:"lastActive,omitempty"` // RFC3339

	// Denormalized like mirrors, maintained best-effort by the mirror worker.
	// Matches are the source of truth; these are never read back by the engine.
	LikesGiven    []string `dynamodbav:"likesGiven,omitempty,stringset" json:"-"`
	LikesReceived []string `dynamodbav:"likesReceived,omitempty,stringset" json:"-"`
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"
