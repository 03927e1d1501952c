package models

// RequiredSkill is a skill a project asks of its collaborators
type RequiredSkill struct {
	Skill string `dynamodbav:"skill" json:"skill"`
	Level string `dynamodbav:"level,omitempty" json:"level,omitempty"`
}

// Project defines the structure for projects users can be matched to
type Project struct {
	ProjectID      string          `dynamodbav:"projectId" json:"_id"`
	Title          string          `dynamodbav:"title" json:"title"`
	Description    string          `dynamodbav:"description,omitempty" json:"description,omitempty"`
	Creator        string          `dynamodbav:"creator" json:"creator"`
	Category       string          `dynamodbav:"category" json:"category"`
	Subcategory    string          `dynamodbav:"subcategory,omitempty" json:"subcategory,omitempty"`
	RequiredSkills []RequiredSkill `dynamodbav:"requiredSkills,omitempty" json:"requiredSkills,omitempty"`
	Status         string          `dynamodbav:"status" json:"status"`
	CreatedAt      string          `dynamodbav:"createdAt" json:"createdAt"`
}

// ProjectsTable is the DynamoDB table name for projects
const ProjectsTable = "Projects"
