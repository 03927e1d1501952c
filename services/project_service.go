package services

import (
	"context"
	"fmt"
	"time"

	"collabmatch_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

type ProjectService struct {
	Dynamo *DynamoService
}

// AddProject stores a new project, assigning an ID when none is given
func (ps *ProjectService) AddProject(ctx context.Context, project models.Project) (*models.Project, error) {
	if project.ProjectID == "" {
		project.ProjectID = uuid.NewString()
	}
	if project.Status == "" {
		project.Status = models.ProjectStatusOpen
	}
	if project.CreatedAt == "" {
		project.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	err := ps.Dynamo.PutItem(ctx, models.ProjectsTable, project)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// GetProject retrieves a project by ID
func (ps *ProjectService) GetProject(ctx context.Context, projectID string) (*models.Project, error) {
	key := map[string]types.AttributeValue{
		"projectId": &types.AttributeValueMemberS{Value: projectID},
	}

	item, err := ps.Dynamo.GetItem(ctx, models.ProjectsTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("project '%s': %w", projectID, ErrNotFound)
	}

	var project models.Project
	err = attributevalue.UnmarshalMap(item, &project)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal project: %w", err)
	}
	return &project, nil
}

// ListOpenProjects scans projects that are currently open, capped at limit
func (ps *ProjectService) ListOpenProjects(ctx context.Context, limit int32) ([]models.Project, error) {
	var projects []models.Project
	err := ps.Dynamo.ScanWithFilter(ctx, models.ProjectsTable, func(item map[string]types.AttributeValue) bool {
		statusAttr, ok := item["status"].(*types.AttributeValueMemberS)
		return ok && statusAttr.Value == models.ProjectStatusOpen
	}, nil, limit, &projects)
	if err != nil {
		return nil, fmt.Errorf("failed to list open projects: %w", err)
	}
	return projects, nil
}
