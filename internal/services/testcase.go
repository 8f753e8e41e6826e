package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/verityqa/verity-backend/internal/data/repos"
	types "github.com/verityqa/verity-backend/internal/domain"
	"github.com/verityqa/verity-backend/internal/pkg/apperr"
	"github.com/verityqa/verity-backend/internal/pkg/logger"
)

type TestCaseCreate struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	StatusID    int64   `json:"testCaseStatusId"`
	TypeID      int64   `json:"testCaseTypeId"`
	PriorityID  *int64  `json:"priorityId"`
	ReleaseID   *int64  `json:"releaseId"`
	FolderID    *int64  `json:"folderId"`

	Steps []repos.StepInput `json:"steps"`
}

// TestCasePatch applies non-nil fields; a nil Steps slice leaves the
// existing steps untouched while an empty one is a valid upsert of
// nothing.
type TestCasePatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	StatusID    *int64  `json:"testCaseStatusId"`
	TypeID      *int64  `json:"testCaseTypeId"`
	PriorityID  *int64  `json:"priorityId"`
	ReleaseID   *int64  `json:"releaseId"`
	FolderID    *int64  `json:"folderId"`

	Steps []repos.StepInput `json:"steps"`
}

type TestCaseSearch struct {
	StartingRow   int                 `json:"startingRow"`
	NumberOfRows  int                 `json:"numberOfRows"`
	SortField     string              `json:"sortField"`
	SortDirection string              `json:"sortDirection"`
	ReleaseID     *int64              `json:"releaseId"`
	Filters       repos.SearchFilters `json:"filters"`
}

type TestCasePage struct {
	Total    int64             `json:"total"`
	Items    []*types.TestCase `json:"items"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

type TestCaseService interface {
	Create(ctx context.Context, projectID int64, in TestCaseCreate) (*types.TestCase, error)
	Get(ctx context.Context, projectID, id int64) (*types.TestCase, error)
	Update(ctx context.Context, projectID, id int64, patch TestCasePatch) (*types.TestCase, error)
	Delete(ctx context.Context, projectID, id int64) error
	Move(ctx context.Context, projectID, id, folderID int64) (*types.TestCase, error)
	Count(ctx context.Context, projectID int64, releaseID *int64, filters repos.SearchFilters) (int64, error)
	Search(ctx context.Context, projectID int64, req TestCaseSearch) (*TestCasePage, error)
}

type testCaseService struct {
	db        *gorm.DB
	testCases repos.TestCaseRepo
	projects  repos.ProjectRepo
	log       *logger.Logger
}

func NewTestCaseService(db *gorm.DB, testCases repos.TestCaseRepo, projects repos.ProjectRepo, baseLog *logger.Logger) TestCaseService {
	svcLog := baseLog.With("service", "TestCaseService")
	return &testCaseService{db: db, testCases: testCases, projects: projects, log: svcLog}
}

func validateSteps(steps []repos.StepInput) error {
	seen := map[int]bool{}
	for _, step := range steps {
		if step.Deleted {
			continue
		}
		if step.Sequence < 1 {
			return apperr.Validation("step sequence must be positive")
		}
		if seen[step.Sequence] {
			return apperr.Validation("duplicate step sequence %d", step.Sequence)
		}
		seen[step.Sequence] = true
		if strings.TrimSpace(step.Action) == "" {
			return apperr.Validation("step action is required")
		}
	}
	return nil
}

func (ts *testCaseService) Create(ctx context.Context, projectID int64, in TestCaseCreate) (*types.TestCase, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 255 {
		return nil, apperr.Validation("name must be between 1 and 255 characters")
	}
	if in.StatusID == 0 || in.TypeID == 0 {
		return nil, apperr.Validation("testCaseStatusId and testCaseTypeId are required")
	}
	if err := validateSteps(in.Steps); err != nil {
		return nil, err
	}

	testCase := &types.TestCase{
		ProjectID:   projectID,
		Name:        name,
		Description: in.Description,
		StatusID:    in.StatusID,
		TypeID:      in.TypeID,
		PriorityID:  in.PriorityID,
		ReleaseID:   in.ReleaseID,
		FolderID:    in.FolderID,
	}

	err := ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ts.projects.GetByID(ctx, tx, projectID); err != nil {
			return err
		}
		if _, err := ts.testCases.Create(ctx, tx, testCase); err != nil {
			return err
		}
		if len(in.Steps) > 0 {
			if err := ts.testCases.UpsertSteps(ctx, tx, testCase.ID, in.Steps); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ts.log.Info("test case created", "id", testCase.ID, "projectId", projectID)
	return ts.testCases.GetByID(ctx, nil, projectID, testCase.ID)
}

func (ts *testCaseService) Get(ctx context.Context, projectID, id int64) (*types.TestCase, error) {
	return ts.testCases.GetByID(ctx, nil, projectID, id)
}

func (ts *testCaseService) Update(ctx context.Context, projectID, id int64, patch TestCasePatch) (*types.TestCase, error) {
	values := map[string]any{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" || len(name) > 255 {
			return nil, apperr.Validation("name must be between 1 and 255 characters")
		}
		values["name"] = name
	}
	if patch.Description != nil {
		values["description"] = *patch.Description
	}
	if patch.StatusID != nil {
		values["test_case_status_id"] = *patch.StatusID
	}
	if patch.TypeID != nil {
		values["test_case_type_id"] = *patch.TypeID
	}
	if patch.PriorityID != nil {
		values["priority_id"] = *patch.PriorityID
	}
	if patch.ReleaseID != nil {
		values["release_id"] = *patch.ReleaseID
	}
	if patch.FolderID != nil {
		values["folder_id"] = *patch.FolderID
	}
	if patch.Steps != nil {
		if err := validateSteps(patch.Steps); err != nil {
			return nil, err
		}
	}

	err := ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(values) > 0 {
			if err := ts.testCases.UpdateFields(ctx, tx, projectID, id, values); err != nil {
				return err
			}
		} else {
			if _, err := ts.testCases.GetByID(ctx, tx, projectID, id); err != nil {
				return err
			}
		}
		if patch.Steps != nil {
			if err := ts.testCases.UpsertSteps(ctx, tx, id, patch.Steps); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ts.testCases.GetByID(ctx, nil, projectID, id)
}

func (ts *testCaseService) Delete(ctx context.Context, projectID, id int64) error {
	err := ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return ts.testCases.SoftDelete(ctx, tx, projectID, id)
	})
	if err != nil {
		return err
	}
	ts.log.Info("test case deleted", "id", id, "projectId", projectID)
	return nil
}

func (ts *testCaseService) Move(ctx context.Context, projectID, id, folderID int64) (*types.TestCase, error) {
	err := ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return ts.testCases.Move(ctx, tx, projectID, id, folderID)
	})
	if err != nil {
		return nil, err
	}
	return ts.testCases.GetByID(ctx, nil, projectID, id)
}

func (ts *testCaseService) Count(ctx context.Context, projectID int64, releaseID *int64, filters repos.SearchFilters) (int64, error) {
	return ts.testCases.Count(ctx, nil, projectID, releaseID, filters)
}

func (ts *testCaseService) Search(ctx context.Context, projectID int64, req TestCaseSearch) (*TestCasePage, error) {
	startingRow, numberOfRows := clampWindow(req.StartingRow, req.NumberOfRows)

	total, items, err := ts.testCases.Search(ctx, nil, projectID, startingRow, numberOfRows,
		req.SortField, req.SortDirection, req.ReleaseID, req.Filters)
	if err != nil {
		return nil, err
	}

	return &TestCasePage{
		Total:    total,
		Items:    items,
		Page:     startingRow/numberOfRows + 1,
		PageSize: numberOfRows,
	}, nil
}
