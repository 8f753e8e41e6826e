package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/verityqa/verity-backend/internal/data/repos"
	types "github.com/verityqa/verity-backend/internal/domain"
	"github.com/verityqa/verity-backend/internal/pkg/apperr"
	"github.com/verityqa/verity-backend/internal/pkg/logger"
)

type ProjectCreate struct {
	Name              string     `json:"name"`
	Description       *string    `json:"description"`
	Website           *string    `json:"website"`
	ProjectTemplateID *int64     `json:"projectTemplateId"`
	ProjectGroupID    *int64     `json:"projectGroupId"`
	Status            string     `json:"status"`
	WorkingHours      *int       `json:"workingHours"`
	WorkingDays       *int       `json:"workingDays"`
	NonWorkingHours   *int       `json:"nonWorkingHours"`
	StartDate         *time.Time `json:"startDate"`
	EndDate           *time.Time `json:"endDate"`
	PercentComplete   *int       `json:"percentComplete"`
	IsActive          *bool      `json:"isActive"`

	// When set, unset fields above are filled in from the named project.
	ExistingProjectID *int64 `json:"existingProjectId"`
}

type ProjectPatch struct {
	Name              *string    `json:"name"`
	Description       *string    `json:"description"`
	Website           *string    `json:"website"`
	ProjectTemplateID *int64     `json:"projectTemplateId"`
	ProjectGroupID    *int64     `json:"projectGroupId"`
	Status            *string    `json:"status"`
	WorkingHours      *int       `json:"workingHours"`
	WorkingDays       *int       `json:"workingDays"`
	NonWorkingHours   *int       `json:"nonWorkingHours"`
	StartDate         *time.Time `json:"startDate"`
	EndDate           *time.Time `json:"endDate"`
	PercentComplete   *int       `json:"percentComplete"`
	IsActive          *bool      `json:"isActive"`
}

// RefreshStatus reports the outcome of a cache refresh request. The
// refresh itself is a no-op retained for API compatibility.
type RefreshStatus struct {
	ProjectID int64  `json:"projectId"`
	ReleaseID *int64 `json:"releaseId,omitempty"`
	Status    string `json:"status"`
}

type ProjectService interface {
	Create(ctx context.Context, in ProjectCreate) (*types.Project, error)
	Get(ctx context.Context, id int64) (*types.Project, error)
	List(ctx context.Context, limit, offset int) ([]*types.Project, error)
	Update(ctx context.Context, id int64, patch ProjectPatch) (*types.Project, error)
	Delete(ctx context.Context, id int64) error
	RefreshCaches(ctx context.Context, id int64, releaseID *int64, runAsync bool) (*RefreshStatus, error)
}

type projectService struct {
	db       *gorm.DB
	projects repos.ProjectRepo
	log      *logger.Logger
}

func NewProjectService(db *gorm.DB, projects repos.ProjectRepo, baseLog *logger.Logger) ProjectService {
	svcLog := baseLog.With("service", "ProjectService")
	return &projectService{db: db, projects: projects, log: svcLog}
}

func validateProjectFields(start, end *time.Time, percent, workingDays, workingHours *int) error {
	if start != nil && end != nil && end.Before(*start) {
		return apperr.Validation("endDate must not precede startDate")
	}
	if percent != nil && (*percent < 0 || *percent > 100) {
		return apperr.Validation("percentComplete must be between 0 and 100")
	}
	if workingDays != nil && (*workingDays < 0 || *workingDays > 7) {
		return apperr.Validation("workingDays must be between 0 and 7")
	}
	if workingHours != nil && (*workingHours < 0 || *workingHours > 24) {
		return apperr.Validation("workingHours must be between 0 and 24")
	}
	return nil
}

func (ps *projectService) Create(ctx context.Context, in ProjectCreate) (*types.Project, error) {
	var created *types.Project
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.ExistingProjectID != nil {
			source, err := ps.projects.GetByID(ctx, tx, *in.ExistingProjectID)
			if err != nil {
				return err
			}
			fillFromExisting(&in, source)
		}

		if strings.TrimSpace(in.Name) == "" {
			return apperr.Validation("name is required")
		}
		if err := validateProjectFields(in.StartDate, in.EndDate, in.PercentComplete, in.WorkingDays, in.WorkingHours); err != nil {
			return err
		}

		project := &types.Project{
			Name:              strings.TrimSpace(in.Name),
			Description:       in.Description,
			Website:           in.Website,
			ProjectTemplateID: in.ProjectTemplateID,
			ProjectGroupID:    in.ProjectGroupID,
			Status:            in.Status,
			WorkingHours:      in.WorkingHours,
			WorkingDays:       in.WorkingDays,
			NonWorkingHours:   in.NonWorkingHours,
			StartDate:         in.StartDate,
			EndDate:           in.EndDate,
			PercentComplete:   in.PercentComplete,
			IsActive:          true,
		}
		if project.Status == "" {
			project.Status = "Active"
		}
		if in.IsActive != nil {
			project.IsActive = *in.IsActive
		}

		var err error
		created, err = ps.projects.Create(ctx, tx, project)
		return err
	})
	if err != nil {
		return nil, err
	}

	ps.log.Info("project created", "id", created.ID, "name", created.Name)
	return created, nil
}

func fillFromExisting(in *ProjectCreate, source *types.Project) {
	if in.Description == nil {
		in.Description = source.Description
	}
	if in.Website == nil {
		in.Website = source.Website
	}
	if in.ProjectTemplateID == nil {
		in.ProjectTemplateID = source.ProjectTemplateID
	}
	if in.ProjectGroupID == nil {
		in.ProjectGroupID = source.ProjectGroupID
	}
	if in.Status == "" {
		in.Status = source.Status
	}
	if in.WorkingHours == nil {
		in.WorkingHours = source.WorkingHours
	}
	if in.WorkingDays == nil {
		in.WorkingDays = source.WorkingDays
	}
	if in.NonWorkingHours == nil {
		in.NonWorkingHours = source.NonWorkingHours
	}
	if in.StartDate == nil {
		in.StartDate = source.StartDate
	}
	if in.EndDate == nil {
		in.EndDate = source.EndDate
	}
	if in.PercentComplete == nil {
		in.PercentComplete = source.PercentComplete
	}
}

func (ps *projectService) Get(ctx context.Context, id int64) (*types.Project, error) {
	return ps.projects.GetByID(ctx, nil, id)
}

func (ps *projectService) List(ctx context.Context, limit, offset int) ([]*types.Project, error) {
	offset, limit = clampWindow(offset, limit)
	return ps.projects.List(ctx, nil, limit, offset)
}

func (ps *projectService) Update(ctx context.Context, id int64, patch ProjectPatch) (*types.Project, error) {
	if err := validateProjectFields(patch.StartDate, patch.EndDate, patch.PercentComplete, patch.WorkingDays, patch.WorkingHours); err != nil {
		return nil, err
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, apperr.Validation("name must not be empty")
	}

	values := map[string]any{}
	if patch.Name != nil {
		values["name"] = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		values["description"] = *patch.Description
	}
	if patch.Website != nil {
		values["website"] = *patch.Website
	}
	if patch.ProjectTemplateID != nil {
		values["project_template_id"] = *patch.ProjectTemplateID
	}
	if patch.ProjectGroupID != nil {
		values["project_group_id"] = *patch.ProjectGroupID
	}
	if patch.Status != nil {
		values["status"] = *patch.Status
	}
	if patch.WorkingHours != nil {
		values["working_hours"] = *patch.WorkingHours
	}
	if patch.WorkingDays != nil {
		values["working_days"] = *patch.WorkingDays
	}
	if patch.NonWorkingHours != nil {
		values["non_working_hours"] = *patch.NonWorkingHours
	}
	if patch.StartDate != nil {
		values["start_date"] = *patch.StartDate
	}
	if patch.EndDate != nil {
		values["end_date"] = *patch.EndDate
	}
	if patch.PercentComplete != nil {
		values["percent_complete"] = *patch.PercentComplete
	}
	if patch.IsActive != nil {
		values["is_active"] = *patch.IsActive
	}

	var updated *types.Project
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Cross-field date checks need the stored counterpart when only
		// one side of the range is being patched.
		if (patch.StartDate == nil) != (patch.EndDate == nil) {
			current, err := ps.projects.GetByID(ctx, tx, id)
			if err != nil {
				return err
			}
			start, end := current.StartDate, current.EndDate
			if patch.StartDate != nil {
				start = patch.StartDate
			}
			if patch.EndDate != nil {
				end = patch.EndDate
			}
			if err := validateProjectFields(start, end, nil, nil, nil); err != nil {
				return err
			}
		}

		var err error
		updated, err = ps.projects.UpdatePartial(ctx, tx, id, values)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (ps *projectService) Delete(ctx context.Context, id int64) error {
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return ps.projects.SoftDelete(ctx, tx, id)
	})
	if err != nil {
		return err
	}
	ps.log.Info("project deleted", "id", id)
	return nil
}

func (ps *projectService) RefreshCaches(ctx context.Context, id int64, releaseID *int64, runAsync bool) (*RefreshStatus, error) {
	if _, err := ps.projects.GetByID(ctx, nil, id); err != nil {
		return nil, err
	}

	status := "completed"
	if runAsync {
		status = "queued"
	}
	ps.log.Info("cache refresh requested", "projectId", id, "status", status)
	return &RefreshStatus{ProjectID: id, ReleaseID: releaseID, Status: status}, nil
}
