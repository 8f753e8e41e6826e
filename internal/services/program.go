package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/verityqa/verity-backend/internal/data/repos"
	types "github.com/verityqa/verity-backend/internal/domain"
	"github.com/verityqa/verity-backend/internal/pkg/apperr"
	"github.com/verityqa/verity-backend/internal/pkg/logger"
)

type ProgramCreate struct {
	Name              string         `json:"name"`
	Description       *string        `json:"description"`
	Website           *string        `json:"website"`
	ProjectTemplateID *int64         `json:"projectTemplateId"`
	WorkspaceTypeID   *int64         `json:"workspaceTypeId"`
	ArtifactTypeID    *int64         `json:"artifactTypeId"`
	IsActive          *bool          `json:"isActive"`
	IsDefault         bool           `json:"isDefault"`
	CustomProps       datatypes.JSON `json:"customProperties"`
}

type ProgramPatch struct {
	Name              *string        `json:"name"`
	Description       *string        `json:"description"`
	Website           *string        `json:"website"`
	PortfolioID       *int64         `json:"portfolioId"`
	ProjectTemplateID *int64         `json:"projectTemplateId"`
	WorkspaceTypeID   *int64         `json:"workspaceTypeId"`
	ArtifactTypeID    *int64         `json:"artifactTypeId"`
	IsActive          *bool          `json:"isActive"`
	IsDefault         *bool          `json:"isDefault"`
	CustomProps       datatypes.JSON `json:"customProperties"`
	ConcurrencyToken  uuid.UUID      `json:"concurrencyToken"`
}

type ProgramService interface {
	Create(ctx context.Context, portfolioID int64, in ProgramCreate) (*types.Program, error)
	Get(ctx context.Context, id int64) (*types.Program, error)
	ListByPortfolio(ctx context.Context, portfolioID int64, skip, limit int, nameContains string) ([]*types.Program, error)
	Update(ctx context.Context, id int64, patch ProgramPatch) (*types.Program, error)
	Delete(ctx context.Context, id int64, token uuid.UUID) (*types.Program, error)
}

type programService struct {
	db         *gorm.DB
	programs   repos.ProgramRepo
	portfolios repos.PortfolioRepo
	log        *logger.Logger
}

func NewProgramService(db *gorm.DB, programs repos.ProgramRepo, portfolios repos.PortfolioRepo, baseLog *logger.Logger) ProgramService {
	svcLog := baseLog.With("service", "ProgramService")
	return &programService{db: db, programs: programs, portfolios: portfolios, log: svcLog}
}

func (ps *programService) Create(ctx context.Context, portfolioID int64, in ProgramCreate) (*types.Program, error) {
	if err := validatePortfolioName(in.Name); err != nil {
		return nil, err
	}

	program := &types.Program{
		Name:              strings.TrimSpace(in.Name),
		Description:       in.Description,
		Website:           in.Website,
		PortfolioID:       portfolioID,
		ProjectTemplateID: in.ProjectTemplateID,
		WorkspaceTypeID:   in.WorkspaceTypeID,
		ArtifactTypeID:    in.ArtifactTypeID,
		GUID:              uuid.New(),
		ConcurrencyToken:  uuid.New(),
		IsActive:          true,
		IsDefault:         in.IsDefault,
		CustomProps:       in.CustomProps,
	}
	if in.IsActive != nil {
		program.IsActive = *in.IsActive
	}

	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ps.portfolios.GetByID(ctx, tx, portfolioID); err != nil {
			return err
		}
		if program.IsDefault {
			if err := ps.programs.ClearDefaultInPortfolio(ctx, tx, portfolioID, 0); err != nil {
				return err
			}
		}
		_, err := ps.programs.Create(ctx, tx, program)
		return err
	})
	if err != nil {
		return nil, err
	}

	ps.log.Info("program created", "id", program.ID, "portfolioId", portfolioID)
	return program, nil
}

func (ps *programService) Get(ctx context.Context, id int64) (*types.Program, error) {
	return ps.programs.GetByID(ctx, nil, id)
}

func (ps *programService) ListByPortfolio(ctx context.Context, portfolioID int64, skip, limit int, nameContains string) ([]*types.Program, error) {
	if _, err := ps.portfolios.GetByID(ctx, nil, portfolioID); err != nil {
		return nil, err
	}
	skip, limit = clampWindow(skip, limit)
	return ps.programs.ListByPortfolio(ctx, nil, portfolioID, skip, limit, nameContains)
}

func (ps *programService) Update(ctx context.Context, id int64, patch ProgramPatch) (*types.Program, error) {
	if patch.ConcurrencyToken == uuid.Nil {
		return nil, apperr.Conflict("concurrency token is required")
	}

	values := map[string]any{}
	if patch.Name != nil {
		if err := validatePortfolioName(*patch.Name); err != nil {
			return nil, err
		}
		values["name"] = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		values["description"] = *patch.Description
	}
	if patch.Website != nil {
		values["website"] = *patch.Website
	}
	if patch.PortfolioID != nil {
		values["portfolio_id"] = *patch.PortfolioID
	}
	if patch.ProjectTemplateID != nil {
		values["project_template_id"] = *patch.ProjectTemplateID
	}
	if patch.WorkspaceTypeID != nil {
		values["workspace_type_id"] = *patch.WorkspaceTypeID
	}
	if patch.ArtifactTypeID != nil {
		values["artifact_type_id"] = *patch.ArtifactTypeID
	}
	if patch.IsActive != nil {
		values["is_active"] = *patch.IsActive
	}
	if patch.IsDefault != nil {
		values["is_default"] = *patch.IsDefault
	}
	if patch.CustomProps != nil {
		values["custom_properties"] = patch.CustomProps
	}

	var updated *types.Program
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := ps.programs.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		// A moved program competes for the default slot of its target
		// portfolio, not its old one.
		targetPortfolio := current.PortfolioID
		if patch.PortfolioID != nil {
			if _, err := ps.portfolios.GetByID(ctx, tx, *patch.PortfolioID); err != nil {
				return err
			}
			targetPortfolio = *patch.PortfolioID
		}
		if patch.IsDefault != nil && *patch.IsDefault {
			if err := ps.programs.ClearDefaultInPortfolio(ctx, tx, targetPortfolio, id); err != nil {
				return err
			}
		}

		updated, err = ps.programs.UpdateGuarded(ctx, tx, id, patch.ConcurrencyToken, values)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (ps *programService) Delete(ctx context.Context, id int64, token uuid.UUID) (*types.Program, error) {
	if token == uuid.Nil {
		return nil, apperr.Conflict("concurrency token is required")
	}

	var deleted *types.Program
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		deleted, err = ps.programs.SoftDeleteGuarded(ctx, tx, id, token)
		return err
	})
	if err != nil {
		return nil, err
	}

	ps.log.Info("program deleted", "id", id)
	return deleted, nil
}
