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

// PortfolioCreate carries the writable fields for a new portfolio.
type PortfolioCreate struct {
	Name            string         `json:"name"`
	Description     *string        `json:"description"`
	Website         *string        `json:"website"`
	WorkspaceTypeID *int64         `json:"workspaceTypeId"`
	ArtifactTypeID  *int64         `json:"artifactTypeId"`
	IsActive        *bool          `json:"isActive"`
	IsDefault       bool           `json:"isDefault"`
	CustomProps     datatypes.JSON `json:"customProperties"`
}

// PortfolioPatch applies only its non-nil fields. ConcurrencyToken is
// mandatory: a patch without the caller's last-seen token is rejected
// before touching storage.
type PortfolioPatch struct {
	Name             *string        `json:"name"`
	Description      *string        `json:"description"`
	Website          *string        `json:"website"`
	WorkspaceTypeID  *int64         `json:"workspaceTypeId"`
	ArtifactTypeID   *int64         `json:"artifactTypeId"`
	IsActive         *bool          `json:"isActive"`
	IsDefault        *bool          `json:"isDefault"`
	CustomProps      datatypes.JSON `json:"customProperties"`
	ConcurrencyToken uuid.UUID      `json:"concurrencyToken"`
}

type PortfolioService interface {
	Create(ctx context.Context, in PortfolioCreate) (*types.Portfolio, error)
	Get(ctx context.Context, id int64) (*types.Portfolio, error)
	List(ctx context.Context, skip, limit int, nameContains string) ([]*types.Portfolio, error)
	Update(ctx context.Context, id int64, patch PortfolioPatch) (*types.Portfolio, error)
	Delete(ctx context.Context, id int64, token uuid.UUID) (*types.Portfolio, error)
}

type portfolioService struct {
	db         *gorm.DB
	portfolios repos.PortfolioRepo
	log        *logger.Logger
}

func NewPortfolioService(db *gorm.DB, portfolios repos.PortfolioRepo, baseLog *logger.Logger) PortfolioService {
	svcLog := baseLog.With("service", "PortfolioService")
	return &portfolioService{db: db, portfolios: portfolios, log: svcLog}
}

func validatePortfolioName(name string) error {
	n := len(strings.TrimSpace(name))
	if n < 2 || n > 200 {
		return apperr.Validation("name must be between 2 and 200 characters")
	}
	return nil
}

func (ps *portfolioService) Create(ctx context.Context, in PortfolioCreate) (*types.Portfolio, error) {
	if err := validatePortfolioName(in.Name); err != nil {
		return nil, err
	}

	portfolio := &types.Portfolio{
		Name:             strings.TrimSpace(in.Name),
		Description:      in.Description,
		Website:          in.Website,
		WorkspaceTypeID:  in.WorkspaceTypeID,
		ArtifactTypeID:   in.ArtifactTypeID,
		GUID:             uuid.New(),
		ConcurrencyToken: uuid.New(),
		IsActive:         true,
		IsDefault:        in.IsDefault,
		CustomProps:      in.CustomProps,
	}
	if in.IsActive != nil {
		portfolio.IsActive = *in.IsActive
	}

	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if portfolio.IsDefault {
			if err := ps.portfolios.ClearDefault(ctx, tx, 0); err != nil {
				return err
			}
		}
		_, err := ps.portfolios.Create(ctx, tx, portfolio)
		return err
	})
	if err != nil {
		return nil, err
	}

	ps.log.Info("portfolio created", "id", portfolio.ID, "name", portfolio.Name)
	return portfolio, nil
}

func (ps *portfolioService) Get(ctx context.Context, id int64) (*types.Portfolio, error) {
	return ps.portfolios.GetByID(ctx, nil, id)
}

func (ps *portfolioService) List(ctx context.Context, skip, limit int, nameContains string) ([]*types.Portfolio, error) {
	skip, limit = clampWindow(skip, limit)
	return ps.portfolios.List(ctx, nil, skip, limit, nameContains)
}

func (ps *portfolioService) Update(ctx context.Context, id int64, patch PortfolioPatch) (*types.Portfolio, error) {
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

	var updated *types.Portfolio
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if patch.IsDefault != nil && *patch.IsDefault {
			if err := ps.portfolios.ClearDefault(ctx, tx, id); err != nil {
				return err
			}
		}
		var err error
		updated, err = ps.portfolios.UpdateGuarded(ctx, tx, id, patch.ConcurrencyToken, values)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (ps *portfolioService) Delete(ctx context.Context, id int64, token uuid.UUID) (*types.Portfolio, error) {
	if token == uuid.Nil {
		return nil, apperr.Conflict("concurrency token is required")
	}

	var deleted *types.Portfolio
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		deleted, err = ps.portfolios.SoftDeleteGuarded(ctx, tx, id, token)
		return err
	})
	if err != nil {
		return nil, err
	}

	ps.log.Info("portfolio deleted", "id", id)
	return deleted, nil
}
