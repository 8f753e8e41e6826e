package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/verityqa/verity-backend/internal/domain"
	"github.com/verityqa/verity-backend/internal/pkg/apperr"
	"github.com/verityqa/verity-backend/internal/pkg/logger"
)

type ProgramRepo interface {
	Create(ctx context.Context, tx *gorm.DB, program *types.Program) (*types.Program, error)
	GetByID(ctx context.Context, tx *gorm.DB, id int64) (*types.Program, error)
	ListByPortfolio(ctx context.Context, tx *gorm.DB, portfolioID int64, skip, limit int, nameContains string) ([]*types.Program, error)
	ClearDefaultInPortfolio(ctx context.Context, tx *gorm.DB, portfolioID, excludeID int64) error
	UpdateGuarded(ctx context.Context, tx *gorm.DB, id int64, token uuid.UUID, values map[string]any) (*types.Program, error)
	SoftDeleteGuarded(ctx context.Context, tx *gorm.DB, id int64, token uuid.UUID) (*types.Program, error)
}

type programRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgramRepo(db *gorm.DB, baseLog *logger.Logger) ProgramRepo {
	repoLog := baseLog.With("repo", "ProgramRepo")
	return &programRepo{db: db, log: repoLog}
}

func (pr *programRepo) Create(ctx context.Context, tx *gorm.DB, program *types.Program) (*types.Program, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if err := transaction.WithContext(ctx).Create(program).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("program constraint violation")
		}
		return nil, err
	}
	return program, nil
}

func (pr *programRepo) GetByID(ctx context.Context, tx *gorm.DB, id int64) (*types.Program, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var result types.Program
	err := transaction.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("program %d", id)
		}
		return nil, err
	}
	return &result, nil
}

func (pr *programRepo) ListByPortfolio(ctx context.Context, tx *gorm.DB, portfolioID int64, skip, limit int, nameContains string) ([]*types.Program, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	query := transaction.WithContext(ctx).
		Model(&types.Program{}).
		Where("portfolio_id = ? AND is_deleted = ?", portfolioID, false)
	if nameContains != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(nameContains)+"%")
	}

	var results []*types.Program
	if err := query.Order("id DESC").Offset(skip).Limit(limit).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ClearDefaultInPortfolio unsets is_default on every live program of the
// portfolio except excludeID (0 excludes nothing). Same-transaction rule as
// PortfolioRepo.ClearDefault.
func (pr *programRepo) ClearDefaultInPortfolio(ctx context.Context, tx *gorm.DB, portfolioID, excludeID int64) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	query := transaction.WithContext(ctx).
		Model(&types.Program{}).
		Where("portfolio_id = ? AND is_default = ?", portfolioID, true)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	return query.Update("is_default", false).Error
}

func (pr *programRepo) UpdateGuarded(ctx context.Context, tx *gorm.DB, id int64, token uuid.UUID, values map[string]any) (*types.Program, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	values["concurrency_token"] = uuid.New()
	values["last_updated_date"] = time.Now().UTC()

	result := transaction.WithContext(ctx).
		Model(&types.Program{}).
		Where("id = ? AND concurrency_token = ? AND is_deleted = ?", id, token, false).
		Updates(values)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("program constraint violation")
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, apperr.Conflict("concurrency conflict or program %d not found", id)
	}

	var reloaded types.Program
	if err := transaction.WithContext(ctx).Where("id = ?", id).First(&reloaded).Error; err != nil {
		return nil, err
	}
	return &reloaded, nil
}

func (pr *programRepo) SoftDeleteGuarded(ctx context.Context, tx *gorm.DB, id int64, token uuid.UUID) (*types.Program, error) {
	now := time.Now().UTC()
	return pr.UpdateGuarded(ctx, tx, id, token, map[string]any{
		"is_deleted": true,
		"deleted_at": &now,
		"is_active":  false,
	})
}
