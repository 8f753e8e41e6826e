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

type PortfolioRepo interface {
	Create(ctx context.Context, tx *gorm.DB, portfolio *types.Portfolio) (*types.Portfolio, error)
	GetByID(ctx context.Context, tx *gorm.DB, id int64) (*types.Portfolio, error)
	List(ctx context.Context, tx *gorm.DB, skip, limit int, nameContains string) ([]*types.Portfolio, error)
	ClearDefault(ctx context.Context, tx *gorm.DB, excludeID int64) error
	UpdateGuarded(ctx context.Context, tx *gorm.DB, id int64, token uuid.UUID, values map[string]any) (*types.Portfolio, error)
	SoftDeleteGuarded(ctx context.Context, tx *gorm.DB, id int64, token uuid.UUID) (*types.Portfolio, error)
}

type portfolioRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPortfolioRepo(db *gorm.DB, baseLog *logger.Logger) PortfolioRepo {
	repoLog := baseLog.With("repo", "PortfolioRepo")
	return &portfolioRepo{db: db, log: repoLog}
}

func (pr *portfolioRepo) Create(ctx context.Context, tx *gorm.DB, portfolio *types.Portfolio) (*types.Portfolio, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if err := transaction.WithContext(ctx).Create(portfolio).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("portfolio constraint violation")
		}
		return nil, err
	}
	return portfolio, nil
}

func (pr *portfolioRepo) GetByID(ctx context.Context, tx *gorm.DB, id int64) (*types.Portfolio, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var result types.Portfolio
	err := transaction.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("portfolio %d", id)
		}
		return nil, err
	}
	return &result, nil
}

func (pr *portfolioRepo) List(ctx context.Context, tx *gorm.DB, skip, limit int, nameContains string) ([]*types.Portfolio, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	query := transaction.WithContext(ctx).
		Model(&types.Portfolio{}).
		Where("is_deleted = ?", false)
	if nameContains != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(nameContains)+"%")
	}

	var results []*types.Portfolio
	if err := query.Order("id DESC").Offset(skip).Limit(limit).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ClearDefault unsets is_default on every live portfolio except excludeID
// (0 excludes nothing). Must run inside the same transaction as the write
// that sets the new default.
func (pr *portfolioRepo) ClearDefault(ctx context.Context, tx *gorm.DB, excludeID int64) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	query := transaction.WithContext(ctx).
		Model(&types.Portfolio{}).
		Where("is_default = ?", true)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	return query.Update("is_default", false).Error
}

// UpdateGuarded is the optimistic-concurrency write gate: the update only
// lands when (id, token, not-deleted) still matches a row, and the token is
// rotated in the same statement. Zero matched rows is ambiguous between
// "stale token" and "no such portfolio"; both surface as Conflict.
func (pr *portfolioRepo) UpdateGuarded(ctx context.Context, tx *gorm.DB, id int64, token uuid.UUID, values map[string]any) (*types.Portfolio, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	values["concurrency_token"] = uuid.New()
	values["last_updated_date"] = time.Now().UTC()

	result := transaction.WithContext(ctx).
		Model(&types.Portfolio{}).
		Where("id = ? AND concurrency_token = ? AND is_deleted = ?", id, token, false).
		Updates(values)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("portfolio constraint violation")
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, apperr.Conflict("concurrency conflict or portfolio %d not found", id)
	}
	return pr.reload(ctx, transaction, id)
}

func (pr *portfolioRepo) SoftDeleteGuarded(ctx context.Context, tx *gorm.DB, id int64, token uuid.UUID) (*types.Portfolio, error) {
	now := time.Now().UTC()
	return pr.UpdateGuarded(ctx, tx, id, token, map[string]any{
		"is_deleted": true,
		"deleted_at": &now,
		"is_active":  false,
	})
}

// reload returns the post-image regardless of the deleted flag so callers
// of SoftDeleteGuarded see the tombstoned row.
func (pr *portfolioRepo) reload(ctx context.Context, transaction *gorm.DB, id int64) (*types.Portfolio, error) {
	var result types.Portfolio
	if err := transaction.WithContext(ctx).Where("id = ?", id).First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}
