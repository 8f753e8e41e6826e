package projects

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	types "github.com/verityqa/verity-backend/internal/domain"
	"github.com/verityqa/verity-backend/internal/pkg/apperr"
	"github.com/verityqa/verity-backend/internal/pkg/logger"
)

type ProjectRepo interface {
	Create(ctx context.Context, tx *gorm.DB, project *types.Project) (*types.Project, error)
	GetByID(ctx context.Context, tx *gorm.DB, id int64) (*types.Project, error)
	List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Project, error)
	UpdatePartial(ctx context.Context, tx *gorm.DB, id int64, values map[string]any) (*types.Project, error)
	SoftDelete(ctx context.Context, tx *gorm.DB, id int64) error
}

type projectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProjectRepo(db *gorm.DB, baseLog *logger.Logger) ProjectRepo {
	repoLog := baseLog.With("repo", "ProjectRepo")
	return &projectRepo{db: db, log: repoLog}
}

func (pr *projectRepo) Create(ctx context.Context, tx *gorm.DB, project *types.Project) (*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if err := transaction.WithContext(ctx).Create(project).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("project constraint violation")
		}
		return nil, err
	}
	return project, nil
}

func (pr *projectRepo) GetByID(ctx context.Context, tx *gorm.DB, id int64) (*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var result types.Project
	err := transaction.WithContext(ctx).
		Where("project_id = ? AND is_deleted = ?", id, false).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("project %d", id)
		}
		return nil, err
	}
	return &result, nil
}

func (pr *projectRepo) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.Project
	err := transaction.WithContext(ctx).
		Where("is_deleted = ?", false).
		Order("project_id").
		Offset(offset).
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *projectRepo) UpdatePartial(ctx context.Context, tx *gorm.DB, id int64, values map[string]any) (*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if len(values) == 0 {
		return pr.GetByID(ctx, transaction, id)
	}

	result := transaction.WithContext(ctx).
		Model(&types.Project{}).
		Where("project_id = ? AND is_deleted = ?", id, false).
		Updates(values)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("project constraint violation")
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, apperr.NotFound("project %d", id)
	}
	return pr.GetByID(ctx, transaction, id)
}

func (pr *projectRepo) SoftDelete(ctx context.Context, tx *gorm.DB, id int64) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	now := time.Now().UTC()
	result := transaction.WithContext(ctx).
		Model(&types.Project{}).
		Where("project_id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{
			"is_deleted": true,
			"deleted_at": &now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("project %d", id)
	}
	return nil
}
