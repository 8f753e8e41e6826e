package users

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	types "github.com/verityqa/verity-backend/internal/domain"
	"github.com/verityqa/verity-backend/internal/pkg/apperr"
	"github.com/verityqa/verity-backend/internal/pkg/logger"
	"github.com/verityqa/verity-backend/internal/pkg/tombstone"
)

type UserRepo interface {
	Create(ctx context.Context, tx *gorm.DB, user *types.User) (*types.User, error)
	GetByID(ctx context.Context, tx *gorm.DB, id int64) (*types.User, error)
	GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*types.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.User, error)
	List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.User, error)
	UpdatePartial(ctx context.Context, tx *gorm.DB, id int64, values map[string]any) (*types.User, error)
	TombstoneDelete(ctx context.Context, tx *gorm.DB, id int64) (*types.User, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) Create(ctx context.Context, tx *gorm.DB, user *types.User) (*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	if err := transaction.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("username or email already exists")
		}
		return nil, err
	}
	return user, nil
}

func (ur *userRepo) GetByID(ctx context.Context, tx *gorm.DB, id int64) (*types.User, error) {
	return ur.getOne(ctx, tx, "id = ?", id)
}

func (ur *userRepo) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*types.User, error) {
	return ur.getOne(ctx, tx, "username = ?", username)
}

func (ur *userRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.User, error) {
	return ur.getOne(ctx, tx, "email = ?", email)
}

func (ur *userRepo) getOne(ctx context.Context, tx *gorm.DB, cond string, arg any) (*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var result types.User
	err := transaction.WithContext(ctx).
		Where(cond, arg).
		Where("is_deleted = ?", false).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, err
	}
	return &result, nil
}

func (ur *userRepo) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var results []*types.User
	err := transaction.WithContext(ctx).
		Where("is_deleted = ?", false).
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) UpdatePartial(ctx context.Context, tx *gorm.DB, id int64, values map[string]any) (*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	if len(values) == 0 {
		return ur.GetByID(ctx, transaction, id)
	}

	result := transaction.WithContext(ctx).
		Model(&types.User{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(values)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("username or email already exists")
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, apperr.NotFound("user %d", id)
	}
	return ur.GetByID(ctx, transaction, id)
}

// TombstoneDelete soft-deletes the user and rewrites username/email into
// mangled values so the originals can be registered again. The row itself
// stays for audit. Deleting an already-deleted user is NotFound: the guard
// on is_deleted makes the second call match nothing.
func (ur *userRepo) TombstoneDelete(ctx context.Context, tx *gorm.DB, id int64) (*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var current types.User
	err := transaction.WithContext(ctx).
		Select("id", "username", "email").
		Where("id = ? AND is_deleted = ?", id, false).
		First(&current).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %d", id)
		}
		return nil, err
	}

	now := time.Now().UTC()
	result := transaction.WithContext(ctx).
		Model(&types.User{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{
			"is_deleted": true,
			"deleted_at": &now,
			"active":     false,
			"username":   tombstone.Username(current.Username, types.UserUsernameMaxLen),
			"email":      tombstone.Email(current.Email, types.UserEmailMaxLen),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, apperr.NotFound("user %d", id)
	}

	var reloaded types.User
	if err := transaction.WithContext(ctx).Where("id = ?", id).First(&reloaded).Error; err != nil {
		return nil, err
	}
	return &reloaded, nil
}
