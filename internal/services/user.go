package services

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/verityqa/verity-backend/internal/data/repos"
	types "github.com/verityqa/verity-backend/internal/domain"
	"github.com/verityqa/verity-backend/internal/pkg/apperr"
	"github.com/verityqa/verity-backend/internal/pkg/logger"
)

type UserCreate struct {
	Username   string  `json:"username"`
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	Admin      bool    `json:"admin"`
	Department string  `json:"department"`
	Unit       string  `json:"unit"`
	FirstName  string  `json:"firstName"`
	MiddleName *string `json:"middleName"`
	LastName   string  `json:"lastName"`
	RssToken   *string `json:"rssToken"`
}

type UserPatch struct {
	Username   *string `json:"username"`
	Email      *string `json:"email"`
	Password   *string `json:"password"`
	Admin      *bool   `json:"admin"`
	Active     *bool   `json:"active"`
	Approved   *bool   `json:"approved"`
	Locked     *bool   `json:"locked"`
	Department *string `json:"department"`
	Unit       *string `json:"unit"`
	FirstName  *string `json:"firstName"`
	MiddleName *string `json:"middleName"`
	LastName   *string `json:"lastName"`
	RssToken   *string `json:"rssToken"`
}

type UserService interface {
	Create(ctx context.Context, in UserCreate) (*types.User, error)
	GetByID(ctx context.Context, id int64) (*types.User, error)
	GetByUsername(ctx context.Context, username string) (*types.User, error)
	GetByEmail(ctx context.Context, email string) (*types.User, error)
	List(ctx context.Context, limit, offset int) ([]*types.User, error)
	Update(ctx context.Context, id int64, patch UserPatch) (*types.User, error)
	Delete(ctx context.Context, id int64) (*types.User, error)
}

type userService struct {
	db    *gorm.DB
	users repos.UserRepo
	log   *logger.Logger
}

func NewUserService(db *gorm.DB, users repos.UserRepo, baseLog *logger.Logger) UserService {
	svcLog := baseLog.With("service", "UserService")
	return &userService{db: db, users: users, log: svcLog}
}

func normalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (us *userService) Create(ctx context.Context, in UserCreate) (*types.User, error) {
	username := normalizeUsername(in.Username)
	email := normalizeEmail(in.Email)

	if username == "" || len(username) > types.UserUsernameMaxLen {
		return nil, apperr.Validation("username must be between 1 and %d characters", types.UserUsernameMaxLen)
	}
	if email == "" || len(email) > types.UserEmailMaxLen || !strings.Contains(email, "@") {
		return nil, apperr.Validation("email is invalid")
	}
	if len(in.Password) < 8 {
		return nil, apperr.Validation("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &types.User{
		Username:       username,
		Email:          email,
		HashedPassword: string(hash),
		Admin:          in.Admin,
		Active:         true,
		Approved:       false,
		Locked:         false,
		Department:     in.Department,
		Unit:           in.Unit,
		FirstName:      in.FirstName,
		MiddleName:     in.MiddleName,
		LastName:       in.LastName,
		RssToken:       in.RssToken,
	}

	err = us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := us.users.GetByUsername(ctx, tx, username); err == nil {
			return apperr.Conflict("username %q is taken", username)
		} else if !apperr.IsNotFound(err) {
			return err
		}
		if _, err := us.users.GetByEmail(ctx, tx, email); err == nil {
			return apperr.Conflict("email %q is taken", email)
		} else if !apperr.IsNotFound(err) {
			return err
		}
		_, err := us.users.Create(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	us.log.Info("user created", "id", user.ID, "username", user.Username)
	return user, nil
}

func (us *userService) GetByID(ctx context.Context, id int64) (*types.User, error) {
	return us.users.GetByID(ctx, nil, id)
}

func (us *userService) GetByUsername(ctx context.Context, username string) (*types.User, error) {
	return us.users.GetByUsername(ctx, nil, normalizeUsername(username))
}

func (us *userService) GetByEmail(ctx context.Context, email string) (*types.User, error) {
	return us.users.GetByEmail(ctx, nil, normalizeEmail(email))
}

func (us *userService) List(ctx context.Context, limit, offset int) ([]*types.User, error) {
	offset, limit = clampWindow(offset, limit)
	return us.users.List(ctx, nil, limit, offset)
}

func (us *userService) Update(ctx context.Context, id int64, patch UserPatch) (*types.User, error) {
	values := map[string]any{}
	if patch.Username != nil {
		username := normalizeUsername(*patch.Username)
		if username == "" || len(username) > types.UserUsernameMaxLen {
			return nil, apperr.Validation("username must be between 1 and %d characters", types.UserUsernameMaxLen)
		}
		values["username"] = username
	}
	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		if email == "" || len(email) > types.UserEmailMaxLen || !strings.Contains(email, "@") {
			return nil, apperr.Validation("email is invalid")
		}
		values["email"] = email
	}
	if patch.Password != nil {
		if len(*patch.Password) < 8 {
			return nil, apperr.Validation("password must be at least 8 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		values["hashed_password"] = string(hash)
	}
	if patch.Admin != nil {
		values["admin"] = *patch.Admin
	}
	if patch.Active != nil {
		values["active"] = *patch.Active
	}
	if patch.Approved != nil {
		values["approved"] = *patch.Approved
	}
	if patch.Locked != nil {
		values["locked"] = *patch.Locked
	}
	if patch.Department != nil {
		values["department"] = *patch.Department
	}
	if patch.Unit != nil {
		values["unit"] = *patch.Unit
	}
	if patch.FirstName != nil {
		values["first_name"] = *patch.FirstName
	}
	if patch.MiddleName != nil {
		values["middle_name"] = *patch.MiddleName
	}
	if patch.LastName != nil {
		values["last_name"] = *patch.LastName
	}
	if patch.RssToken != nil {
		values["rss_token"] = *patch.RssToken
	}

	var updated *types.User
	err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		updated, err = us.users.UpdatePartial(ctx, tx, id, values)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (us *userService) Delete(ctx context.Context, id int64) (*types.User, error) {
	var deleted *types.User
	err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		deleted, err = us.users.TombstoneDelete(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	us.log.Info("user deleted", "id", id)
	return deleted, nil
}
