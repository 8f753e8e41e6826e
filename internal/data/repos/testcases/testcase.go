package testcases

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	types "github.com/verityqa/verity-backend/internal/domain"
	"github.com/verityqa/verity-backend/internal/pkg/apperr"
	"github.com/verityqa/verity-backend/internal/pkg/logger"
)

// SearchFilters are combined with logical AND; zero values mean "no filter".
type SearchFilters struct {
	NameContains string
	StatusIDs    []int64
	TypeIDs      []int64
	PriorityIDs  []int64
	FolderIDs    []int64
}

// StepInput is one entry of a steps upsert payload. ID nil inserts a new
// step; Deleted true removes the identified step.
type StepInput struct {
	ID             *int64
	Sequence       int
	Action         string
	ExpectedResult *string
	Deleted        bool
}

var sortColumns = map[string]string{
	"updated_at": "updated_at",
	"created_at": "created_at",
	"name":       "name",
}

type TestCaseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, testCase *types.TestCase) (*types.TestCase, error)
	GetByID(ctx context.Context, tx *gorm.DB, projectID, id int64) (*types.TestCase, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, projectID, id int64, values map[string]any) error
	UpsertSteps(ctx context.Context, tx *gorm.DB, testCaseID int64, steps []StepInput) error
	SoftDelete(ctx context.Context, tx *gorm.DB, projectID, id int64) error
	Move(ctx context.Context, tx *gorm.DB, projectID, id, folderID int64) error
	Count(ctx context.Context, tx *gorm.DB, projectID int64, releaseID *int64, filters SearchFilters) (int64, error)
	Search(ctx context.Context, tx *gorm.DB, projectID int64, startingRow, numberOfRows int, sortField, sortDirection string, releaseID *int64, filters SearchFilters) (int64, []*types.TestCase, error)
}

type testCaseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTestCaseRepo(db *gorm.DB, baseLog *logger.Logger) TestCaseRepo {
	repoLog := baseLog.With("repo", "TestCaseRepo")
	return &testCaseRepo{db: db, log: repoLog}
}

func (tr *testCaseRepo) Create(ctx context.Context, tx *gorm.DB, testCase *types.TestCase) (*types.TestCase, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if err := transaction.WithContext(ctx).Create(testCase).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("test case name already in use in project %d", testCase.ProjectID)
		}
		return nil, err
	}
	return testCase, nil
}

func (tr *testCaseRepo) GetByID(ctx context.Context, tx *gorm.DB, projectID, id int64) (*types.TestCase, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var result types.TestCase
	err := transaction.WithContext(ctx).
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("sequence") }).
		Where("project_id = ? AND id = ? AND is_deleted = ?", projectID, id, false).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("test case %d in project %d", id, projectID)
		}
		return nil, err
	}
	return &result, nil
}

func (tr *testCaseRepo) UpdateFields(ctx context.Context, tx *gorm.DB, projectID, id int64, values map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if len(values) == 0 {
		return nil
	}
	values["updated_at"] = time.Now().UTC()

	result := transaction.WithContext(ctx).
		Model(&types.TestCase{}).
		Where("project_id = ? AND id = ? AND is_deleted = ?", projectID, id, false).
		Updates(values)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("test case name already in use in project %d", projectID)
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("test case %d in project %d", id, projectID)
	}
	return nil
}

// UpsertSteps reconciles the stored steps with the payload: entries with a
// known id are updated, Deleted entries removed, the rest inserted.
// Sequence collisions are left to uq_test_step_sequence_per_case.
func (tr *testCaseRepo) UpsertSteps(ctx context.Context, tx *gorm.DB, testCaseID int64, steps []StepInput) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var existing []types.TestStep
	if err := transaction.WithContext(ctx).Where("test_case_id = ?", testCaseID).Find(&existing).Error; err != nil {
		return err
	}
	byID := make(map[int64]*types.TestStep, len(existing))
	for i := range existing {
		byID[existing[i].ID] = &existing[i]
	}

	for _, step := range steps {
		if step.Deleted {
			if step.ID != nil {
				if _, ok := byID[*step.ID]; ok {
					if err := transaction.WithContext(ctx).Delete(&types.TestStep{}, *step.ID).Error; err != nil {
						return err
					}
				}
			}
			continue
		}

		if step.ID != nil {
			if _, ok := byID[*step.ID]; ok {
				err := transaction.WithContext(ctx).
					Model(&types.TestStep{}).
					Where("id = ?", *step.ID).
					Updates(map[string]any{
						"sequence":        step.Sequence,
						"action":          step.Action,
						"expected_result": step.ExpectedResult,
						"updated_at":      time.Now().UTC(),
					}).Error
				if err != nil {
					if errors.Is(err, gorm.ErrDuplicatedKey) {
						return apperr.Conflict("duplicate step sequence %d", step.Sequence)
					}
					return err
				}
				continue
			}
		}

		newStep := types.TestStep{
			TestCaseID:     testCaseID,
			Sequence:       step.Sequence,
			Action:         step.Action,
			ExpectedResult: step.ExpectedResult,
		}
		if err := transaction.WithContext(ctx).Create(&newStep).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict("duplicate step sequence %d", step.Sequence)
			}
			return err
		}
	}
	return nil
}

func (tr *testCaseRepo) SoftDelete(ctx context.Context, tx *gorm.DB, projectID, id int64) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	now := time.Now().UTC()
	result := transaction.WithContext(ctx).
		Model(&types.TestCase{}).
		Where("project_id = ? AND id = ? AND is_deleted = ?", projectID, id, false).
		Updates(map[string]any{
			"is_deleted": true,
			"deleted_at": &now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("test case %d in project %d", id, projectID)
	}
	return nil
}

func (tr *testCaseRepo) Move(ctx context.Context, tx *gorm.DB, projectID, id, folderID int64) error {
	return tr.UpdateFields(ctx, tx, projectID, id, map[string]any{"folder_id": folderID})
}

func (tr *testCaseRepo) Count(ctx context.Context, tx *gorm.DB, projectID int64, releaseID *int64, filters SearchFilters) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var count int64
	query := tr.filtered(transaction.WithContext(ctx).Model(&types.TestCase{}), projectID, releaseID, filters)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Search returns the filtered total computed without the window, then the
// windowed page with steps preloaded in sequence order. Unknown sort fields
// fall back to updated_at; direction defaults to desc.
func (tr *testCaseRepo) Search(ctx context.Context, tx *gorm.DB, projectID int64, startingRow, numberOfRows int, sortField, sortDirection string, releaseID *int64, filters SearchFilters) (int64, []*types.TestCase, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	total, err := tr.Count(ctx, transaction, projectID, releaseID, filters)
	if err != nil {
		return 0, nil, err
	}

	column, ok := sortColumns[sortField]
	if !ok {
		column = "updated_at"
	}
	direction := "DESC"
	if strings.EqualFold(sortDirection, "asc") {
		direction = "ASC"
	}

	var items []*types.TestCase
	query := tr.filtered(transaction.WithContext(ctx).Model(&types.TestCase{}), projectID, releaseID, filters).
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("sequence") }).
		Order(column + " " + direction).
		Offset(startingRow).
		Limit(numberOfRows)
	if err := query.Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (tr *testCaseRepo) filtered(query *gorm.DB, projectID int64, releaseID *int64, filters SearchFilters) *gorm.DB {
	query = query.Where("project_id = ? AND is_deleted = ?", projectID, false)
	if releaseID != nil {
		query = query.Where("release_id = ?", *releaseID)
	}
	if filters.NameContains != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filters.NameContains)+"%")
	}
	if len(filters.StatusIDs) > 0 {
		query = query.Where("test_case_status_id IN ?", filters.StatusIDs)
	}
	if len(filters.TypeIDs) > 0 {
		query = query.Where("test_case_type_id IN ?", filters.TypeIDs)
	}
	if len(filters.PriorityIDs) > 0 {
		query = query.Where("priority_id IN ?", filters.PriorityIDs)
	}
	if len(filters.FolderIDs) > 0 {
		query = query.Where("folder_id IN ?", filters.FolderIDs)
	}
	return query
}
