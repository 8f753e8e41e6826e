package domain

import "time"

// TestCase name uniqueness only applies among live rows: the partial index
// lets a deleted case's name be reused immediately.
type TestCase struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID int64 `gorm:"not null;index;uniqueIndex:uq_test_case_name_per_project_active,priority:1,where:is_deleted = false" json:"projectId"`

	Name        string  `gorm:"size:255;not null;uniqueIndex:uq_test_case_name_per_project_active,priority:2,where:is_deleted = false" json:"name"`
	Description *string `gorm:"type:text" json:"description"`

	StatusID   int64  `gorm:"column:test_case_status_id;not null" json:"testCaseStatusId"`
	TypeID     int64  `gorm:"column:test_case_type_id;not null" json:"testCaseTypeId"`
	PriorityID *int64 `json:"priorityId"`
	ReleaseID  *int64 `json:"releaseId"`
	FolderID   *int64 `json:"folderId"`

	IsDeleted bool       `gorm:"not null;default:false" json:"isDeleted"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`

	Steps []TestStep `gorm:"foreignKey:TestCaseID;constraint:OnDelete:CASCADE" json:"steps"`
}

func (TestCase) TableName() string {
	return "test_cases"
}

type TestStep struct {
	ID         int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	TestCaseID int64 `gorm:"not null;index;uniqueIndex:uq_test_step_sequence_per_case,priority:1" json:"testCaseId"`

	Sequence       int     `gorm:"not null;uniqueIndex:uq_test_step_sequence_per_case,priority:2" json:"sequence"`
	Action         string  `gorm:"type:text;not null" json:"action"`
	ExpectedResult *string `gorm:"type:text" json:"expectedResult"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (TestStep) TableName() string {
	return "test_steps"
}
