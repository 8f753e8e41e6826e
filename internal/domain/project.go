package domain

import "time"

type Project struct {
	ID                int64  `gorm:"primaryKey;autoIncrement;column:project_id" json:"projectId"`
	ProjectTemplateID *int64 `gorm:"index" json:"projectTemplateId"`
	ProjectGroupID    *int64 `gorm:"index" json:"projectGroupId"`

	Name        string  `gorm:"size:255;not null;index" json:"name"`
	Description *string `gorm:"type:text" json:"description"`
	Website     *string `gorm:"size:2048" json:"website"`

	CreationDate time.Time `gorm:"not null;autoCreateTime" json:"creationDate"`
	IsActive     bool      `gorm:"not null;default:true" json:"isActive"`
	Status       string    `gorm:"size:255;not null;index" json:"status"`

	WorkingHours    *int `json:"workingHours"`
	WorkingDays     *int `json:"workingDays"`
	NonWorkingHours *int `json:"nonWorkingHours"`

	StartDate       *time.Time `gorm:"type:date" json:"startDate"`
	EndDate         *time.Time `gorm:"type:date" json:"endDate"`
	PercentComplete *int       `json:"percentComplete"`

	IsDeleted bool       `gorm:"not null;default:false" json:"isDeleted"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

func (Project) TableName() string {
	return "projects"
}
