package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Program belongs to exactly one Portfolio. Its default-singleton invariant
// is scoped per portfolio, unlike Portfolio's global one, so portfolio_id
// joins is_default in the partial unique index.
type Program struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"size:200;not null;uniqueIndex:uq_program_name_per_portfolio,priority:2" json:"name"`
	Description *string `gorm:"type:text" json:"description"`
	Website     *string `gorm:"size:300" json:"website"`

	PortfolioID int64 `gorm:"not null;uniqueIndex:uq_program_name_per_portfolio,priority:1;uniqueIndex:uq_program_default_per_portfolio,priority:1,where:is_default" json:"portfolioId"`

	ProjectTemplateID *int64 `json:"projectTemplateId"`
	WorkspaceTypeID   *int64 `json:"workspaceTypeId"`
	ArtifactTypeID    *int64 `json:"artifactTypeId"`

	GUID             uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"guid"`
	ConcurrencyToken uuid.UUID `gorm:"type:uuid;not null" json:"concurrencyToken"`

	IsActive  bool `gorm:"not null;default:true" json:"isActive"`
	IsDefault bool `gorm:"not null;default:false;uniqueIndex:uq_program_default_per_portfolio,priority:2,where:is_default" json:"isDefault"`

	IsDeleted bool       `gorm:"not null;default:false" json:"isDeleted"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`

	CustomProps datatypes.JSON `gorm:"column:custom_properties" json:"customProperties,omitempty"`

	LastUpdated time.Time `gorm:"column:last_updated_date;not null;autoUpdateTime" json:"lastUpdatedDate"`

	Portfolio *Portfolio `gorm:"foreignKey:PortfolioID;constraint:OnDelete:RESTRICT" json:"portfolio,omitempty"`
}

func (Program) TableName() string {
	return "programs"
}
