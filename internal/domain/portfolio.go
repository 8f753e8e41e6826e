package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Portfolio is the top of the ownership tree. At most one row may carry
// IsDefault=true across the whole table; the partial unique index is the
// storage-level backstop for the service-level clear-then-set.
type Portfolio struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"size:200;not null;uniqueIndex" json:"name"`
	Description *string `gorm:"type:text" json:"description"`
	Website     *string `gorm:"size:300" json:"website"`

	WorkspaceTypeID *int64 `json:"workspaceTypeId"`
	ArtifactTypeID  *int64 `json:"artifactTypeId"`

	GUID             uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"guid"`
	ConcurrencyToken uuid.UUID `gorm:"type:uuid;not null" json:"concurrencyToken"`

	IsActive  bool `gorm:"not null;default:true" json:"isActive"`
	IsDefault bool `gorm:"not null;default:false;uniqueIndex:uq_portfolio_default_singleton,where:is_default" json:"isDefault"`

	IsDeleted bool       `gorm:"not null;default:false" json:"isDeleted"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`

	CustomProps datatypes.JSON `gorm:"column:custom_properties" json:"customProperties,omitempty"`

	LastUpdated time.Time `gorm:"column:last_updated_date;not null;autoUpdateTime" json:"lastUpdatedDate"`

	Programs []Program `gorm:"foreignKey:PortfolioID;constraint:OnDelete:RESTRICT" json:"programs,omitempty"`
}

func (Portfolio) TableName() string {
	return "portfolios"
}
