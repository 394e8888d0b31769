package types

import (
	"time"

	"gorm.io/datatypes"
)

// Project owns one graph partition (project_id on every node) and one
// relational partition (readings, categories).
type Project struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"column:name;not null" json:"name"`
	UtilityType string         `gorm:"column:utility_type;not null;default:'multi'" json:"utility_type"`
	Metadata    datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`

	// NodeCount is filled from the graph store on read; not persisted.
	NodeCount int64 `gorm:"-" json:"node_count"`
}

func (Project) TableName() string {
	return "projects"
}

// Category is a per-project (node_type, category_name) registry entry,
// unique on the triple.
type Category struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID    int64     `gorm:"column:project_id;not null;uniqueIndex:uq_category_triple;index" json:"project_id"`
	Project      *Project  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"-"`
	NodeType     string    `gorm:"column:node_type;not null;uniqueIndex:uq_category_triple" json:"node_type"`
	CategoryName string    `gorm:"column:category_name;not null;uniqueIndex:uq_category_triple" json:"category_name"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Category) TableName() string {
	return "categories"
}
