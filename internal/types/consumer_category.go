package types

import "time"

// ConsumerCategorySetting controls how a consumer category renders in the
// UI (icon, color, ordering). Global, not project-scoped.
type ConsumerCategorySetting struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryName string    `gorm:"column:category_name;not null;uniqueIndex" json:"category_name"`
	DisplayName  string    `gorm:"column:display_name;not null" json:"display_name"`
	IconName     string    `gorm:"column:icon_name;not null;default:'box-fill'" json:"icon_name"`
	Color        string    `gorm:"column:color;not null;default:'#868e96'" json:"color"`
	SortOrder    int       `gorm:"column:sort_order;not null;default:50" json:"sort_order"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ConsumerCategorySetting) TableName() string {
	return "consumer_category_settings"
}

// ConsumerCategoryUpdate carries the optional fields of a settings update;
// nil means "leave unchanged".
type ConsumerCategoryUpdate struct {
	DisplayName *string `json:"display_name,omitempty"`
	IconName    *string `json:"icon_name,omitempty"`
	Color       *string `json:"color,omitempty"`
	SortOrder   *int    `json:"sort_order,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}
