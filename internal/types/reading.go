package types

import "time"

// Reading is one time-series data point for a meter node. The table is a
// TimescaleDB hypertable keyed by (time, project_id, node_id); there is no
// surrogate primary key.
type Reading struct {
	Time      time.Time `gorm:"column:time;not null;index:idx_readings_node,priority:3" json:"time"`
	ProjectID int64     `gorm:"column:project_id;not null;index:idx_readings_node,priority:1" json:"project_id"`
	NodeID    string    `gorm:"column:node_id;not null;index:idx_readings_node,priority:2" json:"node_id"`
	Value     float64   `gorm:"column:value;not null" json:"value"`
	Unit      string    `gorm:"column:unit;not null" json:"unit"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Reading) TableName() string {
	return "readings"
}

// DailyReading is one row of the pre-aggregated daily rollup
// (a continuous aggregate over readings; read-only).
type DailyReading struct {
	Day          time.Time `gorm:"column:day" json:"day"`
	AvgValue     float64   `gorm:"column:avg_value" json:"avg_value"`
	MinValue     float64   `gorm:"column:min_value" json:"min_value"`
	MaxValue     float64   `gorm:"column:max_value" json:"max_value"`
	ReadingCount int64     `gorm:"column:reading_count" json:"reading_count"`
}

func (DailyReading) TableName() string {
	return "daily_readings"
}

// ExportReading is the trimmed shape used by project export.
type ExportReading struct {
	Time   time.Time `gorm:"column:time" json:"time"`
	NodeID string    `gorm:"column:node_id" json:"node_id"`
	Value  float64   `gorm:"column:value" json:"value"`
	Unit   string    `gorm:"column:unit" json:"unit"`
}
