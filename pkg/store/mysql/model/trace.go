package model

import "time"

// Trace MySQL model for traces table
type Trace struct {
	ID                int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	FileName          string     `gorm:"column:file_name;type:varchar(255);not null" json:"file_name"`
	FilePath          string     `gorm:"column:file_path;type:varchar(1000);not null" json:"file_path"`
	UploadTime        time.Time  `gorm:"column:upload_time;type:datetime(3);not null;index:idx_upload_time" json:"upload_time"`
	LastExecutionTime *time.Time `gorm:"column:last_execution_time;type:datetime(3)" json:"last_execution_time,omitempty"`
	Status            string     `gorm:"column:status;type:varchar(32);not null;index:idx_status" json:"status"`
	HardwareConfig    *string    `gorm:"column:hardware_config;type:varchar(255)" json:"hardware_config,omitempty"`
}

// TableName specifies the table name for Trace
func (Trace) TableName() string {
	return "traces"
}
