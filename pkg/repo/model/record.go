package model

import (
	"time"

	"gorm.io/datatypes"
)

// Analysis is a top-level unit of work (an experiment or project) owning
// zero or more samples.
type Analysis struct {
	BaseModel
	Name       string    `gorm:"type:varchar(50);not null;index:idx_analyses_name" json:"analysis_name"`
	Date       time.Time `gorm:"type:date;not null;default:CURRENT_DATE" json:"date"`
	Department string    `gorm:"type:varchar(20);not null" json:"department"`
	Analyst    string    `gorm:"type:varchar(120);not null" json:"analyst"`
}

func (*Analysis) TableName() string {
	return "analyses"
}

// Sample references its owning analysis through a plain FK column; the
// constraint itself is added in migrate.
type Sample struct {
	BaseModel
	Name        string  `gorm:"type:varchar(30);not null;index:idx_samples_name" json:"sample_name"`
	Type        *string `gorm:"type:varchar(30)" json:"sample_type"`
	Description *string `gorm:"type:varchar(50)" json:"sample_description"`
	AnalysisID  int64   `gorm:"type:bigint;not null;index:idx_samples_analysis_id" json:"analysis_id"`
}

func (*Sample) TableName() string {
	return "samples"
}

// Result holds one measurement record. Metrics is an open key-value
// document; its keys are not validated against any schema.
type Result struct {
	BaseModel
	SampleID int64             `gorm:"type:bigint;not null;index:idx_results_sample_id" json:"sample_id"`
	Metrics  datatypes.JSONMap `gorm:"type:jsonb;not null" json:"metrics"`
}

func (*Result) TableName() string {
	return "results"
}
