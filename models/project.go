package models

import (
	"time"

	"github.com/google/uuid"
)

// Project represents a portfolio project with its gallery images
type Project struct {
	ID          uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name        string    `json:"name" db:"name" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" db:"description" gorm:"type:text;not null"`
	Images      ImageList `json:"images" db:"images" gorm:"not null"`
	Category    string    `json:"category" db:"category" gorm:"type:varchar(100);not null;index:idx_projects_category"`
	CreatedAt   time.Time `json:"created_at" db:"created_at" gorm:"not null;autoCreateTime;index:idx_projects_created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at" gorm:"not null;autoUpdateTime"`
}
