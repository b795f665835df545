package models

import "github.com/google/uuid"

// Employee represents a member of staff shown on the portfolio site
type Employee struct {
	ID       uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name     string    `json:"name" db:"name" gorm:"type:varchar(255);not null"`
	Position string    `json:"position" db:"position" gorm:"type:varchar(255);not null"`
	Email    string    `json:"email" db:"email" gorm:"type:varchar(255);not null"`
}
