package models

import (
	"database/sql/driver"
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// ImageList is an ordered list of image URLs stored as a JSON array column.
type ImageList []string

// Scan never fails on malformed JSON: a stored value that cannot be decoded
// reads back as an empty list.
func (l *ImageList) Scan(value interface{}) error {
	if value == nil {
		*l = ImageList{}
		return nil
	}

	var raw datatypes.JSON
	if err := raw.Scan(value); err != nil {
		*l = ImageList{}
		return nil
	}

	var urls []string
	if err := json.Unmarshal(raw, &urls); err != nil || urls == nil {
		*l = ImageList{}
		return nil
	}
	*l = urls
	return nil
}

// Value encodes the list as a JSON string so both jsonb (postgres) and
// JSON text columns (sqlite) accept it.
func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (ImageList) GormDataType() string {
	return "json"
}

// GormDBDataType resolves to JSONB on postgres and JSON elsewhere.
func (ImageList) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return datatypes.JSON(nil).GormDBDataType(db, field)
}
