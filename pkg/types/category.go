package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Style is a named look grouped under a category.
type Style struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Styles is persisted as a JSONB column on categories.
type Styles []Style

func (s Styles) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	buf, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func (s *Styles) Scan(value interface{}) error {
	return scanJSON(value, s, "styles")
}

// Subcategory is a named subdivision of a category.
type Subcategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Subcategories is persisted as a JSONB column on categories.
type Subcategories []Subcategory

func (s Subcategories) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	buf, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func (s *Subcategories) Scan(value interface{}) error {
	return scanJSON(value, s, "subcategories")
}

func scanJSON(value interface{}, dst any, label string) error {
	if value == nil {
		return nil
	}
	var buf []byte
	switch v := value.(type) {
	case []byte:
		buf = v
	case string:
		buf = []byte(v)
	default:
		return fmt.Errorf("%s: unsupported Scan type %T", label, value)
	}
	return json.Unmarshal(buf, dst)
}
