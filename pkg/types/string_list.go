package types

import (
	"database/sql/driver"
	"encoding/json"
)

// StringList is a JSONB-backed list of strings (image paths mostly).
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	buf, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func (l *StringList) Scan(value interface{}) error {
	return scanJSON(value, l, "string list")
}
