package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// RingSize is a purchasable size option nested under a metal variation.
type RingSize struct {
	Size         string          `json:"productSize"`
	RegularPrice decimal.Decimal `json:"regularPrice"`
	SalePrice    decimal.Decimal `json:"salePrice"`
	Quantity     int             `json:"quantity"`
}

// NamedImage is a {name, image} pair used for diamond shapes and shanks.
type NamedImage struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// MetalVariation holds everything selectable once a metal is chosen.
type MetalVariation struct {
	Metal         string       `json:"metal"`
	Quantity      int          `json:"quantity"`
	Images        []string     `json:"images"`
	DiamondShapes []NamedImage `json:"diamondShape"`
	Shanks        []NamedImage `json:"shank"`
	RingSizes     []RingSize   `json:"ringSizes"`
}

// MetalVariations is the JSONB payload stored per product variation row.
type MetalVariations []MetalVariation

// Value marshals the list into JSON for Postgres.
func (m MetalVariations) Value() (driver.Value, error) {
	if m == nil {
		return "[]", nil
	}
	buf, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the list.
func (m *MetalVariations) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}

	var buf []byte
	switch v := value.(type) {
	case []byte:
		buf = v
	case string:
		buf = []byte(v)
	default:
		return fmt.Errorf("metal variations: unsupported Scan type %T", value)
	}

	return json.Unmarshal(buf, m)
}

// PriceRange is the min/max sale price derived from nested ring sizes.
type PriceRange struct {
	Min decimal.Decimal `json:"minPrice"`
	Max decimal.Decimal `json:"maxPrice"`
}
