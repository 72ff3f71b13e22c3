package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Well-known field keys. Categories may define additional fields; these are
// the ones the service itself reads (display and cost estimation).
const (
	FieldTitle       = "Title"
	FieldBrand       = "Brand"
	FieldProductLine = "Product Line"
	FieldShade       = "Shade"
	FieldNotes       = "Notes"
	FieldCost        = "Cost"
)

type FieldType string

const (
	FieldTypeText    FieldType = "text"
	FieldTypeNumber  FieldType = "number"
	FieldTypeToggle  FieldType = "toggle"
	FieldTypePicker  FieldType = "picker"
	FieldTypeBarcode FieldType = "barcode"
)

// FieldValues is the free-form key -> text bag stored as jsonb. An undefined
// key reads as the empty string, never an error.
type FieldValues map[string]string

func (f FieldValues) Value() (driver.Value, error) {
	if f == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(f)
}

func (f *FieldValues) Scan(src interface{}) error {
	if src == nil {
		*f = FieldValues{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	default:
		return fmt.Errorf("unsupported scan type for FieldValues: %T", src)
	}
}

// StringList is a jsonb-backed string slice (picker options).
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

func (s *StringList) Scan(src interface{}) error {
	if src == nil {
		*s = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported scan type for StringList: %T", src)
	}
}
