package model

type Category struct {
	BaseModel
	Name      string `db:"name" json:"name"`
	SortOrder int    `db:"sort_order" json:"sort_order"`
	IsSystem  bool   `db:"is_system" json:"is_system"`

	Fields []FieldDefinition `db:"-" json:"fields,omitempty"`
}

// FieldDefinition is one entry of a category's ordered field schema. It
// drives which keys appear in an item's field bag and how they are edited.
type FieldDefinition struct {
	BaseModel
	CategoryID    string     `db:"category_id" json:"category_id"`
	Name          string     `db:"name" json:"name"`
	Type          FieldType  `db:"type" json:"type"`
	PickerOptions StringList `db:"picker_options" json:"picker_options,omitempty"`
	SortOrder     int        `db:"sort_order" json:"sort_order"`
}
