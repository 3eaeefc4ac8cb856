package model

import "strings"

// Category is the AHA blood pressure band of a reading.
type Category string

const (
	CategoryNormal     Category = "normal"
	CategoryElevated   Category = "elevated"
	CategoryHighStage1 Category = "high_stage1"
	CategoryHighStage2 Category = "high_stage2"

	// CategoryUnknown marks a reading that has no category to show.
	CategoryUnknown Category = ""
)

var Categories = []Category{
	CategoryNormal,
	CategoryElevated,
	CategoryHighStage1,
	CategoryHighStage2,
}

func (c Category) Valid() bool {
	switch c {
	case CategoryNormal, CategoryElevated, CategoryHighStage1, CategoryHighStage2:
		return true
	default:
		return false
	}
}

// Label renders the category for display, e.g. "HIGH STAGE1".
func (c Category) Label() string {
	if !c.Valid() {
		return "N/A"
	}
	return strings.ToUpper(strings.Replace(string(c), "_", " ", 1))
}

func (c Category) String() string { return string(c) }
