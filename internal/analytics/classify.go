package analytics

import (
	"fmt"

	"github.com/garrettladley/moyo/internal/model"
)

// Classify maps a systolic/diastolic pair to its AHA category. The first
// matching band wins, so the more severe of the two measurements decides.
func Classify(systolic, diastolic int) model.Category {
	switch {
	case systolic >= 140 || diastolic >= 90:
		return model.CategoryHighStage2
	case systolic >= 130 || diastolic >= 80:
		return model.CategoryHighStage1
	case systolic >= 120:
		return model.CategoryElevated
	default:
		return model.CategoryNormal
	}
}

// CategoryMode selects where a reading's category comes from.
type CategoryMode string

const (
	// ModeTrustServer uses the server category and never computes one.
	ModeTrustServer CategoryMode = "server"
	// ModeComputeLocal always classifies from the measurements.
	ModeComputeLocal CategoryMode = "local"
	// ModePreferServer uses the server category when present and falls back
	// to classifying locally.
	ModePreferServer CategoryMode = "prefer_server"
)

func ParseMode(s string) (CategoryMode, error) {
	switch m := CategoryMode(s); m {
	case "":
		return ModeTrustServer, nil
	case ModeTrustServer, ModeComputeLocal, ModePreferServer:
		return m, nil
	default:
		return "", fmt.Errorf("unknown category mode %q", s)
	}
}

// CategoryOf resolves the category to display for r under mode.
func CategoryOf(r model.Reading, mode CategoryMode) model.Category {
	server := model.CategoryUnknown
	if r.Category != nil && r.Category.Valid() {
		server = *r.Category
	}

	switch mode {
	case ModeComputeLocal:
		return classifyReading(r)
	case ModePreferServer:
		if server != model.CategoryUnknown {
			return server
		}
		return classifyReading(r)
	default:
		return server
	}
}

// Annotate fills in the category of a reading that does not carry one yet.
// An existing category is left untouched.
func Annotate(r model.Reading) model.Reading {
	if r.Category != nil {
		return r
	}
	if c := classifyReading(r); c != model.CategoryUnknown {
		r.Category = &c
	}
	return r
}

func classifyReading(r model.Reading) model.Category {
	if !validPressure(r) {
		return model.CategoryUnknown
	}
	return Classify(r.Systolic, r.Diastolic)
}

func validPressure(r model.Reading) bool {
	return r.Systolic > 0 && r.Diastolic > 0
}
