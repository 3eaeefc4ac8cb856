package analytics

import (
	"testing"

	"github.com/garrettladley/moyo/internal/model"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		systolic  int
		diastolic int
		expected  model.Category
	}{
		{name: "normal", systolic: 119, diastolic: 79, expected: model.CategoryNormal},
		{name: "elevated", systolic: 125, diastolic: 79, expected: model.CategoryElevated},
		{name: "elevated lower bound", systolic: 120, diastolic: 60, expected: model.CategoryElevated},
		{name: "stage 1", systolic: 135, diastolic: 85, expected: model.CategoryHighStage1},
		{name: "stage 1 by diastolic alone", systolic: 110, diastolic: 80, expected: model.CategoryHighStage1},
		{name: "stage 1 by systolic alone", systolic: 130, diastolic: 70, expected: model.CategoryHighStage1},
		{name: "stage 2", systolic: 145, diastolic: 95, expected: model.CategoryHighStage2},
		{name: "stage 2 by diastolic alone", systolic: 110, diastolic: 92, expected: model.CategoryHighStage2},
		{name: "stage 2 by systolic alone", systolic: 140, diastolic: 70, expected: model.CategoryHighStage2},
		{name: "elevated systolic with stage 1 diastolic", systolic: 125, diastolic: 85, expected: model.CategoryHighStage1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tt.systolic, tt.diastolic); got != tt.expected {
				t.Errorf("Classify(%d, %d) = %q, want %q", tt.systolic, tt.diastolic, got, tt.expected)
			}
		})
	}
}

func TestCategoryOf(t *testing.T) {
	t.Parallel()

	server := model.CategoryNormal
	withServer := model.Reading{Systolic: 150, Diastolic: 95, Category: &server}
	withoutServer := model.Reading{Systolic: 150, Diastolic: 95}
	invalid := model.Reading{Systolic: 0, Diastolic: 95}

	tests := []struct {
		name     string
		reading  model.Reading
		mode     CategoryMode
		expected model.Category
	}{
		{name: "trust server keeps server value", reading: withServer, mode: ModeTrustServer, expected: model.CategoryNormal},
		{name: "trust server without value is unknown", reading: withoutServer, mode: ModeTrustServer, expected: model.CategoryUnknown},
		{name: "compute local ignores server value", reading: withServer, mode: ModeComputeLocal, expected: model.CategoryHighStage2},
		{name: "prefer server keeps server value", reading: withServer, mode: ModePreferServer, expected: model.CategoryNormal},
		{name: "prefer server falls back", reading: withoutServer, mode: ModePreferServer, expected: model.CategoryHighStage2},
		{name: "non-positive never classified", reading: invalid, mode: ModeComputeLocal, expected: model.CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := CategoryOf(tt.reading, tt.mode); got != tt.expected {
				t.Errorf("CategoryOf() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAnnotateDoesNotOverwrite(t *testing.T) {
	t.Parallel()

	server := model.CategoryElevated
	r := Annotate(model.Reading{Systolic: 160, Diastolic: 100, Category: &server})
	if *r.Category != model.CategoryElevated {
		t.Errorf("Annotate() category = %q, want %q", *r.Category, model.CategoryElevated)
	}

	r = Annotate(model.Reading{Systolic: 160, Diastolic: 100})
	if r.Category == nil || *r.Category != model.CategoryHighStage2 {
		t.Errorf("Annotate() category = %v, want %q", r.Category, model.CategoryHighStage2)
	}
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	if m, err := ParseMode(""); err != nil || m != ModeTrustServer {
		t.Errorf("ParseMode(\"\") = %q, %v, want %q, nil", m, err, ModeTrustServer)
	}
	if _, err := ParseMode("guess"); err == nil {
		t.Error("ParseMode(\"guess\") error = nil, want error")
	}
}
