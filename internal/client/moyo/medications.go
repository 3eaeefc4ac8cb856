package moyo

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/garrettladley/moyo/internal/model"
)

type MedicationInput struct {
	Name      string          `json:"name"`
	Dosage    string          `json:"dosage"`
	Frequency model.Frequency `json:"frequency"`
	StartDate model.Date      `json:"start_date"`
	EndDate   *model.Date     `json:"end_date,omitempty"`
	Notes     string          `json:"notes,omitempty"`
}

type DoseInput struct {
	TakenAt *time.Time `json:"taken_at,omitempty"`
	Notes   string    `json:"notes,omitempty"`
}

func (c *Client) Medications(ctx context.Context, activeOnly bool) ([]model.Medication, error) {
	path := "/api/medications"
	if activeOnly {
		path += "/active"
	}
	var meds []model.Medication
	err := c.do(ctx, request{method: http.MethodGet, path: path}, &meds)
	return meds, err
}

func (c *Client) CreateMedication(ctx context.Context, in MedicationInput) (model.Medication, error) {
	var m model.Medication
	err := c.do(ctx, request{method: http.MethodPost, path: "/api/medications", body: in}, &m)
	return m, err
}

// LogDose records a dose; a nil TakenAt lets the server use now.
func (c *Client) LogDose(ctx context.Context, medicationID int64, in DoseInput) (model.MedicationLog, error) {
	var l model.MedicationLog
	path := "/api/medications/" + strconv.FormatInt(medicationID, 10) + "/log-dose"
	err := c.do(ctx, request{method: http.MethodPost, path: path, body: in}, &l)
	return l, err
}
