package model

import "time"

type InsightType string

const (
	InsightTypeTrend       InsightType = "trend"
	InsightTypeAnomaly     InsightType = "anomaly"
	InsightTypeCorrelation InsightType = "correlation"
	InsightTypeAlert       InsightType = "alert"
)

func (t InsightType) Valid() bool {
	switch t {
	case InsightTypeTrend, InsightTypeAnomaly, InsightTypeCorrelation, InsightTypeAlert:
		return true
	default:
		return false
	}
}

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	default:
		return false
	}
}

type UserInsight struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"user"`
	UserEmail   string      `json:"user_email,omitempty"`
	InsightText string      `json:"insight_text"`
	InsightType InsightType `json:"insight_type"`
	GeneratedAt time.Time   `json:"generated_at"`
	IsRead      bool        `json:"is_read"`
	Severity    Severity    `json:"severity"`
}
