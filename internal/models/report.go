package models

import (
	"time"

	"github.com/google/uuid"
)

// ReportReason is the fixed set of complaint categories.
type ReportReason string

const (
	ReasonOffensiveContent ReportReason = "offensive_content"
	ReasonBrokenServer     ReportReason = "broken_server"
	ReasonWrongInfo        ReportReason = "wrong_info"
	ReasonSpam             ReportReason = "spam"
	ReasonOther            ReportReason = "other"
)

// IsValidReportReason reports whether r is one of the fixed reasons.
func IsValidReportReason(r ReportReason) bool {
	switch r {
	case ReasonOffensiveContent, ReasonBrokenServer, ReasonWrongInfo, ReasonSpam, ReasonOther:
		return true
	}
	return false
}

// ReportStatus is the lifecycle state of a report, independent of the
// target listing's own moderation status.
type ReportStatus string

const (
	ReportPending       ReportStatus = "pending"
	ReportInvestigating ReportStatus = "investigating"
	ReportResolved      ReportStatus = "resolved"
	ReportDismissed     ReportStatus = "dismissed"
)

// IsValidReportStatus reports whether s is a known lifecycle state.
func IsValidReportStatus(s ReportStatus) bool {
	switch s {
	case ReportPending, ReportInvestigating, ReportResolved, ReportDismissed:
		return true
	}
	return false
}

const (
	MinReportDescriptionLen = 10
	MaxReportDescriptionLen = 500
)

// Report is a user-filed complaint against a listing. Listing name and
// reporter name are denormalized for display.
type Report struct {
	ID           uuid.UUID
	ListingID    uuid.UUID
	ListingName  string
	ReporterID   uuid.UUID
	ReporterName string
	Reason       ReportReason
	Description  string
	Status       ReportStatus
	ResolvedBy   *uuid.UUID
	ResolvedAt   *time.Time
	AdminNotes   string
	CreatedAt    time.Time
}
