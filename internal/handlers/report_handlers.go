package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"server-swamp/internal/engine/actors"
	"server-swamp/internal/models"
	"server-swamp/internal/utils"

	"github.com/google/uuid"
)

// FileReportRequest represents a user flagging a listing
type FileReportRequest struct {
	ListingID   string `json:"listingId"`
	Reason      string `json:"reason"`
	Description string `json:"description"`
}

// ResolveReportRequest records an admin's verdict on a report
type ResolveReportRequest struct {
	ReportID   string `json:"reportId"`
	Status     string `json:"status"`
	AdminNotes string `json:"adminNotes"`
}

type reportView struct {
	ID           string     `json:"id"`
	ListingID    string     `json:"listingId"`
	ListingName  string     `json:"listingName"`
	ReporterID   string     `json:"reporterId"`
	ReporterName string     `json:"reporterName,omitempty"`
	Reason       string     `json:"reason"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	AdminNotes   string     `json:"adminNotes,omitempty"`
	ResolvedBy   string     `json:"resolvedBy,omitempty"`
	ResolvedAt   *time.Time `json:"resolvedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func toReportView(rep *models.Report) reportView {
	view := reportView{
		ID:           rep.ID.String(),
		ListingID:    rep.ListingID.String(),
		ListingName:  rep.ListingName,
		ReporterID:   rep.ReporterID.String(),
		ReporterName: rep.ReporterName,
		Reason:       string(rep.Reason),
		Description:  rep.Description,
		Status:       string(rep.Status),
		AdminNotes:   rep.AdminNotes,
		ResolvedAt:   rep.ResolvedAt,
		CreatedAt:    rep.CreatedAt,
	}
	if rep.ResolvedBy != nil {
		view.ResolvedBy = rep.ResolvedBy.String()
	}
	return view
}

// HandleFileReport files a report against a listing
func (s *Server) HandleFileReport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.Metrics.IncrementRequests()

		reporterID := actorID(r)
		if reporterID == uuid.Nil {
			s.respondError(w, utils.NewUnauthenticatedError())
			return
		}

		var req FileReportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request format", http.StatusBadRequest)
			return
		}

		listingID, err := uuid.Parse(req.ListingID)
		if err != nil {
			http.Error(w, "Invalid listingId format", http.StatusBadRequest)
			return
		}

		result, askErr := s.ask(s.Engine.GetReportActor(), &actors.FileReportMsg{
			ListingID:   listingID,
			ReporterID:  reporterID,
			Reason:      models.ReportReason(req.Reason),
			Description: req.Description,
		})
		if askErr != nil {
			s.respondError(w, askErr)
			return
		}

		report := result.(*models.Report)
		s.respondJSON(w, http.StatusCreated, toReportView(report))
	}
}

// HandleListReports lists reports for the admin console, optionally
// filtered by status
func (s *Server) HandleListReports() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.Metrics.IncrementRequests()

		result, askErr := s.ask(s.Engine.GetReportActor(), &actors.ListReportsMsg{
			Status:  models.ReportStatus(r.URL.Query().Get("status")),
			ActorID: actorID(r),
		})
		if askErr != nil {
			s.respondError(w, askErr)
			return
		}

		reports := result.([]*models.Report)
		views := make([]reportView, 0, len(reports))
		for _, rep := range reports {
			views = append(views, toReportView(rep))
		}
		s.respondJSON(w, http.StatusOK, views)
	}
}

// HandleResolveReport records an admin verdict on a report
func (s *Server) HandleResolveReport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.Metrics.IncrementRequests()

		var req ResolveReportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request format", http.StatusBadRequest)
			return
		}

		reportID, err := uuid.Parse(req.ReportID)
		if err != nil {
			http.Error(w, "Invalid reportId format", http.StatusBadRequest)
			return
		}

		result, askErr := s.ask(s.Engine.GetReportActor(), &actors.ResolveReportMsg{
			ReportID: reportID,
			Status:   models.ReportStatus(req.Status),
			Notes:    req.AdminNotes,
			ActorID:  actorID(r),
		})
		if askErr != nil {
			s.respondError(w, askErr)
			return
		}

		report := result.(*models.Report)
		s.respondJSON(w, http.StatusOK, toReportView(report))
	}
}
