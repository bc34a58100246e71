package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"server-swamp/internal/engine/actors"
	"server-swamp/internal/models"

	"github.com/google/uuid"
)

// SetStatusRequest represents a moderation decision
type SetStatusRequest struct {
	ListingID string `json:"listingId"`
	Status    string `json:"status"`
}

// UnfeatureRequest identifies the listing to demote
type UnfeatureRequest struct {
	ListingID string `json:"listingId"`
}

// HandleSetStatus applies a moderation decision to a listing
func (s *Server) HandleSetStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.Metrics.IncrementRequests()

		var req SetStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request format", http.StatusBadRequest)
			return
		}

		listingID, err := uuid.Parse(req.ListingID)
		if err != nil {
			http.Error(w, "Invalid listingId format", http.StatusBadRequest)
			return
		}

		result, askErr := s.ask(s.Engine.GetListingActor(), &actors.SetListingStatusMsg{
			ListingID: listingID,
			Status:    models.ListingStatus(req.Status),
			ActorID:   actorID(r),
		})
		if askErr != nil {
			s.respondError(w, askErr)
			return
		}

		listing := result.(*models.Listing)
		s.respondJSON(w, http.StatusOK, toListingView(listing, time.Now()))
	}
}

// HandleDeleteListing removes a listing from the directory
func (s *Server) HandleDeleteListing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.Metrics.IncrementRequests()

		listingID, err := uuid.Parse(r.URL.Query().Get("id"))
		if err != nil {
			http.Error(w, "Invalid listing id", http.StatusBadRequest)
			return
		}

		_, askErr := s.ask(s.Engine.GetListingActor(), &actors.DeleteListingMsg{
			ListingID: listingID,
			ActorID:   actorID(r),
		})
		if askErr != nil {
			s.respondError(w, askErr)
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// HandleUnfeature ends a listing's promotion window immediately
func (s *Server) HandleUnfeature() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.Metrics.IncrementRequests()

		var req UnfeatureRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request format", http.StatusBadRequest)
			return
		}

		listingID, err := uuid.Parse(req.ListingID)
		if err != nil {
			http.Error(w, "Invalid listingId format", http.StatusBadRequest)
			return
		}

		result, askErr := s.ask(s.Engine.GetListingActor(), &actors.UnfeatureListingMsg{
			ListingID: listingID,
			ActorID:   actorID(r),
		})
		if askErr != nil {
			s.respondError(w, askErr)
			return
		}

		listing := result.(*models.Listing)
		s.respondJSON(w, http.StatusOK, toListingView(listing, time.Now()))
	}
}
