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

// CreateListingRequest represents a server submission
type CreateListingRequest struct {
	Name        string `json:"name"`
	Host        string `json:"host"`
	Port        int    `json:"port"`
	Game        string `json:"game"`
	Description string `json:"description"`
	BannerURL   string `json:"bannerUrl"`
	LogoURL     string `json:"logoUrl"`
	Tags        string `json:"tags"` // comma-separated, as the form sends it
}

// VoteRequest represents a request to vote for a listing
type VoteRequest struct {
	ListingID string `json:"listingId"`
}

// FeatureRequest represents a promotion request
type FeatureRequest struct {
	ListingID    string `json:"listingId"`
	DurationDays int    `json:"durationDays"`
	// PaymentToken is validated by the out-of-scope payment surface;
	// its presence here marks a confirmed self-serve purchase.
	PaymentToken string `json:"paymentToken"`
}

// listingView is the JSON projection of a listing. Featured reflects
// the promotion window's recency, not the raw stored flag.
type listingView struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Host        string     `json:"host"`
	Port        int        `json:"port"`
	Game        string     `json:"game"`
	Description string     `json:"description"`
	BannerURL   string     `json:"bannerUrl,omitempty"`
	LogoURL     string     `json:"logoUrl,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Status      string     `json:"status"`
	Votes       int        `json:"votes"`
	Online      bool       `json:"online"`
	Players     int        `json:"players"`
	MaxPlayers  int        `json:"maxPlayers"`
	Featured    bool       `json:"featured"`
	FeaturedTil *time.Time `json:"featuredUntil,omitempty"`
	SubmittedAt time.Time  `json:"submittedAt"`
}

func toListingView(l *models.Listing, now time.Time) listingView {
	return listingView{
		ID:          l.ID.String(),
		Name:        l.Name,
		Host:        l.Host,
		Port:        l.Port,
		Game:        l.Game,
		Description: l.Description,
		BannerURL:   l.BannerURL,
		LogoURL:     l.LogoURL,
		Tags:        l.Tags,
		Status:      string(l.Status),
		Votes:       l.Votes,
		Online:      l.Online,
		Players:     l.Players,
		MaxPlayers:  l.MaxPlayers,
		Featured:    l.IsCurrentlyFeatured(now),
		FeaturedTil: l.FeaturedUntil,
		SubmittedAt: l.SubmittedAt,
	}
}

// HandleListing handles GET (fetch one) and POST (create)
func (s *Server) HandleListing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			s.handleGetListing(w, r)
		case http.MethodPost:
			s.handleCreateListing(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) handleGetListing(w http.ResponseWriter, r *http.Request) {
	s.Metrics.IncrementRequests()

	listingID, err := uuid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		http.Error(w, "Invalid listing id", http.StatusBadRequest)
		return
	}

	result, askErr := s.ask(s.Engine.GetListingActor(), &actors.GetListingMsg{ListingID: listingID})
	if askErr != nil {
		s.respondError(w, askErr)
		return
	}

	listing := result.(*models.Listing)
	s.respondJSON(w, http.StatusOK, toListingView(listing, time.Now()))
}

func (s *Server) handleCreateListing(w http.ResponseWriter, r *http.Request) {
	s.Metrics.IncrementRequests()

	submitterID := actorID(r)
	if submitterID == uuid.Nil {
		s.respondError(w, utils.NewUnauthenticatedError())
		return
	}

	var req CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	msg := &actors.CreateListingMsg{
		Draft: models.ListingDraft{
			Name:        req.Name,
			Host:        req.Host,
			Port:        req.Port,
			Game:        req.Game,
			Description: req.Description,
			BannerURL:   req.BannerURL,
			LogoURL:     req.LogoURL,
			Tags:        models.ParseTags(req.Tags),
		},
		SubmitterID: submitterID,
	}

	result, err := s.ask(s.Engine.GetListingActor(), msg)
	if err != nil {
		s.respondError(w, err)
		return
	}

	listing := result.(*models.Listing)
	s.respondJSON(w, http.StatusCreated, toListingView(listing, time.Now()))
}

// HandleQueryListings serves the public directory page and the
// owner/admin scoped views
func (s *Server) HandleQueryListings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.Metrics.IncrementRequests()

		q := r.URL.Query()
		caller := actorID(r)

		msg := &actors.QueryListingsMsg{
			Game:        q.Get("game"),
			SortKey:     q.Get("sort"),
			Search:      q.Get("q"),
			StatusScope: q.Get("scope"),
			ActorID:     caller,
		}
		// "mine" scopes the query to the caller's own submissions,
		// which also unlocks non-approved scopes for them.
		if q.Get("mine") == "true" && caller != uuid.Nil {
			owner := caller
			msg.OwnerID = &owner
		}

		result, err := s.ask(s.Engine.GetListingActor(), msg)
		if err != nil {
			s.respondError(w, err)
			return
		}

		listings := result.([]*models.Listing)
		now := time.Now()
		views := make([]listingView, 0, len(listings))
		for _, l := range listings {
			views = append(views, toListingView(l, now))
		}
		s.respondJSON(w, http.StatusOK, views)
	}
}

// HandleVote casts one vote for the authenticated user
func (s *Server) HandleVote() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.Metrics.IncrementRequests()

		var req VoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request format", http.StatusBadRequest)
			return
		}

		listingID, err := uuid.Parse(req.ListingID)
		if err != nil {
			http.Error(w, "Invalid listingId format", http.StatusBadRequest)
			return
		}

		result, askErr := s.ask(s.Engine.GetVoteActor(), &actors.CastVoteMsg{
			ListingID: listingID,
			UserID:    actorID(r),
		})
		if askErr != nil {
			s.respondError(w, askErr)
			return
		}

		s.respondJSON(w, http.StatusOK, result.(*actors.VoteResult))
	}
}

// HandleFeature serves both the admin path and the self-serve path;
// the actor decides which rules apply from the actor's role.
func (s *Server) HandleFeature() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.Metrics.IncrementRequests()

		var req FeatureRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request format", http.StatusBadRequest)
			return
		}

		listingID, err := uuid.Parse(req.ListingID)
		if err != nil {
			http.Error(w, "Invalid listingId format", http.StatusBadRequest)
			return
		}

		result, askErr := s.ask(s.Engine.GetListingActor(), &actors.FeatureListingMsg{
			ListingID:       listingID,
			ActorID:         actorID(r),
			DurationDays:    req.DurationDays,
			PaymentVerified: req.PaymentToken != "",
		})
		if askErr != nil {
			s.respondError(w, askErr)
			return
		}

		listing := result.(*models.Listing)
		s.respondJSON(w, http.StatusOK, toListingView(listing, time.Now()))
	}
}
