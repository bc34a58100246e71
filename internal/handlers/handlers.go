package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	stdctx "context"

	"server-swamp/internal/auth"
	"server-swamp/internal/database"
	"server-swamp/internal/engine"
	"server-swamp/internal/engine/actors"
	"server-swamp/internal/middleware"
	"server-swamp/internal/models"
	"server-swamp/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Server holds all server dependencies, including the actor system and engine
type Server struct {
	System         *actor.ActorSystem
	Context        *actor.RootContext
	Engine         *engine.Engine
	Auth           *auth.Service
	JWT            *middleware.JWT
	Metrics        *utils.MetricsCollector
	MongoDB        *database.MongoDB
	RequestTimeout time.Duration
}

// NewServer creates a new Server instance with the given components
func NewServer(
	system *actor.ActorSystem,
	eng *engine.Engine,
	authService *auth.Service,
	jwtMiddleware *middleware.JWT,
	metrics *utils.MetricsCollector,
	mongodb *database.MongoDB,
) *Server {
	return &Server{
		System:         system,
		Context:        system.Root,
		Engine:         eng,
		Auth:           authService,
		JWT:            jwtMiddleware,
		Metrics:        metrics,
		MongoDB:        mongodb,
		RequestTimeout: 5 * time.Second, // Default timeout for actor requests
	}
}

// Routes wires every handler onto a mux with the right auth wrapper.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Unprotected
	mux.HandleFunc("/health", s.HandleHealth())
	mux.HandleFunc("/user/register", s.HandleRegister())
	mux.HandleFunc("/user/login", s.HandleLogin())

	// Public reads; the actor id is attached when a token is present
	mux.HandleFunc("/listings", s.JWT.WrapOptional(s.HandleQueryListings()))
	mux.HandleFunc("/listing", s.JWT.WrapOptional(s.HandleListing()))

	// Authenticated
	mux.HandleFunc("/profile", s.JWT.Wrap(s.HandleProfile()))
	mux.HandleFunc("/listing/vote", s.JWT.Wrap(s.HandleVote()))
	mux.HandleFunc("/listing/feature", s.JWT.Wrap(s.HandleFeature()))
	mux.HandleFunc("/report", s.JWT.Wrap(s.HandleFileReport()))

	// Admin surface; role checks happen inside the actors
	mux.HandleFunc("/admin/listing/status", s.JWT.Wrap(s.HandleSetStatus()))
	mux.HandleFunc("/admin/listing", s.JWT.Wrap(s.HandleDeleteListing()))
	mux.HandleFunc("/admin/listing/feature", s.JWT.Wrap(s.HandleFeature()))
	mux.HandleFunc("/admin/listing/unfeature", s.JWT.Wrap(s.HandleUnfeature()))
	mux.HandleFunc("/admin/reports", s.JWT.Wrap(s.HandleListReports()))
	mux.HandleFunc("/admin/report/resolve", s.JWT.Wrap(s.HandleResolveReport()))

	return mux
}

// ask sends a message to an actor and waits for the reply. An actor
// reply that is an AppError is returned as the error.
func (s *Server) ask(pid *actor.PID, msg interface{}) (interface{}, error) {
	future := s.Context.RequestFuture(pid, msg, s.RequestTimeout)
	result, err := future.Result()
	if err != nil {
		return nil, utils.NewAppError(utils.ErrActorTimeout, "The request timed out, please try again", err)
	}
	if appErr, ok := result.(*utils.AppError); ok {
		return nil, appErr
	}
	return result, nil
}

// actorID returns the authenticated user id from the request context,
// or uuid.Nil for anonymous requests.
func actorID(r *http.Request) uuid.UUID {
	id, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil
	}
	return id
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// errorResponse is the JSON shape every rejection is rendered as. The
// structured fields carry enough detail for a specific user message.
type errorResponse struct {
	Error          string            `json:"error"`
	Code           string            `json:"code"`
	HoursRemaining int               `json:"hoursRemaining,omitempty"`
	Fields         map[string]string `json:"fields,omitempty"`
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	s.Metrics.IncrementErrors()

	if appErr, ok := err.(*utils.AppError); ok {
		s.respondJSON(w, utils.AppErrorToHTTPStatus(appErr.Code), errorResponse{
			Error:          appErr.Message,
			Code:           appErr.Code,
			HoursRemaining: appErr.HoursRemaining,
			Fields:         appErr.FieldErrors,
		})
		return
	}

	s.respondJSON(w, http.StatusInternalServerError, errorResponse{
		Error: "Internal server error",
		Code:  "INTERNAL",
	})
}

// HandleHealth reports store reachability, entity counts and metrics
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		ctx, cancel := stdctx.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := s.MongoDB.Ping(ctx); err != nil {
			s.respondJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  "store unreachable",
			})
			return
		}

		result, err := s.ask(s.Engine.GetListingActor(), &actors.GetCountsMsg{})
		if err != nil {
			s.respondError(w, err)
			return
		}
		listingCount := result.(int)

		pendingReports, err := s.MongoDB.CountReports(ctx, models.ReportPending)
		if err != nil {
			s.respondError(w, err)
			return
		}

		requests, errorCount, uptime := s.Metrics.Snapshot()
		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"status":          "healthy",
			"listing_count":   listingCount,
			"pending_reports": pendingReports,
			"request_count":   requests,
			"error_count":     errorCount,
			"uptime_seconds":  int(uptime.Seconds()),
			"avg_vote_ms":     s.Metrics.AverageLatency("cast_vote").Milliseconds(),
			"avg_query_ms":    s.Metrics.AverageLatency("query_listings").Milliseconds(),
			"server_time":     time.Now(),
		})
	}
}
