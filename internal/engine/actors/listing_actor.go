package actors

import (
	"log"
	"time"

	stdctx "context"

	"server-swamp/internal/database"
	"server-swamp/internal/models"
	"server-swamp/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for Listing operations
type (
	CreateListingMsg struct {
		Draft       models.ListingDraft
		SubmitterID uuid.UUID
	}

	GetListingMsg struct {
		ListingID uuid.UUID
	}

	QueryListingsMsg struct {
		Game        string
		SortKey     string
		Search      string
		StatusScope string
		OwnerID     *uuid.UUID
		ActorID     uuid.UUID // uuid.Nil for anonymous public queries
	}

	SetListingStatusMsg struct {
		ListingID uuid.UUID
		Status    models.ListingStatus
		ActorID   uuid.UUID
	}

	DeleteListingMsg struct {
		ListingID uuid.UUID
		ActorID   uuid.UUID
	}

	FeatureListingMsg struct {
		ListingID    uuid.UUID
		ActorID      uuid.UUID
		DurationDays int // 0 means an indefinite promotion
		// PaymentVerified is set only by the payment-callback surface;
		// the self-serve path requires it together with ownership.
		PaymentVerified bool
	}

	UnfeatureListingMsg struct {
		ListingID uuid.UUID
		ActorID   uuid.UUID
	}

	GetCountsMsg struct{}
)

// ListingActor owns every listing mutation except the vote counter,
// which belongs to the VoteActor so the cooldown check and the
// increment share one atomic unit.
type ListingActor struct {
	store    ListingStore
	profiles ProfileStore
	statsPID *actor.PID // initial probe requests, best-effort
	metrics  *utils.MetricsCollector
}

// NewListingActor builds the actor. statsPID may be nil in tests; the
// stats actor is spawned first so the PID is known at construction.
func NewListingActor(store ListingStore, profiles ProfileStore, statsPID *actor.PID, metrics *utils.MetricsCollector) *ListingActor {
	return &ListingActor{
		store:    store,
		profiles: profiles,
		statsPID: statsPID,
		metrics:  metrics,
	}
}

// resolveActor loads the acting user's profile. A nil actor id is an
// unauthenticated request; an unknown id resolves to Unauthorized.
func (a *ListingActor) resolveActor(ctx stdctx.Context, actorID uuid.UUID) (*models.UserProfile, *utils.AppError) {
	if actorID == uuid.Nil {
		return nil, utils.NewUnauthenticatedError()
	}
	profile, err := a.profiles.GetUserProfile(ctx, actorID)
	if err != nil {
		if utils.IsErrorCode(err, utils.ErrNotFound) {
			return nil, utils.NewUnauthorizedError("unknown actor")
		}
		if appErr, ok := err.(*utils.AppError); ok {
			return nil, appErr
		}
		return nil, utils.NewStoreUnavailableError(err)
	}
	return profile, nil
}

func (a *ListingActor) requireAdmin(ctx stdctx.Context, actorID uuid.UUID) *utils.AppError {
	profile, appErr := a.resolveActor(ctx, actorID)
	if appErr != nil {
		return appErr
	}
	if !profile.IsAdmin() {
		return utils.NewUnauthorizedError("admin role required")
	}
	return nil
}

func (a *ListingActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *CreateListingMsg:
		startTime := time.Now()
		ctx := stdctx.Background()

		if msg.SubmitterID == uuid.Nil {
			context.Respond(utils.NewUnauthenticatedError())
			return
		}
		if problems := msg.Draft.Validate(); len(problems) > 0 {
			context.Respond(utils.NewValidationError(problems))
			return
		}

		listing := &models.Listing{
			ID:          uuid.New(),
			Name:        msg.Draft.Name,
			Host:        msg.Draft.Host,
			Port:        msg.Draft.Port,
			Game:        msg.Draft.Game,
			Description: msg.Draft.Description,
			BannerURL:   msg.Draft.BannerURL,
			LogoURL:     msg.Draft.LogoURL,
			Tags:        msg.Draft.Tags,
			Status:      models.StatusPending,
			Votes:       0,
			Featured:    false,
			SubmittedBy: msg.SubmitterID,
			SubmittedAt: time.Now(),
		}

		if err := a.store.SaveListing(ctx, listing); err != nil {
			log.Printf("Failed to save listing %s: %v", listing.ID, err)
			context.Respond(err)
			return
		}

		// Request an initial liveness snapshot; failure leaves the
		// offline/zero defaults and never fails creation.
		if a.statsPID != nil {
			context.Send(a.statsPID, &RefreshListingMsg{ListingID: listing.ID})
		}

		a.metrics.AddOperationLatency("create_listing", time.Since(startTime))
		log.Printf("Created listing %s (%s) by %s", listing.ID, listing.Name, msg.SubmitterID)
		context.Respond(listing)

	case *GetListingMsg:
		ctx := stdctx.Background()
		listing, err := a.store.GetListing(ctx, msg.ListingID)
		if err != nil {
			context.Respond(err)
			return
		}
		context.Respond(listing)

	case *QueryListingsMsg:
		startTime := time.Now()
		ctx := stdctx.Background()

		scope := msg.StatusScope
		if scope == "" {
			scope = database.ScopeApproved
		}

		// Non-approved scopes are privileged: admins, or a user asking
		// for their own submissions.
		if scope != database.ScopeApproved {
			ownScope := msg.OwnerID != nil && msg.ActorID != uuid.Nil && *msg.OwnerID == msg.ActorID
			if !ownScope {
				if appErr := a.requireAdmin(ctx, msg.ActorID); appErr != nil {
					context.Respond(appErr)
					return
				}
			}
		}

		listings, err := a.store.QueryListings(ctx, database.ListingQuery{
			Game:        msg.Game,
			SortKey:     msg.SortKey,
			Search:      msg.Search,
			StatusScope: scope,
			OwnerID:     msg.OwnerID,
		}, time.Now())
		if err != nil {
			context.Respond(err)
			return
		}

		a.metrics.AddOperationLatency("query_listings", time.Since(startTime))
		context.Respond(listings)

	case *SetListingStatusMsg:
		ctx := stdctx.Background()

		if appErr := a.requireAdmin(ctx, msg.ActorID); appErr != nil {
			context.Respond(appErr)
			return
		}
		if !models.IsValidListingStatus(msg.Status) {
			context.Respond(utils.NewValidationError(map[string]string{
				"status": "status must be pending, approved or rejected",
			}))
			return
		}

		listing, err := a.store.SetListingStatus(ctx, msg.ListingID, msg.Status)
		if err != nil {
			context.Respond(err)
			return
		}

		log.Printf("Listing %s moved to %s by admin %s", msg.ListingID, msg.Status, msg.ActorID)
		context.Respond(listing)

	case *DeleteListingMsg:
		ctx := stdctx.Background()

		if appErr := a.requireAdmin(ctx, msg.ActorID); appErr != nil {
			context.Respond(appErr)
			return
		}

		if err := a.store.DeleteListing(ctx, msg.ListingID); err != nil {
			context.Respond(err)
			return
		}

		log.Printf("Listing %s deleted by admin %s", msg.ListingID, msg.ActorID)
		context.Respond(true)

	case *FeatureListingMsg:
		ctx := stdctx.Background()

		profile, appErr := a.resolveActor(ctx, msg.ActorID)
		if appErr != nil {
			context.Respond(appErr)
			return
		}

		if !profile.IsAdmin() {
			// Self-serve path: the submitter may feature their own
			// listing once the payment step has been confirmed.
			listing, err := a.store.GetListing(ctx, msg.ListingID)
			if err != nil {
				context.Respond(err)
				return
			}
			if listing.SubmittedBy != msg.ActorID {
				context.Respond(utils.NewUnauthorizedError("only the submitter may feature this listing"))
				return
			}
			if !msg.PaymentVerified {
				context.Respond(utils.NewUnauthorizedError("payment confirmation required"))
				return
			}
		}

		var until *time.Time
		if msg.DurationDays > 0 {
			t := time.Now().AddDate(0, 0, msg.DurationDays)
			until = &t
		}

		listing, err := a.store.SetListingFeatured(ctx, msg.ListingID, true, until)
		if err != nil {
			context.Respond(err)
			return
		}

		log.Printf("Listing %s featured by %s (days=%d)", msg.ListingID, msg.ActorID, msg.DurationDays)
		context.Respond(listing)

	case *UnfeatureListingMsg:
		ctx := stdctx.Background()

		if appErr := a.requireAdmin(ctx, msg.ActorID); appErr != nil {
			context.Respond(appErr)
			return
		}

		listing, err := a.store.SetListingFeatured(ctx, msg.ListingID, false, nil)
		if err != nil {
			context.Respond(err)
			return
		}

		log.Printf("Listing %s unfeatured by admin %s", msg.ListingID, msg.ActorID)
		context.Respond(listing)

	case *GetCountsMsg:
		ctx := stdctx.Background()
		count, err := a.store.CountListings(ctx)
		if err != nil {
			context.Respond(err)
			return
		}
		context.Respond(int(count))
	}
}
