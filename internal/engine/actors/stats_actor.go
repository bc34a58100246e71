package actors

import (
	"log"
	"time"

	stdctx "context"

	"server-swamp/internal/models"
	"server-swamp/internal/stats"
	"server-swamp/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for liveness refreshes
type (
	// RefreshListingMsg probes one listing and merges the snapshot.
	RefreshListingMsg struct {
		ListingID uuid.UUID
	}

	// RefreshAllMsg sweeps every approved listing; the main loop sends
	// it on a ticker.
	RefreshAllMsg struct{}
)

// StatsActor runs the out-of-band liveness prober. Probe results are
// advisory: failures collapse to the offline snapshot and are never
// surfaced as request-level errors.
type StatsActor struct {
	listings ListingStore
	prober   stats.Prober
	timeout  time.Duration
	metrics  *utils.MetricsCollector
}

func NewStatsActor(listings ListingStore, prober stats.Prober, timeout time.Duration, metrics *utils.MetricsCollector) *StatsActor {
	return &StatsActor{
		listings: listings,
		prober:   prober,
		timeout:  timeout,
		metrics:  metrics,
	}
}

// refresh probes one listing and writes the snapshot back. The probe
// is bounded by the configured timeout; on any failure the offline
// defaults are stored instead.
func (a *StatsActor) refresh(listing *models.Listing) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), a.timeout)
	defer cancel()

	snapshot, err := a.prober.Probe(ctx, listing.Host, listing.Port)
	if err != nil {
		snapshot = stats.Offline
	}

	writeCtx := stdctx.Background()
	if err := a.listings.UpdateListingLiveness(writeCtx, listing.ID, snapshot.Online, snapshot.Players, snapshot.MaxPlayers); err != nil {
		// The listing may have been deleted between fetch and write.
		if !utils.IsErrorCode(err, utils.ErrNotFound) {
			log.Printf("Failed to store liveness for %s: %v", listing.ID, err)
		}
	}
}

func (a *StatsActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *RefreshListingMsg:
		startTime := time.Now()
		ctx := stdctx.Background()

		listing, err := a.listings.GetListing(ctx, msg.ListingID)
		if err != nil {
			return
		}
		a.refresh(listing)
		a.metrics.AddOperationLatency("refresh_listing", time.Since(startTime))

	case *RefreshAllMsg:
		startTime := time.Now()
		ctx := stdctx.Background()

		listings, err := a.listings.FindListingsByStatus(ctx, models.StatusApproved)
		if err != nil {
			log.Printf("Liveness sweep failed to list approved listings: %v", err)
			return
		}
		for _, listing := range listings {
			a.refresh(listing)
		}

		a.metrics.AddOperationLatency("refresh_all", time.Since(startTime))
		log.Printf("Liveness sweep refreshed %d listings", len(listings))
	}
}
