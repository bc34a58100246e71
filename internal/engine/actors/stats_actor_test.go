package actors

import (
	"context"
	"errors"
	"testing"
	"time"

	"server-swamp/internal/models"
	"server-swamp/internal/stats"
	"server-swamp/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// fakeProber answers with a fixed snapshot, or fails for hosts in the
// unreachable set.
type fakeProber struct {
	snapshot    stats.Snapshot
	unreachable map[string]bool
}

func (f *fakeProber) Probe(ctx context.Context, host string, port int) (stats.Snapshot, error) {
	if f.unreachable[host] {
		return stats.Offline, errors.New("i/o timeout")
	}
	return f.snapshot, nil
}

func spawnStatsActor(t *testing.T, system *actor.ActorSystem, store *fakeListingStore, prober stats.Prober) *actor.PID {
	t.Helper()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewStatsActor(store, prober, time.Second, utils.NewMetricsCollector())
	})
	return system.Root.Spawn(props)
}

func waitForLiveness(t *testing.T, store *fakeListingStore, id uuid.UUID, check func(*models.Listing) bool) *models.Listing {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		listing, err := store.GetListing(nil, id)
		if err == nil && check(listing) {
			return listing
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("Listing %s never reached the expected liveness state", id)
	return nil
}

func TestRefreshListingMergesSnapshot(t *testing.T) {
	system := actor.NewActorSystem()
	store := newFakeListingStore()
	prober := &fakeProber{snapshot: stats.Snapshot{Online: true, Players: 42, MaxPlayers: 100}}
	pid := spawnStatsActor(t, system, store, prober)

	listing := approvedListing(store, "Live Server")
	system.Root.Send(pid, &RefreshListingMsg{ListingID: listing.ID})

	refreshed := waitForLiveness(t, store, listing.ID, func(l *models.Listing) bool {
		return l.Online
	})
	assert.Equal(t, 42, refreshed.Players)
	assert.Equal(t, 100, refreshed.MaxPlayers)
}

func TestRefreshFailureStoresOffline(t *testing.T) {
	system := actor.NewActorSystem()
	store := newFakeListingStore()
	prober := &fakeProber{
		snapshot:    stats.Snapshot{Online: true, Players: 10, MaxPlayers: 50},
		unreachable: map[string]bool{"play.example.com": true},
	}
	pid := spawnStatsActor(t, system, store, prober)

	// Seed stale liveness so the offline write is observable.
	listing := approvedListing(store, "Dead Server")
	store.UpdateListingLiveness(nil, listing.ID, true, 7, 50)

	system.Root.Send(pid, &RefreshListingMsg{ListingID: listing.ID})

	offline := waitForLiveness(t, store, listing.ID, func(l *models.Listing) bool {
		return !l.Online
	})
	assert.Equal(t, 0, offline.Players)
	assert.Equal(t, 0, offline.MaxPlayers)
}

func TestRefreshAllSweepsApprovedOnly(t *testing.T) {
	system := actor.NewActorSystem()
	store := newFakeListingStore()
	prober := &fakeProber{snapshot: stats.Snapshot{Online: true, Players: 5, MaxPlayers: 20}}
	pid := spawnStatsActor(t, system, store, prober)

	approved := approvedListing(store, "Approved Server")
	pending := approvedListing(store, "Pending Server")
	store.SetListingStatus(nil, pending.ID, models.StatusPending)

	system.Root.Send(pid, &RefreshAllMsg{})

	waitForLiveness(t, store, approved.ID, func(l *models.Listing) bool {
		return l.Online
	})

	// The pending listing stays untouched by the sweep.
	untouched, err := store.GetListing(nil, pending.ID)
	assert.NoError(t, err)
	assert.False(t, untouched.Online)
}
