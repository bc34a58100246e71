package database

import (
	"testing"
	"time"

	"server-swamp/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var queryNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func namedListing(name string, votes int) *models.Listing {
	return &models.Listing{
		ID:     uuid.New(),
		Name:   name,
		Host:   "play.example.com",
		Game:   "Rust",
		Status: models.StatusApproved,
		Votes:  votes,
	}
}

func names(listings []*models.Listing) []string {
	out := make([]string, 0, len(listings))
	for _, l := range listings {
		out = append(out, l.Name)
	}
	return out
}

func TestOrderListingsFeaturedLayer(t *testing.T) {
	expired := queryNow.Add(-time.Hour)
	active := queryNow.Add(time.Hour)

	popular := namedListing("Popular", 500)
	featured := namedListing("Boosted", 3)
	featured.Featured = true
	featured.FeaturedUntil = &active
	stale := namedListing("Stale Boost", 200)
	stale.Featured = true
	stale.FeaturedUntil = &expired
	indefinite := namedListing("House Pick", 1)
	indefinite.Featured = true

	listings := []*models.Listing{popular, featured, stale, indefinite}
	OrderListings(listings, SortVotes, true, queryNow)

	// Currently-featured first (by votes among themselves), then the
	// rest by votes. An expired window does not count as featured.
	assert.Equal(t, []string{"Boosted", "House Pick", "Popular", "Stale Boost"}, names(listings))

	// Without the featured layer the primary key alone decides.
	OrderListings(listings, SortVotes, false, queryNow)
	assert.Equal(t, []string{"Popular", "Stale Boost", "Boosted", "House Pick"}, names(listings))
}

func TestOrderListingsPlayers(t *testing.T) {
	big := namedListing("Big Offline", 0)
	big.Players = 90
	busy := namedListing("Busy", 0)
	busy.Online = true
	busy.Players = 40
	quiet := namedListing("Quiet", 0)
	quiet.Online = true
	quiet.Players = 2

	listings := []*models.Listing{big, quiet, busy}
	OrderListings(listings, SortPlayers, false, queryNow)

	// Online servers sort before offline ones regardless of count.
	assert.Equal(t, []string{"Busy", "Quiet", "Big Offline"}, names(listings))
}

func TestOrderListingsTiebreaks(t *testing.T) {
	bravo := namedListing("bravo", 10)
	alpha := namedListing("Alpha", 10)
	charlie := namedListing("Charlie", 10)

	listings := []*models.Listing{bravo, charlie, alpha}
	OrderListings(listings, SortVotes, false, queryNow)

	// Equal votes fall back to case-insensitive name order.
	assert.Equal(t, []string{"Alpha", "bravo", "Charlie"}, names(listings))

	// Identical names break by id so repeated calls agree.
	twinA := namedListing("Twin", 5)
	twinB := namedListing("Twin", 5)
	first := []*models.Listing{twinA, twinB}
	second := []*models.Listing{twinB, twinA}
	OrderListings(first, SortVotes, false, queryNow)
	OrderListings(second, SortVotes, false, queryNow)
	assert.Equal(t, first[0].ID, second[0].ID)
}

func TestOrderListingsNewest(t *testing.T) {
	old := namedListing("Old", 0)
	old.SubmittedAt = queryNow.Add(-48 * time.Hour)
	fresh := namedListing("Fresh", 0)
	fresh.SubmittedAt = queryNow.Add(-time.Hour)

	listings := []*models.Listing{old, fresh}
	OrderListings(listings, SortNewest, false, queryNow)
	assert.Equal(t, []string{"Fresh", "Old"}, names(listings))
}

func TestApplySearchFilter(t *testing.T) {
	arena := namedListing("Test Arena", 10)
	arena.Tags = []string{"pvp"}
	swamp := namedListing("Swamp Home", 20)
	swamp.Host = "arena.swamp.gg"
	other := namedListing("Quiet Corner", 30)
	other.Tags = []string{"creative"}

	listings := []*models.Listing{other, swamp, arena}

	// Empty search keeps the set as-is.
	assert.Len(t, ApplySearchFilter(listings, "   "), 3)

	// Matches by name and by host, preserving the incoming order.
	matched := ApplySearchFilter(listings, "ARENA")
	assert.Equal(t, []string{"Swamp Home", "Test Arena"}, names(matched))

	// Matches by tag.
	matched = ApplySearchFilter(listings, "creative")
	assert.Equal(t, []string{"Quiet Corner"}, names(matched))

	assert.Empty(t, ApplySearchFilter(listings, "nomatch"))
}
