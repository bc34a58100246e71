// internal/database/listing_query.go
package database

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"server-swamp/internal/models"
	"server-swamp/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Sort keys the public listing page and the admin console may request.
const (
	SortVotes    = "votes"    // vote count desc
	SortPlayers  = "players"  // online first, then player count desc
	SortName     = "name"     // name asc
	SortNewest   = "newest"   // submission time desc
	SortFeatured = "featured" // currently-featured first, then votes desc
)

// Status scopes. ScopeAll and the non-approved scopes are restricted to
// privileged callers; the restriction is enforced above the store.
const (
	ScopeApproved = "approved"
	ScopePending  = "pending"
	ScopeRejected = "rejected"
	ScopeAll      = "all"
)

// ListingQuery describes a filtered, sorted view of the listings
// collection.
type ListingQuery struct {
	Game        string // exact game tag, or "" / "all" for no filter
	SortKey     string
	Search      string // in-memory refinement, never a store query
	StatusScope string
	OwnerID     *uuid.UUID // restrict to one submitter's listings
}

// nativeSort returns the sort order the store can express for the
// requested key. Player ordering and the featured layer cannot be
// expressed as a Mongo sort (featured recency depends on now), so
// those fall back to the default order and are resolved in memory.
func nativeSort(sortKey string) bson.D {
	switch sortKey {
	case SortName:
		return bson.D{{Key: "name", Value: 1}}
	case SortNewest:
		return bson.D{{Key: "submittedat", Value: -1}, {Key: "name", Value: 1}}
	default:
		return bson.D{{Key: "votes", Value: -1}, {Key: "name", Value: 1}}
	}
}

// QueryListings is the two-phase query composer. Phase 1 issues the
// most selective filter and ordering the store can express natively;
// phase 2 applies the remaining ordering and the search refinement
// deterministically in memory. The fallback is deliberate: the public
// contract stays independent of the store's composite-index limits.
func (m *MongoDB) QueryListings(ctx context.Context, query ListingQuery, now time.Time) ([]*models.Listing, error) {
	filter := bson.M{}
	if query.StatusScope != ScopeAll && query.StatusScope != "" {
		filter["status"] = query.StatusScope
	}
	if query.Game != "" && query.Game != "all" {
		filter["game"] = query.Game
	}
	if query.OwnerID != nil {
		filter["submittedby"] = query.OwnerID.String()
	}

	cursor, err := m.Listings.Find(ctx, filter, options.Find().SetSort(nativeSort(query.SortKey)))
	if err != nil {
		return nil, utils.NewStoreUnavailableError(err)
	}
	defer cursor.Close(ctx)

	var listings []*models.Listing
	for cursor.Next(ctx) {
		var doc ListingDocument
		if err := cursor.Decode(&doc); err != nil {
			log.Printf("Error decoding listing document: %v", err)
			continue
		}
		listing, err := DocumentToListing(&doc)
		if err != nil {
			log.Printf("Error converting document to model: %v", err)
			continue
		}
		listings = append(listings, listing)
	}
	if err := cursor.Err(); err != nil {
		return nil, utils.NewStoreUnavailableError(err)
	}

	// Phase 2: deterministic ordering, then membership refinement.
	layerFeatured := query.StatusScope == ScopeApproved || query.StatusScope == ScopeAll || query.StatusScope == ""
	OrderListings(listings, query.SortKey, layerFeatured, now)
	return ApplySearchFilter(listings, query.Search), nil
}

// FindListingsByStatus fetches every listing in one moderation state in
// the store's native order; the stats refresher sweep uses it.
func (m *MongoDB) FindListingsByStatus(ctx context.Context, status models.ListingStatus) ([]*models.Listing, error) {
	cursor, err := m.Listings.Find(ctx, bson.M{"status": string(status)})
	if err != nil {
		return nil, utils.NewStoreUnavailableError(err)
	}
	defer cursor.Close(ctx)

	var listings []*models.Listing
	for cursor.Next(ctx) {
		var doc ListingDocument
		if err := cursor.Decode(&doc); err != nil {
			log.Printf("Error decoding listing document: %v", err)
			continue
		}
		listing, err := DocumentToListing(&doc)
		if err != nil {
			log.Printf("Error converting document to model: %v", err)
			continue
		}
		listings = append(listings, listing)
	}
	if err := cursor.Err(); err != nil {
		return nil, utils.NewStoreUnavailableError(err)
	}
	return listings, nil
}

// OrderListings sorts listings in place by the requested key. When
// layerFeatured is set, currently-featured listings sort before all
// non-featured listings regardless of the primary key. Ties always
// break by name then id so the order is stable across calls.
func OrderListings(listings []*models.Listing, sortKey string, layerFeatured bool, now time.Time) {
	sort.SliceStable(listings, func(i, j int) bool {
		a, b := listings[i], listings[j]

		if layerFeatured {
			af, bf := a.IsCurrentlyFeatured(now), b.IsCurrentlyFeatured(now)
			if af != bf {
				return af
			}
		}

		switch sortKey {
		case SortPlayers:
			if a.Online != b.Online {
				return a.Online
			}
			if a.Players != b.Players {
				return a.Players > b.Players
			}
		case SortName:
			// fall through to the name tiebreak
		case SortNewest:
			if !a.SubmittedAt.Equal(b.SubmittedAt) {
				return a.SubmittedAt.After(b.SubmittedAt)
			}
		default: // SortVotes, SortFeatured
			if a.Votes != b.Votes {
				return a.Votes > b.Votes
			}
		}

		if a.Name != b.Name {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
		return a.ID.String() < b.ID.String()
	})
}

// ApplySearchFilter restricts listings to those whose name, host, game
// tag or any tag case-insensitively contains text. It is a pure
// refinement over the already-ordered set: it changes membership,
// never order.
func ApplySearchFilter(listings []*models.Listing, text string) []*models.Listing {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return listings
	}

	matched := make([]*models.Listing, 0, len(listings))
	for _, l := range listings {
		if listingMatches(l, needle) {
			matched = append(matched, l)
		}
	}
	return matched
}

func listingMatches(l *models.Listing, needle string) bool {
	if strings.Contains(strings.ToLower(l.Name), needle) ||
		strings.Contains(strings.ToLower(l.Host), needle) ||
		strings.Contains(strings.ToLower(l.Game), needle) {
		return true
	}
	for _, tag := range l.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}
