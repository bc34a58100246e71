package actors

import (
	"context"
	"time"

	"server-swamp/internal/database"
	"server-swamp/internal/models"

	"github.com/google/uuid"
)

// The store interfaces the actors operate against. *database.MongoDB
// satisfies all of them; tests substitute in-memory fakes.

type ListingStore interface {
	SaveListing(ctx context.Context, listing *models.Listing) error
	GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	DeleteListing(ctx context.Context, id uuid.UUID) error
	SetListingStatus(ctx context.Context, id uuid.UUID, status models.ListingStatus) (*models.Listing, error)
	SetListingFeatured(ctx context.Context, id uuid.UUID, featured bool, until *time.Time) (*models.Listing, error)
	UpdateListingLiveness(ctx context.Context, id uuid.UUID, online bool, players, maxPlayers int) error
	QueryListings(ctx context.Context, query database.ListingQuery, now time.Time) ([]*models.Listing, error)
	FindListingsByStatus(ctx context.Context, status models.ListingStatus) ([]*models.Listing, error)
	CountListings(ctx context.Context) (int64, error)
}

type VoteLedger interface {
	GetVoteRecord(ctx context.Context, userID, listingID uuid.UUID) (*models.VoteRecord, error)
	RecordVote(ctx context.Context, userID, listingID uuid.UUID, cooldown time.Duration) (int, error)
}

type ProfileStore interface {
	GetUserProfile(ctx context.Context, id uuid.UUID) (*models.UserProfile, error)
}

type ReportStore interface {
	SaveReport(ctx context.Context, report *models.Report) error
	GetReport(ctx context.Context, id uuid.UUID) (*models.Report, error)
	FindReports(ctx context.Context, status models.ReportStatus) ([]*models.Report, error)
	ResolveReport(ctx context.Context, id uuid.UUID, status models.ReportStatus, adminID uuid.UUID, notes string) (*models.Report, error)
	CountReports(ctx context.Context, status models.ReportStatus) (int64, error)
}
