package actors

import (
	"context"
	"sync"
	"time"

	"server-swamp/internal/database"
	"server-swamp/internal/models"
	"server-swamp/internal/utils"

	"github.com/google/uuid"
)

// In-memory stores mirroring the MongoDB repositories' semantics,
// including the cooldown/increment atomic unit.

type fakeListingStore struct {
	mu       sync.Mutex
	listings map[uuid.UUID]*models.Listing
}

func newFakeListingStore() *fakeListingStore {
	return &fakeListingStore{listings: make(map[uuid.UUID]*models.Listing)}
}

func (f *fakeListingStore) SaveListing(ctx context.Context, listing *models.Listing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *listing
	f.listings[listing.ID] = &copied
	return nil
}

func (f *fakeListingStore) GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	listing, ok := f.listings[id]
	if !ok {
		return nil, utils.NewNotFoundError("Listing")
	}
	copied := *listing
	return &copied, nil
}

func (f *fakeListingStore) DeleteListing(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.listings, id)
	return nil
}

func (f *fakeListingStore) SetListingStatus(ctx context.Context, id uuid.UUID, status models.ListingStatus) (*models.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	listing, ok := f.listings[id]
	if !ok {
		return nil, utils.NewNotFoundError("Listing")
	}
	listing.Status = status
	copied := *listing
	return &copied, nil
}

func (f *fakeListingStore) SetListingFeatured(ctx context.Context, id uuid.UUID, featured bool, until *time.Time) (*models.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	listing, ok := f.listings[id]
	if !ok {
		return nil, utils.NewNotFoundError("Listing")
	}
	listing.Featured = featured
	listing.FeaturedUntil = until
	copied := *listing
	return &copied, nil
}

func (f *fakeListingStore) UpdateListingLiveness(ctx context.Context, id uuid.UUID, online bool, players, maxPlayers int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	listing, ok := f.listings[id]
	if !ok {
		return utils.NewNotFoundError("Listing")
	}
	listing.Online = online
	listing.Players = players
	listing.MaxPlayers = maxPlayers
	return nil
}

func (f *fakeListingStore) QueryListings(ctx context.Context, query database.ListingQuery, now time.Time) ([]*models.Listing, error) {
	f.mu.Lock()
	var matched []*models.Listing
	for _, l := range f.listings {
		if query.StatusScope != database.ScopeAll && query.StatusScope != "" && string(l.Status) != query.StatusScope {
			continue
		}
		if query.Game != "" && query.Game != "all" && l.Game != query.Game {
			continue
		}
		if query.OwnerID != nil && l.SubmittedBy != *query.OwnerID {
			continue
		}
		copied := *l
		matched = append(matched, &copied)
	}
	f.mu.Unlock()

	layerFeatured := query.StatusScope == database.ScopeApproved || query.StatusScope == database.ScopeAll || query.StatusScope == ""
	database.OrderListings(matched, query.SortKey, layerFeatured, now)
	return database.ApplySearchFilter(matched, query.Search), nil
}

func (f *fakeListingStore) FindListingsByStatus(ctx context.Context, status models.ListingStatus) ([]*models.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []*models.Listing
	for _, l := range f.listings {
		if l.Status == status {
			copied := *l
			matched = append(matched, &copied)
		}
	}
	return matched, nil
}

func (f *fakeListingStore) CountListings(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.listings)), nil
}

// fakeVoteLedger shares the listing store's mutex model: the cooldown
// check, ledger write and counter increment happen under one lock.
type fakeVoteLedger struct {
	mu       sync.Mutex
	store    *fakeListingStore
	lastVote map[string]time.Time
	now      func() time.Time
}

func newFakeVoteLedger(store *fakeListingStore) *fakeVoteLedger {
	return &fakeVoteLedger{
		store:    store,
		lastVote: make(map[string]time.Time),
		now:      time.Now,
	}
}

func voteKey(userID, listingID uuid.UUID) string {
	return userID.String() + ":" + listingID.String()
}

func (f *fakeVoteLedger) GetVoteRecord(ctx context.Context, userID, listingID uuid.UUID) (*models.VoteRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	at, ok := f.lastVote[voteKey(userID, listingID)]
	if !ok {
		return nil, nil
	}
	return &models.VoteRecord{UserID: userID, ListingID: listingID, LastVoteAt: at}, nil
}

func (f *fakeVoteLedger) RecordVote(ctx context.Context, userID, listingID uuid.UUID, cooldown time.Duration) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	key := voteKey(userID, listingID)
	if last, ok := f.lastVote[key]; ok {
		if elapsed := now.Sub(last); elapsed < cooldown {
			return 0, utils.NewCooldownError(cooldown - elapsed)
		}
	}

	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	listing, ok := f.store.listings[listingID]
	if !ok || listing.Status != models.StatusApproved {
		return 0, utils.NewNotApprovedError()
	}

	f.lastVote[key] = now
	listing.Votes++
	listing.LastVoteAt = now
	return listing.Votes, nil
}

type fakeProfileStore struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*models.UserProfile
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: make(map[uuid.UUID]*models.UserProfile)}
}

func (f *fakeProfileStore) addUser(role models.Role) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.profiles[id] = &models.UserProfile{
		ID:          id,
		Email:       id.String() + "@example.com",
		DisplayName: "user-" + id.String()[:8],
		Role:        role,
		CreatedAt:   time.Now(),
	}
	return id
}

func (f *fakeProfileStore) GetUserProfile(ctx context.Context, id uuid.UUID) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile, ok := f.profiles[id]
	if !ok {
		return nil, utils.NewNotFoundError("User")
	}
	copied := *profile
	return &copied, nil
}

type fakeReportStore struct {
	mu      sync.Mutex
	reports map[uuid.UUID]*models.Report
}

func newFakeReportStore() *fakeReportStore {
	return &fakeReportStore{reports: make(map[uuid.UUID]*models.Report)}
}

func (f *fakeReportStore) SaveReport(ctx context.Context, report *models.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *report
	f.reports[report.ID] = &copied
	return nil
}

func (f *fakeReportStore) GetReport(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	report, ok := f.reports[id]
	if !ok {
		return nil, utils.NewNotFoundError("Report")
	}
	copied := *report
	return &copied, nil
}

func (f *fakeReportStore) FindReports(ctx context.Context, status models.ReportStatus) ([]*models.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []*models.Report
	for _, r := range f.reports {
		if status == "" || r.Status == status {
			copied := *r
			matched = append(matched, &copied)
		}
	}
	return matched, nil
}

func (f *fakeReportStore) ResolveReport(ctx context.Context, id uuid.UUID, status models.ReportStatus, adminID uuid.UUID, notes string) (*models.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	report, ok := f.reports[id]
	if !ok {
		return nil, utils.NewNotFoundError("Report")
	}
	now := time.Now()
	report.Status = status
	report.ResolvedBy = &adminID
	report.ResolvedAt = &now
	report.AdminNotes = notes
	copied := *report
	return &copied, nil
}

func (f *fakeReportStore) CountReports(ctx context.Context, status models.ReportStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, r := range f.reports {
		if status == "" || r.Status == status {
			count++
		}
	}
	return count, nil
}
