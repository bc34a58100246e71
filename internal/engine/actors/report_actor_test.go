package actors

import (
	"testing"
	"time"

	"server-swamp/internal/models"
	"server-swamp/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func spawnReportActor(t *testing.T, system *actor.ActorSystem, reports *fakeReportStore, store *fakeListingStore, profiles *fakeProfileStore) *actor.PID {
	t.Helper()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewReportActor(reports, store, profiles, utils.NewMetricsCollector())
	})
	return system.Root.Spawn(props)
}

func TestFileReport(t *testing.T) {
	system := actor.NewActorSystem()
	reports := newFakeReportStore()
	store := newFakeListingStore()
	profiles := newFakeProfileStore()
	pid := spawnReportActor(t, system, reports, store, profiles)

	reporterID := profiles.addUser(models.RoleUser)
	listing := approvedListing(store, "Reported Server")

	future := system.Root.RequestFuture(pid, &FileReportMsg{
		ListingID:   listing.ID,
		ReporterID:  reporterID,
		Reason:      models.ReasonBrokenServer,
		Description: "The server has been unreachable for three days.",
	}, 5*time.Second)
	result, err := future.Result()
	if err != nil {
		t.Fatalf("Report request failed: %v", err)
	}

	report, ok := result.(*models.Report)
	if !ok {
		t.Fatalf("Expected Report, got %T", result)
	}
	assert.Equal(t, models.ReportPending, report.Status)
	assert.Equal(t, listing.ID, report.ListingID)
	assert.Equal(t, "Reported Server", report.ListingName)
	assert.Equal(t, reporterID, report.ReporterID)
	assert.Nil(t, report.ResolvedBy)

	// Filing a report never touches the listing's moderation state.
	unchanged, err := store.GetListing(nil, listing.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusApproved, unchanged.Status)
}

func TestFileReportValidation(t *testing.T) {
	system := actor.NewActorSystem()
	reports := newFakeReportStore()
	store := newFakeListingStore()
	profiles := newFakeProfileStore()
	pid := spawnReportActor(t, system, reports, store, profiles)

	reporterID := profiles.addUser(models.RoleUser)
	listing := approvedListing(store, "Reported Server")

	// Anonymous reporters are rejected first.
	future := system.Root.RequestFuture(pid, &FileReportMsg{
		ListingID:   listing.ID,
		ReporterID:  uuid.Nil,
		Reason:      models.ReasonSpam,
		Description: "Advertisement disguised as a server listing.",
	}, 5*time.Second)
	result, err := future.Result()
	if err != nil {
		t.Fatalf("Report request failed: %v", err)
	}
	appErr := result.(*utils.AppError)
	assert.Equal(t, utils.ErrUnauthenticated, appErr.Code)

	// Unknown reason and short description both surface as field errors.
	future = system.Root.RequestFuture(pid, &FileReportMsg{
		ListingID:   listing.ID,
		ReporterID:  reporterID,
		Reason:      models.ReportReason("bad_vibes"),
		Description: "short",
	}, 5*time.Second)
	result, err = future.Result()
	if err != nil {
		t.Fatalf("Report request failed: %v", err)
	}
	appErr = result.(*utils.AppError)
	assert.Equal(t, utils.ErrValidation, appErr.Code)
	assert.Contains(t, appErr.FieldErrors, "reason")
	assert.Contains(t, appErr.FieldErrors, "description")

	// Reports against unknown listings are refused.
	future = system.Root.RequestFuture(pid, &FileReportMsg{
		ListingID:   uuid.New(),
		ReporterID:  reporterID,
		Reason:      models.ReasonSpam,
		Description: "Advertisement disguised as a server listing.",
	}, 5*time.Second)
	result, err = future.Result()
	if err != nil {
		t.Fatalf("Report request failed: %v", err)
	}
	appErr = result.(*utils.AppError)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)
}

func TestReportLifecycle(t *testing.T) {
	system := actor.NewActorSystem()
	reports := newFakeReportStore()
	store := newFakeListingStore()
	profiles := newFakeProfileStore()
	pid := spawnReportActor(t, system, reports, store, profiles)

	adminID := profiles.addUser(models.RoleAdmin)
	userID := profiles.addUser(models.RoleUser)
	reporterID := profiles.addUser(models.RoleUser)
	listing := approvedListing(store, "Reported Server")

	future := system.Root.RequestFuture(pid, &FileReportMsg{
		ListingID:   listing.ID,
		ReporterID:  reporterID,
		Reason:      models.ReasonWrongInfo,
		Description: "The listed player cap does not match the server.",
	}, 5*time.Second)
	result, err := future.Result()
	if err != nil {
		t.Fatalf("Report request failed: %v", err)
	}
	report := result.(*models.Report)

	// Listing reports is admin-only.
	future = system.Root.RequestFuture(pid, &ListReportsMsg{ActorID: userID}, 5*time.Second)
	result, err = future.Result()
	if err != nil {
		t.Fatalf("List request failed: %v", err)
	}
	appErr := result.(*utils.AppError)
	assert.Equal(t, utils.ErrUnauthorized, appErr.Code)

	future = system.Root.RequestFuture(pid, &ListReportsMsg{
		Status:  models.ReportPending,
		ActorID: adminID,
	}, 5*time.Second)
	result, err = future.Result()
	if err != nil {
		t.Fatalf("List request failed: %v", err)
	}
	pending := result.([]*models.Report)
	assert.Len(t, pending, 1)

	// Resolving requires a known lifecycle state.
	future = system.Root.RequestFuture(pid, &ResolveReportMsg{
		ReportID: report.ID,
		ActorID:  adminID,
		Status:   models.ReportStatus("closed"),
	}, 5*time.Second)
	result, err = future.Result()
	if err != nil {
		t.Fatalf("Resolve request failed: %v", err)
	}
	appErr = result.(*utils.AppError)
	assert.Equal(t, utils.ErrValidation, appErr.Code)

	future = system.Root.RequestFuture(pid, &ResolveReportMsg{
		ReportID: report.ID,
		ActorID:  adminID,
		Status:   models.ReportDismissed,
		Notes:    "Player cap was correct at review time.",
	}, 5*time.Second)
	result, err = future.Result()
	if err != nil {
		t.Fatalf("Resolve request failed: %v", err)
	}
	resolved := result.(*models.Report)
	assert.Equal(t, models.ReportDismissed, resolved.Status)
	if assert.NotNil(t, resolved.ResolvedBy) {
		assert.Equal(t, adminID, *resolved.ResolvedBy)
	}
	assert.NotNil(t, resolved.ResolvedAt)
	assert.Equal(t, "Player cap was correct at review time.", resolved.AdminNotes)

	// A dismissed report leaves the listing untouched.
	unchanged, err := store.GetListing(nil, listing.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusApproved, unchanged.Status)
}
