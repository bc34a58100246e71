package actors

import (
	"fmt"
	"log"
	"time"

	stdctx "context"

	"server-swamp/internal/models"
	"server-swamp/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for Report operations
type (
	FileReportMsg struct {
		ListingID   uuid.UUID
		ReporterID  uuid.UUID
		Reason      models.ReportReason
		Description string
	}

	ListReportsMsg struct {
		Status  models.ReportStatus // "" for all
		ActorID uuid.UUID
	}

	ResolveReportMsg struct {
		ReportID uuid.UUID
		ActorID  uuid.UUID
		Status   models.ReportStatus
		Notes    string
	}
)

// ReportActor manages complaint lifecycles. Reports never change the
// target listing's visibility; the two lifecycles are independent.
type ReportActor struct {
	reports  ReportStore
	listings ListingStore
	profiles ProfileStore
	metrics  *utils.MetricsCollector
}

func NewReportActor(reports ReportStore, listings ListingStore, profiles ProfileStore, metrics *utils.MetricsCollector) *ReportActor {
	return &ReportActor{
		reports:  reports,
		listings: listings,
		profiles: profiles,
		metrics:  metrics,
	}
}

func (a *ReportActor) requireAdmin(ctx stdctx.Context, actorID uuid.UUID) *utils.AppError {
	if actorID == uuid.Nil {
		return utils.NewUnauthenticatedError()
	}
	profile, err := a.profiles.GetUserProfile(ctx, actorID)
	if err != nil {
		if utils.IsErrorCode(err, utils.ErrNotFound) {
			return utils.NewUnauthorizedError("unknown actor")
		}
		if appErr, ok := err.(*utils.AppError); ok {
			return appErr
		}
		return utils.NewStoreUnavailableError(err)
	}
	if !profile.IsAdmin() {
		return utils.NewUnauthorizedError("admin role required")
	}
	return nil
}

func (a *ReportActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *FileReportMsg:
		startTime := time.Now()
		ctx := stdctx.Background()

		if msg.ReporterID == uuid.Nil {
			context.Respond(utils.NewUnauthenticatedError())
			return
		}

		problems := make(map[string]string)
		if !models.IsValidReportReason(msg.Reason) {
			problems["reason"] = "reason is not one of the accepted categories"
		}
		if len(msg.Description) < models.MinReportDescriptionLen || len(msg.Description) > models.MaxReportDescriptionLen {
			problems["description"] = fmt.Sprintf("description must be between %d and %d characters",
				models.MinReportDescriptionLen, models.MaxReportDescriptionLen)
		}
		if len(problems) > 0 {
			context.Respond(utils.NewValidationError(problems))
			return
		}

		listing, err := a.listings.GetListing(ctx, msg.ListingID)
		if err != nil {
			context.Respond(err)
			return
		}

		// Denormalize names for display in the admin queue.
		reporterName := ""
		if profile, err := a.profiles.GetUserProfile(ctx, msg.ReporterID); err == nil {
			reporterName = profile.DisplayName
		}

		report := &models.Report{
			ID:           uuid.New(),
			ListingID:    listing.ID,
			ListingName:  listing.Name,
			ReporterID:   msg.ReporterID,
			ReporterName: reporterName,
			Reason:       msg.Reason,
			Description:  msg.Description,
			Status:       models.ReportPending,
			CreatedAt:    time.Now(),
		}

		if err := a.reports.SaveReport(ctx, report); err != nil {
			log.Printf("Failed to save report against %s: %v", msg.ListingID, err)
			context.Respond(err)
			return
		}

		a.metrics.AddOperationLatency("file_report", time.Since(startTime))
		context.Respond(report)

	case *ListReportsMsg:
		ctx := stdctx.Background()

		if appErr := a.requireAdmin(ctx, msg.ActorID); appErr != nil {
			context.Respond(appErr)
			return
		}

		reports, err := a.reports.FindReports(ctx, msg.Status)
		if err != nil {
			context.Respond(err)
			return
		}
		context.Respond(reports)

	case *ResolveReportMsg:
		ctx := stdctx.Background()

		if appErr := a.requireAdmin(ctx, msg.ActorID); appErr != nil {
			context.Respond(appErr)
			return
		}
		if !models.IsValidReportStatus(msg.Status) {
			context.Respond(utils.NewValidationError(map[string]string{
				"status": "status must be pending, investigating, resolved or dismissed",
			}))
			return
		}

		report, err := a.reports.ResolveReport(ctx, msg.ReportID, msg.Status, msg.ActorID, msg.Notes)
		if err != nil {
			context.Respond(err)
			return
		}

		log.Printf("Report %s moved to %s by admin %s", msg.ReportID, msg.Status, msg.ActorID)
		context.Respond(report)
	}
}
