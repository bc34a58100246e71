// internal/database/report_repository.go
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"server-swamp/internal/models"
	"server-swamp/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReportDocument represents the MongoDB schema for a report.
type ReportDocument struct {
	ID           string     `bson:"_id"`
	ListingID    string     `bson:"listingid"`
	ListingName  string     `bson:"listingname"`
	ReporterID   string     `bson:"reporterid"`
	ReporterName string     `bson:"reportername"`
	Reason       string     `bson:"reason"`
	Description  string     `bson:"description"`
	Status       string     `bson:"status"`
	ResolvedBy   string     `bson:"resolvedby,omitempty"`
	ResolvedAt   *time.Time `bson:"resolvedat,omitempty"`
	AdminNotes   string     `bson:"adminnotes,omitempty"`
	CreatedAt    time.Time  `bson:"createdat"`
}

func documentToReport(doc *ReportDocument) (*models.Report, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid report ID: %v", err)
	}
	listingID, err := uuid.Parse(doc.ListingID)
	if err != nil {
		return nil, fmt.Errorf("invalid listing ID: %v", err)
	}
	reporterID, err := uuid.Parse(doc.ReporterID)
	if err != nil {
		return nil, fmt.Errorf("invalid reporter ID: %v", err)
	}

	var resolvedBy *uuid.UUID
	if doc.ResolvedBy != "" {
		adminID, err := uuid.Parse(doc.ResolvedBy)
		if err != nil {
			return nil, fmt.Errorf("invalid resolver ID: %v", err)
		}
		resolvedBy = &adminID
	}

	return &models.Report{
		ID:           id,
		ListingID:    listingID,
		ListingName:  doc.ListingName,
		ReporterID:   reporterID,
		ReporterName: doc.ReporterName,
		Reason:       models.ReportReason(doc.Reason),
		Description:  doc.Description,
		Status:       models.ReportStatus(doc.Status),
		ResolvedBy:   resolvedBy,
		ResolvedAt:   doc.ResolvedAt,
		AdminNotes:   doc.AdminNotes,
		CreatedAt:    doc.CreatedAt,
	}, nil
}

// SaveReport creates or updates a report in MongoDB.
func (m *MongoDB) SaveReport(ctx context.Context, report *models.Report) error {
	doc := ReportDocument{
		ID:           report.ID.String(),
		ListingID:    report.ListingID.String(),
		ListingName:  report.ListingName,
		ReporterID:   report.ReporterID.String(),
		ReporterName: report.ReporterName,
		Reason:       string(report.Reason),
		Description:  report.Description,
		Status:       string(report.Status),
		AdminNotes:   report.AdminNotes,
		CreatedAt:    report.CreatedAt,
	}
	if report.ResolvedBy != nil {
		doc.ResolvedBy = report.ResolvedBy.String()
	}
	doc.ResolvedAt = report.ResolvedAt

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": report.ID.String()}
	update := bson.M{"$set": doc}

	_, err := m.Reports.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return utils.NewStoreUnavailableError(err)
	}
	return nil
}

// GetReport retrieves a report by its ID.
func (m *MongoDB) GetReport(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var doc ReportDocument

	err := m.Reports.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewNotFoundError("Report")
	}
	if err != nil {
		return nil, utils.NewStoreUnavailableError(err)
	}

	return documentToReport(&doc)
}

// FindReports returns reports, newest first, optionally restricted to
// a single lifecycle status.
func (m *MongoDB) FindReports(ctx context.Context, status models.ReportStatus) ([]*models.Report, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = string(status)
	}

	cursor, err := m.Reports.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdat", Value: -1}}))
	if err != nil {
		return nil, utils.NewStoreUnavailableError(err)
	}
	defer cursor.Close(ctx)

	var reports []*models.Report
	for cursor.Next(ctx) {
		var doc ReportDocument
		if err := cursor.Decode(&doc); err != nil {
			log.Printf("Error decoding report document: %v", err)
			continue
		}
		report, err := documentToReport(&doc)
		if err != nil {
			log.Printf("Error converting document to model: %v", err)
			continue
		}
		reports = append(reports, report)
	}
	if err := cursor.Err(); err != nil {
		return nil, utils.NewStoreUnavailableError(err)
	}
	return reports, nil
}

// ResolveReport moves a report to a new lifecycle status and records
// the acting admin and their notes.
func (m *MongoDB) ResolveReport(ctx context.Context, id uuid.UUID, status models.ReportStatus, adminID uuid.UUID, notes string) (*models.Report, error) {
	filter := bson.M{"_id": id.String()}
	update := bson.M{"$set": bson.M{
		"status":     string(status),
		"resolvedby": adminID.String(),
		"resolvedat": time.Now(),
		"adminnotes": notes,
	}}

	var doc ReportDocument
	err := m.Reports.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewNotFoundError("Report")
	}
	if err != nil {
		return nil, utils.NewStoreUnavailableError(err)
	}

	return documentToReport(&doc)
}

// CountReports returns the number of reports in one status, for the
// health endpoint's admin queue gauge.
func (m *MongoDB) CountReports(ctx context.Context, status models.ReportStatus) (int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = string(status)
	}
	count, err := m.Reports.CountDocuments(ctx, filter)
	if err != nil {
		return 0, utils.NewStoreUnavailableError(err)
	}
	return count, nil
}
