// internal/database/vote_repository.go
package database

import (
	"context"
	"time"

	"server-swamp/internal/models"
	"server-swamp/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VoteDocument represents the MongoDB schema for a vote ledger entry.
// The key is the (user, listing) pair so the cooldown check is a
// single-document read no matter how many users have ever voted.
type VoteDocument struct {
	ID         string    `bson:"_id"` // "<userID>:<listingID>"
	UserID     string    `bson:"userid"`
	ListingID  string    `bson:"listingid"`
	LastVoteAt time.Time `bson:"lastvoteat"`
}

func voteKey(userID, listingID uuid.UUID) string {
	return userID.String() + ":" + listingID.String()
}

// GetVoteRecord retrieves the ledger entry for a (user, listing) pair,
// or nil when the user has never voted for the listing.
func (m *MongoDB) GetVoteRecord(ctx context.Context, userID, listingID uuid.UUID) (*models.VoteRecord, error) {
	var doc VoteDocument

	err := m.Votes.FindOne(ctx, bson.M{"_id": voteKey(userID, listingID)}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, utils.NewStoreUnavailableError(err)
	}

	return &models.VoteRecord{
		UserID:     userID,
		ListingID:  listingID,
		LastVoteAt: doc.LastVoteAt,
	}, nil
}

// RecordVote performs the cooldown check and, when it passes, the
// ledger upsert plus the counter increment as one indivisible unit.
// The transaction keeps a concurrent second attempt from the same user
// from slipping between the check and the write; increments from
// different users commute and can never be lost because the counter
// only ever moves through $inc.
//
// On success it returns the listing's new vote count. On a cooldown
// violation it returns ErrCooldownActive carrying the remaining wait
// rounded up to whole hours.
func (m *MongoDB) RecordVote(ctx context.Context, userID, listingID uuid.UUID, cooldown time.Duration) (int, error) {
	session, err := m.Client.StartSession()
	if err != nil {
		return 0, utils.NewStoreUnavailableError(err)
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		now := time.Now()
		key := voteKey(userID, listingID)

		var rec VoteDocument
		findErr := m.Votes.FindOne(sc, bson.M{"_id": key}).Decode(&rec)
		if findErr == nil {
			if elapsed := now.Sub(rec.LastVoteAt); elapsed < cooldown {
				return nil, utils.NewCooldownError(cooldown - elapsed)
			}
		} else if findErr != mongo.ErrNoDocuments {
			return nil, utils.NewStoreUnavailableError(findErr)
		}

		// Upsert the ledger entry with the server-assigned timestamp.
		_, upErr := m.Votes.UpdateOne(sc,
			bson.M{"_id": key},
			bson.M{"$set": bson.M{
				"userid":     userID.String(),
				"listingid":  listingID.String(),
				"lastvoteat": now,
			}},
			options.Update().SetUpsert(true),
		)
		if upErr != nil {
			return nil, utils.NewStoreUnavailableError(upErr)
		}

		// Increment the counter, guarded on the listing still being
		// approved; the filter miss aborts the whole transaction.
		var doc ListingDocument
		incErr := m.Listings.FindOneAndUpdate(sc,
			bson.M{"_id": listingID.String(), "status": string(models.StatusApproved)},
			bson.M{
				"$inc": bson.M{"votes": 1},
				"$set": bson.M{"lastvoteat": now},
			},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&doc)
		if incErr == mongo.ErrNoDocuments {
			return nil, utils.NewNotApprovedError()
		}
		if incErr != nil {
			return nil, utils.NewStoreUnavailableError(incErr)
		}

		return doc.Votes, nil
	})
	if err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			return 0, appErr
		}
		return 0, utils.NewStoreUnavailableError(err)
	}

	return result.(int), nil
}
