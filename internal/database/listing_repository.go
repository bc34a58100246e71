// internal/database/listing_repository.go
package database

import (
	"context"
	"fmt"
	"time"

	"server-swamp/internal/models"
	"server-swamp/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListingDocument represents the MongoDB schema for a listing.
type ListingDocument struct {
	ID            string     `bson:"_id"`
	Name          string     `bson:"name"`
	Host          string     `bson:"host"`
	Port          int        `bson:"port"`
	Game          string     `bson:"game"`
	Description   string     `bson:"description"`
	BannerURL     string     `bson:"bannerurl,omitempty"`
	LogoURL       string     `bson:"logourl,omitempty"`
	Tags          []string   `bson:"tags,omitempty"`
	Status        string     `bson:"status"`
	Votes         int        `bson:"votes"`
	Online        bool       `bson:"online"`
	Players       int        `bson:"players"`
	MaxPlayers    int        `bson:"maxplayers"`
	Featured      bool       `bson:"featured"`
	FeaturedUntil *time.Time `bson:"featureduntil,omitempty"`
	SubmittedBy   string     `bson:"submittedby,omitempty"`
	SubmittedAt   time.Time  `bson:"submittedat"`
	LastVoteAt    time.Time  `bson:"lastvoteat,omitempty"`
}

// ListingToDocument converts a Listing model to a MongoDB document.
func ListingToDocument(listing *models.Listing) *ListingDocument {
	doc := &ListingDocument{
		ID:            listing.ID.String(),
		Name:          listing.Name,
		Host:          listing.Host,
		Port:          listing.Port,
		Game:          listing.Game,
		Description:   listing.Description,
		BannerURL:     listing.BannerURL,
		LogoURL:       listing.LogoURL,
		Tags:          listing.Tags,
		Status:        string(listing.Status),
		Votes:         listing.Votes,
		Online:        listing.Online,
		Players:       listing.Players,
		MaxPlayers:    listing.MaxPlayers,
		Featured:      listing.Featured,
		FeaturedUntil: listing.FeaturedUntil,
		SubmittedAt:   listing.SubmittedAt,
		LastVoteAt:    listing.LastVoteAt,
	}
	if listing.SubmittedBy != uuid.Nil {
		doc.SubmittedBy = listing.SubmittedBy.String()
	}
	return doc
}

// DocumentToListing converts a MongoDB document to a Listing model.
func DocumentToListing(doc *ListingDocument) (*models.Listing, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid listing ID: %v", err)
	}

	// Legacy seed listings may carry no submitter
	submittedBy := uuid.Nil
	if doc.SubmittedBy != "" {
		submittedBy, err = uuid.Parse(doc.SubmittedBy)
		if err != nil {
			return nil, fmt.Errorf("invalid submitter ID: %v", err)
		}
	}

	return &models.Listing{
		ID:            id,
		Name:          doc.Name,
		Host:          doc.Host,
		Port:          doc.Port,
		Game:          doc.Game,
		Description:   doc.Description,
		BannerURL:     doc.BannerURL,
		LogoURL:       doc.LogoURL,
		Tags:          doc.Tags,
		Status:        models.ListingStatus(doc.Status),
		Votes:         doc.Votes,
		Online:        doc.Online,
		Players:       doc.Players,
		MaxPlayers:    doc.MaxPlayers,
		Featured:      doc.Featured,
		FeaturedUntil: doc.FeaturedUntil,
		SubmittedBy:   submittedBy,
		SubmittedAt:   doc.SubmittedAt,
		LastVoteAt:    doc.LastVoteAt,
	}, nil
}

// SaveListing creates or updates a listing in MongoDB.
func (m *MongoDB) SaveListing(ctx context.Context, listing *models.Listing) error {
	doc := ListingToDocument(listing)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": listing.ID.String()}
	update := bson.M{"$set": doc}

	_, err := m.Listings.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return utils.NewStoreUnavailableError(err)
	}
	return nil
}

// GetListing retrieves a listing by its ID.
func (m *MongoDB) GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	var doc ListingDocument

	err := m.Listings.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewNotFoundError("Listing")
	}
	if err != nil {
		return nil, utils.NewStoreUnavailableError(err)
	}

	return DocumentToListing(&doc)
}

// DeleteListing removes a listing. Removal is idempotent: deleting an
// absent listing is not an error.
func (m *MongoDB) DeleteListing(ctx context.Context, id uuid.UUID) error {
	_, err := m.Listings.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return utils.NewStoreUnavailableError(err)
	}
	return nil
}

// SetListingStatus transitions the moderation status and returns the
// updated listing. Any of the six directed transitions is allowed.
func (m *MongoDB) SetListingStatus(ctx context.Context, id uuid.UUID, status models.ListingStatus) (*models.Listing, error) {
	filter := bson.M{"_id": id.String()}
	update := bson.M{"$set": bson.M{"status": string(status)}}

	var doc ListingDocument
	err := m.Listings.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewNotFoundError("Listing")
	}
	if err != nil {
		return nil, utils.NewStoreUnavailableError(err)
	}

	return DocumentToListing(&doc)
}

// SetListingFeatured sets or clears the promotion window and returns
// the updated listing. A nil until with featured=true means an
// indefinite promotion.
func (m *MongoDB) SetListingFeatured(ctx context.Context, id uuid.UUID, featured bool, until *time.Time) (*models.Listing, error) {
	filter := bson.M{"_id": id.String()}

	set := bson.M{"featured": featured}
	update := bson.M{"$set": set}
	if until != nil {
		set["featureduntil"] = *until
	} else {
		update["$unset"] = bson.M{"featureduntil": ""}
	}

	var doc ListingDocument
	err := m.Listings.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewNotFoundError("Listing")
	}
	if err != nil {
		return nil, utils.NewStoreUnavailableError(err)
	}

	return DocumentToListing(&doc)
}

// UpdateListingLiveness merges an advisory probe snapshot into the
// listing. The snapshot never gates moderation or voting.
func (m *MongoDB) UpdateListingLiveness(ctx context.Context, id uuid.UUID, online bool, players, maxPlayers int) error {
	filter := bson.M{"_id": id.String()}
	update := bson.M{"$set": bson.M{
		"online":     online,
		"players":    players,
		"maxplayers": maxPlayers,
	}}

	result, err := m.Listings.UpdateOne(ctx, filter, update)
	if err != nil {
		return utils.NewStoreUnavailableError(err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("Listing")
	}
	return nil
}

// CountListings returns the total number of listings, for health checks.
func (m *MongoDB) CountListings(ctx context.Context) (int64, error) {
	count, err := m.Listings.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, utils.NewStoreUnavailableError(err)
	}
	return count, nil
}
