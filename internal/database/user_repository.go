// internal/database/user_repository.go
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

// UserDocument represents the MongoDB schema for a user profile
type UserDocument struct {
	ID             string    `bson:"_id"`
	Email          string    `bson:"email"`
	DisplayName    string    `bson:"displayName"`
	HashedPassword string    `bson:"hashedPassword,omitempty"`
	Role           string    `bson:"role"`
	VerifiedEmail  bool      `bson:"verifiedEmail"`
	CreatedAt      time.Time `bson:"createdAt"`
	LastSeenAt     time.Time `bson:"lastSeenAt"`
}

func documentToUserProfile(doc *UserDocument) (*models.UserProfile, error) {
	userID, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in database: %v", err)
	}

	return &models.UserProfile{
		ID:             userID,
		Email:          doc.Email,
		DisplayName:    doc.DisplayName,
		HashedPassword: doc.HashedPassword,
		Role:           models.Role(doc.Role),
		VerifiedEmail:  doc.VerifiedEmail,
		CreatedAt:      doc.CreatedAt,
		LastSeenAt:     doc.LastSeenAt,
	}, nil
}

// SaveUserProfile creates or updates a user profile in MongoDB
func (m *MongoDB) SaveUserProfile(ctx context.Context, user *models.UserProfile) error {
	doc := UserDocument{
		ID:             user.ID.String(),
		Email:          user.Email,
		DisplayName:    user.DisplayName,
		HashedPassword: user.HashedPassword,
		Role:           string(user.Role),
		VerifiedEmail:  user.VerifiedEmail,
		CreatedAt:      user.CreatedAt,
		LastSeenAt:     user.LastSeenAt,
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": user.ID.String()}
	update := bson.M{"$set": doc}

	_, err := m.Users.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return utils.NewStoreUnavailableError(err)
	}
	return nil
}

// GetUserProfile retrieves a user profile by ID
func (m *MongoDB) GetUserProfile(ctx context.Context, id uuid.UUID) (*models.UserProfile, error) {
	var doc UserDocument

	err := m.Users.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewNotFoundError("User")
	}
	if err != nil {
		return nil, utils.NewStoreUnavailableError(err)
	}

	return documentToUserProfile(&doc)
}

// GetUserProfileByEmail retrieves a user profile by email address
func (m *MongoDB) GetUserProfileByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	var doc UserDocument

	err := m.Users.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewNotFoundError("User")
	}
	if err != nil {
		return nil, utils.NewStoreUnavailableError(err)
	}

	return documentToUserProfile(&doc)
}

// SetUserRole corrects the stored role. Used by the reconciliation
// check on every authentication, so drift self-heals.
func (m *MongoDB) SetUserRole(ctx context.Context, userID uuid.UUID, role models.Role) error {
	filter := bson.M{"_id": userID.String()}
	update := bson.M{"$set": bson.M{"role": string(role)}}

	result, err := m.Users.UpdateOne(ctx, filter, update)
	if err != nil {
		return utils.NewStoreUnavailableError(err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("User")
	}
	return nil
}

// UpdateUserLastSeen updates a user's last seen timestamp
func (m *MongoDB) UpdateUserLastSeen(ctx context.Context, userID uuid.UUID) error {
	filter := bson.M{"_id": userID.String()}
	update := bson.M{"$set": bson.M{"lastSeenAt": time.Now()}}

	result, err := m.Users.UpdateOne(ctx, filter, update)
	if err != nil {
		return utils.NewStoreUnavailableError(err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("User")
	}
	return nil
}
