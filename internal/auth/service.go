// Package auth is the identity adapter: it turns an email/password
// exchange into a stable (userId, email, verifiedEmail, displayName)
// tuple and keeps the profile store's role field reconciled. The core
// never reads an ambient session; this package only produces actor ids.
package auth

import (
	"context"
	"log"
	"strings"
	"time"

	"server-swamp/internal/models"
	"server-swamp/internal/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 14

// ProfileStore is the slice of the user store the adapter needs.
type ProfileStore interface {
	GetUserProfile(ctx context.Context, id uuid.UUID) (*models.UserProfile, error)
	GetUserProfileByEmail(ctx context.Context, email string) (*models.UserProfile, error)
	SaveUserProfile(ctx context.Context, user *models.UserProfile) error
	SetUserRole(ctx context.Context, userID uuid.UUID, role models.Role) error
	UpdateUserLastSeen(ctx context.Context, userID uuid.UUID) error
}

// Service authenticates users and reconciles roles.
type Service struct {
	profiles   ProfileStore
	adminEmail string
}

func NewService(profiles ProfileStore, adminEmail string) *Service {
	return &Service{
		profiles:   profiles,
		adminEmail: adminEmail,
	}
}

// roleFor derives the role from the single source of truth: the
// configured administrator address.
func (s *Service) roleFor(email string) models.Role {
	if s.adminEmail != "" && strings.EqualFold(email, s.adminEmail) {
		return models.RoleAdmin
	}
	return models.RoleUser
}

// reconcileRole corrects the stored role when it disagrees with what
// the admin-email comparison implies. Runs on every authentication,
// in both directions, so the persisted role cannot drift.
func (s *Service) reconcileRole(ctx context.Context, profile *models.UserProfile) {
	want := s.roleFor(profile.Email)
	if profile.Role == want {
		return
	}
	if err := s.profiles.SetUserRole(ctx, profile.ID, want); err != nil {
		log.Printf("Failed to reconcile role for %s: %v", profile.ID, err)
		return
	}
	log.Printf("Reconciled role for %s: %s -> %s", profile.Email, profile.Role, want)
	profile.Role = want
}

// Register creates a profile for a new email/password identity.
func (s *Service) Register(ctx context.Context, displayName, email, password string) (*models.UserProfile, error) {
	problems := make(map[string]string)
	if strings.TrimSpace(displayName) == "" {
		problems["displayName"] = "display name is required"
	}
	if !strings.Contains(email, "@") {
		problems["email"] = "a valid email address is required"
	}
	if len(password) < 8 {
		problems["password"] = "password must be at least 8 characters"
	}
	if len(problems) > 0 {
		return nil, utils.NewValidationError(problems)
	}

	if existing, _ := s.profiles.GetUserProfileByEmail(ctx, email); existing != nil {
		return nil, utils.NewAppError(utils.ErrDuplicate, "Email already registered", nil)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrValidation, "Failed to hash password", err)
	}

	now := time.Now()
	profile := &models.UserProfile{
		ID:             uuid.New(),
		Email:          email,
		DisplayName:    displayName,
		HashedPassword: string(hashed),
		Role:           s.roleFor(email),
		VerifiedEmail:  false,
		CreatedAt:      now,
		LastSeenAt:     now,
	}

	if err := s.profiles.SaveUserProfile(ctx, profile); err != nil {
		return nil, err
	}

	log.Printf("Registered user %s (%s) with role %s", profile.ID, profile.Email, profile.Role)
	return profile, nil
}

// Login verifies credentials and returns the profile with its role
// already reconciled. Credential failures are indistinguishable on
// purpose.
func (s *Service) Login(ctx context.Context, email, password string) (*models.UserProfile, error) {
	profile, err := s.profiles.GetUserProfileByEmail(ctx, email)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrInvalidCredentials, "Invalid credentials", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.HashedPassword), []byte(password)); err != nil {
		return nil, utils.NewAppError(utils.ErrInvalidCredentials, "Invalid credentials", nil)
	}

	s.reconcileRole(ctx, profile)

	if err := s.profiles.UpdateUserLastSeen(ctx, profile.ID); err != nil {
		log.Printf("Warning: failed to update last seen for %s: %v", profile.ID, err)
	}

	return profile, nil
}

// EnsureProfile lazily creates a profile for an identity authenticated
// by an external provider (OAuth), and reconciles the role either way.
// It is idempotent per the sign-in event.
func (s *Service) EnsureProfile(ctx context.Context, userID uuid.UUID, email, displayName string, verified bool) (*models.UserProfile, error) {
	profile, err := s.profiles.GetUserProfile(ctx, userID)
	if err == nil {
		s.reconcileRole(ctx, profile)
		if err := s.profiles.UpdateUserLastSeen(ctx, profile.ID); err != nil {
			log.Printf("Warning: failed to update last seen for %s: %v", profile.ID, err)
		}
		return profile, nil
	}
	if !utils.IsErrorCode(err, utils.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	profile = &models.UserProfile{
		ID:            userID,
		Email:         email,
		DisplayName:   displayName,
		Role:          s.roleFor(email),
		VerifiedEmail: verified,
		CreatedAt:     now,
		LastSeenAt:    now,
	}
	if err := s.profiles.SaveUserProfile(ctx, profile); err != nil {
		return nil, err
	}

	log.Printf("Created profile %s (%s) on first sign-in", profile.ID, profile.Email)
	return profile, nil
}
