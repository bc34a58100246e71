package models

import (
	"time"

	"github.com/google/uuid"
)

// VoteRecord is the per-(user, listing) ledger entry used solely to
// enforce the voting cooldown. It carries no count; each accepted vote
// contributes exactly 1 to the listing's counter.
type VoteRecord struct {
	UserID     uuid.UUID
	ListingID  uuid.UUID
	LastVoteAt time.Time
}
