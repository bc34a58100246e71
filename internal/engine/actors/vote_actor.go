package actors

import (
	"log"
	"time"

	stdctx "context"

	"server-swamp/internal/models"
	"server-swamp/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// CastVoteMsg asks for one vote from a user against a listing.
type CastVoteMsg struct {
	ListingID uuid.UUID
	UserID    uuid.UUID
}

// VoteResult is the successful response to a CastVoteMsg.
type VoteResult struct {
	ListingID uuid.UUID `json:"listingId"`
	NewCount  int       `json:"newCount"`
}

// VoteActor gates votes through the cooldown ledger. The precondition
// order is fixed: listing exists, listing approved, user
// authenticated, cooldown elapsed; the first failure wins. The ledger
// upsert and the counter increment happen inside the store's atomic
// unit, so the actor itself holds no state.
type VoteActor struct {
	listings ListingStore
	ledger   VoteLedger
	cooldown time.Duration
	metrics  *utils.MetricsCollector
}

func NewVoteActor(listings ListingStore, ledger VoteLedger, cooldown time.Duration, metrics *utils.MetricsCollector) *VoteActor {
	return &VoteActor{
		listings: listings,
		ledger:   ledger,
		cooldown: cooldown,
		metrics:  metrics,
	}
}

func (a *VoteActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *CastVoteMsg:
		startTime := time.Now()
		ctx := stdctx.Background()

		listing, err := a.listings.GetListing(ctx, msg.ListingID)
		if err != nil {
			context.Respond(err)
			return
		}
		if listing.Status != models.StatusApproved {
			context.Respond(utils.NewNotApprovedError())
			return
		}
		if msg.UserID == uuid.Nil {
			context.Respond(utils.NewUnauthenticatedError())
			return
		}

		newCount, err := a.ledger.RecordVote(ctx, msg.UserID, msg.ListingID, a.cooldown)
		if err != nil {
			if !utils.IsErrorCode(err, utils.ErrCooldownActive) {
				log.Printf("Vote by %s on %s failed: %v", msg.UserID, msg.ListingID, err)
			}
			context.Respond(err)
			return
		}

		a.metrics.AddOperationLatency("cast_vote", time.Since(startTime))
		context.Respond(&VoteResult{ListingID: msg.ListingID, NewCount: newCount})
	}
}
