package engine

import (
	"time"

	"server-swamp/internal/database"
	"server-swamp/internal/engine/actors"
	"server-swamp/internal/stats"
	"server-swamp/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

// Engine coordinates communication between actors
type Engine struct {
	listingActor *actor.PID
	voteActor    *actor.PID
	reportActor  *actor.PID
	statsActor   *actor.PID
}

// Options carries the engine's tunables from config.
type Options struct {
	VoteCooldown time.Duration
	ProbeTimeout time.Duration
}

// NewEngine spawns the directory's actors. The stats actor goes first
// so the listing actor can request initial probes by PID.
func NewEngine(system *actor.ActorSystem, db *database.MongoDB, prober stats.Prober, opts Options, metrics *utils.MetricsCollector) *Engine {
	context := system.Root

	statsProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewStatsActor(db, prober, opts.ProbeTimeout, metrics)
	})
	statsPID := context.Spawn(statsProps)

	listingProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewListingActor(db, db, statsPID, metrics)
	})
	listingPID := context.Spawn(listingProps)

	voteProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewVoteActor(db, db, opts.VoteCooldown, metrics)
	})
	votePID := context.Spawn(voteProps)

	reportProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewReportActor(db, db, db, metrics)
	})
	reportPID := context.Spawn(reportProps)

	return &Engine{
		listingActor: listingPID,
		voteActor:    votePID,
		reportActor:  reportPID,
		statsActor:   statsPID,
	}
}

// GetListingActor returns the PID of the listing actor
func (e *Engine) GetListingActor() *actor.PID {
	return e.listingActor
}

// GetVoteActor returns the PID of the vote actor
func (e *Engine) GetVoteActor() *actor.PID {
	return e.voteActor
}

// GetReportActor returns the PID of the report actor
func (e *Engine) GetReportActor() *actor.PID {
	return e.reportActor
}

// GetStatsActor returns the PID of the stats actor
func (e *Engine) GetStatsActor() *actor.PID {
	return e.statsActor
}
