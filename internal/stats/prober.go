// Package stats probes game servers for advisory liveness snapshots.
// Probe results are merged into listings opportunistically and never
// gate moderation or voting.
package stats

import (
	"context"
	"time"

	"github.com/woozymasta/a2s/pkg/a2s"
)

// Snapshot is the advisory liveness state of one game server.
type Snapshot struct {
	Online     bool
	Players    int
	MaxPlayers int
}

// Offline is the snapshot substituted whenever a probe fails or times
// out; a probe failure is never a listing-level error.
var Offline = Snapshot{Online: false, Players: 0, MaxPlayers: 0}

// Prober answers a best-effort, time-bounded liveness query.
type Prober interface {
	Probe(ctx context.Context, host string, port int) (Snapshot, error)
}

// A2SProber queries servers over the Source Engine Query protocol.
type A2SProber struct {
	Timeout time.Duration
}

func NewA2SProber(timeout time.Duration) *A2SProber {
	return &A2SProber{Timeout: timeout}
}

// Probe connects to the game server via UDP and requests A2S_INFO.
// The client timeout bounds the call; callers additionally guard with
// the context deadline so a stuck probe cannot block the listing path.
func (p *A2SProber) Probe(ctx context.Context, host string, port int) (Snapshot, error) {
	type probeResult struct {
		info *a2s.Info
		err  error
	}

	done := make(chan probeResult, 1)
	go func() {
		client, err := a2s.New(host, port)
		if err != nil {
			done <- probeResult{nil, err}
			return
		}
		defer func() { _ = client.Close() }()

		client.Timeout = p.Timeout
		info, err := client.GetInfo()
		done <- probeResult{info, err}
	}()

	select {
	case <-ctx.Done():
		return Offline, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return Offline, res.err
		}
		return Snapshot{
			Online:     true,
			Players:    int(res.info.Players),
			MaxPlayers: int(res.info.MaxPlayers),
		}, nil
	}
}
