package ledger

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

const balanceReadTimeout = 5 * time.Second

// balanceFlights coalesces concurrent balance reads for a user. A caller
// only joins a read whose query had not started when the caller arrived,
// so anything committed before GetBalance was called is always included.
//
// started holds the highest generation whose query has begun. A caller
// that observes generation g asks for flight g+1; the flight publishes g+1
// before it queries, which sends every later caller to a newer flight.
type balanceFlights struct {
	group   singleflight.Group
	started atomic.Uint64
}

func (f *balanceFlights) do(ctx context.Context, userID string, read func(context.Context) (Report, error)) (Report, error) {
	gen := f.started.Load() + 1
	key := userID + ":" + strconv.FormatUint(gen, 10)

	// The shared read must not die with whichever caller happened to start it.
	detached := context.WithoutCancel(ctx)

	ch := f.group.DoChan(key, func() (any, error) {
		for {
			cur := f.started.Load()
			if cur >= gen || f.started.CompareAndSwap(cur, gen) {
				break
			}
		}

		readCtx, cancel := context.WithTimeout(detached, balanceReadTimeout)
		defer cancel()
		return read(readCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Report), nil
	}
}
