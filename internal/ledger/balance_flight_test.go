package ledger

import (
	"context"
	"sync"
	"testing"

	"go-leave/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestBalanceFlights_ConcurrentCallersAllGetTheReport(t *testing.T) {
	var f balanceFlights
	gate := make(chan struct{})
	var mu sync.Mutex
	reads := 0

	read := func(ctx context.Context) (Report, error) {
		<-gate
		mu.Lock()
		reads++
		mu.Unlock()
		return Report{domain.LeaveTypeAnnual: {}}, nil
	}

	// Callers that arrive before a read starts may share it; the rest
	// start their own. Either way each gets the full report.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			report, err := f.do(context.Background(), "user-1", read)
			assert.NoError(t, err)
			assert.Len(t, report, 1)
		}()
	}
	close(gate)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.GreaterOrEqual(t, reads, 1)
	assert.LessOrEqual(t, reads, 4)
}

func TestBalanceFlights_SequentialCallsNeverShare(t *testing.T) {
	var f balanceFlights
	reads := 0
	read := func(ctx context.Context) (Report, error) {
		reads++
		return Report{}, nil
	}

	for i := 0; i < 3; i++ {
		_, err := f.do(context.Background(), "user-1", read)
		assert.NoError(t, err)
	}

	assert.Equal(t, 3, reads)
	assert.Equal(t, uint64(3), f.started.Load())
}
