package host

import (
	"bytes"
	"context"
	"slices"
	"sync"

	"github.com/gagliardetto/solana-go"
	"golang.org/x/sync/semaphore"
)

// writerWeight is the full weight of a record lock. A writer takes all of it,
// a reader takes one unit.
const writerWeight = 1 << 20

type lockReq struct {
	key      solana.PublicKey
	writable bool
}

// lockTable hands out one reader/writer lock per account key.
type lockTable struct {
	mu   sync.Mutex
	sems map[solana.PublicKey]*semaphore.Weighted
}

func newLockTable() *lockTable {
	return &lockTable{sems: make(map[solana.PublicKey]*semaphore.Weighted)}
}

func (t *lockTable) sem(key solana.PublicKey) *semaphore.Weighted {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sems[key]
	if !ok {
		s = semaphore.NewWeighted(writerWeight)
		t.sems[key] = s
	}
	return s
}

// acquire locks every requested key in ascending key order, so two
// invocations over overlapping accounts cannot deadlock. On failure all locks
// taken so far are released.
func (t *lockTable) acquire(ctx context.Context, reqs []lockReq) (func(), error) {
	sorted := slices.Clone(reqs)
	slices.SortFunc(sorted, func(a, b lockReq) int {
		return bytes.Compare(a.key[:], b.key[:])
	})

	type held struct {
		sem    *semaphore.Weighted
		weight int64
	}
	taken := make([]held, 0, len(sorted))
	release := func() {
		for i := len(taken) - 1; i >= 0; i-- {
			taken[i].sem.Release(taken[i].weight)
		}
	}

	for _, r := range sorted {
		weight := int64(1)
		if r.writable {
			weight = writerWeight
		}
		s := t.sem(r.key)
		if err := s.Acquire(ctx, weight); err != nil {
			release()
			return nil, err
		}
		taken = append(taken, held{sem: s, weight: weight})
	}
	return release, nil
}
