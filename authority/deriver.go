package authority

import (
	"bytes"
	"fmt"

	"github.com/gagliardetto/solana-go"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of program identities a Deriver remembers.
const DefaultCacheSize = 128

// Deriver derives authorities for a fixed seed and caches the result per
// program. FindProgramAddress walks bump values with a hash per attempt, and
// every Initialize, Disable and Deliver needs the same answer.
type Deriver struct {
	seed  []byte
	cache *lru.Cache[solana.PublicKey, Authority]
}

// NewDeriver returns a Deriver for seed. size <= 0 selects DefaultCacheSize.
func NewDeriver(seed []byte, size int) (*Deriver, error) {
	if len(seed) > MaxSeedLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrSeedTooLong, len(seed))
	}
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[solana.PublicKey, Authority](size)
	if err != nil {
		return nil, fmt.Errorf("authority: create cache: %w", err)
	}
	return &Deriver{seed: bytes.Clone(seed), cache: cache}, nil
}

// Seed returns a copy of the derivation seed.
func (d *Deriver) Seed() []byte { return bytes.Clone(d.seed) }

// Derive returns the authority for programID.
func (d *Deriver) Derive(programID solana.PublicKey) (Authority, error) {
	if a, ok := d.cache.Get(programID); ok {
		return a, nil
	}
	a, err := Derive(d.seed, programID)
	if err != nil {
		return Authority{}, err
	}
	d.cache.Add(programID, a)
	return a, nil
}
