// Package entropy provides the random source injected into the simulation.
// Engine logic never calls a global random function: combat and interception
// draw through a Source so outcomes are reproducible under a fixed seed.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	mathrand "math/rand"
	"sync"
)

// Source supplies the randomness the engine consumes.
type Source interface {
	// Float returns a uniform float64 in [0, 1).
	Float() float64
	// Intn returns a uniform int in [0, n). Panics if n <= 0.
	Intn(n int) int
}

// seeded is a deterministic Source over math/rand. Safe for concurrent use.
type seeded struct {
	mu  sync.Mutex
	rng *mathrand.Rand
}

// NewSeeded returns a deterministic Source for the given seed.
func NewSeeded(seed int64) Source {
	return &seeded{rng: mathrand.New(mathrand.NewSource(seed))}
}

func (s *seeded) Float() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *seeded) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// cryptoSource draws from crypto/rand. Non-reproducible; used when no seed
// is configured.
type cryptoSource struct{}

// NewCrypto returns a Source backed by the operating system's entropy.
func NewCrypto() Source {
	return cryptoSource{}
}

func (cryptoSource) Float() float64 {
	return cryptoFloat()
}

func (c cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("entropy: Intn with non-positive n")
	}
	return int(cryptoFloat() * float64(n))
}

// cryptoFloat generates a uniform float64 in [0, 1) from crypto/rand.
func cryptoFloat() float64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Should never happen; 0.5 is a safe neutral draw.
		return 0.5
	}
	// Use only 53 bits for a uniform float64 in [0, 1).
	n := binary.LittleEndian.Uint64(buf[:]) >> 11
	return float64(n) / float64(1<<53)
}
