// pkg/player/stats.go
package player

import "sync"

// Stats tracks the player's score and spare fuel canisters. The simulation
// writes it on its own goroutine while the HUD reads it, so access is locked.
type Stats struct {
	mu            sync.RWMutex
	score         int
	fuelCanisters int
}

// NewStats creates stats with a zero score and the given canister reserve.
func NewStats(canisters int) *Stats {
	s := &Stats{}
	s.Reset(canisters)
	return s
}

// AddScore adds amount and returns the new score.
func (s *Stats) AddScore(amount int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.score += amount
	return s.score
}

// TakeCanister spends one canister if any are left.
func (s *Stats) TakeCanister() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fuelCanisters <= 0 {
		return false
	}
	s.fuelCanisters--
	return true
}

// Reset zeroes the score and restores the canister reserve.
func (s *Stats) Reset(canisters int) {
	if canisters < 0 {
		canisters = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.score = 0
	s.fuelCanisters = canisters
}

// Score returns the current score.
func (s *Stats) Score() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.score
}

// FuelCanisters returns the spare canisters left.
func (s *Stats) FuelCanisters() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fuelCanisters
}
