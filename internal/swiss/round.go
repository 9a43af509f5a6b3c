package swiss

import (
	"swiss-tournament/internal/domain"
	"sync"
	"time"
)

// NoRound is the round number given to results reported while no round is
// open.
const NoRound = 0

// RoundTracker is the explicit round state machine:
//
//	registering -> round in progress -> round complete -> round in progress ...
//
// A round opens when pairings are issued and completes once a result has
// been confirmed for every pairing. Reset returns to registering.
type RoundTracker struct {
	mu      sync.Mutex
	current *domain.Round
	claimed []bool
	last    int
	now     func() time.Time
}

func NewRoundTracker() *RoundTracker {
	return &RoundTracker{now: time.Now}
}

// Current returns a copy of the latest round, or nil before the first one.
func (t *RoundTracker) Current() *domain.Round {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot()
}

func (t *RoundTracker) InProgress() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inProgress()
}

// Open starts the next round with the given pairings.
func (t *RoundTracker) Open(pairings []domain.Pairing) (*domain.Round, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.inProgress() {
		return nil, domain.ErrRoundInProgress
	}

	t.last++
	t.current = &domain.Round{
		Number:   t.last,
		Status:   domain.RoundInProgress,
		Pairings: append([]domain.Pairing(nil), pairings...),
		Reported: make([]bool, len(pairings)),
		OpenedAt: t.now(),
	}
	t.claimed = make([]bool, len(pairings))
	if len(pairings) == 0 {
		t.complete()
	}
	return t.snapshot(), nil
}

// Claim reserves the open pairing between the two players so no concurrent
// report can take it. It returns the round number and the pairing index to
// pass to Confirm or Release. With no round in progress it returns NoRound
// and -1, meaning the result is not tied to any round.
func (t *RoundTracker) Claim(a, b int64) (round int, idx int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.inProgress() {
		return NoRound, -1, nil
	}
	for i, p := range t.current.Pairings {
		if !p.Involves(a, b) {
			continue
		}
		if t.claimed[i] {
			return 0, -1, domain.ErrNotPaired
		}
		t.claimed[i] = true
		return t.current.Number, i, nil
	}
	return 0, -1, domain.ErrNotPaired
}

// Release hands back a claim whose result could not be stored.
func (t *RoundTracker) Release(round, idx int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.owns(round, idx) || t.current.Reported[idx] {
		return
	}
	t.claimed[idx] = false
}

// Confirm marks a claimed pairing as reported and reports whether that
// completed the round.
func (t *RoundTracker) Confirm(round, idx int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.owns(round, idx) {
		return false
	}
	t.current.Reported[idx] = true
	if t.current.Outstanding() > 0 {
		return false
	}
	t.complete()
	return true
}

// Reset forgets every round, as when match history is cleared.
func (t *RoundTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.current = nil
	t.claimed = nil
	t.last = 0
}

func (t *RoundTracker) inProgress() bool {
	return t.current != nil && t.current.Status == domain.RoundInProgress
}

func (t *RoundTracker) owns(round, idx int) bool {
	return t.inProgress() && t.current.Number == round && idx >= 0 && idx < len(t.claimed)
}

func (t *RoundTracker) complete() {
	t.current.Status = domain.RoundComplete
	t.current.ClosedAt = t.now()
}

func (t *RoundTracker) snapshot() *domain.Round {
	if t.current == nil {
		return nil
	}
	r := *t.current
	r.Pairings = append([]domain.Pairing(nil), t.current.Pairings...)
	r.Reported = append([]bool(nil), t.current.Reported...)
	return &r
}
