package swiss

import (
	"swiss-tournament/internal/constants"
	"swiss-tournament/internal/domain"
)

// Pair splits a ranking into consecutive couples: ranks 0 and 1, ranks 2 and
// 3, and so on. The higher-ranked player of each couple is listed first.
func Pair(standings []domain.Standing) ([]domain.Pairing, error) {
	if len(standings)%2 != 0 {
		return nil, &domain.OddPlayerCountError{Count: len(standings)}
	}

	pairings := make([]domain.Pairing, 0, len(standings)/2)
	for i := 0; i < len(standings); i += 2 {
		pairings = append(pairings, newPairing(standings[i], standings[i+1]))
	}
	return pairings, nil
}

// History records which couples have already met.
type History map[[2]int64]struct{}

func NewHistory(matches []domain.Match) History {
	h := make(History, len(matches))
	for _, m := range matches {
		h.Add(m.WinnerID, m.LoserID)
	}
	return h
}

func (h History) Add(a, b int64) {
	h[historyKey(a, b)] = struct{}{}
}

func (h History) Played(a, b int64) bool {
	_, ok := h[historyKey(a, b)]
	return ok
}

// Rematches counts the pairings whose players have already met.
func (h History) Rematches(pairings []domain.Pairing) int {
	n := 0
	for _, p := range pairings {
		if h.Played(p.PlayerAID, p.PlayerBID) {
			n++
		}
	}
	return n
}

func historyKey(a, b int64) [2]int64 {
	if a > b {
		a, b = b, a
	}
	return [2]int64{a, b}
}

// PairAvoidingRematches pairs the ranking like Pair, except that a player is
// never paired with someone already met when another arrangement exists.
// Going down the ranking, each unpaired player takes the nearest-ranked
// unpaired opponent it has not played, backtracking when that choice leaves
// the rest of the field unpairable. Without any rematch in the way the result
// is identical to Pair. If no rematch-free arrangement is found within
// constants.MaxPairingSteps the plain Pair result is returned.
func PairAvoidingRematches(standings []domain.Standing, history History) ([]domain.Pairing, error) {
	if len(standings)%2 != 0 {
		return nil, &domain.OddPlayerCountError{Count: len(standings)}
	}
	if len(history) == 0 {
		return Pair(standings)
	}

	p := &pairer{
		standings: standings,
		history:   history,
		used:      make([]bool, len(standings)),
		order:     make([]int, 0, len(standings)),
		budget:    constants.MaxPairingSteps,
	}
	if !p.solve() {
		return Pair(standings)
	}

	pairings := make([]domain.Pairing, 0, len(standings)/2)
	for i := 0; i < len(p.order); i += 2 {
		pairings = append(pairings, newPairing(standings[p.order[i]], standings[p.order[i+1]]))
	}
	return pairings, nil
}

type pairer struct {
	standings []domain.Standing
	history   History
	used      []bool
	order     []int
	budget    int
}

func (p *pairer) solve() bool {
	first := -1
	for i, u := range p.used {
		if !u {
			first = i
			break
		}
	}
	if first < 0 {
		return true
	}

	p.used[first] = true
	for j := first + 1; j < len(p.standings); j++ {
		if p.used[j] || p.history.Played(p.standings[first].PlayerID, p.standings[j].PlayerID) {
			continue
		}
		if p.budget == 0 {
			break
		}
		p.budget--

		p.used[j] = true
		p.order = append(p.order, first, j)
		if p.solve() {
			return true
		}
		p.order = p.order[:len(p.order)-2]
		p.used[j] = false
	}
	p.used[first] = false
	return false
}

func newPairing(a, b domain.Standing) domain.Pairing {
	return domain.Pairing{
		PlayerAID:   a.PlayerID,
		PlayerAName: a.Name,
		PlayerBID:   b.PlayerID,
		PlayerBName: b.Name,
	}
}
