package selection

import (
	"strings"

	"github.com/droplabz/backend/internal/entity"
	"github.com/droplabz/backend/pkg/crypto"
	"github.com/droplabz/backend/pkg/errorx"
)

type Options struct {
	// Count is the number of requested winners. Zero means every available
	// spot.
	Count int

	ExcludeEntryIDs []string
}

// Slots describes the spot accounting of an event.
type Slots struct {
	MaxWinners    int
	ReservedSpots int
	Existing      int
}

func SlotsOf(event *entity.Event, existing int) Slots {
	return Slots{
		MaxWinners:    event.MaxWinners,
		ReservedSpots: event.ReservedSpots,
		Existing:      existing,
	}
}

func (s Slots) Available() int {
	available := s.MaxWinners - s.ReservedSpots - s.Existing
	if available < 0 {
		return 0
	}

	return available
}

// EligiblePool returns the VALID and not ineligible entries which are neither
// already picked nor excluded, keeping their order.
func EligiblePool(entries []entity.Entry, pickedEntryIDs, excludeEntryIDs []string) []entity.Entry {
	skip := make(map[string]struct{}, len(pickedEntryIDs)+len(excludeEntryIDs))
	for _, id := range pickedEntryIDs {
		skip[id] = struct{}{}
	}
	for _, id := range excludeEntryIDs {
		skip[id] = struct{}{}
	}

	pool := []entity.Entry{}
	for _, e := range entries {
		if e.Status != entity.EntryStatusValid || e.IsIneligible {
			continue
		}

		if _, ok := skip[e.ID]; ok {
			continue
		}

		pool = append(pool, e)
	}

	return pool
}

// Draw picks winners uniformly at random from the eligible entries of a
// RANDOM or MANUAL event.
func Draw(
	event *entity.Event, entries []entity.Entry, pickedEntryIDs []string, opts Options,
) ([]entity.Entry, error) {
	if event.SelectionMode == entity.SelectionModeFCFS {
		return nil, errorx.New(errorx.InvalidSelectionMode,
			"Cannot manually draw winners for FCFS events (winners are auto-assigned)")
	}

	if opts.Count < 0 {
		return nil, errorx.New(errorx.BadRequest, "Count must be a positive number")
	}

	slots := SlotsOf(event, len(pickedEntryIDs))
	available := slots.Available()
	if available <= 0 {
		return nil, errorx.New(errorx.NoSpotsAvailable,
			"No winner spots available (%d max - %d reserved - %d already selected)",
			slots.MaxWinners, slots.ReservedSpots, slots.Existing)
	}

	pool := EligiblePool(entries, pickedEntryIDs, opts.ExcludeEntryIDs)
	if len(pool) == 0 {
		return nil, errorx.New(errorx.NoEligibleEntries, "No eligible entries available to draw from")
	}

	n := available
	if opts.Count > 0 && opts.Count < n {
		n = opts.Count
	}

	return RandomPick(pool, n), nil
}

// RandomPick returns n entries of pool chosen uniformly at random. The pool is
// not modified.
func RandomPick(pool []entity.Entry, n int) []entity.Entry {
	if n > len(pool) {
		n = len(pool)
	}

	shuffled := make([]entity.Entry, len(pool))
	copy(shuffled, pool)
	crypto.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return shuffled[:n]
}

// Pick validates the entries explicitly chosen by an admin. found holds the
// requested entries which belong to the event.
func Pick(
	event *entity.Event, requestedIDs []string, found []entity.Entry, pickedEntryIDs []string,
) ([]entity.Entry, error) {
	if len(requestedIDs) == 0 {
		return nil, errorx.New(errorx.BadRequest, "No entry is selected")
	}

	seen := make(map[string]struct{}, len(requestedIDs))
	for _, id := range requestedIDs {
		if _, ok := seen[id]; ok {
			return nil, errorx.New(errorx.BadRequest, "Entry %s is selected more than once", id)
		}
		seen[id] = struct{}{}
	}

	byID := make(map[string]entity.Entry, len(found))
	for _, e := range found {
		if e.EventID == event.ID {
			byID[e.ID] = e
		}
	}

	missing := []string{}
	for _, id := range requestedIDs {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, errorx.New(errorx.InvalidEntries,
			"Some entries are invalid or not found: %s", strings.Join(missing, ", "))
	}

	picked := make(map[string]struct{}, len(pickedEntryIDs))
	for _, id := range pickedEntryIDs {
		picked[id] = struct{}{}
	}

	alreadyPicked := []string{}
	ineligible := 0
	notValid := 0
	result := make([]entity.Entry, 0, len(requestedIDs))
	for _, id := range requestedIDs {
		e := byID[id]
		if _, ok := picked[id]; ok {
			alreadyPicked = append(alreadyPicked, id)
		}

		if e.IsIneligible {
			ineligible++
		}

		if e.Status != entity.EntryStatusValid {
			notValid++
		}

		result = append(result, e)
	}

	if len(alreadyPicked) > 0 {
		return nil, errorx.New(errorx.AlreadyExists,
			"Entries are already selected as winners: %s", strings.Join(alreadyPicked, ", "))
	}

	if ineligible > 0 {
		return nil, errorx.New(errorx.IneligibleEntries,
			"Cannot select %d ineligible entries as winners", ineligible)
	}

	if notValid > 0 {
		return nil, errorx.New(errorx.InvalidEntryStatus,
			"%d entries have not passed verification (status must be VALID)", notValid)
	}

	slots := SlotsOf(event, len(pickedEntryIDs))
	if len(requestedIDs) > slots.Available() {
		return nil, TooManyWinners(len(requestedIDs), slots)
	}

	return result, nil
}

func TooManyWinners(requested int, slots Slots) error {
	return errorx.New(errorx.TooManyWinners,
		"Cannot select %d winners. Only %d slots available (%d max - %d reserved - %d already selected)",
		requested, slots.Available(), slots.MaxWinners, slots.ReservedSpots, slots.Existing)
}
