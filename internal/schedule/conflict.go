package schedule

import "fmt"

// Kind identifies which table a ledger entry was loaded from.
type Kind string

const (
	KindRoomBooking  Kind = "room_booking"
	KindAvailability Kind = "availability"
	KindSession      Kind = "session"
	KindClass        Kind = "class"
)

// Lock scopes used to serialize booking decisions per resource and day.
// Distinct from Kind: a trainer's day ledger mixes session and class
// entries but is guarded by one scope.
const (
	ScopeRoom         = "room"
	ScopeTrainer      = "trainer"
	ScopeClass        = "class"
	ScopeAvailability = "availability"
)

// Entry is one committed, non-cancelled interval on a resource's ledger
// for a single day.
type Entry struct {
	ID       int
	Kind     Kind
	Interval Interval
}

// Conflict names an existing entry that overlaps a candidate interval.
type Conflict struct {
	EntryID  int
	Kind     Kind
	Interval Interval
}

// CheckConflicts returns every ledger entry overlapping the candidate,
// in ledger order. An empty result means the candidate may be accepted.
func CheckConflicts(candidate Interval, ledger []Entry) []Conflict {
	var conflicts []Conflict
	for _, e := range ledger {
		if candidate.Overlaps(e.Interval) {
			conflicts = append(conflicts, Conflict{
				EntryID:  e.ID,
				Kind:     e.Kind,
				Interval: e.Interval,
			})
		}
	}
	return conflicts
}

// FindContaining returns the first ledger entry whose interval fully
// contains the candidate. Used for availability containment checks.
func FindContaining(candidate Interval, ledger []Entry) (Entry, bool) {
	for _, e := range ledger {
		if e.Interval.Contains(candidate) {
			return e, true
		}
	}
	return Entry{}, false
}

// ConflictError is the rejection returned when a candidate interval
// overlaps a committed entry. Resource names the contended resource
// ("room", "trainer", "availability").
type ConflictError struct {
	Resource string
	Conflict Conflict
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s is already booked from %s to %s",
		e.Resource, e.Conflict.Interval.StartClock(), e.Conflict.Interval.EndClock())
}
