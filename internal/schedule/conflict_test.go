package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustInterval(t *testing.T, start, end string) Interval {
	t.Helper()
	iv, err := NewIntervalFromClock(start, end)
	require.NoError(t, err)
	return iv
}

func TestCheckConflicts(t *testing.T) {
	ledger := []Entry{
		{ID: 1, Kind: KindRoomBooking, Interval: mustInterval(t, "09:00", "10:00")},
		{ID: 2, Kind: KindClass, Interval: mustInterval(t, "10:00", "11:00")},
		{ID: 3, Kind: KindSession, Interval: mustInterval(t, "14:00", "15:00")},
	}

	// Candidate overlapping the first booking only.
	conflicts := CheckConflicts(mustInterval(t, "09:30", "10:00"), ledger)
	require.Len(t, conflicts, 1)
	assert.Equal(t, 1, conflicts[0].EntryID)
	assert.Equal(t, KindRoomBooking, conflicts[0].Kind)

	// Candidate spanning two entries.
	conflicts = CheckConflicts(mustInterval(t, "09:30", "10:30"), ledger)
	require.Len(t, conflicts, 2)
	assert.Equal(t, 1, conflicts[0].EntryID)
	assert.Equal(t, 2, conflicts[1].EntryID)

	// Back-to-back slots are free.
	assert.Empty(t, CheckConflicts(mustInterval(t, "11:00", "14:00"), ledger))

	// Empty ledger accepts everything.
	assert.Empty(t, CheckConflicts(mustInterval(t, "09:00", "17:00"), nil))
}

func TestCheckConflictsPairwise(t *testing.T) {
	// Entries accepted one at a time against the growing ledger must end
	// up pairwise non-overlapping.
	candidates := []Interval{
		mustInterval(t, "09:00", "10:00"),
		mustInterval(t, "09:30", "10:30"),
		mustInterval(t, "10:00", "11:00"),
		mustInterval(t, "10:45", "11:15"),
	}

	var ledger []Entry
	for i, c := range candidates {
		if len(CheckConflicts(c, ledger)) == 0 {
			ledger = append(ledger, Entry{ID: i + 1, Kind: KindRoomBooking, Interval: c})
		}
	}

	require.Len(t, ledger, 2)
	for i := range ledger {
		for j := i + 1; j < len(ledger); j++ {
			assert.False(t, ledger[i].Interval.Overlaps(ledger[j].Interval))
		}
	}
}

func TestFindContaining(t *testing.T) {
	availability := []Entry{
		{ID: 1, Kind: KindAvailability, Interval: mustInterval(t, "08:00", "12:00")},
		{ID: 2, Kind: KindAvailability, Interval: mustInterval(t, "14:00", "18:00")},
	}

	slot, ok := FindContaining(mustInterval(t, "09:00", "10:00"), availability)
	require.True(t, ok)
	assert.Equal(t, 1, slot.ID)

	slot, ok = FindContaining(mustInterval(t, "14:00", "18:00"), availability)
	require.True(t, ok)
	assert.Equal(t, 2, slot.ID)

	// Spills past the availability window.
	_, ok = FindContaining(mustInterval(t, "11:00", "13:00"), availability)
	assert.False(t, ok)

	_, ok = FindContaining(mustInterval(t, "06:00", "07:00"), nil)
	assert.False(t, ok)
}
