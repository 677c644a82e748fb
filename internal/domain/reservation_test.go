package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservationStatus_CanTransitionTo(t *testing.T) {
	all := []ReservationStatus{ReservationPending, ReservationConfirmed, ReservationCompleted, ReservationCancelled}
	allowed := map[ReservationStatus]map[ReservationStatus]bool{
		ReservationPending:   {ReservationConfirmed: true, ReservationCancelled: true},
		ReservationConfirmed: {ReservationCompleted: true, ReservationCancelled: true},
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[from][to], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestReservationStatus_Terminal(t *testing.T) {
	assert.False(t, ReservationPending.Terminal())
	assert.False(t, ReservationConfirmed.Terminal())
	assert.True(t, ReservationCompleted.Terminal())
	assert.True(t, ReservationCancelled.Terminal())
	assert.False(t, ReservationStatus("archived").Valid())
}

func TestParseSlot(t *testing.T) {
	date, clock, err := ParseSlot("2026-03-07", "09:30")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-07", date)
	assert.Equal(t, "09:30", clock)

	_, _, err = ParseSlot("07.03.2026", "09:30")
	assert.Error(t, err)

	_, _, err = ParseSlot("2026-03-07", "25:00")
	assert.Error(t, err)
}
