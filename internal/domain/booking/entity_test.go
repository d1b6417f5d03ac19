//go:build unit

package booking_test

import (
	"testing"
	"time"

	"shareit/internal/domain/booking"
	"shareit/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type periodCase struct {
	name   string
	mutate func(*builder.BookingBuilder)
	errIs  error
}

func runPeriodCases(t *testing.T, cases []periodCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := builder.NewBookingBuilder()
			if tc.mutate != nil {
				tc.mutate(b)
			}
			actual, err := b.BuildDomain()
			if tc.errIs != nil {
				require.ErrorIs(t, err, tc.errIs)
				assert.Nil(t, actual)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, actual)
		})
	}
}

func TestBooking(t *testing.T) {
	t.Run("creation", func(t *testing.T) {
		actual, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, booking.StatusWaiting, actual.Status())
		assert.False(t, actual.Status().IsTerminal())
	})

	t.Run("period validation", func(t *testing.T) {
		runPeriodCases(t, []periodCase{
			{
				name: "start before end OK",
			},
			{
				name: "start equals end rejected",
				mutate: func(b *builder.BookingBuilder) {
					b.WithPeriod(base, base)
				},
				errIs: booking.ErrInvalidPeriod,
			},
			{
				name: "start after end rejected",
				mutate: func(b *builder.BookingBuilder) {
					b.WithPeriod(base.Add(time.Hour), base)
				},
				errIs: booking.ErrInvalidPeriod,
			},
		})
	})

	t.Run("decide approves once", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, b.Decide(true))
		assert.Equal(t, booking.StatusApproved, b.Status())
		assert.True(t, b.Status().IsTerminal())

		// A second decision of either value fails.
		assert.ErrorIs(t, b.Decide(true), booking.ErrNotWaiting)
		assert.ErrorIs(t, b.Decide(false), booking.ErrNotWaiting)
		assert.Equal(t, booking.StatusApproved, b.Status())
	})

	t.Run("decide rejects once", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, b.Decide(false))
		assert.Equal(t, booking.StatusRejected, b.Status())

		assert.ErrorIs(t, b.Decide(true), booking.ErrNotWaiting)
		assert.Equal(t, booking.StatusRejected, b.Status())
	})

	t.Run("reconstructed booking keeps its state machine", func(t *testing.T) {
		id := uuid.New()
		period := booking.ReconstructPeriod(base.Add(time.Hour), base.Add(2*time.Hour))

		b := booking.ReconstructBooking(id, uuid.New(), uuid.New(), period, booking.StatusWaiting, base)
		require.NoError(t, b.Decide(false))
		assert.Equal(t, booking.StatusRejected, b.Status())

		// Rows already in a terminal state stay undecidable after reload.
		b = booking.ReconstructBooking(id, uuid.New(), uuid.New(), period, booking.StatusApproved, base)
		assert.ErrorIs(t, b.Decide(false), booking.ErrNotWaiting)
		assert.Equal(t, booking.StatusApproved, b.Status())
	})
}
