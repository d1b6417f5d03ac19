//go:build e2e

package e2e

import (
	"context"
	"testing"
	"time"

	"shareit/internal/domain/booking"
	"shareit/internal/infra/repository"
	"shareit/internal/usecase/readmodel"
	"shareit/tests/common/dbtest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// The listing order, the compare-and-set transition and the completed-rental
// predicate all live in SQL, so they are exercised against a real database.
type BookingRepositorySuite struct {
	SharedSuite
	repo *repository.BookingRepository
}

func (s *BookingRepositorySuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.repo = repository.NewBookingRepository(s.DB)
}

func TestBookingRepositorySuite(t *testing.T) {
	suite.Run(t, new(BookingRepositorySuite))
}

var repoNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fixtureIDs struct {
	owner  uuid.UUID
	booker uuid.UUID
	item   uuid.UUID
}

func (s *BookingRepositorySuite) seedOwnerBookerItem() fixtureIDs {
	t := s.T()
	owner := dbtest.CreateTestUser(t, s.DB, "Owner", "owner@example.com")
	booker := dbtest.CreateTestUser(t, s.DB, "Booker", "booker@example.com")
	item := dbtest.CreateTestItem(t, s.DB, owner, "Cordless Drill", true)
	return fixtureIDs{owner: owner, booker: booker, item: item}
}

func bookingIDs(rms []*readmodel.BookingRM) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(rms))
	for _, rm := range rms {
		ids = append(ids, rm.ID)
	}
	return ids
}

func (s *BookingRepositorySuite) TestListOrdering() {
	ctx := context.Background()

	s.Run("listings come back newest start first", func() {
		t := s.T()
		ids := s.seedOwnerBookerItem()

		// Inserted out of start order on purpose; only start_at may decide
		// the listing order.
		current := dbtest.CreateTestBooking(t, s.DB, ids.item, ids.booker,
			repoNow.Add(-time.Hour), repoNow.Add(time.Hour), booking.StatusApproved)
		futureFar := dbtest.CreateTestBooking(t, s.DB, ids.item, ids.booker,
			repoNow.Add(72*time.Hour), repoNow.Add(96*time.Hour), booking.StatusWaiting)
		pastFar := dbtest.CreateTestBooking(t, s.DB, ids.item, ids.booker,
			repoNow.Add(-96*time.Hour), repoNow.Add(-72*time.Hour), booking.StatusRejected)
		futureNear := dbtest.CreateTestBooking(t, s.DB, ids.item, ids.booker,
			repoNow.Add(24*time.Hour), repoNow.Add(48*time.Hour), booking.StatusWaiting)
		pastNear := dbtest.CreateTestBooking(t, s.DB, ids.item, ids.booker,
			repoNow.Add(-48*time.Hour), repoNow.Add(-24*time.Hour), booking.StatusApproved)

		wantAll := []uuid.UUID{futureFar, futureNear, current, pastNear, pastFar}

		rms, err := s.repo.FindByBookerID(ctx, ids.booker)
		s.Require().NoError(err)
		s.Equal(wantAll, bookingIDs(rms))

		rms, err = s.repo.FindByOwnerID(ctx, ids.owner)
		s.Require().NoError(err)
		s.Equal(wantAll, bookingIDs(rms))

		rms, err = s.repo.FindByBookerIDPast(ctx, ids.booker, repoNow)
		s.Require().NoError(err)
		s.Equal([]uuid.UUID{pastNear, pastFar}, bookingIDs(rms))

		rms, err = s.repo.FindByBookerIDFuture(ctx, ids.booker, repoNow)
		s.Require().NoError(err)
		s.Equal([]uuid.UUID{futureFar, futureNear}, bookingIDs(rms))

		rms, err = s.repo.FindByBookerIDCurrent(ctx, ids.booker, repoNow)
		s.Require().NoError(err)
		s.Equal([]uuid.UUID{current}, bookingIDs(rms))

		rms, err = s.repo.FindByBookerIDStatus(ctx, ids.booker, booking.StatusWaiting)
		s.Require().NoError(err)
		s.Equal([]uuid.UUID{futureFar, futureNear}, bookingIDs(rms))

		rms, err = s.repo.FindByOwnerIDStatus(ctx, ids.owner, booking.StatusWaiting)
		s.Require().NoError(err)
		s.Equal([]uuid.UUID{futureFar, futureNear}, bookingIDs(rms))
	})
}

func (s *BookingRepositorySuite) TestUpdateStatusIfWaiting() {
	ctx := context.Background()

	s.Run("first decision wins, the loser sees zero rows", func() {
		ids := s.seedOwnerBookerItem()
		bookingID := dbtest.CreateTestBooking(s.T(), s.DB, ids.item, ids.booker,
			repoNow.Add(24*time.Hour), repoNow.Add(48*time.Hour), booking.StatusWaiting)

		updated, err := s.repo.UpdateStatusIfWaiting(ctx, bookingID, booking.StatusApproved)
		s.Require().NoError(err)
		s.True(updated)

		updated, err = s.repo.UpdateStatusIfWaiting(ctx, bookingID, booking.StatusRejected)
		s.Require().NoError(err)
		s.False(updated)

		rm, err := s.repo.FindByID(ctx, bookingID)
		s.Require().NoError(err)
		s.Equal(booking.StatusApproved.String(), rm.Status)
	})

	s.Run("terminal row never matches", func() {
		ids := s.seedOwnerBookerItem()
		bookingID := dbtest.CreateTestBooking(s.T(), s.DB, ids.item, ids.booker,
			repoNow.Add(24*time.Hour), repoNow.Add(48*time.Hour), booking.StatusRejected)

		updated, err := s.repo.UpdateStatusIfWaiting(ctx, bookingID, booking.StatusApproved)
		s.Require().NoError(err)
		s.False(updated)
	})
}

func (s *BookingRepositorySuite) TestExistsCompleted() {
	ctx := context.Background()

	s.Run("approved booking that ended before now counts", func() {
		ids := s.seedOwnerBookerItem()
		dbtest.CreateTestBooking(s.T(), s.DB, ids.item, ids.booker,
			repoNow.Add(-48*time.Hour), repoNow.Add(-24*time.Hour), booking.StatusApproved)

		exists, err := s.repo.ExistsCompleted(ctx, ids.item, ids.booker, repoNow)
		s.Require().NoError(err)
		s.True(exists)
	})

	s.Run("booking ending exactly now is not completed yet", func() {
		ids := s.seedOwnerBookerItem()
		dbtest.CreateTestBooking(s.T(), s.DB, ids.item, ids.booker,
			repoNow.Add(-24*time.Hour), repoNow, booking.StatusApproved)

		exists, err := s.repo.ExistsCompleted(ctx, ids.item, ids.booker, repoNow)
		s.Require().NoError(err)
		s.False(exists)
	})

	s.Run("non-approved bookings never count", func() {
		ids := s.seedOwnerBookerItem()
		dbtest.CreateTestBooking(s.T(), s.DB, ids.item, ids.booker,
			repoNow.Add(-96*time.Hour), repoNow.Add(-72*time.Hour), booking.StatusWaiting)
		dbtest.CreateTestBooking(s.T(), s.DB, ids.item, ids.booker,
			repoNow.Add(-48*time.Hour), repoNow.Add(-24*time.Hour), booking.StatusRejected)

		exists, err := s.repo.ExistsCompleted(ctx, ids.item, ids.booker, repoNow)
		s.Require().NoError(err)
		s.False(exists)
	})

	s.Run("someone else's completed rental does not count", func() {
		ids := s.seedOwnerBookerItem()
		other := dbtest.CreateTestUser(s.T(), s.DB, "Other", "other@example.com")
		dbtest.CreateTestBooking(s.T(), s.DB, ids.item, other,
			repoNow.Add(-48*time.Hour), repoNow.Add(-24*time.Hour), booking.StatusApproved)

		exists, err := s.repo.ExistsCompleted(ctx, ids.item, ids.booker, repoNow)
		s.Require().NoError(err)
		s.False(exists)
	})
}

func (s *BookingRepositorySuite) TestLastAndNextForItem() {
	ctx := context.Background()

	s.Run("picks the nearest approved booking on each side of now", func() {
		t := s.T()
		ids := s.seedOwnerBookerItem()

		dbtest.CreateTestBooking(t, s.DB, ids.item, ids.booker,
			repoNow.Add(-96*time.Hour), repoNow.Add(-72*time.Hour), booking.StatusApproved)
		lastID := dbtest.CreateTestBooking(t, s.DB, ids.item, ids.booker,
			repoNow.Add(-48*time.Hour), repoNow.Add(-24*time.Hour), booking.StatusApproved)
		nextID := dbtest.CreateTestBooking(t, s.DB, ids.item, ids.booker,
			repoNow.Add(24*time.Hour), repoNow.Add(48*time.Hour), booking.StatusApproved)
		dbtest.CreateTestBooking(t, s.DB, ids.item, ids.booker,
			repoNow.Add(72*time.Hour), repoNow.Add(96*time.Hour), booking.StatusApproved)
		// Waiting bookings on both sides must stay invisible.
		dbtest.CreateTestBooking(t, s.DB, ids.item, ids.booker,
			repoNow.Add(-2*time.Hour), repoNow.Add(-time.Hour), booking.StatusWaiting)
		dbtest.CreateTestBooking(t, s.DB, ids.item, ids.booker,
			repoNow.Add(time.Hour), repoNow.Add(2*time.Hour), booking.StatusWaiting)

		last, err := s.repo.FindLastForItem(ctx, ids.item, repoNow)
		s.Require().NoError(err)
		s.Require().NotNil(last)
		s.Equal(lastID, last.ID)

		next, err := s.repo.FindNextForItem(ctx, ids.item, repoNow)
		s.Require().NoError(err)
		s.Require().NotNil(next)
		s.Equal(nextID, next.ID)
	})

	s.Run("no approved bookings yields nil without error", func() {
		ids := s.seedOwnerBookerItem()

		last, err := s.repo.FindLastForItem(ctx, ids.item, repoNow)
		s.Require().NoError(err)
		s.Nil(last)

		next, err := s.repo.FindNextForItem(ctx, ids.item, repoNow)
		s.Require().NoError(err)
		s.Nil(next)
	})
}
