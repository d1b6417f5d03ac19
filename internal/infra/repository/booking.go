package repository

import (
	"context"
	"time"

	"shareit/internal/domain/booking"
	"shareit/internal/infra"
	"shareit/internal/usecase/readmodel"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// bookingViewColumns is the joined projection every booking read uses: the
// booking row plus the item summary (with owner for access checks) and the
// booker summary.
const bookingViewColumns = `
	b.id, b.start_at, b.end_at, b.status, b.created_at,
	i.id, i.name, i.owner_id,
	u.id, u.name`

const bookingViewFrom = `
	FROM bookings b
	JOIN items i ON i.id = b.item_id
	JOIN users u ON u.id = b.booker_id`

type BookingRepository struct {
	db DBTX
}

func NewBookingRepository(db DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	const query = `
		INSERT INTO bookings (id, item_id, booker_id, start_at, end_at, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		b.ID(), b.ItemID(), b.BookerID(),
		b.Period().Start(), b.Period().End(), b.Status().String(), b.CreatedAt())
	if err != nil {
		if isForeignKeyViolation(err) {
			return infra.WrapRepoErr("booking references missing item or user", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*readmodel.BookingRM, error) {
	query := `SELECT` + bookingViewColumns + bookingViewFrom + `
	WHERE b.id = $1`

	rm, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}
	return rm, nil
}

// UpdateStatusIfWaiting is the single status transition. The WHERE clause
// makes it a compare-and-set: of two concurrent approvals only one matches
// the WAITING row, the other sees zero rows affected.
func (r *BookingRepository) UpdateStatusIfWaiting(ctx context.Context, id uuid.UUID, status booking.Status) (bool, error) {
	const query = `
		UPDATE bookings SET status = $2
		WHERE id = $1 AND status = 'WAITING'`

	tag, err := r.db.Exec(ctx, query, id, status.String())
	if err != nil {
		return false, infra.WrapRepoErr("failed to update booking status", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *BookingRepository) FindByBookerID(ctx context.Context, bookerID uuid.UUID) ([]*readmodel.BookingRM, error) {
	query := `SELECT` + bookingViewColumns + bookingViewFrom + `
	WHERE b.booker_id = $1
	ORDER BY b.start_at DESC`
	return r.queryBookings(ctx, query, bookerID)
}

func (r *BookingRepository) FindByBookerIDCurrent(ctx context.Context, bookerID uuid.UUID, now time.Time) ([]*readmodel.BookingRM, error) {
	query := `SELECT` + bookingViewColumns + bookingViewFrom + `
	WHERE b.booker_id = $1 AND b.start_at < $2 AND b.end_at > $2
	ORDER BY b.start_at DESC`
	return r.queryBookings(ctx, query, bookerID, now)
}

func (r *BookingRepository) FindByBookerIDPast(ctx context.Context, bookerID uuid.UUID, now time.Time) ([]*readmodel.BookingRM, error) {
	query := `SELECT` + bookingViewColumns + bookingViewFrom + `
	WHERE b.booker_id = $1 AND b.end_at < $2
	ORDER BY b.start_at DESC`
	return r.queryBookings(ctx, query, bookerID, now)
}

func (r *BookingRepository) FindByBookerIDFuture(ctx context.Context, bookerID uuid.UUID, now time.Time) ([]*readmodel.BookingRM, error) {
	query := `SELECT` + bookingViewColumns + bookingViewFrom + `
	WHERE b.booker_id = $1 AND b.start_at > $2
	ORDER BY b.start_at DESC`
	return r.queryBookings(ctx, query, bookerID, now)
}

func (r *BookingRepository) FindByBookerIDStatus(ctx context.Context, bookerID uuid.UUID, status booking.Status) ([]*readmodel.BookingRM, error) {
	query := `SELECT` + bookingViewColumns + bookingViewFrom + `
	WHERE b.booker_id = $1 AND b.status = $2
	ORDER BY b.start_at DESC`
	return r.queryBookings(ctx, query, bookerID, status.String())
}

func (r *BookingRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*readmodel.BookingRM, error) {
	query := `SELECT` + bookingViewColumns + bookingViewFrom + `
	WHERE i.owner_id = $1
	ORDER BY b.start_at DESC`
	return r.queryBookings(ctx, query, ownerID)
}

func (r *BookingRepository) FindByOwnerIDCurrent(ctx context.Context, ownerID uuid.UUID, now time.Time) ([]*readmodel.BookingRM, error) {
	query := `SELECT` + bookingViewColumns + bookingViewFrom + `
	WHERE i.owner_id = $1 AND b.start_at < $2 AND b.end_at > $2
	ORDER BY b.start_at DESC`
	return r.queryBookings(ctx, query, ownerID, now)
}

func (r *BookingRepository) FindByOwnerIDPast(ctx context.Context, ownerID uuid.UUID, now time.Time) ([]*readmodel.BookingRM, error) {
	query := `SELECT` + bookingViewColumns + bookingViewFrom + `
	WHERE i.owner_id = $1 AND b.end_at < $2
	ORDER BY b.start_at DESC`
	return r.queryBookings(ctx, query, ownerID, now)
}

func (r *BookingRepository) FindByOwnerIDFuture(ctx context.Context, ownerID uuid.UUID, now time.Time) ([]*readmodel.BookingRM, error) {
	query := `SELECT` + bookingViewColumns + bookingViewFrom + `
	WHERE i.owner_id = $1 AND b.start_at > $2
	ORDER BY b.start_at DESC`
	return r.queryBookings(ctx, query, ownerID, now)
}

func (r *BookingRepository) FindByOwnerIDStatus(ctx context.Context, ownerID uuid.UUID, status booking.Status) ([]*readmodel.BookingRM, error) {
	query := `SELECT` + bookingViewColumns + bookingViewFrom + `
	WHERE i.owner_id = $1 AND b.status = $2
	ORDER BY b.start_at DESC`
	return r.queryBookings(ctx, query, ownerID, status.String())
}

// FindLastForItem returns the most recent APPROVED booking started before
// now, or nil when there is none.
func (r *BookingRepository) FindLastForItem(ctx context.Context, itemID uuid.UUID, now time.Time) (*readmodel.BookingShortRM, error) {
	const query = `
		SELECT id, booker_id, start_at, end_at FROM bookings
		WHERE item_id = $1 AND start_at < $2 AND status = 'APPROVED'
		ORDER BY start_at DESC
		LIMIT 1`
	return r.queryBookingShort(ctx, query, itemID, now)
}

// FindNextForItem returns the nearest APPROVED booking starting after now,
// or nil when there is none.
func (r *BookingRepository) FindNextForItem(ctx context.Context, itemID uuid.UUID, now time.Time) (*readmodel.BookingShortRM, error) {
	const query = `
		SELECT id, booker_id, start_at, end_at FROM bookings
		WHERE item_id = $1 AND start_at > $2 AND status = 'APPROVED'
		ORDER BY start_at ASC
		LIMIT 1`
	return r.queryBookingShort(ctx, query, itemID, now)
}

// ExistsCompleted reports whether the user has an APPROVED booking of the
// item that ended strictly before now. This is the comment eligibility
// predicate, re-derived from stored state on every call.
func (r *BookingRepository) ExistsCompleted(ctx context.Context, itemID, bookerID uuid.UUID, now time.Time) (bool, error) {
	const query = `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE item_id = $1 AND booker_id = $2 AND end_at < $3 AND status = 'APPROVED'
		)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, itemID, bookerID, now).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check completed booking", err)
	}
	return exists, nil
}

func (r *BookingRepository) queryBookings(ctx context.Context, query string, args ...any) ([]*readmodel.BookingRM, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query bookings", err)
	}
	defer rows.Close()

	var result []*readmodel.BookingRM
	for rows.Next() {
		rm, err := scanBooking(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", err)
		}
		result = append(result, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking rows", err)
	}
	return result, nil
}

func (r *BookingRepository) queryBookingShort(ctx context.Context, query string, args ...any) (*readmodel.BookingShortRM, error) {
	var rm readmodel.BookingShortRM
	err := r.db.QueryRow(ctx, query, args...).Scan(&rm.ID, &rm.BookerID, &rm.Start, &rm.End)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to find booking summary", err)
	}
	return &rm, nil
}

func scanBooking(row pgx.Row) (*readmodel.BookingRM, error) {
	var rm readmodel.BookingRM
	err := row.Scan(
		&rm.ID, &rm.Start, &rm.End, &rm.Status, &rm.CreatedAt,
		&rm.ItemID, &rm.ItemName, &rm.ItemOwnerID,
		&rm.BookerID, &rm.BookerName,
	)
	if err != nil {
		return nil, err
	}
	return &rm, nil
}
