package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/adora-ads/adora-api/internal/model"
)

// ErrBookingNotFound is returned when a booking id does not exist.
var ErrBookingNotFound = errors.New("booking not found")

// ErrSpaceUnavailable is returned when a booking targets a space whose
// availability_status is not "available".
var ErrSpaceUnavailable = errors.New("space is not available")

const bookingColumns = `b.id, b.space_id, b.advertiser_id, b.start_date, b.end_date, b.total_amount,
	b.booking_status, b.payment_status, b.campaign_details, b.created_at, b.updated_at`

// BookingRepo provides CRUD operations and status transitions for bookings.
// All timestamp fields are stored in UTC.
type BookingRepo struct {
	db       *sql.DB
	now      func() time.Time
	lockRows bool // SELECT ... FOR UPDATE on the booked space; off for SQLite
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db, now: func() time.Time { return time.Now().UTC() }, lockRows: true}
}

// DB exposes the underlying handle for callers that need a transaction.
func (r *BookingRepo) DB() *sql.DB { return r.db }

func scanBooking(rs rowScanner) (model.Booking, error) {
	var (
		b                    model.Booking
		bookingSt, paymentSt sql.NullString
		campaign             sql.NullString
	)
	err := rs.Scan(&b.ID, &b.SpaceID, &b.AdvertiserID, &b.StartDate, &b.EndDate, &b.TotalAmount,
		&bookingSt, &paymentSt, &campaign, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return b, err
	}
	b.BookingStatus = bookingSt.String
	b.PaymentStatus = paymentSt.String
	if campaign.Valid && campaign.String != "" {
		b.CampaignDetails = json.RawMessage(campaign.String)
	}
	return b, nil
}

func scanBookings(rows *sql.Rows) ([]model.Booking, error) {
	defer rows.Close()
	out := make([]model.Booking, 0, 16)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTx inserts a pending, unpaid booking within an existing
// transaction. The target space is read with a row lock so the
// availability check and the insert are atomic; the amount is prorated from
// the space's monthly price.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	q := `SELECT availability_status, price_per_month FROM advertising_spaces WHERE id = ?`
	if r.lockRows {
		q += ` FOR UPDATE`
	}
	var (
		avail sql.NullString
		price sql.NullFloat64
	)
	if err := tx.QueryRowContext(ctx, q, b.SpaceID).Scan(&avail, &price); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSpaceNotFound
		}
		return err
	}
	if avail.String != model.AvailabilityAvailable {
		return ErrSpaceUnavailable
	}

	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.TotalAmount = model.BookingAmount(price.Float64, b.StartDate, b.EndDate)
	b.BookingStatus = model.BookingPending
	b.PaymentStatus = model.PaymentUnpaid
	now := r.now()
	b.CreatedAt, b.UpdatedAt = now, now

	var campaign sql.NullString
	if len(b.CampaignDetails) > 0 {
		campaign = sql.NullString{String: string(b.CampaignDetails), Valid: true}
	}
	const ins = `INSERT INTO bookings
		(id, space_id, advertiser_id, start_date, end_date, total_amount, booking_status,
		 payment_status, campaign_details, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, ins,
		b.ID, b.SpaceID, b.AdvertiserID, b.StartDate, b.EndDate, b.TotalAmount,
		b.BookingStatus, b.PaymentStatus, campaign, b.CreatedAt, b.UpdatedAt,
	)
	return err
}

// Create wraps CreateTx in its own transaction.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := r.CreateTx(ctx, tx, b); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// BookingDetail is a booking with the space fields dashboards display.
type BookingDetail struct {
	model.Booking
	SpaceTitle    string `json:"space_title"`
	SpaceLocation string `json:"space_location"`
	SpaceOwnerID  string `json:"space_owner_id"`
}

const bookingDetailSelect = `SELECT ` + bookingColumns + `, s.title, s.location, s.owner_id
	FROM bookings b
	JOIN advertising_spaces s ON s.id = b.space_id`

func scanBookingDetails(rows *sql.Rows) ([]BookingDetail, error) {
	defer rows.Close()
	out := make([]BookingDetail, 0, 16)
	for rows.Next() {
		var (
			d                    BookingDetail
			bookingSt, paymentSt sql.NullString
			campaign             sql.NullString
		)
		if err := rows.Scan(&d.ID, &d.SpaceID, &d.AdvertiserID, &d.StartDate, &d.EndDate, &d.TotalAmount,
			&bookingSt, &paymentSt, &campaign, &d.CreatedAt, &d.UpdatedAt,
			&d.SpaceTitle, &d.SpaceLocation, &d.SpaceOwnerID); err != nil {
			return nil, err
		}
		d.BookingStatus = bookingSt.String
		d.PaymentStatus = paymentSt.String
		if campaign.Valid && campaign.String != "" {
			d.CampaignDetails = json.RawMessage(campaign.String)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetDetail fetches one booking with its space fields.
func (r *BookingRepo) GetDetail(ctx context.Context, id string) (*BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, bookingDetailSelect+` WHERE b.id = ?`, id)
	if err != nil {
		return nil, err
	}
	items, err := scanBookingDetails(rows)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrBookingNotFound
	}
	return &items[0], nil
}

// ListByAdvertiser returns the bookings a brand has made, newest first.
func (r *BookingRepo) ListByAdvertiser(ctx context.Context, advertiserID string) ([]BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		bookingDetailSelect+` WHERE b.advertiser_id = ? ORDER BY b.created_at DESC, b.id DESC`, advertiserID)
	if err != nil {
		return nil, err
	}
	return scanBookingDetails(rows)
}

// ListBySpaceOwner returns bookings placed on any space of ownerID.
func (r *BookingRepo) ListBySpaceOwner(ctx context.Context, ownerID string) ([]BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		bookingDetailSelect+` WHERE s.owner_id = ? ORDER BY b.created_at DESC, b.id DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	return scanBookingDetails(rows)
}

// ListAll returns every booking, newest first.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings b ORDER BY b.created_at DESC, b.id DESC`)
	if err != nil {
		return nil, err
	}
	return scanBookings(rows)
}

// SetBookingStatus moves a pending booking to confirmed or cancelled on
// behalf of the space owner. ErrForbidden is returned when the space is not
// owned by ownerID and ErrConflict when the booking is no longer pending.
func (r *BookingRepo) SetBookingStatus(ctx context.Context, id, ownerID, status string) (*BookingDetail, error) {
	d, err := r.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.SpaceOwnerID != ownerID {
		return nil, ErrForbidden
	}
	if d.BookingStatus != model.BookingPending {
		return nil, ErrConflict
	}
	now := r.now()
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET booking_status = ?, updated_at = ? WHERE id = ? AND booking_status = ?`,
		status, now, id, model.BookingPending)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrConflict
	}
	d.BookingStatus = status
	d.UpdatedAt = now
	return d, nil
}

// MarkPaid flips payment_status from unpaid to paid for the advertiser's
// own confirmed booking.
func (r *BookingRepo) MarkPaid(ctx context.Context, id, advertiserID string) (*BookingDetail, error) {
	d, err := r.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.AdvertiserID != advertiserID {
		return nil, ErrForbidden
	}
	if d.BookingStatus != model.BookingConfirmed || d.PaymentStatus != model.PaymentUnpaid {
		return nil, ErrConflict
	}
	now := r.now()
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET payment_status = ?, updated_at = ? WHERE id = ? AND payment_status = ?`,
		model.PaymentPaid, now, id, model.PaymentUnpaid)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrConflict
	}
	d.PaymentStatus = model.PaymentPaid
	d.UpdatedAt = now
	return d, nil
}
