// Package repository contains data access logic separated from HTTP handlers.
// This file defines the repository for advertising spaces: inserts and
// updates by owners, lookups by id and the owner-scoped listing used by the
// dashboard. Search lives in space_search.go.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/adora-ads/adora-api/internal/model"
)

// ErrSpaceNotFound is returned when a space cannot be found in the DB.
var ErrSpaceNotFound = errors.New("space not found")

// spaceColumns lists advertising_spaces columns in scan order. Queries alias
// the table as s.
const spaceColumns = `s.id, s.owner_id, s.title, s.description, s.location, s.space_type,
	s.price_per_month, s.dimensions, s.images, s.amenities, s.availability_status,
	s.created_at, s.updated_at`

// ownerColumns are the public profile fields joined by the enhanced search.
// They come from a LEFT JOIN so every column is nullable.
const ownerColumns = `p.first_name, p.last_name, p.phone, p.company_name, p.avatar_url, p.verification_status`

const ownerJoin = `LEFT JOIN profiles p ON p.user_id = s.owner_id`

// SpaceRepo encapsulates all database queries related to advertising spaces.
type SpaceRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewSpaceRepo constructs a SpaceRepo with the provided DB handle.
func NewSpaceRepo(db *sql.DB) *SpaceRepo {
	return &SpaceRepo{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSpace(rs rowScanner, withOwner bool) (model.AdvertisingSpace, error) {
	var (
		s                        model.AdvertisingSpace
		desc, dims, images, amen sql.NullString
		avail                    sql.NullString
		price                    sql.NullFloat64
		spaceType                string
	)
	dest := []any{
		&s.ID, &s.OwnerID, &s.Title, &desc, &s.Location, &spaceType,
		&price, &dims, &images, &amen, &avail,
		&s.CreatedAt, &s.UpdatedAt,
	}
	var first, last, phone, company, avatar, verification sql.NullString
	if withOwner {
		dest = append(dest, &first, &last, &phone, &company, &avatar, &verification)
	}
	if err := rs.Scan(dest...); err != nil {
		return s, err
	}
	s.Description = stringPtr(desc)
	s.Dimensions = stringPtr(dims)
	s.SpaceType = model.SpaceType(spaceType)
	s.PricePerMonth = floatPtr(price)
	s.Images = decodeList(images)
	s.Amenities = decodeList(amen)
	s.AvailabilityStatus = avail.String
	if withOwner && (first.Valid || last.Valid) {
		s.Owner = &model.OwnerSummary{
			FirstName:          first.String,
			LastName:           last.String,
			Phone:              stringPtr(phone),
			CompanyName:        stringPtr(company),
			AvatarURL:          stringPtr(avatar),
			VerificationStatus: stringPtr(verification),
		}
	}
	return s, nil
}

func scanSpaces(rows *sql.Rows, withOwner bool, capHint int) ([]model.AdvertisingSpace, error) {
	defer rows.Close()
	out := make([]model.AdvertisingSpace, 0, capHint)
	for rows.Next() {
		s, err := scanSpace(rows, withOwner)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new space. ID, timestamps and a default availability are
// filled in on the passed struct.
func (r *SpaceRepo) Create(ctx context.Context, s *model.AdvertisingSpace) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.AvailabilityStatus == "" {
		s.AvailabilityStatus = model.AvailabilityAvailable
	}
	if s.Images == nil {
		s.Images = []string{}
	}
	if s.Amenities == nil {
		s.Amenities = []string{}
	}
	now := r.now()
	s.CreatedAt, s.UpdatedAt = now, now

	const q = `INSERT INTO advertising_spaces
		(id, owner_id, title, description, location, space_type, price_per_month,
		 dimensions, images, amenities, availability_status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		s.ID, s.OwnerID, s.Title, nullString(s.Description), s.Location, string(s.SpaceType),
		nullFloat(s.PricePerMonth), nullString(s.Dimensions), encodeList(s.Images), encodeList(s.Amenities),
		s.AvailabilityStatus, s.CreatedAt, s.UpdatedAt,
	)
	return err
}

// GetByID fetches a space regardless of availability. When withOwner is set
// the owner's public profile is joined.
func (r *SpaceRepo) GetByID(ctx context.Context, id string, withOwner bool) (*model.AdvertisingSpace, error) {
	q := `SELECT ` + spaceColumns
	if withOwner {
		q += `, ` + ownerColumns + ` FROM advertising_spaces s ` + ownerJoin
	} else {
		q += ` FROM advertising_spaces s`
	}
	q += ` WHERE s.id = ?`
	s, err := scanSpace(r.db.QueryRowContext(ctx, q, id), withOwner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSpaceNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListByOwner returns all spaces of one owner, newest first.
func (r *SpaceRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.AdvertisingSpace, error) {
	q := `SELECT ` + spaceColumns + ` FROM advertising_spaces s WHERE s.owner_id = ? ORDER BY s.created_at DESC, s.id DESC`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	return scanSpaces(rows, false, 8)
}

// ListAll returns every space regardless of availability, newest first. It
// backs the admin dashboard.
func (r *SpaceRepo) ListAll(ctx context.Context) ([]model.AdvertisingSpace, error) {
	q := `SELECT ` + spaceColumns + ` FROM advertising_spaces s ORDER BY s.created_at DESC, s.id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	return scanSpaces(rows, false, 32)
}

// SpacePatch carries the optional fields of an owner update. Nil fields are
// left unchanged.
type SpacePatch struct {
	Title              *string
	Description        *string
	Location           *string
	PricePerMonth      *float64
	Dimensions         *string
	Images             []string
	Amenities          []string
	AvailabilityStatus *string
}

// Update applies p to the space if it belongs to ownerID. ErrSpaceNotFound
// is returned for unknown ids and ErrForbidden for spaces of other owners.
func (r *SpaceRepo) Update(ctx context.Context, id, ownerID string, p SpacePatch) (*model.AdvertisingSpace, error) {
	cur, err := r.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if cur.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	if p.Title != nil {
		cur.Title = *p.Title
	}
	if p.Description != nil {
		cur.Description = p.Description
	}
	if p.Location != nil {
		cur.Location = *p.Location
	}
	if p.PricePerMonth != nil {
		cur.PricePerMonth = p.PricePerMonth
	}
	if p.Dimensions != nil {
		cur.Dimensions = p.Dimensions
	}
	if p.Images != nil {
		cur.Images = p.Images
	}
	if p.Amenities != nil {
		cur.Amenities = p.Amenities
	}
	if p.AvailabilityStatus != nil {
		cur.AvailabilityStatus = *p.AvailabilityStatus
	}
	cur.UpdatedAt = r.now()

	const q = `UPDATE advertising_spaces
		SET title = ?, description = ?, location = ?, price_per_month = ?, dimensions = ?,
		    images = ?, amenities = ?, availability_status = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`
	res, err := r.db.ExecContext(ctx, q,
		cur.Title, nullString(cur.Description), cur.Location, nullFloat(cur.PricePerMonth), nullString(cur.Dimensions),
		encodeList(cur.Images), encodeList(cur.Amenities), cur.AvailabilityStatus, cur.UpdatedAt,
		id, ownerID,
	)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrSpaceNotFound
	}
	return cur, nil
}
