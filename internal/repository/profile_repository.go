package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/adora-ads/adora-api/internal/model"
)

// ErrProfileNotFound is returned when no profile exists for a user id.
var ErrProfileNotFound = errors.New("profile not found")

const profileColumns = `id, user_id, first_name, last_name, role, company_name, phone,
	avatar_url, bio, website, verification_status, created_at, updated_at`

// ProfileRepo reads and mutates rows of the profiles table. Profiles are
// created together with their account, see UserRepo.Create.
type ProfileRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewProfileRepo constructs a ProfileRepo with the provided DB handle.
func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func scanProfile(rs rowScanner) (model.Profile, error) {
	var (
		p                                        model.Profile
		role                                     string
		company, phone, avatar, bio, site, verif sql.NullString
	)
	err := rs.Scan(&p.ID, &p.UserID, &p.FirstName, &p.LastName, &role, &company, &phone,
		&avatar, &bio, &site, &verif, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, err
	}
	p.Role = model.Role(role)
	p.CompanyName = stringPtr(company)
	p.Phone = stringPtr(phone)
	p.AvatarURL = stringPtr(avatar)
	p.Bio = stringPtr(bio)
	p.Website = stringPtr(site)
	p.VerificationStatus = stringPtr(verif)
	return p, nil
}

// insertTx writes a profile inside an existing transaction. ID, timestamps
// and the pending verification status are filled in.
func (r *ProfileRepo) insertTx(ctx context.Context, tx *sql.Tx, p *model.Profile) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.VerificationStatus == nil {
		v := model.VerificationPending
		p.VerificationStatus = &v
	}
	now := r.now()
	p.CreatedAt, p.UpdatedAt = now, now
	const q = `INSERT INTO profiles (` + profileColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q,
		p.ID, p.UserID, p.FirstName, p.LastName, string(p.Role),
		nullString(p.CompanyName), nullString(p.Phone), nullString(p.AvatarURL),
		nullString(p.Bio), nullString(p.Website), nullString(p.VerificationStatus),
		p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// GetByUserID returns the profile that belongs to an account.
func (r *ProfileRepo) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	q := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = ? LIMIT 1`
	p, err := scanProfile(r.db.QueryRowContext(ctx, q, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListAll returns every profile, newest first.
func (r *ProfileRepo) ListAll(ctx context.Context) ([]model.Profile, error) {
	q := `SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Profile, 0, 32)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ProfilePatch holds the fields a user may change on their own profile.
type ProfilePatch struct {
	FirstName   *string
	LastName    *string
	CompanyName *string
	Phone       *string
	AvatarURL   *string
	Bio         *string
	Website     *string
}

// Update applies p to the profile of userID and returns the stored row.
func (r *ProfileRepo) Update(ctx context.Context, userID string, p ProfilePatch) (*model.Profile, error) {
	cur, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p.FirstName != nil {
		cur.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		cur.LastName = *p.LastName
	}
	for _, f := range []struct {
		dst **string
		src *string
	}{
		{&cur.CompanyName, p.CompanyName},
		{&cur.Phone, p.Phone},
		{&cur.AvatarURL, p.AvatarURL},
		{&cur.Bio, p.Bio},
		{&cur.Website, p.Website},
	} {
		if f.src != nil {
			*f.dst = f.src
		}
	}
	cur.UpdatedAt = r.now()
	const q = `UPDATE profiles
		SET first_name = ?, last_name = ?, company_name = ?, phone = ?, avatar_url = ?, bio = ?, website = ?, updated_at = ?
		WHERE user_id = ?`
	if _, err := r.db.ExecContext(ctx, q,
		cur.FirstName, cur.LastName, nullString(cur.CompanyName), nullString(cur.Phone),
		nullString(cur.AvatarURL), nullString(cur.Bio), nullString(cur.Website), cur.UpdatedAt,
		userID,
	); err != nil {
		return nil, err
	}
	return cur, nil
}

// SetVerification changes the verification status of a profile by its id.
// It returns ErrProfileNotFound when no row matched.
func (r *ProfileRepo) SetVerification(ctx context.Context, profileID, status string) error {
	const q = `UPDATE profiles SET verification_status = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, status, r.now(), profileID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProfileNotFound
	}
	return nil
}
