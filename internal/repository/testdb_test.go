package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/adora-ads/adora-api/internal/model"
)

// sqliteSchema mirrors database.schema with SQLite types.
var sqliteSchema = []string{
	`CREATE TABLE users (
		id TEXT PRIMARY KEY, email TEXT NOT NULL UNIQUE, password_hash TEXT NOT NULL,
		role TEXT NOT NULL, is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL, updated_at DATETIME NOT NULL)`,
	`CREATE TABLE refresh_tokens (
		id INTEGER PRIMARY KEY AUTOINCREMENT, user_id TEXT NOT NULL REFERENCES users(id),
		token_hash TEXT NOT NULL UNIQUE, expires_at DATETIME NOT NULL, revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL)`,
	`CREATE TABLE profiles (
		id TEXT PRIMARY KEY, user_id TEXT NOT NULL UNIQUE REFERENCES users(id),
		first_name TEXT NOT NULL, last_name TEXT NOT NULL, role TEXT NOT NULL,
		company_name TEXT, phone TEXT, avatar_url TEXT, bio TEXT, website TEXT,
		verification_status TEXT DEFAULT 'pending',
		created_at DATETIME NOT NULL, updated_at DATETIME NOT NULL)`,
	`CREATE TABLE advertising_spaces (
		id TEXT PRIMARY KEY, owner_id TEXT NOT NULL REFERENCES profiles(user_id),
		title TEXT NOT NULL, description TEXT, location TEXT NOT NULL, space_type TEXT NOT NULL,
		price_per_month REAL CHECK (price_per_month IS NULL OR price_per_month >= 0),
		dimensions TEXT, images TEXT, amenities TEXT, availability_status TEXT DEFAULT 'available',
		created_at DATETIME NOT NULL, updated_at DATETIME NOT NULL)`,
	`CREATE TABLE bookings (
		id TEXT PRIMARY KEY, space_id TEXT NOT NULL REFERENCES advertising_spaces(id),
		advertiser_id TEXT NOT NULL REFERENCES profiles(user_id),
		start_date DATE NOT NULL, end_date DATE NOT NULL,
		total_amount REAL NOT NULL CHECK (total_amount >= 0),
		booking_status TEXT DEFAULT 'pending', payment_status TEXT DEFAULT 'unpaid',
		campaign_details TEXT, created_at DATETIME NOT NULL, updated_at DATETIME NOT NULL)`,
}

// openSQLite returns an in-memory database with the schema applied. A single
// connection keeps every statement on the same memory database.
func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=memory&_foreign_keys=on", name))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	for _, stmt := range sqliteSchema {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return db
}

// fixture wires the repositories to one SQLite database with a controllable
// clock.
type fixture struct {
	db       *sql.DB
	profiles *ProfileRepo
	users    *UserRepo
	spaces   *SpaceRepo
	bookings *BookingRepo
	clock    time.Time
}

func newFixture(t *testing.T) *fixture {
	db := openSQLite(t)
	f := &fixture{db: db, clock: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	now := func() time.Time { return f.clock }
	f.profiles = &ProfileRepo{db: db, now: now}
	f.users = NewUserRepo(db, f.profiles)
	f.spaces = &SpaceRepo{db: db, now: now}
	f.bookings = &BookingRepo{db: db, now: now, lockRows: false}
	return f
}

// tick advances the clock so rows get distinct created_at values.
func (f *fixture) tick() { f.clock = f.clock.Add(time.Minute) }

func (f *fixture) user(t *testing.T, email string, role model.Role) string {
	t.Helper()
	id, err := f.users.Create(context.Background(), email, "secret1", role, 4,
		&model.Profile{FirstName: "Ada", LastName: "Obi"})
	require.NoError(t, err)
	f.tick()
	return id
}

func (f *fixture) space(t *testing.T, owner, title, location string, typ model.SpaceType, price float64) *model.AdvertisingSpace {
	t.Helper()
	s := &model.AdvertisingSpace{OwnerID: owner, Title: title, Location: location, SpaceType: typ, PricePerMonth: &price}
	require.NoError(t, f.spaces.Create(context.Background(), s))
	f.tick()
	return s
}
