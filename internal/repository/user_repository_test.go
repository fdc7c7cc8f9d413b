package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adora-ads/adora-api/internal/model"
	"github.com/adora-ads/adora-api/internal/utils"
)

func TestUserRepo_CreateWithProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	phone := "+2348000000000"

	p := &model.Profile{FirstName: "Tunde", LastName: "Bello", Phone: &phone}
	id, err := f.users.Create(ctx, "  Tunde@Example.com ", "secret1", model.RoleVehicleOwner, 4, p)
	require.NoError(t, err)
	assert.Equal(t, id, p.UserID)
	assert.Equal(t, model.RoleVehicleOwner, p.Role)

	u, err := f.users.GetByEmail(ctx, "tunde@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.True(t, u.IsActive)
	assert.True(t, utils.VerifyPassword(u.PasswordHash, "secret1"))

	stored, err := f.profiles.GetByUserID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Tunde", stored.FirstName)
	assert.Equal(t, phone, *stored.Phone)
	require.NotNil(t, stored.VerificationStatus)
	assert.Equal(t, model.VerificationPending, *stored.VerificationStatus)

	_, err = f.users.Create(ctx, "tunde@example.com", "other12", model.RoleBrandCompany, 4, &model.Profile{FirstName: "X", LastName: "Y"})
	assert.ErrorIs(t, err, ErrEmailExists)

	profiles, err := f.profiles.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, profiles, 1, "failed sign-up must not leave a profile behind")
}

func TestProfileRepo_UpdateAndVerify(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.user(t, "a@example.com", model.RoleBrandCompany)

	company := "Acme Ltd"
	p, err := f.profiles.Update(ctx, id, ProfilePatch{CompanyName: &company})
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", *p.CompanyName)
	assert.Equal(t, "Ada", p.FirstName)

	require.NoError(t, f.profiles.SetVerification(ctx, p.ID, model.VerificationVerified))
	got, err := f.profiles.GetByUserID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.VerificationVerified, *got.VerificationStatus)

	assert.ErrorIs(t, f.profiles.SetVerification(ctx, "missing", model.VerificationVerified), ErrProfileNotFound)
	_, err = f.profiles.GetByUserID(ctx, "missing")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestTokenRepo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.user(t, "a@example.com", model.RoleAdmin)
	tokens := NewTokenRepo(f.db)

	require.NoError(t, tokens.StoreRefresh(ctx, id, "h1", time.Now().UTC().Add(time.Hour)))
	require.NoError(t, tokens.StoreRefresh(ctx, id, "h2", time.Now().UTC().Add(time.Hour)))
	require.NoError(t, tokens.StoreRefresh(ctx, id, "old", time.Now().UTC().Add(-time.Hour)))

	got, err := tokens.ValidateRefresh(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = tokens.ValidateRefresh(ctx, "old")
	assert.ErrorIs(t, err, ErrRefreshInvalid)
	_, err = tokens.ValidateRefresh(ctx, "unknown")
	assert.ErrorIs(t, err, ErrRefreshInvalid)

	owner, err := tokens.Rotate(ctx, "h2", "h3", time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, id, owner)
	_, err = tokens.Rotate(ctx, "h2", "h4", time.Now().UTC().Add(time.Hour))
	assert.ErrorIs(t, err, ErrRefreshInvalid)
	_, err = tokens.ValidateRefresh(ctx, "h3")
	require.NoError(t, err)

	require.NoError(t, tokens.RevokeByHash(ctx, "h1"))
	_, err = tokens.ValidateRefresh(ctx, "h1")
	assert.Error(t, err)

	require.NoError(t, tokens.RevokeAllForUser(ctx, id))
	_, err = tokens.ValidateRefresh(ctx, "h3")
	assert.ErrorIs(t, err, ErrRefreshInvalid)
}
