package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adora-ads/adora-api/internal/config"
	"github.com/adora-ads/adora-api/internal/model"
	"github.com/adora-ads/adora-api/internal/repository"
	"github.com/adora-ads/adora-api/internal/utils"
)

const testSecret = "test-secret"

var userCols = []string{"id", "email", "password_hash", "role", "is_active", "created_at", "updated_at"}

func newAuthHandler(db *sql.DB) *AuthHandler {
	profiles := repository.NewProfileRepo(db)
	cfg := config.Config{JWTSecret: testSecret, AccessTTLMin: 15, RefreshTTLDays: 7, BcryptCost: 4}
	return NewAuthHandler(cfg, repository.NewUserRepo(db, profiles), profiles, repository.NewTokenRepo(db))
}

func userRow(t *testing.T, password string, active bool) *sqlmock.Rows {
	t.Helper()
	hash, err := utils.HashPassword(password, 4)
	require.NoError(t, err)
	at := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(userCols).
		AddRow("u-1", "ada@example.com", hash, string(model.RoleBrandCompany), active, at, at)
}

// liveToken is a refresh_tokens row that expires in a week.
func liveToken(userID string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
		AddRow(userID, time.Now().UTC().Add(7*24*time.Hour), nil)
}

func TestLogin(t *testing.T) {
	t.Run("issues a pair", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`SELECT .+ FROM users WHERE email=\?`).
			WithArgs("ada@example.com").
			WillReturnRows(userRow(t, "abc123", true))
		mock.ExpectExec(`INSERT INTO refresh_tokens`).
			WithArgs("u-1", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		c, rec := request(http.MethodPost, "/v1/auth/login", `{"email":" Ada@Example.com ","password":"abc123"}`, "", "")
		require.NoError(t, newAuthHandler(db).Login(c))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp authResp
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "u-1", resp.User.ID)
		assert.Equal(t, model.RoleBrandCompany, resp.User.Role)
		assert.Len(t, resp.Refresh.Token, 96)

		claims, err := utils.ParseAccessToken(testSecret, resp.Access.Token)
		require.NoError(t, err)
		assert.Equal(t, "u-1", claims.UserID)
		assert.Equal(t, string(model.RoleBrandCompany), claims.Role)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wrong password", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`FROM users`).WillReturnRows(userRow(t, "abc123", true))

		c, rec := request(http.MethodPost, "/v1/auth/login", `{"email":"ada@example.com","password":"nope"}`, "", "")
		require.NoError(t, newAuthHandler(db).Login(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("inactive account", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`FROM users`).WillReturnRows(userRow(t, "abc123", false))

		c, rec := request(http.MethodPost, "/v1/auth/login", `{"email":"ada@example.com","password":"abc123"}`, "", "")
		require.NoError(t, newAuthHandler(db).Login(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`FROM users`).WillReturnRows(sqlmock.NewRows(userCols))

		c, rec := request(http.MethodPost, "/v1/auth/login", `{"email":"who@example.com","password":"abc123"}`, "", "")
		require.NoError(t, newAuthHandler(db).Login(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"invalid credentials"}`, rec.Body.String())
	})

	t.Run("missing fields", func(t *testing.T) {
		db, mock := newMock(t)
		c, rec := request(http.MethodPost, "/v1/auth/login", `{"email":"ada@example.com"}`, "", "")
		require.NoError(t, newAuthHandler(db).Login(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRefresh_Rotates(t *testing.T) {
	db, mock := newMock(t)
	hash := utils.HashRefreshRaw("old-raw")

	mock.ExpectQuery(`FROM refresh_tokens WHERE token_hash = \?`).WithArgs(hash).WillReturnRows(liveToken("u-1"))
	mock.ExpectQuery(`FROM users WHERE id=\?`).WithArgs("u-1").WillReturnRows(userRow(t, "abc123", true))
	mock.ExpectQuery(`FROM refresh_tokens WHERE token_hash = \?`).WithArgs(hash).WillReturnRows(liveToken("u-1"))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE refresh_tokens SET revoked_at = \? WHERE token_hash = \? AND revoked_at IS NULL`).
		WithArgs(sqlmock.AnyArg(), hash).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WithArgs("u-1", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	c, rec := request(http.MethodPost, "/v1/auth/refresh", `{"refresh_token":"old-raw"}`, "", "")
	require.NoError(t, newAuthHandler(db).Refresh(c))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp authResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEqual(t, "old-raw", resp.Refresh.Token)
	assert.NotEmpty(t, resp.Access.Token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefresh_ReusedTokenRejected(t *testing.T) {
	db, mock := newMock(t)
	hash := utils.HashRefreshRaw("old-raw")

	// a concurrent refresh revoked the token between validation and rotation
	mock.ExpectQuery(`FROM refresh_tokens`).WithArgs(hash).WillReturnRows(liveToken("u-1"))
	mock.ExpectQuery(`FROM users`).WithArgs("u-1").WillReturnRows(userRow(t, "abc123", true))
	mock.ExpectQuery(`FROM refresh_tokens`).WithArgs(hash).WillReturnRows(liveToken("u-1"))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE refresh_tokens SET revoked_at`).
		WithArgs(sqlmock.AnyArg(), hash).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	c, rec := request(http.MethodPost, "/v1/auth/refresh", `{"refresh_token":"old-raw"}`, "", "")
	require.NoError(t, newAuthHandler(db).Refresh(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"invalid refresh"}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefresh_RevokedToken(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`FROM refresh_tokens`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow("u-1", time.Now().UTC().Add(time.Hour), time.Now().UTC()))

	c, rec := request(http.MethodPost, "/v1/auth/refresh", `{"refresh_token":"old-raw"}`, "", "")
	require.NoError(t, newAuthHandler(db).Refresh(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshAccess_KeepsRefreshToken(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`FROM refresh_tokens`).WillReturnRows(liveToken("u-1"))
	mock.ExpectQuery(`FROM users WHERE id=\?`).WithArgs("u-1").WillReturnRows(userRow(t, "abc123", true))

	c, rec := request(http.MethodPost, "/v1/auth/refresh-access", `{"refresh_token":"raw"}`, "", "")
	require.NoError(t, newAuthHandler(db).RefreshAccess(c))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp, "access")
	assert.NotContains(t, resp, "refresh")
	assert.NoError(t, mock.ExpectationsWereMet())

	c, rec = request(http.MethodPost, "/v1/auth/refresh-access", `{}`, "", "")
	require.NoError(t, newAuthHandler(db).RefreshAccess(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogout(t *testing.T) {
	t.Run("single refresh token", func(t *testing.T) {
		db, mock := newMock(t)
		hash := utils.HashRefreshRaw("raw")
		mock.ExpectQuery(`FROM refresh_tokens`).WithArgs(hash).WillReturnRows(liveToken("u-1"))
		mock.ExpectExec(`UPDATE refresh_tokens SET revoked_at = \? WHERE token_hash = \?`).
			WithArgs(sqlmock.AnyArg(), hash).
			WillReturnResult(sqlmock.NewResult(0, 1))

		c, rec := request(http.MethodPost, "/v1/auth/logout", `{"refresh_token":"raw"}`, "", "")
		require.NoError(t, newAuthHandler(db).Logout(c))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("every token of the bearer", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(`UPDATE refresh_tokens SET revoked_at = \? WHERE user_id = \?`).
			WithArgs(sqlmock.AnyArg(), "u-1").
			WillReturnResult(sqlmock.NewResult(0, 3))

		access, err := utils.NewAccessToken(testSecret, "u-1", string(model.RoleBrandCompany), 5)
		require.NoError(t, err)
		c, rec := request(http.MethodPost, "/v1/auth/logout", "", "", "")
		c.Request().Header.Set("Authorization", "Bearer "+access.Token)
		require.NoError(t, newAuthHandler(db).Logout(c))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown refresh token", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`FROM refresh_tokens`).WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}))

		c, rec := request(http.MethodPost, "/v1/auth/logout", `{"refresh_token":"raw"}`, "", "")
		require.NoError(t, newAuthHandler(db).Logout(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nothing to revoke", func(t *testing.T) {
		db, mock := newMock(t)
		c, rec := request(http.MethodPost, "/v1/auth/logout", "", "", "")
		require.NoError(t, newAuthHandler(db).Logout(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

var profileCols = []string{
	"id", "user_id", "first_name", "last_name", "role", "company_name", "phone",
	"avatar_url", "bio", "website", "verification_status", "created_at", "updated_at",
}

func profileRow(userID string) *sqlmock.Rows {
	at := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(profileCols).AddRow(
		"p-1", userID, "Ada", "Obi", string(model.RoleBuildingOwner), nil, "+2348000000000",
		nil, nil, nil, model.VerificationPending, at, at,
	)
}

func TestUpdateProfile(t *testing.T) {
	t.Run("updates own profile", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`FROM profiles WHERE user_id = \?`).WithArgs("u-1").WillReturnRows(profileRow("u-1"))
		mock.ExpectExec(`UPDATE profiles\s+SET first_name`).
			WithArgs("Adaeze", "Obi", "Obi Media", "+2348000000000", nil, nil, nil, sqlmock.AnyArg(), "u-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		c, rec := request(http.MethodPatch, "/v1/me/profile",
			`{"first_name":" Adaeze ","company_name":"Obi Media"}`, "u-1", model.RoleBuildingOwner)
		require.NoError(t, newAuthHandler(db).UpdateProfile(c))

		require.Equal(t, http.StatusOK, rec.Code)
		var got model.Profile
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Adaeze", got.FirstName)
		require.NotNil(t, got.CompanyName)
		assert.Equal(t, "Obi Media", *got.CompanyName)
		assert.Equal(t, model.RoleBuildingOwner, got.Role)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("blank name", func(t *testing.T) {
		db, mock := newMock(t)
		c, rec := request(http.MethodPatch, "/v1/me/profile", `{"last_name":"  "}`, "u-1", model.RoleBuildingOwner)
		require.NoError(t, newAuthHandler(db).UpdateProfile(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no profile", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`FROM profiles`).WillReturnRows(sqlmock.NewRows(profileCols))
		c, rec := request(http.MethodPatch, "/v1/me/profile", `{"bio":"hi"}`, "u-9", model.RoleBrandCompany)
		require.NoError(t, newAuthHandler(db).UpdateProfile(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("signed out", func(t *testing.T) {
		db, _ := newMock(t)
		c, rec := request(http.MethodPatch, "/v1/me/profile", `{"bio":"hi"}`, "", "")
		require.NoError(t, newAuthHandler(db).UpdateProfile(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestMe(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`FROM users WHERE id=\?`).WithArgs("u-1").WillReturnRows(userRow(t, "abc123", true))
	mock.ExpectQuery(`FROM profiles WHERE user_id = \?`).WithArgs("u-1").WillReturnRows(profileRow("u-1"))

	c, rec := request(http.MethodGet, "/v1/me", "", "u-1", model.RoleBrandCompany)
	require.NoError(t, newAuthHandler(db).Me(c))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		User    userPart      `json:"user"`
		Profile model.Profile `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.Equal(t, "Ada", resp.Profile.FirstName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
