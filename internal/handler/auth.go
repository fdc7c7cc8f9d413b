package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adora-ads/adora-api/internal/config"
	"github.com/adora-ads/adora-api/internal/model"
	"github.com/adora-ads/adora-api/internal/repository"
	"github.com/adora-ads/adora-api/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Profiles *repository.ProfileRepo
	Tokens   *repository.TokenRepo
	// Invalidators run after a sign-up so user counts are not served stale.
	Invalidators []Invalidator
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, p *repository.ProfileRepo, t *repository.TokenRepo, invs ...Invalidator) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Profiles: p, Tokens: t, Invalidators: invs}
}

// ----- DTOs -----

type registerReq struct {
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirm_password"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Phone           string  `json:"phone"`
	CompanyName     *string `json:"company_name"`
	UserType        string  `json:"user_type"` // building-owner | vehicle-owner | brand-company | brand
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID    string     `json:"id"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}
type authResp struct {
	User    userPart       `json:"user"`
	Profile *model.Profile `json:"profile,omitempty"`
	Access  tokenPart      `json:"access"`
	Refresh tokenPart      `json:"refresh"`
}

// Register validates the sign-up form, creates the account and its profile in
// one transaction and returns a token pair. Password confirmation is checked
// before any database call.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := utils.CheckNewPassword(req.Password, req.ConfirmPassword); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid email required"})
	}
	if req.FirstName == "" || req.LastName == "" || req.Phone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name, last_name and phone required"})
	}
	role := model.RoleFromUserType(req.UserType)

	ctx, cancel := dbContext(c)
	defer cancel()

	profile := &model.Profile{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       &req.Phone,
		CompanyName: trimPtr(req.CompanyName),
	}
	uid, err := h.Users.Create(ctx, req.Email, req.Password, role, h.Cfg.BcryptCost, profile)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	invalidateAll(ctx, h.Invalidators)

	resp, err := h.issuePair(c, uid, req.Email, role, "")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	resp.Profile = profile
	return c.JSON(http.StatusCreated, resp)
}

// Login: verify and return new pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	resp, err := h.issuePair(c, u.ID, u.Email, u.Role, "")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, resp)
}

var (
	errIssueAccess  = errors.New("issue access failed")
	errIssueRefresh = errors.New("issue refresh failed")
	errSaveRefresh  = errors.New("save refresh failed")
)

// issuePair signs an access token and stores a fresh refresh token. With a
// non-empty rotateFrom the old refresh token is revoked in the same
// transaction. Errors other than repository.ErrRefreshInvalid carry the
// message sent to the client.
func (h *AuthHandler) issuePair(c echo.Context, uid, email string, role model.Role, rotateFrom string) (authResp, error) {
	ctx, cancel := dbContext(c)
	defer cancel()

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, uid, string(role), h.Cfg.AccessTTLMin)
	if err != nil {
		return authResp{}, errIssueAccess
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return authResp{}, errIssueRefresh
	}
	hash := utils.HashRefreshRaw(refresh.Raw)
	if rotateFrom != "" {
		if _, err := h.Tokens.Rotate(ctx, rotateFrom, hash, refresh.Exp); err != nil {
			if errors.Is(err, repository.ErrRefreshInvalid) {
				return authResp{}, err
			}
			return authResp{}, errSaveRefresh
		}
	} else if err := h.Tokens.StoreRefresh(ctx, uid, hash, refresh.Exp); err != nil {
		return authResp{}, errSaveRefresh
	}
	return authResp{
		User:    userPart{ID: uid, Email: email, Role: role},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	}, nil
}

// Refresh rotates a refresh token: the posted one is revoked and a new
// pair is returned.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := dbContext(c)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	resp, err := h.issuePair(c, u.ID, u.Email, u.Role, hash)
	if errors.Is(err, repository.ErrRefreshInvalid) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, resp)
}

// RefreshAccess validates a refresh token and returns a new access token
// without rotating the refresh token.
func (h *AuthHandler) RefreshAccess(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := dbContext(c)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		// Invalid, expired or revoked refresh token
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, userID, string(u.Role), h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access": tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Logout revokes a single refresh token when one is posted, otherwise every
// refresh token of the bearer. It is mounted outside the JWT group so a
// client holding only a refresh token can still sign out.
func (h *AuthHandler) Logout(c echo.Context) error {
	var uid string
	if raw := strings.TrimSpace(strings.TrimPrefix(c.Request().Header.Get("Authorization"), "Bearer ")); raw != "" {
		if claims, err := utils.ParseAccessToken(h.Cfg.JWTSecret, raw); err == nil {
			uid = claims.UserID
		}
	}

	var req refreshReq
	_ = c.Bind(&req)
	refreshToken := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := dbContext(c)
	defer cancel()

	if refreshToken != "" {
		hash := utils.HashRefreshRaw(refreshToken)
		if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
		}
		return c.NoContent(http.StatusNoContent)
	}
	if uid != "" {
		if err := h.Tokens.RevokeAllForUser(ctx, uid); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
		}
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "provide Authorization header or refresh_token"})
}

// Me returns the signed-in account and its profile.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, _, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	p, err := h.Profiles.GetByUserID(ctx, uid)
	if err != nil && !errors.Is(err, repository.ErrProfileNotFound) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profile failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user":    userPart{ID: u.ID, Email: u.Email, Role: u.Role},
		"profile": p,
	})
}

type profilePatchReq struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	CompanyName *string `json:"company_name"`
	Phone       *string `json:"phone"`
	AvatarURL   *string `json:"avatar_url"`
	Bio         *string `json:"bio"`
	Website     *string `json:"website"`
}

// UpdateProfile lets a user edit the contact fields of their own profile.
// Role and verification status are not editable here.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	uid, _, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}
	var req profilePatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	for _, name := range []*string{req.FirstName, req.LastName} {
		if name != nil && strings.TrimSpace(*name) == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name cannot be empty"})
		}
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	p, err := h.Profiles.Update(ctx, uid, repository.ProfilePatch{
		FirstName:   trimPtr(req.FirstName),
		LastName:    trimPtr(req.LastName),
		CompanyName: req.CompanyName,
		Phone:       req.Phone,
		AvatarURL:   req.AvatarURL,
		Bio:         req.Bio,
		Website:     req.Website,
	})
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update profile failed"})
	}
	return c.JSON(http.StatusOK, p)
}
