package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/adora-ads/adora-api/internal/model"
	"github.com/adora-ads/adora-api/internal/search"
	"github.com/adora-ads/adora-api/internal/utils"
)

// Client calls the Adora HTTP API. Requests carry the Session's access token
// when one is present.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Session *Session
}

// New returns a Client for baseURL. A nil session gets a fresh signed-out one.
func New(baseURL string, session *Session, timeout time.Duration) *Client {
	if session == nil {
		session = NewSession()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		Session: session,
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if tok := c.Session.accessToken(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&e)
		msg := e.Error
		if e.Message != "" {
			msg = e.Message
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// SearchResult is one page of listings.
type SearchResult struct {
	Data     []model.AdvertisingSpace `json:"data"`
	Total    int64                    `json:"total"`
	Page     int                      `json:"page"`
	PageSize int                      `json:"page_size"`
	Empty    bool                     `json:"empty"`
}

// SearchSpaces runs the basic search (listing columns only).
func (c *Client) SearchSpaces(ctx context.Context, f search.Filters, p search.Page) (*SearchResult, error) {
	return c.searchAt(ctx, "/v1/spaces", f, p)
}

// SearchSpacesEnhanced runs the search that joins owner profiles.
func (c *Client) SearchSpacesEnhanced(ctx context.Context, f search.Filters, p search.Page) (*SearchResult, error) {
	return c.searchAt(ctx, "/v1/spaces/search", f, p)
}

func (c *Client) searchAt(ctx context.Context, path string, f search.Filters, p search.Page) (*SearchResult, error) {
	q := f.Values()
	if p.Number > 0 {
		q.Set(search.ParamPage, fmt.Sprint(p.Number))
	}
	if p.Size > 0 {
		q.Set(search.ParamPageSize, fmt.Sprint(p.Size))
	}
	var out SearchResult
	if err := c.do(ctx, http.MethodGet, path, q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSpace fetches one listing with its owner.
func (c *Client) GetSpace(ctx context.Context, id string) (*model.AdvertisingSpace, error) {
	var out model.AdvertisingSpace
	if err := c.do(ctx, http.MethodGet, "/v1/spaces/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SignUpForm is the registration form.
type SignUpForm struct {
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirm_password"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Phone           string  `json:"phone"`
	CompanyName     *string `json:"company_name,omitempty"`
	UserType        string  `json:"user_type"`
}

// AuthResult is returned by sign-up and sign-in.
type AuthResult struct {
	User    Account        `json:"user"`
	Profile *model.Profile `json:"profile,omitempty"`
	Access  Token          `json:"access"`
	Refresh Token          `json:"refresh"`
}

// SignUp registers an account. A password/confirmation mismatch returns
// NoticePasswordMismatch without contacting the server. On success the
// session is signed in.
func (c *Client) SignUp(ctx context.Context, form SignUpForm) (*AuthResult, error) {
	if err := utils.CheckNewPassword(form.Password, form.ConfirmPassword); err != nil {
		if errors.Is(err, utils.ErrPasswordMismatch) {
			return nil, NoticePasswordMismatch
		}
		return nil, &Notice{Title: "Registration Failed", Message: err.Error(), Destructive: true}
	}
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/v1/auth/register", nil, form, &out); err != nil {
		return nil, AsNotice(err, "Registration Failed")
	}
	c.Session.Set(out.User, out.Access, out.Refresh)
	return &out, nil
}

// SignIn authenticates and stores the tokens in the session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	var out AuthResult
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/v1/auth/login", nil, body, &out); err != nil {
		return nil, AsNotice(err, "Login Failed")
	}
	c.Session.Set(out.User, out.Access, out.Refresh)
	return &out, nil
}

// SignOut revokes the session's refresh token and clears the session. The
// local session is cleared even when the server call fails.
func (c *Client) SignOut(ctx context.Context) error {
	defer c.Session.Clear()
	rt := c.Session.refreshToken()
	if rt == "" {
		return nil
	}
	return c.do(ctx, http.MethodPost, "/v1/auth/logout", nil, map[string]string{"refresh_token": rt}, nil)
}

// Me is the current account and its profile.
type Me struct {
	User    Account        `json:"user"`
	Profile *model.Profile `json:"profile"`
}

// Me loads the signed-in user.
func (c *Client) Me(ctx context.Context) (*Me, error) {
	if !c.Session.Authenticated() {
		return nil, &Notice{Title: "Login Required", Message: "Please login to view your dashboard", Destructive: true}
	}
	var out Me
	if err := c.do(ctx, http.MethodGet, "/v1/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SpaceInput is the body of a new listing.
type SpaceInput struct {
	Title         string   `json:"title"`
	Description   *string  `json:"description,omitempty"`
	Location      string   `json:"location"`
	SpaceType     string   `json:"space_type,omitempty"`
	PricePerMonth *float64 `json:"price_per_month,omitempty"`
	Dimensions    *string  `json:"dimensions,omitempty"`
	Images        []string `json:"images,omitempty"`
	Amenities     []string `json:"amenities,omitempty"`
}

// CreateSpace inserts a listing owned by the signed-in owner.
func (c *Client) CreateSpace(ctx context.Context, in SpaceInput) (*model.AdvertisingSpace, error) {
	var out model.AdvertisingSpace
	if err := c.do(ctx, http.MethodPost, "/v1/spaces", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BookingInput is the body of a new booking. Dates use model.DateLayout.
type BookingInput struct {
	SpaceID         string          `json:"space_id"`
	StartDate       string          `json:"start_date"`
	EndDate         string          `json:"end_date"`
	CampaignDetails json.RawMessage `json:"campaign_details,omitempty"`
}

// CreateBooking books a space for the signed-in brand.
func (c *Client) CreateBooking(ctx context.Context, in BookingInput) (*model.Booking, error) {
	var out model.Booking
	if err := c.do(ctx, http.MethodPost, "/v1/bookings", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
