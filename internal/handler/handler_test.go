package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adora-ads/adora-api/internal/config"
	"github.com/adora-ads/adora-api/internal/middleware"
	"github.com/adora-ads/adora-api/internal/model"
	"github.com/adora-ads/adora-api/internal/queue"
	"github.com/adora-ads/adora-api/internal/repository"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// request builds an Echo context for method/target. A non-empty uid marks
// the caller as authenticated with role.
func request(method, target, body, uid string, role model.Role) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if uid != "" {
		c.Set(middleware.KeyUserID, uid)
		c.Set(middleware.KeyRole, string(role))
	}
	return c, rec
}

type countingInvalidator struct{ n int }

func (i *countingInvalidator) Invalidate(context.Context) error { i.n++; return nil }

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.BookingEvent
}

func (p *recordingPublisher) PublishBookingEvent(_ context.Context, ev queue.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func TestRegister_PasswordMismatchNeverTouchesDB(t *testing.T) {
	db, mock := newMock(t)
	profiles := repository.NewProfileRepo(db)
	h := NewAuthHandler(config.Config{BcryptCost: 4}, repository.NewUserRepo(db, profiles), profiles, repository.NewTokenRepo(db))

	body := `{"email":"ada@example.com","password":"abc123","confirm_password":"xyz789",
		"first_name":"Ada","last_name":"Obi","phone":"+2348000000000","user_type":"brand-company"}`
	c, rec := request(http.MethodPost, "/v1/auth/register", body, "", "")
	require.NoError(t, h.Register(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"passwords do not match"}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_RequiresProfileFields(t *testing.T) {
	db, mock := newMock(t)
	profiles := repository.NewProfileRepo(db)
	h := NewAuthHandler(config.Config{BcryptCost: 4}, repository.NewUserRepo(db, profiles), profiles, repository.NewTokenRepo(db))

	c, rec := request(http.MethodPost, "/v1/auth/register",
		`{"email":"ada@example.com","password":"abc123","confirm_password":"abc123","first_name":"Ada"}`, "", "")
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearch_EmptyResult(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM advertising_spaces s WHERE`).
		WithArgs("available", "%zzz%", "%zzz%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	h := NewSpaceHandler(repository.NewSpaceRepo(db))
	c, rec := request(http.MethodGet, "/v1/spaces/search?q=zzz", "", "", "")
	require.NoError(t, h.SearchEnhanced(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[],"total":0,"page":1,"page_size":20,"empty":true}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearch_DatabaseError(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`SELECT COUNT`).WillReturnError(sql.ErrConnDone)

	h := NewSpaceHandler(repository.NewSpaceRepo(db))
	c, rec := request(http.MethodGet, "/v1/spaces", "", "", "")
	require.NoError(t, h.Search(c))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"database_error","message":"failed to load spaces"}`, rec.Body.String())
}

func TestCreateSpace(t *testing.T) {
	t.Run("type follows role", func(t *testing.T) {
		db, mock := newMock(t)
		h := NewSpaceHandler(repository.NewSpaceRepo(db))
		c, rec := request(http.MethodPost, "/v1/spaces",
			`{"title":"Van","location":"Lagos","space_type":"vehicle"}`, "owner-1", model.RoleBuildingOwner)
		require.NoError(t, h.CreateSpace(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative price", func(t *testing.T) {
		db, _ := newMock(t)
		h := NewSpaceHandler(repository.NewSpaceRepo(db))
		c, rec := request(http.MethodPost, "/v1/spaces",
			`{"title":"Wall","location":"Lagos","price_per_month":-1}`, "owner-1", model.RoleBuildingOwner)
		require.NoError(t, h.CreateSpace(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("created and caches dropped", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(`INSERT INTO advertising_spaces`).WillReturnResult(sqlmock.NewResult(1, 1))
		inv := &countingInvalidator{}
		h := NewSpaceHandler(repository.NewSpaceRepo(db), inv)

		c, rec := request(http.MethodPost, "/v1/spaces",
			`{"title":" Rooftop ","location":"Ikeja, Lagos","price_per_month":90000}`, "owner-1", model.RoleBuildingOwner)
		require.NoError(t, h.CreateSpace(c))

		require.Equal(t, http.StatusCreated, rec.Code)
		var got model.AdvertisingSpace
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Rooftop", got.Title)
		assert.Equal(t, model.SpaceBuilding, got.SpaceType)
		assert.Equal(t, model.AvailabilityAvailable, got.AvailabilityStatus)
		assert.Equal(t, "owner-1", got.OwnerID)
		assert.Equal(t, 1, inv.n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateSpace_TypeIsFixed(t *testing.T) {
	db, mock := newMock(t)
	h := NewSpaceHandler(repository.NewSpaceRepo(db))
	c, rec := request(http.MethodPatch, "/v1/spaces/s-1", `{"space_type":"vehicle"}`, "owner-1", model.RoleBuildingOwner)
	c.SetParamNames("id")
	c.SetParamValues("s-1")
	require.NoError(t, h.UpdateSpace(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var detailColumns = []string{
	"id", "space_id", "advertiser_id", "start_date", "end_date", "total_amount",
	"booking_status", "payment_status", "campaign_details", "created_at", "updated_at",
	"title", "location", "owner_id",
}

func detailRow(status, payment string) *sqlmock.Rows {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 30, 0, 0, 0, 0, time.UTC)
	at := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(detailColumns).AddRow(
		"bk-1", "s-1", "brand-1", start, end, 90000.0,
		status, payment, nil, at, at,
		"Rooftop", "Ikeja, Lagos", "owner-1",
	)
}

func TestConfirmBooking_PublishesEvent(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`FROM bookings b\s+JOIN advertising_spaces s`).
		WithArgs("bk-1").
		WillReturnRows(detailRow(model.BookingPending, model.PaymentUnpaid))
	mock.ExpectExec(`UPDATE bookings SET booking_status`).
		WithArgs(model.BookingConfirmed, sqlmock.AnyArg(), "bk-1", model.BookingPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	pub := &recordingPublisher{}
	h := NewBookingHandler(repository.NewBookingRepo(db), pub)
	c, rec := request(http.MethodPatch, "/v1/bookings/bk-1/confirm", "", "owner-1", model.RoleBuildingOwner)
	c.SetParamNames("id")
	c.SetParamValues("bk-1")
	require.NoError(t, h.ConfirmBooking(c))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	assert.Equal(t, queue.EventBookingConfirmed, ev.Type)
	assert.Equal(t, "bk-1", ev.BookingID)
	assert.Equal(t, "owner-1", ev.OwnerID)
	assert.Equal(t, "2026-03-01", ev.StartDate)
	assert.Equal(t, "2026-03-30", ev.EndDate)
	assert.Equal(t, model.BookingConfirmed, ev.BookingStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmBooking_Errors(t *testing.T) {
	t.Run("not the owner", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`FROM bookings b`).WithArgs("bk-1").
			WillReturnRows(detailRow(model.BookingPending, model.PaymentUnpaid))
		pub := &recordingPublisher{}
		h := NewBookingHandler(repository.NewBookingRepo(db), pub)
		c, rec := request(http.MethodPatch, "/", "", "someone-else", model.RoleBuildingOwner)
		c.SetParamNames("id")
		c.SetParamValues("bk-1")
		require.NoError(t, h.ConfirmBooking(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, pub.events)
	})

	t.Run("already decided", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`FROM bookings b`).WithArgs("bk-1").
			WillReturnRows(detailRow(model.BookingCancelled, model.PaymentUnpaid))
		h := NewBookingHandler(repository.NewBookingRepo(db), nil)
		c, rec := request(http.MethodPatch, "/", "", "owner-1", model.RoleBuildingOwner)
		c.SetParamNames("id")
		c.SetParamValues("bk-1")
		require.NoError(t, h.CancelBooking(c))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("missing", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`FROM bookings b`).WithArgs("nope").WillReturnRows(sqlmock.NewRows(detailColumns))
		h := NewBookingHandler(repository.NewBookingRepo(db), nil)
		c, rec := request(http.MethodPatch, "/", "", "owner-1", model.RoleBuildingOwner)
		c.SetParamNames("id")
		c.SetParamValues("nope")
		require.NoError(t, h.ConfirmBooking(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCreateBooking_Validation(t *testing.T) {
	db, mock := newMock(t)
	h := NewBookingHandler(repository.NewBookingRepo(db), nil)

	cases := map[string]string{
		"missing space":   `{"start_date":"2026-03-01","end_date":"2026-03-30"}`,
		"bad date":        `{"space_id":"s-1","start_date":"03/01/2026","end_date":"2026-03-30"}`,
		"reversed":        `{"space_id":"s-1","start_date":"2026-03-30","end_date":"2026-03-01"}`,
		"malformed body":  `{"space_id":`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c, rec := request(http.MethodPost, "/v1/bookings", body, "brand-1", model.RoleBrandCompany)
			require.NoError(t, h.CreateBooking(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealth(t *testing.T) {
	c, rec := request(http.MethodGet, "/health", "", "", "")
	require.NoError(t, Health(nil)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
