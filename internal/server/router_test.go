package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"servicebook/internal/cache"
	"servicebook/internal/database"
	"servicebook/internal/domain"
	"servicebook/internal/middleware"
	jwtsvc "servicebook/internal/pkg/jwt"
	"servicebook/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type testSuite struct {
	t      *testing.T
	router *gin.Engine
}

func setupSuite(t *testing.T) *testSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	hash, err := bcrypt.GenerateFromPassword([]byte("admin-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, repository.NewUserRepository(db).Create(context.Background(), &domain.User{
		FirstName: "Root", LastName: "Admin", Email: "admin@example.com",
		PasswordHash: string(hash), Role: domain.RoleAdmin, IsActive: true,
	}))

	srv := New(Deps{
		DB:           db,
		JWT:          jwtsvc.New("test_secret_key_32_characters_min", time.Hour),
		Cache:        cache.NewMemory(),
		CatalogTTL:   time.Minute,
		LoginLimiter: middleware.NewLocalLimiter(600, 100),
	})
	t.Cleanup(srv.Hub.Close)

	return &testSuite{t: t, router: srv.Engine}
}

func (s *testSuite) do(method, path string, body any, token string) (int, apiResponse) {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp apiResponse
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

func (s *testSuite) decode(resp apiResponse, dst any) {
	s.t.Helper()
	require.NoError(s.t, json.Unmarshal(resp.Data, dst))
}

type authData struct {
	Token string `json:"token"`
	User  struct {
		ID             int64 `json:"id"`
		ProfessionalID int64 `json:"professional_id"`
	} `json:"user"`
}

func (s *testSuite) register(email, role string) authData {
	s.t.Helper()
	code, resp := s.do(http.MethodPost, "/api/v1/auth/register", gin.H{
		"first_name": "Test", "last_name": role, "email": email,
		"password": "password1", "role": role,
	}, "")
	require.Equal(s.t, http.StatusCreated, code, resp.Error)

	var out authData
	s.decode(resp, &out)
	return out
}

func (s *testSuite) login(email, password string) authData {
	s.t.Helper()
	code, resp := s.do(http.MethodPost, "/api/v1/auth/login", gin.H{"email": email, "password": password}, "")
	require.Equal(s.t, http.StatusOK, code, resp.Error)

	var out authData
	s.decode(resp, &out)
	return out
}

func errorCode(resp apiResponse) string {
	if resp.Error == nil {
		return ""
	}
	return resp.Error.Code
}

func TestReservationLifecycle(t *testing.T) {
	s := setupSuite(t)

	admin := s.login("admin@example.com", "admin-pass")
	client := s.register("ann@example.com", "client")
	pro := s.register("bob@example.com", "professional")
	require.NotZero(t, pro.User.ProfessionalID)

	// Catalog setup.
	code, resp := s.do(http.MethodPost, "/api/v1/admin/categories", gin.H{"name": "Beauty"}, admin.Token)
	require.Equal(t, http.StatusCreated, code, resp.Error)
	var category domain.Category
	s.decode(resp, &category)

	code, resp = s.do(http.MethodPost, "/api/v1/admin/services", gin.H{
		"category_id": category.ID, "name": "Haircut", "base_price": 30,
	}, admin.Token)
	require.Equal(t, http.StatusCreated, code, resp.Error)
	var service domain.Service
	s.decode(resp, &service)

	code, resp = s.do(http.MethodPost, "/api/v1/professional/offerings", gin.H{"service_id": service.ID}, pro.Token)
	require.Equal(t, http.StatusCreated, code, resp.Error)

	code, resp = s.do(http.MethodPost, "/api/v1/professional/offerings", gin.H{"service_id": service.ID}, pro.Token)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "DUPLICATE_OFFERING", errorCode(resp))

	// Unverified professionals are neither listed nor bookable.
	code, resp = s.do(http.MethodGet, "/api/v1/catalog", nil, "")
	require.Equal(t, http.StatusOK, code)
	var rows []repository.CatalogRow
	s.decode(resp, &rows)
	assert.Empty(t, rows)

	book := gin.H{"professional_id": pro.User.ProfessionalID, "service_id": service.ID, "date": "2030-05-10", "time": "10:00"}
	code, resp = s.do(http.MethodPost, "/api/v1/reservations", book, client.Token)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(resp))

	path := fmt.Sprintf("/api/v1/admin/professionals/%d/verify", pro.User.ProfessionalID)
	code, resp = s.do(http.MethodPatch, path, gin.H{"verified": true}, admin.Token)
	require.Equal(t, http.StatusOK, code, resp.Error)

	code, resp = s.do(http.MethodGet, "/api/v1/catalog?category=Beauty", nil, "")
	require.Equal(t, http.StatusOK, code)
	s.decode(resp, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, 30.0, rows[0].Price)

	// Booking and double-booking.
	code, resp = s.do(http.MethodPost, "/api/v1/reservations", book, client.Token)
	require.Equal(t, http.StatusCreated, code, resp.Error)
	var res domain.Reservation
	s.decode(resp, &res)
	assert.Equal(t, domain.ReservationPending, res.Status)

	code, resp = s.do(http.MethodPost, "/api/v1/reservations", book, client.Token)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "SLOT_CONFLICT", errorCode(resp))

	// Paying confirms, the professional completes.
	code, resp = s.do(http.MethodPost, fmt.Sprintf("/api/v1/admin/reservations/%d/payments", res.ID),
		gin.H{"amount": 30, "method": "card"}, admin.Token)
	require.Equal(t, http.StatusCreated, code, resp.Error)

	statusPath := fmt.Sprintf("/api/v1/professional/reservations/%d/status", res.ID)
	code, resp = s.do(http.MethodPatch, statusPath, gin.H{"status": "completed"}, pro.Token)
	require.Equal(t, http.StatusOK, code, resp.Error)
	s.decode(resp, &res)
	assert.Equal(t, domain.ReservationCompleted, res.Status)

	code, resp = s.do(http.MethodPatch, statusPath, gin.H{"status": "cancelled"}, pro.Token)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "TERMINAL_STATE", errorCode(resp))

	// Review once.
	review := gin.H{"reservation_id": res.ID, "rating": 5, "comment": "Great"}
	code, resp = s.do(http.MethodPost, "/api/v1/reviews", review, client.Token)
	require.Equal(t, http.StatusCreated, code, resp.Error)
	code, _ = s.do(http.MethodPost, "/api/v1/reviews", review, client.Token)
	assert.Equal(t, http.StatusConflict, code)

	// Read side.
	code, resp = s.do(http.MethodGet, "/api/v1/dashboard/client", nil, client.Token)
	require.Equal(t, http.StatusOK, code, resp.Error)
	var dash struct {
		Tier      string `json:"loyalty_tier"`
		Completed int64  `json:"completed_reservations"`
	}
	s.decode(resp, &dash)
	assert.Equal(t, "bronze", dash.Tier)
	assert.Equal(t, int64(1), dash.Completed)

	code, resp = s.do(http.MethodGet, "/api/v1/professional/earnings?from=2030-01-01&to=2030-12-31", nil, pro.Token)
	require.Equal(t, http.StatusOK, code, resp.Error)
	var earnings struct {
		Total float64 `json:"total"`
	}
	s.decode(resp, &earnings)
	assert.Equal(t, 30.0, earnings.Total)

	code, resp = s.do(http.MethodGet, "/api/v1/admin/reports/frequency", nil, admin.Token)
	require.Equal(t, http.StatusOK, code, resp.Error)
	var freq []struct {
		CompletionRate float64 `json:"completion_rate"`
	}
	s.decode(resp, &freq)
	require.Len(t, freq, 1)
	assert.Equal(t, 100.0, freq[0].CompletionRate)

	// Deletion leaves an audit entry.
	code, resp = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/admin/reservations/%d", res.ID), nil, admin.Token)
	require.Equal(t, http.StatusOK, code, resp.Error)

	code, resp = s.do(http.MethodGet, "/api/v1/admin/audit-log", nil, admin.Token)
	require.Equal(t, http.StatusOK, code, resp.Error)
	var audit struct {
		Entries []domain.ReservationAuditLog `json:"entries"`
	}
	s.decode(resp, &audit)
	require.Len(t, audit.Entries, 1)
	assert.Equal(t, res.ID, audit.Entries[0].ReservationID)
}

func TestAccessControl(t *testing.T) {
	s := setupSuite(t)
	client := s.register("ann@example.com", "client")

	code, resp := s.do(http.MethodGet, "/api/v1/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "AUTH_HEADER_MISSING", errorCode(resp))

	code, _ = s.do(http.MethodGet, "/api/v1/auth/me", nil, client.Token)
	assert.Equal(t, http.StatusOK, code)

	code, resp = s.do(http.MethodGet, "/api/v1/admin/dashboard", nil, client.Token)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "FORBIDDEN", errorCode(resp))

	code, _ = s.do(http.MethodGet, "/api/v1/professional/availability", nil, client.Token)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestLoginFailures(t *testing.T) {
	s := setupSuite(t)
	s.register("ann@example.com", "client")

	code, resp := s.do(http.MethodPost, "/api/v1/auth/login", gin.H{"email": "ann@example.com", "password": "nope-nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(resp))

	code, resp = s.do(http.MethodPost, "/api/v1/auth/register", gin.H{
		"first_name": "Ann", "email": "ann@example.com", "password": "password1",
	}, "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "EMAIL_EXISTS", errorCode(resp))

	code, resp = s.do(http.MethodPost, "/api/v1/auth/register", gin.H{"email": "not-an-email"}, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(resp))
}

func TestAvailabilityBlocksBooking(t *testing.T) {
	s := setupSuite(t)
	admin := s.login("admin@example.com", "admin-pass")
	client := s.register("ann@example.com", "client")
	pro := s.register("bob@example.com", "professional")

	_, resp := s.do(http.MethodPost, "/api/v1/admin/categories", gin.H{"name": "Fitness"}, admin.Token)
	var category domain.Category
	s.decode(resp, &category)
	_, resp = s.do(http.MethodPost, "/api/v1/admin/services", gin.H{"category_id": category.ID, "name": "Yoga", "base_price": 20}, admin.Token)
	var service domain.Service
	s.decode(resp, &service)
	s.do(http.MethodPost, "/api/v1/professional/offerings", gin.H{"service_id": service.ID}, pro.Token)
	s.do(http.MethodPatch, fmt.Sprintf("/api/v1/admin/professionals/%d/verify", pro.User.ProfessionalID), gin.H{"verified": true}, admin.Token)

	code, resp := s.do(http.MethodPost, "/api/v1/professional/availability", gin.H{
		"date": "2030-06-01", "start_time": "09:00", "end_time": "12:00", "status": "unavailable",
	}, pro.Token)
	require.Equal(t, http.StatusCreated, code, resp.Error)

	book := gin.H{"professional_id": pro.User.ProfessionalID, "service_id": service.ID, "date": "2030-06-01", "time": "11:30"}
	code, resp = s.do(http.MethodPost, "/api/v1/reservations", book, client.Token)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "SLOT_CONFLICT", errorCode(resp))

	book["time"] = "12:00"
	code, resp = s.do(http.MethodPost, "/api/v1/reservations", book, client.Token)
	assert.Equal(t, http.StatusCreated, code, resp.Error)
}

func TestCatalogRatingsRefreshAfterReview(t *testing.T) {
	s := setupSuite(t)
	admin := s.login("admin@example.com", "admin-pass")
	client := s.register("ann@example.com", "client")
	pro := s.register("bob@example.com", "professional")

	_, resp := s.do(http.MethodPost, "/api/v1/admin/categories", gin.H{"name": "Home"}, admin.Token)
	var category domain.Category
	s.decode(resp, &category)
	_, resp = s.do(http.MethodPost, "/api/v1/admin/services", gin.H{"category_id": category.ID, "name": "Cleaning", "base_price": 80}, admin.Token)
	var service domain.Service
	s.decode(resp, &service)
	s.do(http.MethodPost, "/api/v1/professional/offerings", gin.H{"service_id": service.ID}, pro.Token)
	s.do(http.MethodPatch, fmt.Sprintf("/api/v1/admin/professionals/%d/verify", pro.User.ProfessionalID), gin.H{"verified": true}, admin.Token)

	book := gin.H{"professional_id": pro.User.ProfessionalID, "service_id": service.ID, "date": "2030-07-01", "time": "09:00"}
	code, resp := s.do(http.MethodPost, "/api/v1/reservations", book, client.Token)
	require.Equal(t, http.StatusCreated, code, resp.Error)
	var res domain.Reservation
	s.decode(resp, &res)

	statusPath := fmt.Sprintf("/api/v1/professional/reservations/%d/status", res.ID)
	for _, status := range []string{"confirmed", "completed"} {
		code, resp = s.do(http.MethodPatch, statusPath, gin.H{"status": status}, pro.Token)
		require.Equal(t, http.StatusOK, code, resp.Error)
	}

	code, resp = s.do(http.MethodPatch, statusPath, gin.H{"status": "archived"}, pro.Token)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "TERMINAL_STATE", errorCode(resp))

	catalogRows := func() []repository.CatalogRow {
		code, resp := s.do(http.MethodGet, "/api/v1/catalog", nil, "")
		require.Equal(t, http.StatusOK, code, resp.Error)
		var rows []repository.CatalogRow
		s.decode(resp, &rows)
		require.Len(t, rows, 1)
		return rows
	}

	rows := catalogRows()
	assert.Equal(t, int64(0), rows[0].ReviewCount)
	assert.Nil(t, rows[0].AverageRating)

	code, resp = s.do(http.MethodPost, "/api/v1/reviews", gin.H{"reservation_id": res.ID, "rating": 4}, client.Token)
	require.Equal(t, http.StatusCreated, code, resp.Error)

	rows = catalogRows()
	assert.Equal(t, int64(1), rows[0].ReviewCount)
	require.NotNil(t, rows[0].AverageRating)
	assert.Equal(t, 4.0, *rows[0].AverageRating)

	code, resp = s.do(http.MethodGet, fmt.Sprintf("/api/v1/admin/clients/%d/tier", client.User.ID), nil, admin.Token)
	require.Equal(t, http.StatusOK, code, resp.Error)
	var tier struct {
		Tier string `json:"loyalty_tier"`
	}
	s.decode(resp, &tier)
	assert.Equal(t, "bronze", tier.Tier)

	code, resp = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/admin/reservations/%d", res.ID), nil, admin.Token)
	require.Equal(t, http.StatusOK, code, resp.Error)

	rows = catalogRows()
	assert.Equal(t, int64(0), rows[0].ReviewCount)
}
