//go:build integration

package router

// End-to-end tests against real Postgres and Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clubpos/internal/config"
	"clubpos/internal/infra"
	"clubpos/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Suite setup ──────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // OWNER JWT
	db     *gorm.DB
	method model.PaymentMethod
	court  model.Court
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("clubpos_test"),
		tcPostgres.WithUsername("clubpos"),
		tcPostgres.WithPassword("clubpos"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "e2e-test-secret",
		JWTRefreshSecret:   "e2e-test-refresh-secret",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		PDFStoragePath:     t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed an OWNER, one payment method, and one court.
	hash, err := bcrypt.GenerateFromPassword([]byte("clubpos2026"), bcrypt.MinCost)
	require.NoError(t, err)
	owner := model.User{Username: "owner_e2e", PasswordHash: string(hash), Role: model.RoleOwner}
	require.NoError(t, db.Create(&owner).Error)

	method := model.PaymentMethod{Name: "Efectivo", Type: model.PaymentCash}
	require.NoError(t, db.Create(&method).Error)

	court := model.Court{Name: "Cancha 1", Active: true}
	require.NoError(t, db.Create(&court).Error)

	r, _ := New(cfg, db, rdb)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "owner_e2e", "password": "clubpos2026"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken, db: db, method: method, court: court}
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_SaleAcrossCostLayers(t *testing.T) {
	env := setupTestEnv(t)

	prodResp := do(t, env.server, "POST", "/v1/products",
		jsonBody(t, map[string]any{
			"name":                "Tubo de pelotas",
			"sale_price":          "2000",
			"low_stock_threshold": 5,
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, prodResp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, prodResp, &prod)

	// Two purchase layers: 50 @ 1300, then 10 @ 1400.
	for _, p := range []map[string]any{
		{"product_id": prod.ID, "qty": 50, "unit_cost": "1300"},
		{"product_id": prod.ID, "qty": 10, "unit_cost": "1400"},
	} {
		resp := do(t, env.server, "POST", "/v1/inventory/purchase", jsonBody(t, p), env.token)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	// Sell 60: crosses both layers, blended cost (50*1300+10*1400)/60.
	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"payment_method_id": env.method.ID.String(),
			"items": []map[string]any{
				{"product_id": prod.ID, "qty": 60},
			},
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		ID    string `json:"id"`
		Total string `json:"total"`
		Items []struct {
			Qty              int    `json:"qty"`
			UnitCostSnapshot string `json:"unit_cost_snapshot"`
		} `json:"items"`
	}
	decodeJSON(t, saleResp, &sale)

	require.Len(t, sale.Items, 1)
	assert.Equal(t, "1316.67", sale.Items[0].UnitCostSnapshot)
	assert.Equal(t, "120000", decimal.RequireFromString(sale.Total).String())

	// The ledger got one negative movement per consumed layer.
	var count int64
	require.NoError(t, env.db.Model(&model.InventoryMovement{}).
		Where("ref_sale_id = ?", sale.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	// Stock cache landed at zero.
	stockResp := do(t, env.server, "GET", "/v1/inventory/stock", nil, env.token)
	require.Equal(t, http.StatusOK, stockResp.StatusCode)
	var stock []struct {
		ProductID string `json:"product_id"`
		Stock     int    `json:"stock"`
	}
	decodeJSON(t, stockResp, &stock)
	for _, row := range stock {
		if row.ProductID == prod.ID {
			assert.Equal(t, 0, row.Stock)
		}
	}
}

func TestE2E_OversellRejectedAtomically(t *testing.T) {
	env := setupTestEnv(t)

	prodResp := do(t, env.server, "POST", "/v1/products",
		jsonBody(t, map[string]any{"name": "Grip", "sale_price": "3500"}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, prodResp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, prodResp, &prod)

	buy := do(t, env.server, "POST", "/v1/inventory/purchase",
		jsonBody(t, map[string]any{"product_id": prod.ID, "qty": 2, "unit_cost": "2000"}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, buy.StatusCode)
	buy.Body.Close()

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"payment_method_id": env.method.ID.String(),
			"items":             []map[string]any{{"product_id": prod.ID, "qty": 5}},
		}),
		env.token,
	)
	assert.Equal(t, http.StatusConflict, saleResp.StatusCode)
	saleResp.Body.Close()

	// Nothing was written: ledger still holds only the purchase.
	var count int64
	require.NoError(t, env.db.Model(&model.InventoryMovement{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestE2E_BookingChargeFlow(t *testing.T) {
	env := setupTestEnv(t)
	day := time.Now().UTC().Format("2006-01-02")

	createResp := do(t, env.server, "POST", "/v1/bookings",
		jsonBody(t, map[string]any{
			"court_id":     env.court.ID.String(),
			"start_at":     time.Now().UTC().Format(time.RFC3339),
			"duration_min": 90,
			"list_price":   "12000",
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, createResp.StatusCode)
	var booking struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decodeJSON(t, createResp, &booking)
	assert.Equal(t, model.BookingPending, booking.Status)

	chargeResp := do(t, env.server, "POST", "/v1/bookings/"+booking.ID+"/charge",
		jsonBody(t, map[string]any{
			"payment_method_id": env.method.ID.String(),
			"total_paid":        "12000",
		}),
		env.token,
	)
	require.Equal(t, http.StatusOK, chargeResp.StatusCode)
	var charged struct {
		Status    string  `json:"status"`
		TotalPaid *string `json:"total_paid"`
	}
	decodeJSON(t, chargeResp, &charged)
	assert.Equal(t, model.BookingCharged, charged.Status)

	// Charging twice conflicts.
	again := do(t, env.server, "POST", "/v1/bookings/"+booking.ID+"/charge",
		jsonBody(t, map[string]any{
			"payment_method_id": env.method.ID.String(),
			"total_paid":        "12000",
		}),
		env.token,
	)
	assert.Equal(t, http.StatusConflict, again.StatusCode)
	again.Body.Close()

	// The charge shows up as court revenue in the daily report.
	reportResp := do(t, env.server, "GET", "/v1/reports/daily?date="+day, nil, env.token)
	require.Equal(t, http.StatusOK, reportResp.StatusCode)
	var report struct {
		CourtRevenue string `json:"court_revenue"`
	}
	decodeJSON(t, reportResp, &report)
	assert.Equal(t, "12000", decimal.RequireFromString(report.CourtRevenue).String())
}
