package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"muni-dashboard/internal/cache"
	"muni-dashboard/internal/dashboard"
	"muni-dashboard/internal/present"
	"muni-dashboard/internal/storage/memory"
	"muni-dashboard/internal/table"
)

func newTestServer(exec *memory.Executor) *Server {
	svc := dashboard.NewService(cache.New(exec, cache.DefaultConfig()), zap.NewNop())
	return New(svc, zap.NewNop())
}

func get(t *testing.T, s *Server, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func bondFixture() *table.Table {
	tbl := table.New(
		"bond_id", "cusip", "type", "coupon_rate", "issue_date", "maturity_date",
		"duration", "tax_status", "purpose_category", "purpose_description",
		"issuer_name", "issuer_state",
	)
	tbl.MustAppendRow(1.0, "13063A5G5", "GO", 5.0,
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		7.2, true, "education", "school district", "State of California", "CA")
	return tbl
}

func TestHealthz(t *testing.T) {
	rec, body := get(t, newTestServer(memory.NewExecutor()), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestMarketView_FilterParams(t *testing.T) {
	exec := memory.NewExecutor()
	exec.Register("FROM bonds b", bondFixture())
	exec.Register("FROM trades t", table.New(
		"bond_id", "cusip", "trade_id", "date", "price", "yield", "quantity"))
	s := newTestServer(exec)

	rec, body := get(t, s, "/api/views/market?state=CA&state=NY")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(present.StatusOK), body["status"])

	calls := exec.Calls()
	require.NotEmpty(t, calls)
	assert.Equal(t, []string{"CA", "NY"}, calls[0].Params["f_state"])
}

// A data-source failure is a per-view state, not an HTTP failure.
func TestMarketView_DataSourceErrorIsPerView(t *testing.T) {
	exec := memory.NewExecutor() // nothing registered: every query fails
	rec, body := get(t, newTestServer(exec), "/api/views/market")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(present.StatusError), body["status"])
	assert.NotEmpty(t, body["message"])
}

func TestBondExplorerRoute(t *testing.T) {
	exec := memory.NewExecutor()
	exec.Register("FROM bonds b", bondFixture())
	exec.Register("FROM trades t", table.New(
		"bond_id", "cusip", "trade_id", "date", "price", "yield", "quantity"))

	rec, body := get(t, newTestServer(exec), "/api/views/bonds/13063A5G5")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(present.StatusOK), body["status"])
}

func TestBondList(t *testing.T) {
	exec := memory.NewExecutor()
	list := table.New("cusip")
	list.MustAppendRow("13063A5G5")
	exec.Register("SELECT cusip FROM bonds", list)

	rec, body := get(t, newTestServer(exec), "/api/views/bonds")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"13063A5G5"}, body["cusips"])
}
