package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/piwi3910/PanelPlan/internal/geo"
	"github.com/piwi3910/PanelPlan/internal/model"
	"github.com/piwi3910/PanelPlan/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var origin = model.GeoPoint{Lat: 51.5, Lng: -0.12}

func testRoof() model.RoofArea {
	roof := model.NewRoofArea("Test", model.Path{
		origin,
		geo.FromLocal(origin, 10, 0),
		geo.FromLocal(origin, 10, 10),
		geo.FromLocal(origin, 0, 10),
	})
	roof.PanelType = "standard"
	roof.TiltAngle = 30
	return roof
}

func newTestServer(t *testing.T, withStore bool) *httptest.Server {
	t.Helper()
	var roofs RoofStore
	if withStore {
		st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "roofs.db"))
		require.NoError(t, err)
		t.Cleanup(func() { st.Close() })
		roofs = st
	}
	s := New(model.DefaultPanelCatalog(), model.DefaultLayoutSettings(), roofs, log.New(io.Discard))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, false)
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestPanels(t *testing.T) {
	ts := newTestServer(t, false)
	resp, err := http.Get(ts.URL + "/v1/panels")
	require.NoError(t, err)
	defer resp.Body.Close()

	var catalog model.PanelCatalog
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&catalog))
	assert.Equal(t, model.DefaultPanelCatalog(), catalog)
}

func TestLayout(t *testing.T) {
	ts := newTestServer(t, false)
	resp := postJSON(t, ts.URL+"/v1/layout", testRoof())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out LayoutResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "standard", out.PanelType)
	assert.Greater(t, out.PanelCount, 0)
	assert.Len(t, out.Panels, out.PanelCount)
	assert.False(t, out.Truncated)
}

func TestLayout_PanelCountInBodyIgnored(t *testing.T) {
	ts := newTestServer(t, false)
	roof := testRoof()
	roof.PanelCount = 5000

	resp := postJSON(t, ts.URL+"/v1/layout", roof)
	var out LayoutResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Less(t, out.PanelCount, 5000)
}

func TestLayout_EmptyPanelTypeUsesDefault(t *testing.T) {
	ts := newTestServer(t, false)
	roof := testRoof()
	roof.PanelType = ""

	resp := postJSON(t, ts.URL+"/v1/layout", roof)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out LayoutResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, model.DefaultPanelType, out.PanelType)
}

func TestLayout_BadRequests(t *testing.T) {
	ts := newTestServer(t, false)

	resp, err := http.Post(ts.URL+"/v1/layout", "application/json", bytes.NewReader([]byte("{")))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	roof := testRoof()
	roof.PanelType = "unknown"
	resp = postJSON(t, ts.URL+"/v1/layout", roof)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSummary(t *testing.T) {
	ts := newTestServer(t, false)
	resp := postJSON(t, ts.URL+"/v1/summary", testRoof())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out SummaryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Greater(t, out.Summary.PanelCount, 0)
	assert.InDelta(t, float64(out.Summary.PanelCount)*330, out.Summary.TotalWattage, 1e-9)
	assert.Contains(t, out.Text, "Roof: Test")
}

func TestRoofsNotMountedWithoutStore(t *testing.T) {
	ts := newTestServer(t, false)
	resp, err := http.Get(ts.URL + "/v1/roofs")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRoofLifecycle(t *testing.T) {
	ts := newTestServer(t, true)

	resp := postJSON(t, ts.URL+"/v1/roofs", testRoof())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID         int64 `json:"id"`
		PanelCount int   `json:"panel_count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Greater(t, created.PanelCount, 0)

	url := ts.URL + "/v1/roofs/" + strconv.FormatInt(created.ID, 10)
	getResp, err := http.Get(url)
	require.NoError(t, err)
	defer getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	var stored store.StoredRoof
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&stored))
	assert.Equal(t, "Test", stored.Record.Name)
	assert.Equal(t, created.PanelCount, stored.Record.PanelCount)

	listResp, err := http.Get(ts.URL + "/v1/roofs")
	require.NoError(t, err)
	defer listResp.Body.Close()
	var list []store.StoredRoof
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&list))
	assert.Len(t, list, 1)

	req, err := http.NewRequest(http.MethodDelete, url, nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	delResp.Body.Close()
	assert.Equal(t, http.StatusNoContent, delResp.StatusCode)

	missing, err := http.Get(url)
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)

	bad, err := http.Get(ts.URL + "/v1/roofs/abc")
	require.NoError(t, err)
	bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	s := New(model.DefaultPanelCatalog(), model.DefaultLayoutSettings(), nil, log.New(io.Discard))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	cancel()
	assert.NoError(t, <-done)
}
