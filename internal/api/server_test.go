package api

import (
	"encoding/csv"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/leadsegment/internal/cache"
	"github.com/ajitpratap0/leadsegment/internal/geo"
	"github.com/ajitpratap0/leadsegment/internal/models"
	"github.com/ajitpratap0/leadsegment/internal/report"
	"github.com/ajitpratap0/leadsegment/internal/segment"
	"github.com/ajitpratap0/leadsegment/pkg/textnorm"
)

const sampleCSV = "Record ID,IP Country,IP State/Region,Number of Sessions,Close Date,Actividades de promoción APREU\n" +
	"1,Mexico,Querétaro,10,2025-02-01,Open Day\n" +
	"2,Mexico,Jalisco,3,,Sitio Web\n" +
	"3,Spain,,7,2025-08-01,\n"

func newTestServer(t *testing.T, token string, maxUpload int64) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	eng := segment.NewEngine(logger, cache.NewMemory(), 0)
	srv := NewServer(eng, Defaults{
		Geo:     geo.DefaultConfig(),
		States:  textnorm.DefaultStateAliases(),
		Options: segment.DefaultOptions(),
	}, logger, token, maxUpload)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "text/csv")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, "secret", 0)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuth(t *testing.T) {
	ts := newTestServer(t, "secret", 0)

	resp := post(t, ts.URL+"/v1/validate", "", sampleCSV)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = post(t, ts.URL+"/v1/validate", "wrong", sampleCSV)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = post(t, ts.URL+"/v1/validate", "secret", sampleCSV)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSegmentGeo(t *testing.T) {
	ts := newTestServer(t, "", 0)
	resp := post(t, ts.URL+"/v1/segments/geo", "", sampleCSV)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Run    models.RunInfo  `json:"run"`
		Rows   []models.GeoRow `json:"rows"`
		Report report.Report   `json:"report"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, models.ClusterGeo, body.Run.Cluster)
	assert.Len(t, body.Rows, 3)
	assert.Equal(t, 3, body.Report.Total)
	assert.Equal(t, models.SegmentLocalHigh, body.Rows[0].SegmentCode)
}

func TestSegmentGeoOverrides(t *testing.T) {
	ts := newTestServer(t, "", 0)
	resp := post(t, ts.URL+"/v1/segments/2?local_region=Jalisco&local_aliases=jalisco&rows=true", "", sampleCSV)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Rows []models.GeoRow `json:"rows"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Rows, 3)
	assert.Equal(t, models.TierDomesticNonLocal, body.Rows[0].Tier)
	assert.Equal(t, models.TierLocal, body.Rows[1].Tier)
}

func TestSegmentFiltersAndNoRows(t *testing.T) {
	ts := newTestServer(t, "", 0)
	resp := post(t, ts.URL+"/v1/segments/geo?closure=closed&rows=false", "", sampleCSV)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	_, hasRows := body["rows"]
	assert.False(t, hasRows)

	var run models.RunInfo
	require.NoError(t, json.Unmarshal(body["run"], &run))
	assert.Equal(t, 2, run.FilteredRows)
	assert.Equal(t, []string{"Closed Only"}, run.Filters)
}

func TestSegmentCSV(t *testing.T) {
	ts := newTestServer(t, "", 0)
	resp := post(t, ts.URL+"/v1/segments/channel?format=csv", "", sampleCSV)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.NotEmpty(t, resp.Header.Get("X-Run-Id"))

	records, err := csv.NewReader(resp.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Contains(t, records[0], "entry_channel")
}

func TestSegmentErrors(t *testing.T) {
	ts := newTestServer(t, "", 0)

	resp := post(t, ts.URL+"/v1/segments/7", "", sampleCSV)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = post(t, ts.URL+"/v1/segments/geo?closure=maybe", "", sampleCSV)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = post(t, ts.URL+"/v1/segments/geo?format=xml", "", sampleCSV)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = post(t, ts.URL+"/v1/segments/geo", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = post(t, ts.URL+"/v1/segments/geo", "", "Name\nx\n")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestUploadLimit(t *testing.T) {
	ts := newTestServer(t, "", 64)
	resp := post(t, ts.URL+"/v1/validate", "", sampleCSV)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestValidateEndpoint(t *testing.T) {
	ts := newTestServer(t, "", 0)
	resp := post(t, ts.URL+"/v1/validate", "", "Name\nx\n")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var v struct {
		Valid           bool     `json:"is_valid"`
		MissingRequired []string `json:"missing_required"`
		Rows            int      `json:"rows"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	assert.False(t, v.Valid)
	assert.Equal(t, []string{"Record ID"}, v.MissingRequired)
	assert.Equal(t, 1, v.Rows)
}

func TestGeoEndpoint(t *testing.T) {
	ts := newTestServer(t, "", 0)
	resp, err := http.Get(ts.URL + "/v1/geo")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body geoResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Mexico", body.Active.HomeCountry)
	assert.NotEmpty(t, body.Examples)
}
