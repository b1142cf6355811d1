package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/notactuallytreyanastasio/tv-writer-overlap-explorer/internal/crawler"
)

type stubCatalog struct {
	shows    []crawler.ShowRecord
	writers  []crawler.WriterRecord
	links    []crawler.LinkRecord
	overlaps []crawler.Overlap
	err      error
}

func (c *stubCatalog) AllShows(context.Context) ([]crawler.ShowRecord, error) {
	return c.shows, c.err
}

func (c *stubCatalog) AllWriters(context.Context) ([]crawler.WriterRecord, error) {
	return c.writers, c.err
}

func (c *stubCatalog) AllLinks(context.Context) ([]crawler.LinkRecord, error) {
	return c.links, c.err
}

func (c *stubCatalog) OverlapReport(context.Context) ([]crawler.Overlap, error) {
	return c.overlaps, c.err
}

func (c *stubCatalog) CountShows(context.Context) (int, error) {
	return len(c.shows), c.err
}

func (c *stubCatalog) CountWriters(context.Context) (int, error) {
	return len(c.writers), c.err
}

func serve(t *testing.T, catalog Catalog, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	srv := NewServer(catalog, zap.NewNop())
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthz(t *testing.T) {
	rec := serve(t, &stubCatalog{}, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestReadyzReportsDatabaseFailure(t *testing.T) {
	rec := serve(t, &stubCatalog{err: errors.New("connection refused")}, http.MethodGet, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = serve(t, &stubCatalog{}, http.MethodGet, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListShows(t *testing.T) {
	catalog := &stubCatalog{
		shows: []crawler.ShowRecord{
			{ID: 1, IMDBID: "tt0306414", Title: "The Wire"},
			{ID: 2, IMDBID: "tt0141842", Title: "The Sopranos"},
		},
	}
	rec := serve(t, catalog, http.MethodGet, "/api/shows")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	shows, ok := body["shows"].([]any)
	require.True(t, ok)
	require.Len(t, shows, 2)
	first := shows[0].(map[string]any)
	assert.Equal(t, "The Wire", first["title"])
	assert.Equal(t, "tt0306414", first["imdb_id"])
}

func TestListShowsEmptyIsArrayNotNull(t *testing.T) {
	rec := serve(t, &stubCatalog{}, http.MethodGet, "/api/shows")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"shows": []}`, rec.Body.String())
}

func TestListOverlaps(t *testing.T) {
	catalog := &stubCatalog{
		overlaps: []crawler.Overlap{
			{
				WriterIMDBID: "nm0771414",
				WriterName:   "David Simon",
				ShowCount:    3,
				ShowTitles:   []string{"Generation Kill", "The Wire", "Treme"},
				ShowIDs:      []int64{3, 1, 2},
			},
		},
	}
	rec := serve(t, catalog, http.MethodGet, "/api/overlaps")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	overlaps := body["overlaps"].([]any)
	require.Len(t, overlaps, 1)
	entry := overlaps[0].(map[string]any)
	assert.Equal(t, "David Simon", entry["writer_name"])
	assert.Equal(t, float64(3), entry["show_count"])
}

func TestFullGraphIncludesCounts(t *testing.T) {
	catalog := &stubCatalog{
		shows:   []crawler.ShowRecord{{ID: 1, IMDBID: "tt1", Title: "A"}},
		writers: []crawler.WriterRecord{{ID: 1, IMDBID: "nm1", Name: "W"}, {ID: 2, IMDBID: "nm2", Name: "X"}},
		links:   []crawler.LinkRecord{{ShowID: 1, WriterID: 1}},
	}
	rec := serve(t, catalog, http.MethodGet, "/api/all")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["show_count"])
	assert.Equal(t, float64(2), body["writer_count"])
	assert.Len(t, body["links"].([]any), 1)
}

func TestFullGraphIncludesOverlaps(t *testing.T) {
	catalog := &stubCatalog{
		shows:   []crawler.ShowRecord{{ID: 1, IMDBID: "tt1", Title: "A"}, {ID: 2, IMDBID: "tt2", Title: "B"}},
		writers: []crawler.WriterRecord{{ID: 1, IMDBID: "nm1", Name: "W"}},
		overlaps: []crawler.Overlap{
			{WriterIMDBID: "nm1", WriterName: "W", ShowCount: 2, ShowTitles: []string{"A", "B"}, ShowIDs: []int64{1, 2}},
		},
	}
	rec := serve(t, catalog, http.MethodGet, "/api/all")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	overlaps, ok := body["overlaps"].([]any)
	require.True(t, ok, "combined payload carries the overlaps key")
	require.Len(t, overlaps, 1)
	entry := overlaps[0].(map[string]any)
	assert.Equal(t, "W", entry["writer_name"])
	assert.Equal(t, float64(2), entry["show_count"])

	rec = serve(t, &stubCatalog{}, http.MethodGet, "/api/all")
	require.Equal(t, http.StatusOK, rec.Code)
	empty, ok := decodeBody(t, rec)["overlaps"].([]any)
	require.True(t, ok)
	assert.Empty(t, empty)
}

func TestQueryFailureIsOpaque(t *testing.T) {
	rec := serve(t, &stubCatalog{err: errors.New("relation does not exist")}, http.MethodGet, "/api/writers")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decodeBody(t, rec)["error"])
	assert.NotContains(t, rec.Body.String(), "relation")
}

func TestRequestIDHeaderSet(t *testing.T) {
	rec := serve(t, &stubCatalog{}, http.MethodGet, "/healthz")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestCORSPreflight(t *testing.T) {
	rec := serve(t, &stubCatalog{}, http.MethodOptions, "/api/shows")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
