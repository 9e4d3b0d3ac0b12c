package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formpreview/internal/config"
	"github.com/goliatone/go-formpreview/pkg/model"
	"github.com/goliatone/go-formpreview/pkg/testsupport"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, opts ...Option) (*Server, *httptest.Server) {
	t.Helper()

	cfg := config.Default()
	opts = append([]Option{WithSessionIDs(testsupport.SequentialIDs("id"))}, opts...)
	srv, err := New(context.Background(), cfg, opts...)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func fetchDocument(t *testing.T, resp *http.Response) *goquery.Document {
	t.Helper()
	defer resp.Body.Close()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	return doc
}

func surfaceText(t *testing.T, doc *goquery.Document) string {
	t.Helper()
	srcdoc, ok := doc.Find("iframe[data-preview-surface]").Attr("srcdoc")
	require.True(t, ok, "preview frame has no srcdoc")
	inner, err := goquery.NewDocumentFromReader(strings.NewReader(srcdoc))
	require.NoError(t, err)
	return inner.Find("body").Text()
}

func TestNewLoadsEmbeddedVariants(t *testing.T) {
	srv, _ := newTestServer(t)
	assert.Equal(t, []string{model.VariantBasic, model.VariantStatus}, srv.Variants())
}

func TestPageRendersDefaults(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	doc := fetchDocument(t, resp)
	input := doc.Find(`input[data-field="name"]`)
	require.Equal(t, 1, input.Length())
	value, _ := input.Attr("value")
	assert.Equal(t, model.DefaultName, value)

	script := doc.Find("script[data-endpoint]")
	endpoint, _ := script.Attr("data-endpoint")
	assert.Equal(t, LiveEndpoint, endpoint)
	assert.Contains(t, surfaceText(t, doc), "Hello Jon Doe!")
}

func TestStatusPageRendersStatusField(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/p/status")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	doc := fetchDocument(t, resp)
	placeholder, _ := doc.Find(`input[data-field="status"]`).Attr("placeholder")
	assert.Equal(t, "What are you up to?", placeholder)
}

func TestUnknownVariantIsNotFound(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/p/unknown")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSubmitValidValues(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.PostForm(ts.URL+"/p/basic", url.Values{"name": {"Alice"}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	doc := fetchDocument(t, resp)
	assert.Contains(t, surfaceText(t, doc), "Hello Alice!")
	assert.Empty(t, strings.TrimSpace(doc.Find(`[data-error-for="name"]`).Text()))
}

func TestSubmitInvalidValuesKeepsPreview(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.PostForm(ts.URL+"/p/basic", url.Values{"name": {""}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	doc := fetchDocument(t, resp)
	assert.NotEmpty(t, strings.TrimSpace(doc.Find(`[data-error-for="name"]`).Text()))
	value, _ := doc.Find(`input[data-field="name"]`).Attr("value")
	assert.Equal(t, "", value)
	assert.Contains(t, surfaceText(t, doc), "Hello Jon Doe!")
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status   string   `json:"status"`
		Variants []string `json:"variants"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, []string{"basic", "status"}, body.Variants)
}

func TestRuntimeAssetsAreServed(t *testing.T) {
	_, ts := newTestServer(t)

	for _, path := range []string{
		"/runtime/formpreview-bridge.js",
		"/runtime/formpreview-host.css",
		"/runtime/themes/default/preview.css",
	} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err, path)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `formpreview_http_requests_total{method="GET",path="/",status="200"} 1`)
}

func TestMetricsEndpointDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Metrics = false
	srv, err := New(context.Background(), cfg)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://settings.example.com/"})
	require.NotNil(t, check)

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://settings.example.com")
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://evil.example.com")
	assert.False(t, check(req))

	assert.Nil(t, originChecker(nil))
}
