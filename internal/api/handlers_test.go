package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edustack.io/learning-tutor/internal/core"
	"edustack.io/learning-tutor/internal/store"
)

// unavailableBackend forces every request down the template path.
type unavailableBackend struct{}

func (unavailableBackend) Available() bool   { return false }
func (unavailableBackend) ModelName() string { return "" }
func (unavailableBackend) Generate(ctx context.Context, prompt string, opts core.GenerationOptions) (string, error) {
	return "", core.ErrBackendUnavailable
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dbStore, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { dbStore.Close() })

	backend := unavailableBackend{}
	generator := core.NewGeneratorService(dbStore, backend, core.GenerationOptions{
		MaxOutputTokens: 1200,
		Temperature:     0.5,
		Timeout:         time.Second,
	})

	srv := httptest.NewServer(NewRouter(NewAPIHandler(generator, dbStore, backend)))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, client *http.Client, url, body string) *http.Response {
	t.Helper()
	resp, err := client.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestStudyGuideHandler(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.Client(), srv.URL+"/api/study-guide", `{"topic": "Graph Theory", "difficulty": "easy"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body StudyGuideResponse
	decodeBody(t, resp, &body)

	assert.Equal(t, "Graph Theory", body.Topic)
	assert.Equal(t, "easy", body.Difficulty)
	assert.NotEmpty(t, body.TopicHash)
	assert.False(t, body.AIGenerated)
	require.NotNil(t, body.Structure)
	assert.Len(t, body.Structure.Sections, 6)

	// A session cookie is minted for new browsers.
	var found bool
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookieName && c.Value != "" {
			found = true
		}
	}
	assert.True(t, found, "expected a session cookie")
}

func TestStudyGuideHandlerDefaultsDifficulty(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.Client(), srv.URL+"/api/study-guide", `{"topic": "Graph Theory"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body StudyGuideResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "medium", body.Difficulty)
}

func TestStudyGuideHandlerRejectsBadInput(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty topic", `{"topic": ""}`},
		{"one char topic", `{"topic": "x"}`},
		{"whitespace topic", `{"topic": "   "}`},
		{"overlong topic", fmt.Sprintf(`{"topic": %q}`, strings.Repeat("a", 101))},
		{"unknown difficulty", `{"topic": "Graph Theory", "difficulty": "expert"}`},
		{"not json", `topic=python`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, srv.Client(), srv.URL+"/api/study-guide", tt.body)
			resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestSectionContentHandler(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.Client(), srv.URL+"/api/section-content",
		`{"topic": "Graph Theory", "section_title": "Introduction to Graph Theory", "section_index": 0, "difficulty": "easy"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body SectionContentResponse
	decodeBody(t, resp, &body)

	assert.NotEmpty(t, body.Content)
	assert.False(t, body.AIGenerated)
	assert.Equal(t, core.TemplateModelName, body.ModelUsed)
	assert.False(t, body.Cached)
	assert.Equal(t, "0.0s", body.GenerationTime)

	// Second request is a cache hit.
	resp = postJSON(t, srv.Client(), srv.URL+"/api/section-content",
		`{"topic": "Graph Theory", "section_title": "Introduction to Graph Theory", "section_index": 0, "difficulty": "easy"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cached SectionContentResponse
	decodeBody(t, resp, &cached)
	assert.True(t, cached.Cached)
	assert.Equal(t, "cached", cached.GenerationTime)
	assert.Equal(t, body.Content, cached.Content)
}

func TestSectionContentHandlerRejectsBadInput(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{"topic": "Graph Theory", "section_index": 0}`},
		{"short title", `{"topic": "Graph Theory", "section_title": "ab", "section_index": 0}`},
		{"negative index", `{"topic": "Graph Theory", "section_title": "Introduction", "section_index": -1}`},
		{"index out of range", `{"topic": "Graph Theory", "section_title": "Introduction", "section_index": 11}`},
		{"bad difficulty", `{"topic": "Graph Theory", "section_title": "Introduction", "section_index": 0, "difficulty": "impossible"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, srv.Client(), srv.URL+"/api/section-content", tt.body)
			resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestRegenerateContentHandler(t *testing.T) {
	srv := newTestServer(t)
	body := `{"topic": "Graph Theory", "section_title": "Introduction to Graph Theory", "section_index": 0, "difficulty": "easy"}`

	resp := postJSON(t, srv.Client(), srv.URL+"/api/section-content", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Regeneration never reports a cache hit, even right after a write.
	resp = postJSON(t, srv.Client(), srv.URL+"/api/regenerate-content", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var regen SectionContentResponse
	decodeBody(t, resp, &regen)
	assert.False(t, regen.Cached)
	assert.NotEmpty(t, regen.Content)
}

func TestProgressRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	// Use a cookie jar so all requests share one session.
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := srv.Client()
	client.Jar = jar

	resp := postJSON(t, client, srv.URL+"/api/study-guide", `{"topic": "Graph Theory", "difficulty": "easy"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var guide StudyGuideResponse
	decodeBody(t, resp, &guide)

	update := fmt.Sprintf(`{"topic": "Graph Theory", "topic_hash": %q, "section_index": 0, "completed": true, "study_time": 90}`, guide.TopicHash)
	resp = postJSON(t, client, srv.URL+"/api/progress/update", update)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	getResp, err := client.Get(srv.URL + "/api/progress/" + guide.TopicHash)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	var progress ProgressResponse
	decodeBody(t, getResp, &progress)
	assert.Equal(t, 1, progress.CompletedSections)
	assert.InDelta(t, 90, progress.TotalStudyTime, 1e-9)
	require.Contains(t, progress.Progress, 0)
	assert.True(t, progress.Progress[0].Completed)
}

func TestHealthHandler(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/api/health")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	decodeBody(t, resp, &body)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, false, body["model_available"])
}
