package share

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notemap/snapshot"
	"notemap/store"
)

func sampleJSON(t *testing.T) []byte {
	t.Helper()
	s := snapshot.New()
	s.Title = "Shared"
	s.Nodes = []snapshot.NodeState{
		{ID: 1, Text: "root"},
		{ID: 2, Text: "child", Y: 100},
	}
	s.Connections = []snapshot.ConnectionState{{FromID: snapshot.IntPtr(1), ToID: snapshot.IntPtr(2)}}
	data, err := snapshot.Encode(snapshot.Wrap(s), false)
	require.NoError(t, err)
	return data
}

func TestLink(t *testing.T) {
	link, err := Link("https://app.example.com/", "https://files.example.com/map.json?v=2")
	require.NoError(t, err)
	assert.Equal(t, "https://app.example.com/?json=https%3A%2F%2Ffiles.example.com%2Fmap.json%3Fv%3D2", link)

	src, err := SourceURL(link)
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/map.json?v=2", src)

	_, err = SourceURL("https://app.example.com/")
	assert.ErrorIs(t, err, ErrNoSource)

	_, err = Link("https://app.example.com/", "file:///etc/passwd")
	assert.Error(t, err)
}

func TestFetch(t *testing.T) {
	good := sampleJSON(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/good":
			w.Write(good)
		case "/bare":
			w.Write([]byte(`{"nodes":[{"id":1,"text":"only"}]}`))
		case "/broken":
			w.Write([]byte(`{"version":"v1.0.0","data":{"nodes":"nope"}}`))
		case "/big":
			w.Write(bytes.Repeat([]byte(" "), 2048))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFetcher(time.Second, 1024)
	ctx := context.Background()

	env, err := f.Fetch(ctx, srv.URL+"/good")
	require.NoError(t, err)
	assert.Equal(t, "Shared", env.Data.Title)
	assert.Len(t, env.Data.Connections, 1)

	env, err = f.Fetch(ctx, srv.URL+"/bare")
	require.NoError(t, err)
	assert.Equal(t, "only", env.Data.Nodes[0].Text)

	_, err = f.Fetch(ctx, srv.URL+"/broken")
	assert.ErrorIs(t, err, snapshot.ErrMalformed)

	_, err = f.Fetch(ctx, srv.URL+"/missing")
	assert.ErrorIs(t, err, ErrFetch)
	assert.ErrorContains(t, err, "404")

	_, err = f.Fetch(ctx, srv.URL+"/big")
	assert.ErrorIs(t, err, ErrFetch)

	_, err = f.Fetch(ctx, "ftp://example.com/x.json")
	assert.ErrorIs(t, err, ErrFetch)

	link, err := Link("https://viewer.test/", srv.URL+"/good")
	require.NoError(t, err)
	env, err = f.FetchLink(ctx, link)
	require.NoError(t, err)
	assert.Len(t, env.Data.Nodes, 2)
}

func TestFetchTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	_, err := NewFetcher(50*time.Millisecond, 1024).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrFetch)
}

func TestServerShareRoundTrip(t *testing.T) {
	mem := store.NewMemoryStore()
	srv := httptest.NewServer(NewServer(mem, WithLinkBase("https://viewer.test/")))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/docs", "application/json", bytes.NewReader(sampleJSON(t)))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created CreateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, srv.URL+"/docs/"+created.ID, created.URL)

	src, err := SourceURL(created.Link)
	require.NoError(t, err)
	assert.Equal(t, created.URL, src)

	// The link resolves through the fetcher to the same document.
	env, err := NewFetcher(time.Second, 1<<20).FetchLink(context.Background(), created.Link)
	require.NoError(t, err)
	assert.Equal(t, "Shared", env.Data.Title)
	assert.Equal(t, snapshot.Version, env.Version)
}

func TestServerRejects(t *testing.T) {
	h := NewServer(store.NewMemoryStore(), WithMaxBytes(64))

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"malformed", http.MethodPost, "/docs", `{"nodes":"x"}`, http.StatusUnprocessableEntity},
		{"too large", http.MethodPost, "/docs", `{"nodes":[` + strings.Repeat(" ", 100) + `]}`, http.StatusRequestEntityTooLarge},
		{"unknown id", http.MethodGet, "/docs/8a3c1f0e-5b8e-4c1e-9f7a-0d2b6c4e1a90", "", http.StatusNotFound},
		{"bad id", http.MethodGet, "/docs/../../etc", "", http.StatusNotFound},
		{"wrong method", http.MethodDelete, "/docs/x", "", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestServerPublicURLAndHealth(t *testing.T) {
	h := NewServer(store.NewMemoryStore(), WithPublicURL("https://share.example.com/"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/docs", bytes.NewReader(sampleJSON(t))))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created CreateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, strings.HasPrefix(created.URL, "https://share.example.com/docs/"))
	assert.Empty(t, created.Link)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/"+created.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	env, err := snapshot.Decode(body)
	require.NoError(t, err)
	assert.Len(t, env.Data.Nodes, 2)
}
