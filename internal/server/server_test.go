package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/huffviz/internal/config"
	"github.com/matzehuels/huffviz/pkg/artifact"
	"github.com/matzehuels/huffviz/pkg/cache"
	"github.com/matzehuels/huffviz/pkg/codec"
	herrors "github.com/matzehuels/huffviz/pkg/errors"
	"github.com/matzehuels/huffviz/pkg/observability"
	"github.com/matzehuels/huffviz/pkg/pipeline"
)

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	store, err := artifact.NewFileStore(t.TempDir())
	require.NoError(t, err)

	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
	opts = append([]Option{WithLogger(logger), WithHooks(observability.NoopHTTPHooks{})}, opts...)
	s := New(runner, store, opts...)
	t.Cleanup(func() { s.Close() })
	return s
}

func upload(t *testing.T, path, filename string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func TestHealth(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])

	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err, "response should carry a generated request ID")
}

func TestRequestIDReused(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := serve(s, req)
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	rec = serve(s, req)
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get(RequestIDHeader))
}

func TestNotFoundRoute(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, herrors.ErrCodeNotFound, decodeError(t, rec).Code)
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	text := []byte("the quick brown fox jumps over the lazy dog\n")

	rec := serve(s, upload(t, "/api/compress", "notes.txt", text))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var comp compressResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comp))
	assert.Equal(t, len(text), comp.OriginalSize)
	assert.Equal(t, "notes.bin", comp.Filename)
	assert.Equal(t, "/api/download/"+comp.CompressedFilePath, comp.DownloadURL)
	assert.Equal(t, codec.NewStats(comp.OriginalSize, comp.CompressedSize).Ratio, comp.Ratio)

	rec = serve(s, httptest.NewRequest(http.MethodGet, comp.DownloadURL, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename=notes.bin`)
	compressed := rec.Body.Bytes()
	assert.Len(t, compressed, comp.CompressedSize)

	want, err := codec.Compress(text)
	require.NoError(t, err)
	assert.Equal(t, want, compressed)

	rec = serve(s, upload(t, "/api/decompress", "notes.bin", compressed))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var dec decompressResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dec))
	assert.True(t, dec.Success)
	assert.Equal(t, "notes_decompressed.txt", dec.Filename)
	assert.Equal(t, len(text), dec.Size)

	rec = serve(s, httptest.NewRequest(http.MethodGet, dec.DownloadURL, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, text, rec.Body.Bytes())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "notes_decompressed.txt")
}

func TestCompressErrors(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, WithMaxUploadBytes(512))

	tests := []struct {
		name   string
		req    func() *http.Request
		status int
		code   herrors.Code
	}{
		{
			name:   "no file part",
			req:    func() *http.Request { return postJSON("/api/compress", `{}`) },
			status: http.StatusBadRequest,
			code:   herrors.ErrCodeInvalidInput,
		},
		{
			name:   "empty file",
			req:    func() *http.Request { return upload(t, "/api/compress", "empty.txt", nil) },
			status: http.StatusBadRequest,
			code:   herrors.ErrCodeEmptyInput,
		},
		{
			name:   "too large",
			req:    func() *http.Request { return upload(t, "/api/compress", "big.txt", bytes.Repeat([]byte("x"), 1024)) },
			status: http.StatusRequestEntityTooLarge,
			code:   herrors.ErrCodeTooLarge,
		},
		{
			name:   "unsafe filename",
			req:    func() *http.Request { return upload(t, "/api/compress", "...", []byte("abc")) },
			status: http.StatusBadRequest,
			code:   herrors.ErrCodeInvalidName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, tt.req())
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestDecompressErrors(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := serve(s, upload(t, "/api/decompress", "notes.txt", []byte("abc")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, herrors.ErrCodeInvalidFormat, decodeError(t, rec).Code)

	rec = serve(s, upload(t, "/api/decompress", "garbage.bin", []byte("not compressed")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, herrors.ErrCodeInvalidInput, decodeError(t, rec).Code)
}

func TestDownloadErrors(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/download/"+uuid.NewString()+".bin", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, herrors.ErrCodeFileNotFound, decodeError(t, rec).Code)

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/api/download_decompressed/secret.txt", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, herrors.ErrCodeInvalidName, decodeError(t, rec).Code)
}

func TestVisualize(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := serve(s, postJSON("/api/visualize", `{"text": "aaabbc"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp visualizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, map[string]string{"a": "0", "c": "10", "b": "11"}, resp.Codes)
	assert.Equal(t, map[string]int{"a": 3, "b": 2, "c": 1}, resp.Frequencies)
	require.Len(t, resp.Order, 3)
	assert.Equal(t, "a", resp.Order[0].Symbol)
	require.NotNil(t, resp.Tree)
	assert.Equal(t, 6, resp.Tree.Freq)
	assert.Equal(t, 9, resp.Stats.EncodedBits)
	assert.InDelta(t, 1.5, resp.AverageBits, 1e-9)

	require.Len(t, resp.Layout.Nodes, 5)
	root := resp.Layout.Nodes[0]
	assert.Equal(t, "n", root.ID)
	assert.Equal(t, 370.0, root.X)
	assert.Equal(t, 50.0, root.Y)
}

func TestVisualizeLayoutDefaults(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := serve(s, postJSON("/api/visualize", `{"text": "aaabbc", "margin_x": 10, "margin_y": 20}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp visualizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 10.0, resp.Layout.MarginX)
	assert.Equal(t, 20.0, resp.Layout.Nodes[0].Y)
}

func TestVisualizeZeroMargins(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := serve(s, postJSON("/api/visualize", `{"text": "aaabbc", "margin_x": 0, "margin_y": 0}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp visualizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	root := resp.Layout.Nodes[0]
	assert.Equal(t, 0.0, root.Y)
	// "aaabbc" puts the leftmost node (a) one span left of the root.
	assert.Equal(t, 320.0, root.X)
}

func TestVisualizeErrors(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
		code herrors.Code
	}{
		{"bad json", `{"text":`, herrors.ErrCodeInvalidInput},
		{"no text", `{}`, herrors.ErrCodeEmptyInput},
		{"bad policy", `{"text": "ab", "policy": "random"}`, herrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, postJSON("/api/visualize", tt.body))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestRender(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	tests := []struct {
		body        string
		contentType string
		prefix      string
	}{
		{`{"text": "aaabbc"}`, "image/svg+xml", "<svg"},
		{`{"text": "aaabbc", "format": "dot"}`, "text/vnd.graphviz; charset=utf-8", "digraph G {"},
		{`{"text": "aaabbc", "format": "dot", "viz_type": "nodelink"}`, "text/vnd.graphviz; charset=utf-8", "digraph G {"},
		{`{"text": "aaabbc", "formats": ["json"]}`, "application/json", "{"},
	}
	for _, tt := range tests {
		rec := serve(s, postJSON("/api/render", tt.body))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"), tt.body)
		assert.True(t, strings.HasPrefix(rec.Body.String(), tt.prefix), "%s: body %q", tt.body, rec.Body.String())
	}
}

func TestRenderErrors(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
		code herrors.Code
	}{
		{"bad format", `{"text": "ab", "format": "gif"}`, herrors.ErrCodeInvalidFormat},
		{"bad viz", `{"text": "ab", "viz_type": "tower"}`, herrors.ErrCodeInvalidVizType},
		{"many formats", `{"text": "ab", "formats": ["svg", "dot"]}`, herrors.ErrCodeInvalidInput},
		{"empty", `{"text": ""}`, herrors.ErrCodeEmptyInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, postJSON("/api/render", tt.body))
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

type recordingHooks struct {
	mu        sync.Mutex
	requests  []string
	responses []int
	errors    int
}

func (h *recordingHooks) OnRequest(_ context.Context, method, path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests = append(h.requests, method+" "+path)
}

func (h *recordingHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.responses = append(h.responses, status)
}

func (h *recordingHooks) OnError(context.Context, string, string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors++
}

func TestHTTPHooks(t *testing.T) {
	t.Parallel()
	hooks := &recordingHooks{}
	s := newTestServer(t, WithHooks(hooks))

	serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	serve(s, postJSON("/api/visualize", `{}`))

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	assert.Equal(t, []string{"GET /healthz", "POST /api/visualize"}, hooks.requests)
	assert.Equal(t, []int{http.StatusOK, http.StatusBadRequest}, hooks.responses)
	assert.Equal(t, 1, hooks.errors)
}

func TestRunShutdown(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		cfg := config.Default().Server
		cfg.Addr = "127.0.0.1:0"
		done <- s.Run(ctx, cfg)
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
