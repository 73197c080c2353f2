package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/sensei/internal/llm"
	"github.com/abhisek/sensei/internal/logging"
	"github.com/abhisek/sensei/internal/memory"
	"github.com/abhisek/sensei/internal/store"
	"github.com/abhisek/sensei/internal/tutor"
)

type askRecorder struct {
	store.EventRepo
	mu   sync.Mutex
	asks []store.AskEventData
}

func (r *askRecorder) AppendAsk(_ context.Context, data store.AskEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.asks = append(r.asks, data)
	return nil
}

func (r *askRecorder) recorded() []store.AskEventData {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]store.AskEventData(nil), r.asks...)
}

type testServer struct {
	router   *gin.Engine
	mock     *llm.MockProvider
	sessions *memory.Sessions
	asks     *askRecorder
}

func newTestServer(t *testing.T, responses ...llm.MockResponse) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mock := llm.NewMockProvider(responses...)
	sessions := memory.NewSessions(memory.DefaultCapacity)
	asks := &askRecorder{}

	h := NewHandler(HandlerOptions{
		Service:  tutor.NewService(mock, tutor.DefaultConfig()),
		Sessions: sessions,
		Events:   asks,
		Log:      logging.Nop(),
	})

	return &testServer{
		router:   NewRouter(DefaultConfig(), h, logging.Nop()),
		mock:     mock,
		sessions: sessions,
		asks:     asks,
	}
}

func (ts *testServer) do(t *testing.T, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v\nbody: %s", err, w.Body.String())
	}
	return out
}

func TestAsk_HappyPath(t *testing.T) {
	ts := newTestServer(t, llm.MockResponse{
		Content: json.RawMessage(`{"explanation":"A goroutine is a lightweight thread managed by the runtime.","summary":"Lightweight threads."}`),
	})

	w := ts.do(t, http.MethodPost, "/api/ask", `{"message":"what is a goroutine?","mode":"normal"}`, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["explanation"] != "A goroutine is a lightweight thread managed by the runtime." {
		t.Errorf("explanation = %q", body["explanation"])
	}
	if body["summary"] != "Lightweight threads." {
		t.Errorf("summary = %q", body["summary"])
	}
	if _, ok := body["roadmap"]; ok {
		t.Error("roadmap key present without being requested")
	}
	if w.Header().Get("X-Session-Id") == "" {
		t.Error("X-Session-Id header not set")
	}
	if w.Header().Get("X-Request-Id") == "" {
		t.Error("X-Request-Id header not set")
	}
}

func TestAsk_RoadmapRequested(t *testing.T) {
	content := `{
		"explanation": "Start small and build up.",
		"roadmap": [
			{
				"stepName": "Learn the syntax",
				"action": "Work through the language tour",
				"timeEstimate": "1 week",
				"resources": ["MDN Docs, https://developer.mozilla.org"],
				"exercise": "Write a small CLI"
			}
		]
	}`
	ts := newTestServer(t, llm.MockResponse{Content: json.RawMessage(content)})

	w := ts.do(t, http.MethodPost, "/api/ask", `{"message":"how do I learn JS?","mode":"normal","wantRoadmap":true}`, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	steps, ok := body["roadmap"].([]any)
	if !ok || len(steps) != 1 {
		t.Fatalf("roadmap = %v, want 1 step", body["roadmap"])
	}
	step := steps[0].(map[string]any)
	if step["stepName"] != "Learn the syntax" {
		t.Errorf("stepName = %q", step["stepName"])
	}
	resources := step["resources"].([]any)
	if len(resources) != 1 {
		t.Fatalf("resources = %v, want 1", resources)
	}
	res := resources[0].(map[string]any)
	if res["title"] != "MDN Docs" || res["url"] != "https://developer.mozilla.org" {
		t.Errorf("resource = %v, want split title and url", res)
	}
}

func TestAsk_RoadmapKeyAbsentWhenNotRequested(t *testing.T) {
	// Model volunteers a roadmap anyway; the response must not carry it.
	content := `{"explanation":"ok","roadmap":[{"stepName":"a"}]}`
	ts := newTestServer(t, llm.MockResponse{Content: json.RawMessage(content)})

	w := ts.do(t, http.MethodPost, "/api/ask", `{"message":"hi","mode":"eli5"}`, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if strings.Contains(w.Body.String(), "roadmap") {
		t.Errorf("body contains roadmap key: %s", w.Body.String())
	}
}

func TestAsk_InvalidMode(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/ask", `{"message":"hi","mode":"genius"}`, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	msg, _ := body["error"].(string)
	if !strings.Contains(msg, "invalid mode") {
		t.Errorf("error = %q, want invalid mode message", msg)
	}
	if ts.mock.CallCount() != 0 {
		t.Errorf("provider called %d times for invalid mode, want 0", ts.mock.CallCount())
	}
}

func TestAsk_MissingMessage(t *testing.T) {
	ts := newTestServer(t)

	for _, body := range []string{`{"mode":"normal"}`, `{"message":"   ","mode":"normal"}`} {
		w := ts.do(t, http.MethodPost, "/api/ask", body, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400 for body %s", w.Code, body)
		}
		resp := decodeBody(t, w)
		if resp["error"] != "missing message" {
			t.Errorf("error = %q, want %q", resp["error"], "missing message")
		}
	}
	if ts.mock.CallCount() != 0 {
		t.Errorf("provider called %d times, want 0", ts.mock.CallCount())
	}
}

func TestAsk_MalformedBody(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/ask", `{not json`, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	body := decodeBody(t, w)
	if body["error"] != "invalid request body" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestAsk_UpstreamErrorHasDetails(t *testing.T) {
	ts := newTestServer(t, llm.MockResponse{
		Err: &llm.ErrProviderUnavailable{},
	})

	w := ts.do(t, http.MethodPost, "/api/ask", `{"message":"hi","mode":"normal"}`, nil)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500; body: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["error"] != "upstream LLM call failed" {
		t.Errorf("error = %q", body["error"])
	}
	details, _ := body["details"].(string)
	if details == "" {
		t.Error("details missing from upstream error response")
	}
}

func TestAsk_NotConfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(HandlerOptions{
		ServiceErr: &llm.ErrNotConfigured{Provider: "anthropic", EnvVar: "SENSEI_ANTHROPIC_API_KEY"},
		Sessions:   memory.NewSessions(memory.DefaultCapacity),
		Log:        logging.Nop(),
	})
	router := NewRouter(DefaultConfig(), h, logging.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(`{"message":"hi","mode":"normal"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	body := decodeBody(t, w)
	msg, _ := body["error"].(string)
	if !strings.Contains(msg, "SENSEI_ANTHROPIC_API_KEY") {
		t.Errorf("error = %q, want mention of the missing env var", msg)
	}
	if _, ok := body["details"]; ok {
		t.Error("configuration errors should not carry details")
	}
}

func TestAsk_DegradedReplyStillOK(t *testing.T) {
	ts := newTestServer(t, llm.MockResponse{
		Content: json.RawMessage(`Sorry, I can only answer in plain text today.`),
	})

	w := ts.do(t, http.MethodPost, "/api/ask", `{"message":"hi","mode":"normal"}`, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := decodeBody(t, w)
	if body["explanation"] != "Sorry, I can only answer in plain text today." {
		t.Errorf("explanation = %q", body["explanation"])
	}
}

func TestAsk_SessionReuseCarriesContext(t *testing.T) {
	ts := newTestServer(t,
		llm.MockResponse{Content: json.RawMessage(`{"explanation":"first answer"}`)},
		llm.MockResponse{Content: json.RawMessage(`{"explanation":"second answer"}`)},
	)

	w1 := ts.do(t, http.MethodPost, "/api/ask", `{"message":"what is a closure?","mode":"normal"}`, nil)
	if w1.Code != http.StatusOK {
		t.Fatalf("first ask status = %d", w1.Code)
	}
	sid := w1.Header().Get("X-Session-Id")
	if sid == "" {
		t.Fatal("no session ID minted")
	}

	w2 := ts.do(t, http.MethodPost, "/api/ask", `{"message":"show me an example","mode":"normal"}`, map[string]string{"X-Session-Id": sid})
	if w2.Code != http.StatusOK {
		t.Fatalf("second ask status = %d", w2.Code)
	}
	if got := w2.Header().Get("X-Session-Id"); got != sid {
		t.Errorf("session ID not echoed: got %q, want %q", got, sid)
	}

	if ts.mock.CallCount() != 2 {
		t.Fatalf("provider calls = %d, want 2", ts.mock.CallCount())
	}
	second := ts.mock.Calls[1].Messages[0].Content
	if !strings.Contains(second, "Previous question: what is a closure?") {
		t.Errorf("second prompt missing prior question:\n%s", second)
	}
	if !strings.Contains(second, "first answer") {
		t.Errorf("second prompt missing prior answer:\n%s", second)
	}
}

func TestAsk_SeparateSessionsAreIsolated(t *testing.T) {
	ts := newTestServer(t,
		llm.MockResponse{Content: json.RawMessage(`{"explanation":"a"}`)},
		llm.MockResponse{Content: json.RawMessage(`{"explanation":"b"}`)},
	)

	ts.do(t, http.MethodPost, "/api/ask", `{"message":"first topic","mode":"normal"}`, map[string]string{"X-Session-Id": "s1"})
	ts.do(t, http.MethodPost, "/api/ask", `{"message":"other topic","mode":"normal"}`, map[string]string{"X-Session-Id": "s2"})

	second := ts.mock.Calls[1].Messages[0].Content
	if strings.Contains(second, "first topic") {
		t.Errorf("session s2 saw s1's context:\n%s", second)
	}
}

func TestAsk_RecordsTelemetry(t *testing.T) {
	content := `{"explanation":"ok","roadmap":[{"stepName":"a"},{"stepName":"b"}]}`
	ts := newTestServer(t, llm.MockResponse{Content: json.RawMessage(content)})

	w := ts.do(t, http.MethodPost, "/api/ask", `{"message":"plan please","mode":"expert","wantRoadmap":true}`, map[string]string{"X-Session-Id": "tele"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	asks := ts.asks.recorded()
	if len(asks) != 1 {
		t.Fatalf("recorded %d ask events, want 1", len(asks))
	}
	got := asks[0]
	if got.SessionID != "tele" || got.Mode != "expert" || !got.WantRoadmap {
		t.Errorf("event = %+v", got)
	}
	if got.Degraded {
		t.Error("event marked degraded for a parsed reply")
	}
	if got.RoadmapSteps != 2 {
		t.Errorf("RoadmapSteps = %d, want 2", got.RoadmapSteps)
	}
}

func TestSession_GetAndReset(t *testing.T) {
	ts := newTestServer(t,
		llm.MockResponse{Content: json.RawMessage(`{"explanation":"one"}`)},
		llm.MockResponse{Content: json.RawMessage(`{"explanation":"two"}`)},
	)
	hdr := map[string]string{"X-Session-Id": "abc"}

	ts.do(t, http.MethodPost, "/api/ask", `{"message":"q1","mode":"normal"}`, hdr)
	ts.do(t, http.MethodPost, "/api/ask", `{"message":"q2","mode":"normal"}`, hdr)

	w := ts.do(t, http.MethodGet, "/api/session", "", hdr)
	if w.Code != http.StatusOK {
		t.Fatalf("get session status = %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["sessionId"] != "abc" {
		t.Errorf("sessionId = %q", body["sessionId"])
	}
	exchanges, _ := body["exchanges"].([]any)
	if len(exchanges) != 2 {
		t.Fatalf("exchanges = %d, want 2", len(exchanges))
	}
	first := exchanges[0].(map[string]any)
	if first["message"] != "q1" {
		t.Errorf("exchanges not oldest first: %v", exchanges)
	}
	if !strings.Contains(first["reply"].(string), "one") {
		t.Errorf("reply should be the raw completion: %v", first["reply"])
	}

	wd := ts.do(t, http.MethodDelete, "/api/session", "", hdr)
	if wd.Code != http.StatusNoContent {
		t.Fatalf("delete session status = %d, want 204", wd.Code)
	}

	w2 := ts.do(t, http.MethodGet, "/api/session", "", hdr)
	body2 := decodeBody(t, w2)
	exchanges2, _ := body2["exchanges"].([]any)
	if len(exchanges2) != 0 {
		t.Errorf("exchanges after reset = %d, want 0", len(exchanges2))
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/healthz", "", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if decodeBody(t, w)["status"] != "ok" {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestRecovery_EmitsErrorBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery(logging.Nop()))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	body := decodeBody(t, w)
	if body["error"] != "internal error" {
		t.Errorf("error = %q", body["error"])
	}
	if details, _ := body["details"].(string); !strings.Contains(details, "kaboom") {
		t.Errorf("details = %q, want panic value", details)
	}
}
