package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/John-N-Weaver/rps-predictor-sub000/internal/engine"
	"github.com/John-N-Weaver/rps-predictor-sub000/internal/store/memory"
)

func newTestServer(t *testing.T) (*httptest.Server, *SessionHandler) {
	t.Helper()
	h := NewSessionHandler(engine.DefaultConfig(), memory.NewStore(), engine.DifficultyNormal, zerolog.Nop())
	mux := http.NewServeMux()
	h.Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	t.Cleanup(h.CloseAll)
	return srv, h
}

func doJSON(t *testing.T, method, url string, body string, out any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && resp.StatusCode != http.StatusNoContent {
			t.Fatalf("%s %s: decode response: %v", method, url, err)
		}
	}
	return resp
}

func createSession(t *testing.T, srv *httptest.Server, body string) sessionInfo {
	t.Helper()
	var info sessionInfo
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/sessions", body, &info)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create session: status %d", resp.StatusCode)
	}
	if info.SessionID == "" {
		t.Fatal("create session: empty sessionId")
	}
	return info
}

func TestSessionLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)
	info := createSession(t, srv, `{"profileId":"alice","difficulty":"ruthless"}`)
	if info.Difficulty != engine.DifficultyRuthless {
		t.Errorf("difficulty = %q, want ruthless", info.Difficulty)
	}
	base := srv.URL + "/api/v1/sessions/" + info.SessionID

	// Play a few rounds and sanity-check the round results.
	for i := 1; i <= 3; i++ {
		var result roundResult
		resp := doJSON(t, http.MethodPost, base+"/rounds", `{"playerMove":"rock"}`, &result)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("play round: status %d", resp.StatusCode)
		}
		if result.Round != i {
			t.Errorf("round = %d, want %d", result.Round, i)
		}
		if result.PlayerMove != engine.Rock {
			t.Errorf("playerMove = %s, want rock", result.PlayerMove)
		}
		if got := engine.OutcomeOf(result.PlayerMove, result.AIMove); got != result.Outcome {
			t.Errorf("outcome = %s, want %s", result.Outcome, got)
		}
		if len(result.Trace.Experts) == 0 {
			t.Error("round result carries no expert trace")
		}
	}

	var got sessionInfo
	resp := doJSON(t, http.MethodGet, base, "", &got)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get session: status %d", resp.StatusCode)
	}
	if got.Rounds != 3 {
		t.Errorf("rounds = %d, want 3", got.Rounds)
	}

	// Reset keeps the session but drops its rounds.
	resp = doJSON(t, http.MethodPost, base+"/reset", "", &got)
	if resp.StatusCode != http.StatusOK || got.Rounds != 0 {
		t.Errorf("reset: status %d rounds %d", resp.StatusCode, got.Rounds)
	}

	// Close, then the session is gone.
	resp = doJSON(t, http.MethodDelete, base, "", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("close session: status %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodGet, base, "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after close: status %d, want 404", resp.StatusCode)
	}
}

func TestUpdateSession(t *testing.T) {
	srv, _ := newTestServer(t)
	info := createSession(t, srv, `{"profileId":"bob"}`)
	base := srv.URL + "/api/v1/sessions/" + info.SessionID

	var got sessionInfo
	resp := doJSON(t, http.MethodPatch, base, `{"difficulty":"fair","training":true}`, &got)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch: status %d", resp.StatusCode)
	}
	if got.Difficulty != engine.DifficultyFair || !got.Training {
		t.Errorf("patched info = %+v", got)
	}

	resp = doJSON(t, http.MethodPatch, base, `{"difficulty":"impossible"}`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad difficulty: status %d, want 400", resp.StatusCode)
	}
}

func TestClearModel(t *testing.T) {
	srv, _ := newTestServer(t)
	info := createSession(t, srv, `{"profileId":"carol"}`)
	base := srv.URL + "/api/v1/sessions/" + info.SessionID

	doJSON(t, http.MethodPost, base+"/rounds", `{"playerMove":"paper"}`, nil)

	var got sessionInfo
	resp := doJSON(t, http.MethodDelete, base+"/model", "", &got)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("clear model: status %d", resp.StatusCode)
	}
	if got.Rounds != 0 {
		t.Errorf("rounds after clear = %d, want 0", got.Rounds)
	}
}

func TestBadRequests(t *testing.T) {
	srv, _ := newTestServer(t)
	info := createSession(t, srv, `{"profileId":"dave"}`)
	base := srv.URL + "/api/v1/sessions/" + info.SessionID

	cases := []struct {
		name   string
		method string
		url    string
		body   string
		want   int
	}{
		{"missing profile", http.MethodPost, srv.URL + "/api/v1/sessions", `{}`, http.StatusBadRequest},
		{"bad create JSON", http.MethodPost, srv.URL + "/api/v1/sessions", `{{`, http.StatusBadRequest},
		{"bad difficulty", http.MethodPost, srv.URL + "/api/v1/sessions", `{"profileId":"x","difficulty":"godmode"}`, http.StatusBadRequest},
		{"unknown move", http.MethodPost, base + "/rounds", `{"playerMove":"lizard"}`, http.StatusBadRequest},
		{"bad round JSON", http.MethodPost, base + "/rounds", `not json`, http.StatusBadRequest},
		{"unknown session", http.MethodGet, srv.URL + "/api/v1/sessions/nope", "", http.StatusNotFound},
		{"round on unknown session", http.MethodPost, srv.URL + "/api/v1/sessions/nope/rounds", `{"playerMove":"rock"}`, http.StatusNotFound},
	}
	for _, c := range cases {
		if resp := doJSON(t, c.method, c.url, c.body, nil); resp.StatusCode != c.want {
			t.Errorf("%s: status %d, want %d", c.name, resp.StatusCode, c.want)
		}
	}
}

func TestServeWS(t *testing.T) {
	srv, _ := newTestServer(t)
	info := createSession(t, srv, `{"profileId":"erin"}`)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") +
		fmt.Sprintf("/api/v1/sessions/%s/ws", info.SessionID)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	for i := 1; i <= 2; i++ {
		if err := conn.WriteJSON(wsRequest{PlayerMove: "scissors"}); err != nil {
			t.Fatalf("write frame: %v", err)
		}
		var result roundResult
		if err := conn.ReadJSON(&result); err != nil {
			t.Fatalf("read frame: %v", err)
		}
		if result.Round != i || result.PlayerMove != engine.Scissors {
			t.Errorf("frame %d: got round %d move %s", i, result.Round, result.PlayerMove)
		}
	}

	// A bad move is answered with an error frame, not a closed connection.
	if err := conn.WriteJSON(wsRequest{PlayerMove: "dynamite"}); err != nil {
		t.Fatalf("write bad frame: %v", err)
	}
	var werr wsError
	if err := conn.ReadJSON(&werr); err != nil {
		t.Fatalf("read error frame: %v", err)
	}
	if werr.Error == "" {
		t.Error("expected an error frame for an unknown move")
	}

	// The connection still plays rounds afterwards.
	if err := conn.WriteJSON(wsRequest{PlayerMove: "rock"}); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	var result roundResult
	if err := conn.ReadJSON(&result); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if result.Round != 3 {
		t.Errorf("round after error frame = %d, want 3", result.Round)
	}
}
