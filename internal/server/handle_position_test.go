package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nhooyr.io/websocket"

	"github.com/playperu/geohunt/internal/hunt"
)

func TestPutPosition(t *testing.T) {
	env := newTestEnv(t)
	startSession(t, env, "ana")

	w := env.do(t, http.MethodPut, "/api/players/ana/position", PositionRequest{Lat: ptr(-12.05), Lng: ptr(-77.03)})
	expectStatus(t, w, http.StatusOK)
	state := decode[SessionStateResponse](t, w)
	if state.Observer == nil || state.Observer.Lat != -12.05 {
		t.Fatalf("observer = %v, want -12.05,-77.03", state.Observer)
	}
	if len(state.Ranking) != 5 {
		t.Errorf("expected 5 ranked checkpoints, got %d", len(state.Ranking))
	}

	// The fix is cached for later reads.
	w = env.do(t, http.MethodGet, "/api/players/ana/session", nil)
	expectStatus(t, w, http.StatusOK)
	if got := decode[SessionStateResponse](t, w); got.Observer == nil || got.Observer.Lng != -77.03 {
		t.Errorf("cached observer = %v, want -12.05,-77.03", got.Observer)
	}

	expectField(t, env.do(t, http.MethodPut, "/api/players/ana/position", PositionRequest{Lat: ptr(95.0), Lng: ptr(0.0)}), "lat")
	expectField(t, env.do(t, http.MethodPut, "/api/players/ana/position", PositionRequest{Lat: ptr(0.0)}), "lng")
}

func TestPositionWS(t *testing.T) {
	env := newTestEnv(t)
	startSession(t, env, "ana")

	srv := httptest.NewServer(env.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + srv.URL[len("http"):] + "/api/players/ana/position/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	exchange := func(frame string) []byte {
		t.Helper()
		if err := conn.Write(ctx, websocket.MessageText, []byte(frame)); err != nil {
			t.Fatalf("write %q: %v", frame, err)
		}
		_, got, err := conn.Read(ctx)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		return got
	}

	var state SessionStateResponse
	if err := json.Unmarshal(exchange(`{"lat":-12.046,"lng":-77.042}`), &state); err != nil {
		t.Fatalf("decoding state: %v", err)
	}
	if state.Session.Status != hunt.StatusActive || state.Observer == nil || len(state.Ranking) != 5 {
		t.Errorf("unexpected state frame: %+v", state)
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(exchange(`{"lat":-100,"lng":0}`), &errResp); err != nil {
		t.Fatalf("decoding error frame: %v", err)
	}
	if errResp.Field != "lat" {
		t.Errorf("field = %q, want lat", errResp.Field)
	}

	if err := json.Unmarshal(exchange(`not json`), &errResp); err != nil {
		t.Fatalf("decoding error frame: %v", err)
	}
	if errResp.Error != "invalid position frame" {
		t.Errorf("error = %q, want invalid position frame", errResp.Error)
	}

	// The socket survives bad frames.
	if err := json.Unmarshal(exchange(`{"lat":0,"lng":0}`), &state); err != nil {
		t.Fatalf("decoding state: %v", err)
	}

	conn.Close(websocket.StatusNormalClosure, "done")
}

func TestEvents(t *testing.T) {
	env := newTestEnv(t)

	srv := httptest.NewServer(env.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/players/ana/events", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content-type = %q, want text/event-stream", ct)
	}

	lines := bufio.NewScanner(resp.Body)
	next := func() SSEEvent {
		t.Helper()
		for lines.Scan() {
			data, ok := strings.CutPrefix(lines.Text(), "data: ")
			if !ok {
				continue
			}
			var ev SSEEvent
			if err := json.Unmarshal([]byte(data), &ev); err != nil {
				t.Fatalf("decoding event %q: %v", data, err)
			}
			return ev
		}
		t.Fatalf("stream ended: %v", lines.Err())
		return SSEEvent{}
	}

	snapshot := next()
	if snapshot.Type != "snapshot" || snapshot.Session == nil || snapshot.Session.Status != hunt.StatusLobby {
		t.Fatalf("unexpected first event: %+v", snapshot)
	}

	state := startSession(t, env, "ana")
	started := next()
	if started.Type != string(hunt.EventStarted) || started.Session.ID != state.Session.ID {
		t.Errorf("unexpected start event: %+v", started)
	}

	cp := state.Session.Checkpoints[0]
	collect(t, env, "ana", CollectRequest{CheckpointID: cp.ID, Answer: answerFor(t, env, cp.ID)})
	collected := next()
	if collected.Type != string(hunt.EventCollected) || collected.CheckpointID != cp.ID {
		t.Errorf("unexpected collect event: %+v", collected)
	}
}
