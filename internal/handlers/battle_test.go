// internal/handlers/battle_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auxbattle/auxbattle/internal/auth"
	"github.com/auxbattle/auxbattle/internal/room"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func newTestServer() *BattleServer {
	auth.Init() // ephemeral keys, no DB needed
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewBattleServer(logger, room.NewCoordinator(logger, nil), nil)
}

func doJSON(t *testing.T, h http.HandlerFunc, userID uuid.UUID, body string) *httptest.ResponseRecorder {
	t.Helper()
	token, err := auth.CreateJWT(userID.String())
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}
	req := httptest.NewRequest("POST", "/", bytes.NewBufferString(body))
	req.Header.Set("Cookie", "auth_token="+token)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// TestCreateBattle checks that /battle/create builds a waiting room with the
// caller as its sole, host member.
func TestCreateBattle(t *testing.T) {
	bs := newTestServer()
	host := uuid.New()

	w := doJSON(t, CreateBattleHandler(bs), host, `{"theme":"Hype","category":"Rap","maxPlayers":4}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}

	var resp createBattleResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Code) != room.CodeLength {
		t.Fatalf("expected %d-char code, got %q", room.CodeLength, resp.Code)
	}
	if resp.Room.HostID != host {
		t.Fatalf("host mismatch, expected %v got %v", host, resp.Room.HostID)
	}
	if len(resp.Room.Memberships) != 1 || !resp.Room.Memberships[0].IsHost {
		t.Fatalf("expected a single host membership, got %+v", resp.Room.Memberships)
	}
}

func TestCreateBattleRejectsBadInput(t *testing.T) {
	bs := newTestServer()

	w := doJSON(t, CreateBattleHandler(bs), uuid.New(), `{"theme":"Hype","category":"Rap","maxPlayers":1}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCreateBattleRequiresAuth(t *testing.T) {
	bs := newTestServer()

	req := httptest.NewRequest("POST", "/battle/create", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()
	CreateBattleHandler(bs).ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestJoinBattleNotFound(t *testing.T) {
	bs := newTestServer()

	w := doJSON(t, JoinBattleHandler(bs), uuid.New(), `{"code":"ZZZZZZZ"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestJoinThenStartFlow(t *testing.T) {
	bs := newTestServer()
	host := uuid.New()
	joiner := uuid.New()

	w := doJSON(t, CreateBattleHandler(bs), host, `{"theme":"Chill","category":"Pop","maxPlayers":2}`)
	if w.Code != http.StatusOK {
		t.Fatalf("create failed: %d %s", w.Code, w.Body.String())
	}
	var created createBattleResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode create response: %v", err)
	}

	// Starting alone is refused.
	w = doJSON(t, StartBattleHandler(bs), host, `{"code":"`+created.Code+`"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for solo start, got %d", w.Code)
	}

	w = doJSON(t, JoinBattleHandler(bs), joiner, `{"code":"`+created.Code+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("join failed: %d %s", w.Code, w.Body.String())
	}
	var joined joinBattleResponse
	if err := json.Unmarshal(w.Body.Bytes(), &joined); err != nil {
		t.Fatalf("failed to decode join response: %v", err)
	}
	if len(joined.Room.Memberships) != 2 {
		t.Fatalf("expected 2 memberships, got %d", len(joined.Room.Memberships))
	}

	// Non-host cannot start.
	w = doJSON(t, StartBattleHandler(bs), joiner, `{"code":"`+created.Code+`"}`)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-host start, got %d", w.Code)
	}

	w = doJSON(t, StartBattleHandler(bs), host, `{"code":"`+created.Code+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("start failed: %d %s", w.Code, w.Body.String())
	}

	// The battle is underway; the room stopped admitting players.
	w = doJSON(t, JoinBattleHandler(bs), uuid.New(), `{"code":"`+created.Code+`"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 joining a started battle, got %d", w.Code)
	}
}

func TestLeaveBattleAcksWhenAbsent(t *testing.T) {
	bs := newTestServer()

	w := doJSON(t, LeaveBattleHandler(bs), uuid.New(), `{"code":"ZZZZZZZ"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for absent leave, got %d", w.Code)
	}
}

func TestJoinNormalizesTypedCode(t *testing.T) {
	bs := newTestServer()
	host := uuid.New()

	w := doJSON(t, CreateBattleHandler(bs), host, `{"theme":"Love","category":"R&B","maxPlayers":3}`)
	if w.Code != http.StatusOK {
		t.Fatalf("create failed: %d", w.Code)
	}
	var created createBattleResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode create response: %v", err)
	}

	// Players type codes by hand; lowercase input must still land.
	lower := `{"code":"` + string(bytes.ToLower([]byte(created.Code))) + `"}`
	w = doJSON(t, JoinBattleHandler(bs), uuid.New(), lower)
	if w.Code != http.StatusOK {
		t.Fatalf("expected lowercased code to join, got %d: %s", w.Code, w.Body.String())
	}
}
