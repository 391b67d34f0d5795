// internal/handlers/battle.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/auxbattle/auxbattle/internal/models"
	"github.com/auxbattle/auxbattle/internal/room"
)

type createBattleRequest struct {
	Theme      string `json:"theme"`
	Category   string `json:"category"`
	MaxPlayers int    `json:"maxPlayers"`
}

type createBattleResponse struct {
	Code string              `json:"code"`
	Room models.RoomSnapshot `json:"room"`
}

type codeRequest struct {
	Code string `json:"code"`
}

type joinBattleResponse struct {
	Room models.RoomSnapshot `json:"room"`
}

type ackResponse struct {
	OK bool `json:"ok"`
}

// CreateBattleHandler creates a room with the caller as host.
func CreateBattleHandler(bs *BattleServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUser(r)
		if err != nil {
			http.Error(w, "missing or invalid auth_token", http.StatusUnauthorized)
			return
		}

		var req createBattleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request payload", http.StatusBadRequest)
			return
		}

		snap, err := bs.Coordinator.CreateRoom(r.Context(), userID, req.Theme, req.Category, req.MaxPlayers)
		if err != nil {
			writeRoomError(w, err)
			return
		}

		writeJSON(w, createBattleResponse{Code: snap.Code, Room: snap})
	}
}

// JoinBattleHandler admits the caller into the room with the given code.
func JoinBattleHandler(bs *BattleServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUser(r)
		if err != nil {
			http.Error(w, "missing or invalid auth_token", http.StatusUnauthorized)
			return
		}

		var req codeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request payload", http.StatusBadRequest)
			return
		}

		snap, err := bs.Coordinator.JoinRoom(r.Context(), req.Code, userID)
		if err != nil {
			writeRoomError(w, err)
			return
		}

		writeJSON(w, joinBattleResponse{Room: snap})
	}
}

// LeaveBattleHandler removes the caller's membership. Leaving a room you are
// not in, or one that no longer exists, still acks.
func LeaveBattleHandler(bs *BattleServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUser(r)
		if err != nil {
			http.Error(w, "missing or invalid auth_token", http.StatusUnauthorized)
			return
		}

		var req codeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request payload", http.StatusBadRequest)
			return
		}

		if err := bs.Coordinator.LeaveRoom(r.Context(), req.Code, userID); err != nil {
			writeRoomError(w, err)
			return
		}

		writeJSON(w, ackResponse{OK: true})
	}
}

// StartBattleHandler transitions the room to in_progress; host only.
func StartBattleHandler(bs *BattleServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUser(r)
		if err != nil {
			http.Error(w, "missing or invalid auth_token", http.StatusUnauthorized)
			return
		}

		var req codeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request payload", http.StatusBadRequest)
			return
		}

		if _, err := bs.Coordinator.StartBattle(r.Context(), req.Code, userID); err != nil {
			writeRoomError(w, err)
			return
		}

		writeJSON(w, ackResponse{OK: true})
	}
}

// CompleteBattleHandler ends an in_progress battle; host only. Called by the
// gameplay side when a match concludes.
func CompleteBattleHandler(bs *BattleServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUser(r)
		if err != nil {
			http.Error(w, "missing or invalid auth_token", http.StatusUnauthorized)
			return
		}

		var req codeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request payload", http.StatusBadRequest)
			return
		}

		if err := bs.Coordinator.CompleteBattle(r.Context(), req.Code, userID); err != nil {
			writeRoomError(w, err)
			return
		}

		writeJSON(w, ackResponse{OK: true})
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// writeRoomError maps the domain taxonomy onto HTTP statuses. Taxonomy
// messages are short and user-safe; anything else collapses to a generic 500
// so internals never leak.
func writeRoomError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, room.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, room.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, room.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, room.ErrNotJoinable), errors.Is(err, room.ErrRoomFull):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, room.ErrInsufficientPlayers):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, room.ErrCreationFailed):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
