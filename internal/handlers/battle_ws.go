// internal/handlers/battle_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/auxbattle/auxbattle/internal/middleware"
	"github.com/auxbattle/auxbattle/internal/room"
	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"
)

// SubscribeBattleHandler streams roster snapshots for one room over a
// WebSocket. The server only pushes; inbound frames are drained solely to
// notice the client going away. Disconnects unsubscribe, they never raise
// errors through the stream.
func SubscribeBattleHandler(logger *logrus.Logger, bs *BattleServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		remoteAddr := r.RemoteAddr
		code := strings.TrimPrefix(r.URL.Path, "/battle/ws/")
		if idx := strings.Index(code, "/"); idx != -1 {
			code = code[:idx]
		}
		if code == "" {
			http.Error(w, "missing room code", http.StatusBadRequest)
			return
		}

		// Identity is resolved before the upgrade: minting a guest sets a
		// cookie, which is impossible once the connection is hijacked.
		userID, err := bs.EnsureGuestUser(w, r)
		if err != nil {
			http.Error(w, "authentication failed", http.StatusForbidden)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"battle"},
			OriginPatterns: []string{"*"}, // Adjust in production
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != "battle" {
			c.Close(BadSubprotocolError, "client must speak the battle subprotocol")
			return
		}

		sub, err := bs.Coordinator.Subscribe(code)
		if err != nil {
			c.Close(UnknownRoomError, "room does not exist")
			return
		}
		defer sub.Close()

		middleware.LogWebSocketConnect(logger, remoteAddr, code)
		logger.Infof("user %s subscribed to room %s", userID, code)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Drain inbound frames; the first read error means the client is gone.
		go func() {
			for {
				if _, _, err := c.Read(ctx); err != nil {
					cancel()
					return
				}
			}
		}()

		err = writeSnapshots(ctx, c, sub)
		middleware.LogWebSocketDisconnect(logger, remoteAddr, code, err)
	}
}

// writeSnapshots pushes snapshots until the stream closes, the client
// disconnects, or a write fails. Pings keep intermediaries from idling the
// connection out while the roster is quiet.
func writeSnapshots(ctx context.Context, c *websocket.Conn, sub *room.Subscriber) error {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snap, ok := <-sub.Snapshots():
			if !ok {
				// Room ended; the final snapshot was already delivered.
				c.Close(websocket.StatusNormalClosure, "battle ended")
				return nil
			}
			data, err := json.Marshal(snap)
			if err != nil {
				return err
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				return err
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				return err
			}
		}
	}
}
