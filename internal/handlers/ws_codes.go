// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes used by the room stream handler. These give
// clients a more specific reason than the standard codes.
const (
	BadSubprotocolError   = 3000 // Client connected with an unsupported subprotocol.
	InvalidAuthTokenError = 3001 // Auth token was invalid and no guest identity could be minted.
	UnknownRoomError      = 3002 // No live room holds the requested code.
)
