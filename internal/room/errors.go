// internal/room/errors.go
package room

import "errors"

// Domain errors returned by admission operations. They are matched with
// errors.Is; the messages are short and safe to show to end users.
// None of these are retryable without a state change, unlike wrapped
// infrastructure errors.
var (
	// ErrNotFound indicates no live room holds the given code.
	ErrNotFound = errors.New("room not found")

	// ErrNotJoinable indicates the room exists but is not in the state the
	// operation requires (joins need waiting, completion needs in_progress).
	ErrNotJoinable = errors.New("room is not accepting players")

	// ErrRoomFull indicates the room is at capacity.
	ErrRoomFull = errors.New("room is full")

	// ErrForbidden indicates a non-host attempted a host-only action.
	ErrForbidden = errors.New("only the host can do that")

	// ErrInsufficientPlayers indicates a start attempt below the two-player minimum.
	ErrInsufficientPlayers = errors.New("at least two players are required to start")

	// ErrInvalidInput indicates bad creation parameters.
	ErrInvalidInput = errors.New("invalid room parameters")

	// ErrCreationFailed indicates code allocation retries were exhausted.
	ErrCreationFailed = errors.New("could not create a room")

	// ErrDuplicateCode is internal: a generated code collided with a live
	// room. The coordinator retries transparently and only surfaces
	// ErrCreationFailed if retries run out.
	ErrDuplicateCode = errors.New("room code already in use")
)
