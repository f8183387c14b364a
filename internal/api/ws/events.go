package ws

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Wire event names. These are part of the client protocol and must not be
// renamed.
const (
	EventJoinBoard      = "join-board"
	EventLeaveBoard     = "leave-board"
	EventPresenceUpdate = "presence-update"

	EventCardCreated   = "card-created"
	EventCardUpdated   = "card-updated"
	EventCardMoved     = "card-moved"
	EventCardDeleted   = "card-deleted"
	EventColumnCreated = "column-created"
	EventColumnUpdated = "column-updated"
	EventColumnDeleted = "column-deleted"
	EventUserTyping    = "user-typing"

	EventError = "error"
)

// relayEvents are relayed verbatim to every other connection in the payload's
// board room. The payload itself is opaque apart from the boardId key.
var relayEvents = map[string]struct{}{
	EventCardCreated:   {},
	EventCardUpdated:   {},
	EventCardMoved:     {},
	EventCardDeleted:   {},
	EventColumnCreated: {},
	EventColumnUpdated: {},
	EventColumnDeleted: {},
	EventUserTyping:    {},
}

// Envelope is the frame exchanged with clients: an event name plus its
// payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// JoinPayload is the payload of join-board and leave-board.
type JoinPayload struct {
	BoardID uuid.UUID `json:"boardId"`
	UserID  uuid.UUID `json:"userId"`
}

// relayPayload extracts the one field the hub inspects on relayed events.
type relayPayload struct {
	BoardID uuid.UUID `json:"boardId"`
}

// fanoutFrame is the envelope as carried over the redis events channel,
// extended with the originating connection id so every process can exclude
// the sender from local delivery.
type fanoutFrame struct {
	Origin uuid.UUID       `json:"origin"`
	Event  string          `json:"event"`
	Data   json.RawMessage `json:"data"`
}

var errMissingBoardID = errors.New("ws: payload missing boardId")

// boardIDOf validates that a relayed payload carries a boardId and returns it.
func boardIDOf(data json.RawMessage) (uuid.UUID, error) {
	var p relayPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return uuid.Nil, fmt.Errorf("ws: malformed payload: %w", err)
	}
	if p.BoardID == uuid.Nil {
		return uuid.Nil, errMissingBoardID
	}
	return p.BoardID, nil
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		// Only reachable with unmarshalable values, which the hub never
		// constructs.
		panic(err)
	}
	return b
}
