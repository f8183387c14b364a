package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/corkboard/corkboard/internal/domain"
	"github.com/corkboard/corkboard/internal/server/middleware"
	redisstore "github.com/corkboard/corkboard/internal/store/redis"
)

// sendBuffer bounds the per-connection outbound queue. A connection that
// cannot keep up has frames dropped rather than stalling the room.
const sendBuffer = 64

// Hub owns the realtime layer: it tracks which websocket connections are in
// which board room, bridges rooms across processes through the redis events
// channel, and keeps board presence in redis in sync with room membership.
type Hub struct {
	store  *redisstore.Store
	users  domain.UserRepository
	logger zerolog.Logger

	// ctx bounds the per-room subscriber goroutines; cancelling it stops
	// every pump.
	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	rooms map[uuid.UUID]*room
}

// room is the set of local connections joined to one board, plus the cancel
// for the redis subscription feeding them.
type room struct {
	members map[uuid.UUID]*session
	cancel  context.CancelFunc
}

// session is one websocket connection. boardID is uuid.Nil until the client
// joins a board.
type session struct {
	id      uuid.UUID
	userID  uuid.UUID
	boardID uuid.UUID
	send    chan []byte
	cancel  context.CancelFunc
}

func NewHub(store *redisstore.Store, users domain.UserRepository, logger zerolog.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		store:  store,
		users:  users,
		logger: logger.With().Str("component", "ws").Logger(),
		ctx:    ctx,
		cancel: cancel,
		rooms:  make(map[uuid.UUID]*room),
	}
}

// Close stops all room subscriptions. Open connections are torn down by their
// own read loops when the server shuts down.
func (h *Hub) Close() {
	h.cancel()
}

// ServeHTTP upgrades the request and runs the connection until the client
// disconnects. The caller must have authenticated the request; the user id
// comes from the request context, never from client payloads.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sess := &session{
		id:     uuid.New(),
		userID: userID,
		send:   make(chan []byte, sendBuffer),
		cancel: cancel,
	}

	go h.writeLoop(ctx, conn, sess)
	h.readLoop(ctx, conn, sess)

	// Disconnect cleanup runs the same path as an explicit leave.
	h.leave(sess)
	conn.Close(websocket.StatusNormalClosure, "")
}

func (h *Hub) writeLoop(ctx context.Context, conn *websocket.Conn, sess *session) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-sess.send:
			if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
				sess.cancel()
				return
			}
		}
	}
}

func (h *Hub) readLoop(ctx context.Context, conn *websocket.Conn, sess *session) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			h.sendError(sess, "malformed frame")
			continue
		}
		h.dispatch(sess, env)
	}
}

func (h *Hub) dispatch(sess *session, env Envelope) {
	switch env.Event {
	case EventJoinBoard:
		var p JoinPayload
		if err := json.Unmarshal(env.Data, &p); err != nil || p.BoardID == uuid.Nil {
			h.sendError(sess, "join-board requires boardId")
			return
		}
		h.join(sess, p.BoardID)
	case EventLeaveBoard:
		h.leave(sess)
	default:
		if _, ok := relayEvents[env.Event]; !ok {
			h.sendError(sess, "unknown event: "+env.Event)
			return
		}
		h.relay(sess, env)
	}
}

// join moves the session into a board room. A join while already in another
// room leaves that room first, so a connection is never present in two rooms
// and never leaks presence entries.
func (h *Hub) join(sess *session, boardID uuid.UUID) {
	if sess.boardID == boardID {
		return
	}
	if sess.boardID != uuid.Nil {
		h.leave(sess)
	}

	h.mu.Lock()
	rm, ok := h.rooms[boardID]
	if !ok {
		rm = &room{members: make(map[uuid.UUID]*session)}
		pumpCtx, pumpCancel := context.WithCancel(h.ctx)
		rm.cancel = pumpCancel
		h.rooms[boardID] = rm
		if err := h.startPump(pumpCtx, boardID); err != nil {
			h.logger.Error().Err(err).Str("board_id", boardID.String()).Msg("room subscribe failed")
			pumpCancel()
			delete(h.rooms, boardID)
			h.mu.Unlock()
			h.sendError(sess, "board unavailable")
			return
		}
	}
	rm.members[sess.id] = sess
	sess.boardID = boardID
	h.mu.Unlock()

	if err := h.store.AddUserToBoard(h.ctx, boardID, sess.userID); err != nil {
		h.logger.Warn().Err(err).Str("board_id", boardID.String()).Msg("presence add failed")
	}
	h.broadcastPresence(boardID)
}

// leave removes the session from its current room, updates presence, and
// tears the room down when it empties. Safe to call on a session that never
// joined.
func (h *Hub) leave(sess *session) {
	boardID := sess.boardID
	if boardID == uuid.Nil {
		return
	}

	h.mu.Lock()
	stillPresent := false
	if rm, ok := h.rooms[boardID]; ok {
		delete(rm.members, sess.id)
		if len(rm.members) == 0 {
			rm.cancel()
			delete(h.rooms, boardID)
		}
		// Another connection of the same user may still be in the room.
		for _, other := range rm.members {
			if other.userID == sess.userID {
				stillPresent = true
				break
			}
		}
	}
	sess.boardID = uuid.Nil
	h.mu.Unlock()

	if !stillPresent {
		if err := h.store.RemoveUserFromBoard(h.ctx, boardID, sess.userID); err != nil {
			h.logger.Warn().Err(err).Str("board_id", boardID.String()).Msg("presence remove failed")
		}
	}
	h.broadcastPresence(boardID)
}

// relay publishes a client event to the board's events channel. Delivery back
// to local and remote rooms happens in the subscriber pumps, which skip the
// originating connection.
func (h *Hub) relay(sess *session, env Envelope) {
	boardID, err := boardIDOf(env.Data)
	if err != nil {
		h.sendError(sess, env.Event+" requires boardId")
		return
	}

	frame := mustMarshal(fanoutFrame{Origin: sess.id, Event: env.Event, Data: env.Data})
	if err := h.store.Publish(h.ctx, redisstore.BoardEventsChannel(boardID), frame); err != nil {
		h.logger.Error().Err(err).Str("event", env.Event).Msg("event publish failed")
	}
}

// broadcastPresence reads the board's presence set, expands it into user
// summaries, and fans the roster out to every connection in the room,
// including the one whose join or leave triggered it.
func (h *Hub) broadcastPresence(boardID uuid.UUID) {
	ids, err := h.store.UsersInBoard(h.ctx, boardID)
	if err != nil {
		h.logger.Warn().Err(err).Str("board_id", boardID.String()).Msg("presence read failed")
		return
	}

	summaries := make([]domain.UserSummary, 0, len(ids))
	if len(ids) > 0 {
		users, err := h.users.GetByIDs(h.ctx, ids)
		if err != nil {
			h.logger.Warn().Err(err).Msg("presence user lookup failed")
			return
		}
		for _, u := range users {
			summaries = append(summaries, u.Summary())
		}
	}

	data := mustMarshal(map[string]any{
		"boardId": boardID,
		"users":   summaries,
	})
	frame := mustMarshal(fanoutFrame{Origin: uuid.Nil, Event: EventPresenceUpdate, Data: data})
	if err := h.store.Publish(h.ctx, redisstore.BoardEventsChannel(boardID), frame); err != nil {
		h.logger.Warn().Err(err).Str("board_id", boardID.String()).Msg("presence publish failed")
	}
}

// startPump subscribes to the board's events channel and forwards every frame
// to the room's local members, excluding the frame's origin connection. Must
// be called with h.mu held; the subscription is confirmed before it returns
// so no frame published after a successful join can be missed.
func (h *Hub) startPump(ctx context.Context, boardID uuid.UUID) error {
	msgs, cleanup, err := h.store.Subscribe(ctx, redisstore.BoardEventsChannel(boardID))
	if err != nil {
		return err
	}

	go func() {
		defer cleanup()
		for msg := range msgs {
			var frame fanoutFrame
			if err := json.Unmarshal(msg, &frame); err != nil {
				h.logger.Warn().Err(err).Msg("dropping malformed fanout frame")
				continue
			}
			out := mustMarshal(Envelope{Event: frame.Event, Data: frame.Data})

			h.mu.Lock()
			rm, ok := h.rooms[boardID]
			if !ok {
				h.mu.Unlock()
				return
			}
			for id, member := range rm.members {
				if id == frame.Origin {
					continue
				}
				select {
				case member.send <- out:
				default:
					h.logger.Warn().Str("connection_id", id.String()).Msg("dropping frame for slow consumer")
				}
			}
			h.mu.Unlock()
		}
	}()
	return nil
}

func (h *Hub) sendError(sess *session, msg string) {
	out := mustMarshal(Envelope{Event: EventError, Data: mustMarshal(map[string]string{"message": msg})})
	select {
	case sess.send <- out:
	default:
	}
}
