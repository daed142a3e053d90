package signal

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/paircall/paircall/internal/domain"
	"github.com/paircall/paircall/internal/infrastructure/metrics"
)

const (
	// DefaultGracePeriod is how long a room survives with a single occupant
	// before it expires. Two minutes gives mobile users room to reconnect.
	DefaultGracePeriod = 2 * time.Minute

	defaultCodeAttempts = 10
	defaultClientURL    = "http://localhost:3000"
)

type connectReq struct {
	connID string
	send   Sender
}

type inboundEvent struct {
	from  string
	event string
	data  json.RawMessage
}

type expiredEvent struct {
	code string
	gen  uint64
}

type expiryTimer struct {
	timer *time.Timer
	gen   uint64
}

// Core is the session orchestrator. A single Run goroutine owns the registry,
// the room store and the expiry timers; every mutation (client events,
// connects, disconnects, timer fires, snapshot reads) is a message into that
// goroutine, which is what makes check-then-act sequences like "capacity
// check, then append occupant" atomic without locks.
type Core struct {
	logger *zap.SugaredLogger

	registry *Registry
	store    *Store
	timers   map[string]*expiryTimer
	timerGen uint64

	grace        time.Duration
	codeAttempts int
	clientURL    string
	generate     domain.CodeGenerator

	connect    chan connectReq
	disconnect chan string
	inbound    chan inboundEvent
	expired    chan expiredEvent
	snapshots  chan chan Snapshot

	done     chan struct{}
	stopOnce sync.Once
}

type Option func(*Core)

// WithGracePeriod overrides the single-occupant expiry window.
func WithGracePeriod(d time.Duration) Option {
	return func(c *Core) { c.grace = d }
}

// WithCodeGenerator swaps the room-code source. Used by tests to force
// collisions; production keeps domain.RandomCode.
func WithCodeGenerator(g domain.CodeGenerator) Option {
	return func(c *Core) { c.generate = g }
}

// WithClientURL sets the base used to build share links.
func WithClientURL(u string) Option {
	return func(c *Core) { c.clientURL = u }
}

func NewCore(logger *zap.SugaredLogger, opts ...Option) *Core {
	c := &Core{
		logger:       logger,
		registry:     NewRegistry(),
		store:        NewStore(),
		timers:       make(map[string]*expiryTimer),
		grace:        DefaultGracePeriod,
		codeAttempts: defaultCodeAttempts,
		clientURL:    defaultClientURL,
		generate:     domain.RandomCode,
		connect:      make(chan connectReq),
		disconnect:   make(chan string),
		inbound:      make(chan inboundEvent, 256),
		expired:      make(chan expiredEvent),
		snapshots:    make(chan chan Snapshot),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run processes commands until Stop. It must be the only goroutine touching
// registry, store and timers.
func (c *Core) Run() {
	for {
		select {
		case req := <-c.connect:
			c.handleConnect(req)
		case connID := <-c.disconnect:
			c.handleDisconnect(connID)
		case ev := <-c.inbound:
			c.handleEvent(ev)
		case ex := <-c.expired:
			c.handleExpired(ex)
		case reply := <-c.snapshots:
			reply <- c.snapshot()
		case <-c.done:
			for _, t := range c.timers {
				t.timer.Stop()
			}
			return
		}
	}
}

func (c *Core) Stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

// Connect registers a connection and its sender. The transport calls this
// once per established session, before dispatching any events for it.
func (c *Core) Connect(connID string, send Sender) {
	select {
	case c.connect <- connectReq{connID: connID, send: send}:
	case <-c.done:
	}
}

func (c *Core) Disconnect(connID string) {
	select {
	case c.disconnect <- connID:
	case <-c.done:
	}
}

// Dispatch hands a raw client event to the orchestrator.
func (c *Core) Dispatch(from, event string, data json.RawMessage) {
	select {
	case c.inbound <- inboundEvent{from: from, event: event, data: data}:
	case <-c.done:
	}
}

func (c *Core) handleConnect(req connectReq) {
	conn := c.registry.Register(req.connID, req.send)
	metrics.ActiveConnections.Inc()
	c.logger.Infow("client connected", "connId", conn.ID)
	c.emit(req.connID, EvMe, req.connID)
}

func (c *Core) handleEvent(ev inboundEvent) {
	switch ev.event {
	case EvRegister:
		var p registerPayload
		c.decode(ev, &p)
		c.registry.SetName(ev.from, p.Name)
	case EvCreateRoom:
		var p createRoomPayload
		c.decode(ev, &p)
		c.handleCreateRoom(ev.from, p)
	case EvJoinRoom:
		var p joinRoomPayload
		c.decode(ev, &p)
		c.handleJoinRoom(ev.from, p)
	case EvCallUser:
		var p callUserPayload
		c.decode(ev, &p)
		c.relay(p.UserToCall, EvCallUser, IncomingCallPayload{
			Signal:   p.SignalData,
			From:     p.From,
			Name:     p.Name,
			CallerID: p.From,
		})
	case EvAnswerCall:
		var p answerCallPayload
		c.decode(ev, &p)
		c.relay(p.To, EvCallAccepted, CallAcceptedPayload{Signal: p.Signal})
	case EvRejectCall:
		var p targetPayload
		c.decode(ev, &p)
		c.relay(p.To, EvCallRejected, CallRejectedPayload{Reason: "Call rejected"})
	case EvEndCall:
		var p targetPayload
		c.decode(ev, &p)
		if p.To != "" {
			c.relay(p.To, EvCallEnded, nil)
		}
	case EvSignal:
		var p signalPayload
		c.decode(ev, &p)
		c.relay(p.To, EvSignal, SignalForwardPayload{Signal: p.Signal, From: ev.from})
	case EvScreenShareStarted, EvScreenShareStopped:
		var p screenSharePayload
		c.decode(ev, &p)
		c.relayToRoomPeer(ev.from, p.RoomID, ev.event, ScreenShareForwardPayload{
			From:   p.From,
			Name:   p.Name,
			RoomID: p.RoomID,
		})
	default:
		c.logger.Debugw("dropping unknown event", "event", ev.event, "from", ev.from)
	}
}

func (c *Core) handleCreateRoom(from string, p createRoomPayload) {
	code, err := c.freeCode()
	if err != nil {
		c.logger.Warnw("room code generation failed", "connId", from, "error", err)
		c.roomError(from, CodeExhausted, "Unable to generate room code. Please try again.")
		return
	}

	room, err := c.store.Create(code, from, p.Name)
	if err != nil {
		// The generator pre-checked the code; a collision here means the
		// store invariant broke.
		c.logger.Errorw("room create collided after pre-check", "code", code, "error", err)
		c.roomError(from, CodeExhausted, "Unable to generate room code. Please try again.")
		return
	}

	// A freed code can be reused; make sure no stale timer follows it.
	c.cancelTimer(code)
	c.registry.SetRoom(from, code)

	metrics.RoomsCreated.Inc()
	metrics.ActiveRooms.Inc()
	c.logger.Infow("room created", "code", code, "connId", from, "rooms", c.store.Len())

	c.emit(from, EvRoomCreated, RoomCreatedPayload{
		RoomID:   room.Code,
		RoomCode: room.Code,
		Message:  "Room created successfully",
		ShareURL: c.clientURL + "?room=" + room.Code,
	})
}

func (c *Core) handleJoinRoom(from string, p joinRoomPayload) {
	room, err := c.store.Join(p.RoomCode, from)
	switch {
	case err == domain.ErrRoomNotFound:
		c.roomError(from, CodeRoomNotFound, "Room code not found. Please check the code and try again.")
		return
	case err == domain.ErrRoomFull:
		c.roomError(from, CodeRoomFull, "Room is full (maximum 2 people)")
		return
	case err != nil:
		c.logger.Errorw("join failed", "code", p.RoomCode, "error", err)
		return
	}

	// The room is paired again; any pending expiry is void.
	c.cancelTimer(room.Code)
	c.registry.SetRoom(from, room.Code)
	metrics.RoomsJoined.Inc()

	if other := room.Other(from); other != "" {
		c.emit(other, EvUserJoined, UserJoinedPayload{
			UserID:   from,
			Name:     p.Name,
			Message:  p.Name + " joined the room",
			RoomCode: room.Code,
		})
	}

	c.emit(from, EvRoomJoined, RoomJoinedPayload{
		RoomID:    room.Code,
		RoomCode:  room.Code,
		Message:   "Successfully joined room",
		OtherUser: room.Other(from),
		CreatedBy: room.CreatedByName,
	})
	c.logger.Infow("room joined", "code", room.Code, "connId", from, "occupants", len(room.Occupants))
}

func (c *Core) handleDisconnect(connID string) {
	conn, ok := c.registry.Remove(connID)
	if !ok {
		return
	}
	metrics.ActiveConnections.Dec()
	c.logger.Infow("client disconnected", "connId", connID)

	if conn.RoomCode == "" {
		return
	}

	state, other := c.store.Leave(conn.RoomCode, connID)
	switch state {
	case LeaveDeleted:
		c.cancelTimer(conn.RoomCode)
		metrics.ActiveRooms.Dec()
		c.logger.Infow("room deleted", "code", conn.RoomCode, "reason", "empty")
	case LeaveOneRemaining:
		c.emit(other, EvUserLeft, UserLeftPayload{
			UserID:  connID,
			Message: "User left the room",
		})
		c.armTimer(conn.RoomCode)
		c.logger.Infow("room expiry armed", "code", conn.RoomCode, "grace", c.grace)
	case LeaveUnknown:
	}
}

func (c *Core) handleExpired(ex expiredEvent) {
	t, ok := c.timers[ex.code]
	if !ok || t.gen != ex.gen {
		// A join raced the fire; the cancel or re-arm wins.
		return
	}
	delete(c.timers, ex.code)

	room, ok := c.store.Get(ex.code)
	if !ok || len(room.Occupants) != 1 {
		return
	}

	sole := room.Occupants[0]
	c.emit(sole, EvRoomExpired, RoomExpiredPayload{
		Message:  "Room expired due to inactivity. Please create a new room.",
		RoomCode: ex.code,
	})
	c.registry.SetRoom(sole, "")
	c.store.Delete(ex.code)
	metrics.ActiveRooms.Dec()
	metrics.RoomsExpired.Inc()
	c.logger.Infow("room expired", "code", ex.code)
}

// armTimer replaces any pending timer for code with a fresh one. The
// generation counter makes a fire that raced its own cancellation a no-op.
func (c *Core) armTimer(code string) {
	if t, ok := c.timers[code]; ok {
		t.timer.Stop()
	}
	c.timerGen++
	gen := c.timerGen
	timer := time.AfterFunc(c.grace, func() {
		select {
		case c.expired <- expiredEvent{code: code, gen: gen}:
		case <-c.done:
		}
	})
	c.timers[code] = &expiryTimer{timer: timer, gen: gen}
}

// cancelTimer is safe to call for codes with no pending timer.
func (c *Core) cancelTimer(code string) {
	if t, ok := c.timers[code]; ok {
		t.timer.Stop()
		delete(c.timers, code)
	}
}

func (c *Core) freeCode() (string, error) {
	for i := 0; i < c.codeAttempts; i++ {
		code := c.generate()
		if !c.store.Has(code) {
			return code, nil
		}
	}
	return "", domain.ErrCodeExhausted
}

// relay forwards a signaling event to target, tagged by the orchestrator
// with whatever payload the sender produced. Unknown targets are dropped:
// that race is routine during call teardown and has no useful recovery.
func (c *Core) relay(target, event string, payload any) {
	send, ok := c.registry.sender(target)
	if !ok {
		metrics.SignalsDropped.Inc()
		c.logger.Debugw("relay target gone", "event", event, "target", target)
		return
	}
	send(event, payload)
	metrics.SignalsRelayed.Inc()
}

// relayToRoomPeer forwards to the other occupant of roomCode, if any.
func (c *Core) relayToRoomPeer(from, roomCode, event string, payload any) {
	room, ok := c.store.Get(roomCode)
	if !ok {
		metrics.SignalsDropped.Inc()
		return
	}
	other := room.Other(from)
	if other == "" {
		metrics.SignalsDropped.Inc()
		return
	}
	c.relay(other, event, payload)
}

func (c *Core) roomError(connID, code, message string) {
	metrics.RoomErrors.WithLabelValues(code).Inc()
	c.emit(connID, EvRoomError, RoomErrorPayload{Message: message, Code: code})
}

func (c *Core) emit(connID, event string, payload any) {
	if send, ok := c.registry.sender(connID); ok {
		send(event, payload)
	}
}

// decode fills p from the event data, tolerating anything: a malformed or
// missing payload leaves zero values rather than killing the connection.
func (c *Core) decode(ev inboundEvent, p any) {
	if len(ev.data) == 0 {
		return
	}
	if err := json.Unmarshal(ev.data, p); err != nil {
		c.logger.Debugw("malformed event payload", "event", ev.event, "from", ev.from, "error", err)
	}
}
