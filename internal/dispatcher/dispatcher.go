// Package dispatcher routes inbound chat updates to handlers. Commands and
// callback verbs resolve directly; free text and photos resolve only
// through the user's current waypoint. Events for one user are handled one
// at a time, events for different users interleave freely.
package dispatcher

import (
	"context"
	"log/slog"
	"sync"

	"flowershop-bot/internal/chat"
	"flowershop-bot/internal/session"
)

type Handler func(ctx context.Context, up chat.Update) error

type scopeKey struct {
	verb chat.Verb
	wp   session.Waypoint
}

type Dispatcher struct {
	log      *slog.Logger
	sessions *session.Store
	sender   chat.Sender

	commands map[string]Handler
	byVerb   map[chat.Verb]Handler
	scoped   map[scopeKey]Handler
	text     map[session.Waypoint]Handler
	photo    map[session.Waypoint]Handler

	mu        sync.Mutex
	userLocks map[int64]*sync.Mutex
	queues    map[int64]chan chat.Update
	wg        sync.WaitGroup
}

func New(log *slog.Logger, sessions *session.Store, sender chat.Sender) *Dispatcher {
	return &Dispatcher{
		log:       log,
		sessions:  sessions,
		sender:    sender,
		commands:  make(map[string]Handler),
		byVerb:    make(map[chat.Verb]Handler),
		scoped:    make(map[scopeKey]Handler),
		text:      make(map[session.Waypoint]Handler),
		photo:     make(map[session.Waypoint]Handler),
		userLocks: make(map[int64]*sync.Mutex),
		queues:    make(map[int64]chan chat.Update),
	}
}

// Command registers a slash command handler.
func (d *Dispatcher) Command(name string, h Handler) {
	d.commands[name] = h
}

// Callback registers a handler for a verb in any waypoint.
func (d *Dispatcher) Callback(v chat.Verb, h Handler) {
	d.byVerb[v] = h
}

// CallbackIn registers a handler for a verb that only fires while the user
// is at the given waypoint. Outside of it the token is ignored, unless an
// unscoped handler for the same verb exists.
func (d *Dispatcher) CallbackIn(v chat.Verb, wp session.Waypoint, h Handler) {
	d.scoped[scopeKey{verb: v, wp: wp}] = h
}

// Text registers a free-text handler for a waypoint. Text arriving outside
// any registered waypoint is dropped.
func (d *Dispatcher) Text(wp session.Waypoint, h Handler) {
	d.text[wp] = h
}

// Photo registers a photo handler for a waypoint.
func (d *Dispatcher) Photo(wp session.Waypoint, h Handler) {
	d.photo[wp] = h
}

func (d *Dispatcher) resolve(up chat.Update) Handler {
	switch {
	case up.Command != "":
		return d.commands[up.Command]
	case up.Callback != "":
		t, err := chat.ParseToken(up.Callback)
		if err != nil {
			d.log.Debug("dropping malformed callback", "token", up.Callback, "error", err)
			return nil
		}
		if h, ok := d.scoped[scopeKey{verb: t.Verb, wp: d.sessions.Current(up.User.ID)}]; ok {
			return h
		}
		return d.byVerb[t.Verb]
	case up.Text != "":
		return d.text[d.sessions.Current(up.User.ID)]
	case up.PhotoID != "":
		return d.photo[d.sessions.Current(up.User.ID)]
	}
	return nil
}

func (d *Dispatcher) lockUser(id int64) *sync.Mutex {
	d.mu.Lock()
	l, ok := d.userLocks[id]
	if !ok {
		l = &sync.Mutex{}
		d.userLocks[id] = l
	}
	d.mu.Unlock()
	return l
}

// Dispatch handles one update to completion. A failing or panicking handler
// is logged, the user gets a generic apology, and the session is cleared so
// a broken flow cannot wedge the user.
func (d *Dispatcher) Dispatch(ctx context.Context, up chat.Update) {
	h := d.resolve(up)
	if h == nil {
		return
	}

	l := d.lockUser(up.User.ID)
	l.Lock()
	defer l.Unlock()

	defer func() {
		if r := recover(); r != nil {
			d.log.Error("handler panic", "user", up.User.ID, "panic", r)
			d.fail(ctx, up.User.ID)
		}
	}()

	if err := h(ctx, up); err != nil {
		d.log.Error("handler error", "user", up.User.ID, "error", err)
		d.fail(ctx, up.User.ID)
	}
}

func (d *Dispatcher) fail(ctx context.Context, userID int64) {
	d.sessions.Clear(userID)
	msg := chat.Message{ChatID: userID, Text: "❌ Виникла помилка. Спробуйте пізніше."}
	if err := d.sender.Send(ctx, msg); err != nil {
		d.log.Error("apology delivery failed", "user", userID, "error", err)
	}
}

const userQueueSize = 64

func (d *Dispatcher) enqueue(ctx context.Context, up chat.Update) {
	d.mu.Lock()
	q, ok := d.queues[up.User.ID]
	if !ok {
		q = make(chan chat.Update, userQueueSize)
		d.queues[up.User.ID] = q
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			for queued := range q {
				d.Dispatch(ctx, queued)
			}
		}()
	}
	d.mu.Unlock()

	select {
	case q <- up:
	default:
		// A single flooding user must not stall everyone else.
		d.log.Warn("user queue full, dropping update", "user", up.User.ID)
	}
}

// Run consumes updates until the channel closes or the context is
// cancelled. Updates fan out to one serial queue per user, which keeps
// per-user ordering total while users interleave freely.
func (d *Dispatcher) Run(ctx context.Context, updates <-chan chat.Update) {
	defer func() {
		d.mu.Lock()
		for _, q := range d.queues {
			close(q)
		}
		d.queues = make(map[int64]chan chat.Update)
		d.mu.Unlock()
		d.wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case up, ok := <-updates:
			if !ok {
				return
			}
			d.enqueue(ctx, up)
		}
	}
}
