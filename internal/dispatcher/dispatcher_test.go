package dispatcher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"flowershop-bot/internal/chat"
	"flowershop-bot/internal/session"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []chat.Message
}

func (s *recordingSender) Send(_ context.Context, msg chat.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) messages() []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]chat.Message(nil), s.sent...)
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *session.Store, *recordingSender) {
	t.Helper()
	sessions := session.NewStore(time.Minute)
	sender := &recordingSender{}
	d := New(slog.Default(), sessions, sender)
	return d, sessions, sender
}

func TestDispatchCommand(t *testing.T) {
	d, _, _ := newTestDispatcher(t)

	var got chat.Update
	d.Command("start", func(_ context.Context, up chat.Update) error {
		got = up
		return nil
	})

	d.Dispatch(context.Background(), chat.Update{User: chat.User{ID: 1}, Command: "start"})
	require.Equal(t, int64(1), got.User.ID)
}

func TestDispatchMalformedCallbackDropped(t *testing.T) {
	d, _, sender := newTestDispatcher(t)

	called := false
	d.Callback(chat.VerbAddToCart, func(context.Context, chat.Update) error {
		called = true
		return nil
	})

	d.Dispatch(context.Background(), chat.Update{User: chat.User{ID: 1}, Callback: "add_to_cart:evil"})
	require.False(t, called)
	require.Empty(t, sender.messages())
}

func TestDispatchScopedCallback(t *testing.T) {
	d, sessions, _ := newTestDispatcher(t)

	var hits []string
	d.CallbackIn(chat.VerbCitySelect, session.WaypointProductCities, func(context.Context, chat.Update) error {
		hits = append(hits, "scoped")
		return nil
	})

	up := chat.Update{User: chat.User{ID: 1}, Callback: "city_select:3"}

	// Outside the waypoint the token resolves to nothing.
	d.Dispatch(context.Background(), up)
	require.Empty(t, hits)

	sessions.Set(1, session.ProductCities{Selected: map[uint]bool{}})
	d.Dispatch(context.Background(), up)
	require.Equal(t, []string{"scoped"}, hits)
}

func TestDispatchTextGatedByWaypoint(t *testing.T) {
	d, sessions, _ := newTestDispatcher(t)

	var got string
	d.Text(session.WaypointFeedback, func(_ context.Context, up chat.Update) error {
		got = up.Text
		return nil
	})

	d.Dispatch(context.Background(), chat.Update{User: chat.User{ID: 1}, Text: "привіт"})
	require.Empty(t, got)

	sessions.Set(1, session.FeedbackPrompt{})
	d.Dispatch(context.Background(), chat.Update{User: chat.User{ID: 1}, Text: "гарний магазин"})
	require.Equal(t, "гарний магазин", got)
}

func TestDispatchErrorClearsSessionAndApologizes(t *testing.T) {
	d, sessions, sender := newTestDispatcher(t)

	sessions.Set(1, session.FeedbackPrompt{})
	d.Callback(chat.VerbMainCart, func(context.Context, chat.Update) error {
		return errors.New("db down")
	})

	d.Dispatch(context.Background(), chat.Update{User: chat.User{ID: 1}, Callback: "main_cart"})

	require.Nil(t, sessions.Get(1))
	msgs := sender.messages()
	require.Len(t, msgs, 1)
	require.Contains(t, msgs[0].Text, "Виникла помилка")
}

func TestDispatchPanicRecovered(t *testing.T) {
	d, sessions, sender := newTestDispatcher(t)

	sessions.Set(1, session.SearchPrompt{})
	d.Command("start", func(context.Context, chat.Update) error {
		panic("boom")
	})

	require.NotPanics(t, func() {
		d.Dispatch(context.Background(), chat.Update{User: chat.User{ID: 1}, Command: "start"})
	})
	require.Nil(t, sessions.Get(1))
	require.Len(t, sender.messages(), 1)
}

func TestRunKeepsPerUserOrder(t *testing.T) {
	d, _, _ := newTestDispatcher(t)

	var mu sync.Mutex
	perUser := make(map[int64][]string)
	d.Command("start", func(_ context.Context, up chat.Update) error {
		mu.Lock()
		perUser[up.User.ID] = append(perUser[up.User.ID], up.Text)
		mu.Unlock()
		return nil
	})

	updates := make(chan chat.Update)
	done := make(chan struct{})
	go func() {
		defer close(done)
		d.Run(context.Background(), updates)
	}()

	const n = 20
	for i := 0; i < n; i++ {
		for _, user := range []int64{1, 2, 3} {
			updates <- chat.Update{
				User:    chat.User{ID: user},
				Command: "start",
				Text:    string(rune('a' + i)),
			}
		}
	}
	close(updates)
	<-done

	for _, user := range []int64{1, 2, 3} {
		require.Len(t, perUser[user], n)
		for i, v := range perUser[user] {
			require.Equal(t, string(rune('a'+i)), v, "user %d position %d", user, i)
		}
	}
}
