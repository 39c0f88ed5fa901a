// Package webhook bridges the bot to the chat platform through a relay:
// inbound updates arrive as JSON POSTs, outbound renders are POSTed back to
// the relay's send endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"flowershop-bot/internal/chat"
)

type Bridge struct {
	e           *echo.Echo
	client      *http.Client
	outboundURL string
	log         *slog.Logger
	updates     chan chat.Update
}

func New(outboundURL string, log *slog.Logger) *Bridge {
	b := &Bridge{
		e:           echo.New(),
		client:      &http.Client{Timeout: 10 * time.Second},
		outboundURL: outboundURL,
		log:         log,
		updates:     make(chan chat.Update, 256),
	}

	b.e.HideBanner = true
	b.e.Pre(middleware.RemoveTrailingSlash())
	b.e.Use(middleware.Recover(), middleware.RequestID())
	b.e.POST("/updates", b.receive)

	return b
}

func (b *Bridge) receive(c echo.Context) error {
	var up chat.Update
	if err := c.Bind(&up); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if up.User.ID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "missing user id")
	}

	select {
	case b.updates <- up:
		return c.NoContent(http.StatusAccepted)
	default:
		b.log.Warn("update queue full, dropping inbound event", "user", up.User.ID)
		return echo.NewHTTPError(http.StatusTooManyRequests, "queue full")
	}
}

// Updates is the inbound event stream consumed by the dispatcher.
func (b *Bridge) Updates() <-chan chat.Update {
	return b.updates
}

// Send posts one render to the relay. Any non-2xx answer counts as a
// delivery failure for the caller to degrade on.
func (b *Bridge) Send(ctx context.Context, msg chat.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("webhook: marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.outboundURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("webhook: build request: %w", err)
	}
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: send to %d: %w", msg.ChatID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook: send to %d: status %s", msg.ChatID, resp.Status)
	}
	return nil
}

func (b *Bridge) Start(addr string) error {
	return b.e.Start(addr)
}

// Shutdown stops the HTTP server first so no receive is left mid-flight,
// then closes the update stream to let the dispatcher drain and exit.
func (b *Bridge) Shutdown(ctx context.Context) error {
	err := b.e.Shutdown(ctx)
	close(b.updates)
	return err
}
