// Package admin implements the manager-only catalog flows: cities,
// products and the terms document.
package admin

import (
	"context"

	"flowershop-bot/internal/chat"
	"flowershop-bot/internal/keyboards"
)

func authorized(ids []int64, id int64) bool {
	for _, a := range ids {
		if a == id {
			return true
		}
	}
	return false
}

func denied(ctx context.Context, sender chat.Sender, userID int64) error {
	return sender.Send(ctx, chat.Message{ChatID: userID, Text: "⛔ Ти не адмін"})
}

type PanelHandler struct {
	Sender   chat.Sender
	AdminIDs []int64
}

func (h *PanelHandler) Panel(ctx context.Context, up chat.Update) error {
	if !authorized(h.AdminIDs, up.User.ID) {
		return denied(ctx, h.Sender, up.User.ID)
	}

	return h.Sender.Send(ctx, chat.Message{
		ChatID:   up.User.ID,
		Text:     "⚙️ Адмін-панель",
		Keyboard: keyboards.AdminPanel(),
	})
}
