package handlers

import (
	"context"
	"fmt"
	"strings"

	"flowershop-bot/internal/chat"
	"flowershop-bot/internal/keyboards"
	"flowershop-bot/internal/logging"
	"flowershop-bot/internal/session"
)

type FeedbackHandler struct {
	Sessions      *session.Store
	Sender        chat.Sender
	ManagerChatID int64
}

func (h *FeedbackHandler) Start(ctx context.Context, up chat.Update) error {
	h.Sessions.Set(up.User.ID, session.FeedbackPrompt{})
	return h.Sender.Send(ctx, chat.Message{
		ChatID: up.User.ID,
		Text: "💬 <b>Відправити відгук</b>\n\n" +
			"Напишіть свій відгук або пропозицію. Ваше повідомлення буде передано менеджерам магазину.",
	})
}

// Receive forwards the feedback text to the manager chat. The status of the
// delivery decides which confirmation the customer sees.
func (h *FeedbackHandler) Receive(ctx context.Context, up chat.Update) error {
	defer h.Sessions.Clear(up.User.ID)

	username := up.User.Username
	if username == "" {
		username = "немає"
	}

	text := fmt.Sprintf(
		"💬 <b>НОВИЙ ВІДГУК КЛІЄНТА</b>\n\n"+
			"👤 Від: %s\n"+
			"🆔 ID: %s\n"+
			"👨‍💻 Username: @%s\n\n"+
			"💬 <b>Текст відгуку:</b>\n%s",
		up.User.FullName(), up.User.Link(), username, strings.TrimSpace(up.Text),
	)

	err := h.Sender.Send(ctx, chat.Message{ChatID: h.ManagerChatID, Text: text})
	if err != nil {
		logging.FromContext(ctx).Error("feedback delivery failed", "user", up.User.ID, "error", err)
		return h.Sender.Send(ctx, chat.Message{
			ChatID: up.User.ID,
			Text: "❌ <b>Помилка відправки</b>\n\n" +
				"Не вдалося передати ваш відгук. Спробуйте пізніше.",
			Keyboard: keyboards.MainMenu(),
		})
	}

	return h.Sender.Send(ctx, chat.Message{
		ChatID: up.User.ID,
		Text: "✅ <b>Дякуємо за відгук!</b>\n\n" +
			"Ваше повідомлення успішно передано менеджерам.",
		Keyboard: keyboards.MainMenu(),
	})
}
