package admin

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"flowershop-bot/internal/chat"
	"flowershop-bot/internal/models"
	"flowershop-bot/internal/pdfdoc"
	"flowershop-bot/internal/session"
)

type TermsHandler struct {
	DB       *gorm.DB
	Sessions *session.Store
	Sender   chat.Sender
	AdminIDs []int64
}

func (h *TermsHandler) Start(ctx context.Context, up chat.Update) error {
	if !authorized(h.AdminIDs, up.User.ID) {
		return denied(ctx, h.Sender, up.User.ID)
	}

	h.Sessions.Set(up.User.ID, session.TermsContent{})
	return h.Sender.Send(ctx, chat.Message{
		ChatID: up.User.ID,
		Text: "📋 <b>Створення PDF з умовами</b>\n\n" +
			"Надішліть текст умов використання магазину.",
	})
}

// Receive replaces the stored terms wholesale and sends back a preview of
// the PDF new users will get.
func (h *TermsHandler) Receive(ctx context.Context, up chat.Update) error {
	if _, ok := h.Sessions.Get(up.User.ID).(session.TermsContent); !ok {
		return nil
	}
	defer h.Sessions.Clear(up.User.ID)

	content := strings.TrimSpace(up.Text)
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.TermsContent{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.TermsContent{Content: content}).Error
	})
	if err != nil {
		return err
	}

	pdf, err := pdfdoc.Render(content)
	if err != nil {
		return err
	}

	return h.Sender.Send(ctx, chat.Message{
		ChatID: up.User.ID,
		Text: "✅ <b>PDF з умовами створено!</b>\n\n" +
			"Тепер всі нові користувачі отримуватимуть цей документ.",
		Document: &chat.Document{Name: "terms_preview.pdf", Data: pdf},
	})
}
