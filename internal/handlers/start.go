// Package handlers holds the customer-facing conversation handlers: start
// and terms, the main menu, catalog browsing, search and feedback.
package handlers

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"flowershop-bot/internal/chat"
	"flowershop-bot/internal/keyboards"
	"flowershop-bot/internal/logging"
	"flowershop-bot/internal/models"
	"flowershop-bot/internal/pdfdoc"
	"flowershop-bot/internal/session"
)

const defaultTerms = `УМОВИ ВИКОРИСТАННЯ МАГАЗИНУ КВІТІВ

1. ЗАГАЛЬНІ ПОЛОЖЕННЯ
Використовуючи наші послуги, ви погоджуєтесь з цими умовами.

2. ЗАМОВЛЕННЯ ТА ОПЛАТА
- Замовлення приймаються через чат-бот
- Оплата здійснюється при отриманні
- Мінімальна сума замовлення - 200 грн

3. ДОСТАВКА
- Доставка здійснюється протягом 1-3 днів
- Вартість доставки розраховується індивідуально

4. ПОВЕРНЕННЯ ТА ОБМІН
- Свіжі квіти поверненню не підлягають
- У разі браку товару - повний возврат коштів

5. КОНФІДЕНЦІЙНІСТЬ
- Ваші персональні дані захищені
- Інформація не передається третім особам

6. КОНТАКТИ
Telegram: @flower_shop_support`

type StartHandler struct {
	DB       *gorm.DB
	Sessions *session.Store
	Sender   chat.Sender
}

// Start registers the user and either greets a returning customer or walks
// a new one through the terms document.
func (h *StartHandler) Start(ctx context.Context, up chat.Update) error {
	user := models.User{
		ID:        up.User.ID,
		Username:  up.User.Username,
		FirstName: up.User.FirstName,
		LastName:  up.User.LastName,
	}
	if err := h.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&user).Error; err != nil {
		return err
	}

	var stored models.User
	if err := h.DB.First(&stored, "id = ?", up.User.ID).Error; err != nil {
		return err
	}

	if stored.AgreedToTerms {
		return h.Sender.Send(ctx, chat.Message{
			ChatID:   up.User.ID,
			Text:     "🌸 Ласкаво просимо назад!\nОберіть дію:",
			Keyboard: keyboards.MainMenu(),
		})
	}

	content := defaultTerms
	var terms models.TermsContent
	err := h.DB.Order("created_at DESC").First(&terms).Error
	switch {
	case err == nil:
		content = terms.Content
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	pdf, err := pdfdoc.Render(content)
	if err != nil {
		return err
	}

	kb := chat.NewKeyboard()
	kb.Button("✅ Приймаю умови", string(chat.VerbTermsAccept))
	kb.Button("❌ Не приймаю", string(chat.VerbTermsDecline))
	kb.Adjust(1)

	return h.Sender.Send(ctx, chat.Message{
		ChatID: up.User.ID,
		Text: "📋 <b>Умови використання магазину</b>\n\n" +
			"Будь ласка, ознайомтеся з умовами використання нашого магазину. " +
			"Для продовження роботи з ботом необхідно прийняти умови.",
		Keyboard: kb.Rows(),
		Document: &chat.Document{Name: "terms_and_conditions.pdf", Data: pdf},
	})
}

func (h *StartHandler) AcceptTerms(ctx context.Context, up chat.Update) error {
	if err := h.DB.Model(&models.User{}).Where("id = ?", up.User.ID).Update("agreed_to_terms", true).Error; err != nil {
		return err
	}

	return h.Sender.Send(ctx, chat.Message{
		ChatID: up.User.ID,
		Text: "✅ <b>Дякуємо!</b>\n\n" +
			"Ви прийняли умови використання. Тепер ви можете користуватися всіма функціями магазину.\n\n" +
			"Оберіть дію:",
		Keyboard: keyboards.MainMenu(),
	})
}

func (h *StartHandler) DeclineTerms(ctx context.Context, up chat.Update) error {
	logging.FromContext(ctx).Info("terms declined", "user", up.User.ID)
	return h.Sender.Send(ctx, chat.Message{
		ChatID: up.User.ID,
		Text: "❌ <b>Умови не прийнято</b>\n\n" +
			"На жаль, без прийняття умов використання ви не можете користуватися ботом.\n" +
			"Якщо передумаєте, натисніть /start знову.",
	})
}

func (h *StartHandler) BackToMain(ctx context.Context, up chat.Update) error {
	return h.Sender.Send(ctx, chat.Message{
		ChatID:   up.User.ID,
		Text:     "🌸 Оберіть дію:",
		Keyboard: keyboards.MainMenu(),
	})
}
