package cart

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"flowershop-bot/internal/chat"
	"flowershop-bot/internal/events"
	"flowershop-bot/internal/keyboards"
	"flowershop-bot/internal/models"
	"flowershop-bot/internal/session"
	"flowershop-bot/internal/validate"
)

type CartHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
	Sessions *session.Store
	Sender   chat.Sender
}

// Show renders the cart with per-line subtotals and the grand total. The
// one-city invariant means the first line's city names the whole cart.
func (h *CartHandler) Show(ctx context.Context, up chat.Update) error {
	lines, err := cartLines(h.DB, up.User.ID)
	if err != nil {
		return err
	}

	if len(lines) == 0 {
		kb := chat.NewKeyboard()
		kb.Button("🛒 Замовити товар", string(chat.VerbMainOrder))
		kb.Button("🔙 Назад", string(chat.VerbBackToMain))
		kb.Adjust(1)

		return h.Sender.Send(ctx, chat.Message{
			ChatID:   up.User.ID,
			Text:     "🛍️ <b>Ваш кошик порожній</b>\n\nДодайте товари для замовлення!",
			Keyboard: kb.Rows(),
		})
	}

	var total float64
	text := fmt.Sprintf("🛍️ <b>Ваш кошик (%s):</b>\n\n", lines[0].City)
	for _, l := range lines {
		subtotal := l.Price * float64(l.Quantity)
		total += subtotal
		text += fmt.Sprintf("📦 <b>%s</b>\n💵 %v грн × %d шт = %v грн\n\n", l.Name, l.Price, l.Quantity, subtotal)
	}
	text += fmt.Sprintf("💰 <b>Всього: %v грн</b>", total)

	kb := chat.NewKeyboard()
	kb.Button("✅ Оформити замовлення", string(chat.VerbCartCheckout))
	kb.Button("🗑️ Очистити кошик", string(chat.VerbCartClear))
	kb.Button("🔙 Назад", string(chat.VerbBackToMain))
	kb.Adjust(1)

	return h.Sender.Send(ctx, chat.Message{
		ChatID:   up.User.ID,
		Text:     text,
		Keyboard: kb.Rows(),
	})
}

func (h *CartHandler) Clear(ctx context.Context, up chat.Update) error {
	if err := h.DB.Where("user_id = ?", up.User.ID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}

	publish(ctx, h.Producer, "cart_events", up.User.ID, map[string]any{
		"type":   "cart_cleared",
		"userID": up.User.ID,
	})

	return h.Sender.Send(ctx, chat.Message{
		ChatID:   up.User.ID,
		Text:     "🗑️ <b>Кошик очищено!</b>\n\nВаш кошик тепер порожній.",
		Keyboard: keyboards.MainMenu(),
	})
}

// Add guards the one-city invariant and then asks for the quantity. The
// product id stays in the session, never in the quantity message.
func (h *CartHandler) Add(ctx context.Context, up chat.Update) error {
	t, err := chat.ParseToken(up.Callback)
	if err != nil {
		return err
	}

	var product models.Product
	if err := h.DB.First(&product, t.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return h.Sender.Send(ctx, chat.Message{
				ChatID: up.User.ID,
				Text:   "❌ Товар не знайдено",
			})
		}
		return err
	}

	cartCity, err := UserCartCity(h.DB, up.User.ID)
	if err != nil {
		return err
	}
	if cartCity != nil && cartCity.ID != product.CityID {
		return h.Sender.Send(ctx, chat.Message{
			ChatID: up.User.ID,
			Text:   "❌ У кошику вже є товари з іншого міста. Спочатку очистіть кошик!",
		})
	}

	h.Sessions.Set(up.User.ID, session.QuantityPrompt{
		ProductID:   product.ID,
		ProductName: product.Name,
	})

	return h.Sender.Send(ctx, chat.Message{
		ChatID: up.User.ID,
		Text: fmt.Sprintf("📦 <b>%s</b>\n\n"+
			"Скільки штук хочете додати в кошик? (введіть число від 1 до 10)", product.Name),
	})
}

// Quantity finishes the add. Out-of-range input re-prompts without
// touching the cart or the session; a valid quantity merges into an
// existing line or inserts a new one, atomically.
func (h *CartHandler) Quantity(ctx context.Context, up chat.Update) error {
	st, ok := h.Sessions.Get(up.User.ID).(session.QuantityPrompt)
	if !ok {
		return nil
	}

	qty, err := validate.Quantity(up.Text)
	if err != nil {
		return h.Sender.Send(ctx, chat.Message{
			ChatID: up.User.ID,
			Text:   "❌ Кількість повинна бути від 1 до 10",
		})
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var item models.CartItem
		res := tx.Where("user_id = ? AND product_id = ?", up.User.ID, st.ProductID).First(&item)
		if res.Error == nil {
			item.Quantity += qty
			return tx.Save(&item).Error
		}
		if !errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return res.Error
		}
		return tx.Create(&models.CartItem{
			UserID:    up.User.ID,
			ProductID: st.ProductID,
			Quantity:  qty,
		}).Error
	})
	if err != nil {
		return err
	}

	h.Sessions.Clear(up.User.ID)

	publish(ctx, h.Producer, "cart_events", up.User.ID, map[string]any{
		"type":      "add_cart_items",
		"userID":    up.User.ID,
		"productID": st.ProductID,
		"quantity":  qty,
	})

	kb := chat.NewKeyboard()
	kb.Button("🛍️ Перейти в кошик", string(chat.VerbMainCart))
	kb.Button("➕ Продовжити покупки", string(chat.VerbMainOrder))
	kb.Adjust(1)

	return h.Sender.Send(ctx, chat.Message{
		ChatID: up.User.ID,
		Text: fmt.Sprintf("✅ <b>Товар додано в кошик!</b>\n\n"+
			"📦 %s × %d шт", st.ProductName, qty),
		Keyboard: kb.Rows(),
	})
}
