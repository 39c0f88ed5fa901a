package cart

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"flowershop-bot/internal/chat"
	"flowershop-bot/internal/events"
	"flowershop-bot/internal/keyboards"
	"flowershop-bot/internal/logging"
	"flowershop-bot/internal/models"
	"flowershop-bot/internal/session"
	"flowershop-bot/internal/validate"
)

// OrderHandler runs the checkout conversation and the order finalization.
type OrderHandler struct {
	DB            *gorm.DB
	Producer      *events.Producer
	Sessions      *session.Store
	Sender        chat.Sender
	ManagerChatID int64
	AdminIDs      []int64
}

// Checkout snapshots the cart into the session and asks for the phone.
// The snapshot is what gets finalized: cart changes made after this point
// do not affect the order in flight.
func (h *OrderHandler) Checkout(ctx context.Context, up chat.Update) error {
	lines, err := cartLines(h.DB, up.User.ID)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return h.Sender.Send(ctx, chat.Message{
			ChatID: up.User.ID,
			Text:   "❌ Кошик порожній",
		})
	}

	h.Sessions.Set(up.User.ID, session.CheckoutPhone{
		Draft: session.OrderDraft{Lines: lines},
	})

	return h.Sender.Send(ctx, chat.Message{
		ChatID: up.User.ID,
		Text: "📱 <b>Оформлення замовлення</b>\n\n" +
			"Введіть свій номер телефону (0XXXXXXXXX або +380XXXXXXXXX):",
	})
}

// BuyNow starts checkout for a single product, bypassing the cart.
func (h *OrderHandler) BuyNow(ctx context.Context, up chat.Update) error {
	t, err := chat.ParseToken(up.Callback)
	if err != nil {
		return err
	}

	var line session.OrderLine
	res := h.DB.Table("products").
		Select("products.id AS product_id, products.name AS name, products.price AS price, cities.name AS city").
		Joins("JOIN cities ON cities.id = products.city_id").
		Where("products.id = ?", t.ID).
		Scan(&line)
	if res.Error != nil {
		return res.Error
	}
	if line.ProductID == 0 {
		return h.Sender.Send(ctx, chat.Message{
			ChatID: up.User.ID,
			Text:   "❌ Товар не знайдено",
		})
	}
	line.Quantity = 1

	h.Sessions.Set(up.User.ID, session.CheckoutPhone{
		Draft: session.OrderDraft{Lines: []session.OrderLine{line}, Direct: true},
	})

	return h.Sender.Send(ctx, chat.Message{
		ChatID: up.User.ID,
		Text:   "📱 Введи свій номер телефону (0XXXXXXXXX або +380XXXXXXXXX):",
	})
}

// Phone validates the number. A bad number re-prompts and keeps the step.
func (h *OrderHandler) Phone(ctx context.Context, up chat.Update) error {
	st, ok := h.Sessions.Get(up.User.ID).(session.CheckoutPhone)
	if !ok {
		return nil
	}

	phone := strings.TrimSpace(up.Text)
	if err := validate.Phone(phone); err != nil {
		return h.Sender.Send(ctx, chat.Message{
			ChatID: up.User.ID,
			Text:   "❌ Невірний формат телефону. Спробуй ще раз.",
		})
	}

	h.Sessions.Set(up.User.ID, session.CheckoutArea{Draft: st.Draft, Phone: phone})
	return h.Sender.Send(ctx, chat.Message{
		ChatID: up.User.ID,
		Text:   "🏘 Вкажи свій район:",
	})
}

func (h *OrderHandler) Area(ctx context.Context, up chat.Update) error {
	st, ok := h.Sessions.Get(up.User.ID).(session.CheckoutArea)
	if !ok {
		return nil
	}

	h.Sessions.Set(up.User.ID, session.CheckoutComment{
		Draft: st.Draft,
		Phone: st.Phone,
		Area:  strings.TrimSpace(up.Text),
	})
	return h.Sender.Send(ctx, chat.Message{
		ChatID: up.User.ID,
		Text:   "📝 Можеш залишити коментар (або напиши '-' якщо немає):",
	})
}

// Comment finalizes the order: one row per unit of quantity, the cart is
// emptied in the same transaction, the customer is confirmed first and the
// manager notified after. A failed manager notification falls back to the
// admin broadcast; the order stays placed either way.
func (h *OrderHandler) Comment(ctx context.Context, up chat.Update) error {
	st, ok := h.Sessions.Get(up.User.ID).(session.CheckoutComment)
	if !ok {
		return nil
	}
	comment := strings.TrimSpace(up.Text)

	var orderIDs []uint
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		for _, l := range st.Draft.Lines {
			for i := 0; i < l.Quantity; i++ {
				pid := l.ProductID
				order := models.Order{
					UserID:    up.User.ID,
					ProductID: &pid,
					Phone:     st.Phone,
					Area:      st.Area,
					Comment:   comment,
					Status:    models.OrderStatusPending,
				}
				if err := tx.Create(&order).Error; err != nil {
					return err
				}
				orderIDs = append(orderIDs, order.ID)
			}
		}
		if !st.Draft.Direct {
			return tx.Where("user_id = ?", up.User.ID).Delete(&models.CartItem{}).Error
		}
		return nil
	})
	if err != nil {
		return err
	}

	h.Sessions.Clear(up.User.ID)

	publish(ctx, h.Producer, "order_events", up.User.ID, map[string]any{
		"type":     "order_placed",
		"userID":   up.User.ID,
		"orderIDs": orderIDs,
		"total":    st.Draft.Total(),
	})

	if err := h.Sender.Send(ctx, chat.Message{
		ChatID:   up.User.ID,
		Text:     "✅ Замовлення оформлено! Менеджер скоро зв'яжеться з тобою.",
		Keyboard: keyboards.MainMenu(),
	}); err != nil {
		return err
	}

	h.notifyManager(ctx, up.User, st, orderIDs, comment)
	return nil
}

func (h *OrderHandler) notifyManager(ctx context.Context, user chat.User, st session.CheckoutComment, orderIDs []uint, comment string) {
	text := h.managerText(user, st, orderIDs, comment)

	kb := chat.NewKeyboard()
	kb.Button("✅ Прийняти", chat.IDToken(chat.VerbOrderAccept, int64(orderIDs[0])))
	kb.Button("❌ Відхилити", chat.IDToken(chat.VerbOrderReject, int64(orderIDs[0])))
	kb.Adjust(2)

	msg := chat.Message{ChatID: h.ManagerChatID, Text: text, Keyboard: kb.Rows()}
	err := h.Sender.Send(ctx, msg)
	if err == nil {
		return
	}
	logging.FromContext(ctx).Error("manager notification failed", "orders", orderIDs, "error", err)

	for _, adminID := range h.AdminIDs {
		fallback := chat.Message{
			ChatID: adminID,
			Text:   "⚠️ Не вдалося відправити замовлення менеджеру!\n\n" + text,
		}
		if err := h.Sender.Send(ctx, fallback); err != nil {
			logging.FromContext(ctx).Error("admin fallback failed", "admin", adminID, "error", err)
		}
	}
}

func (h *OrderHandler) managerText(user chat.User, st session.CheckoutComment, orderIDs []uint, comment string) string {
	username := user.Username
	if username == "" {
		username = "немає"
	}
	fullName := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if fullName == "" {
		fullName = "Немає імені"
	}

	if st.Draft.Direct {
		l := st.Draft.Lines[0]
		return fmt.Sprintf(
			"🆕 НОВЕ ЗАМОВЛЕННЯ #%d\n\n"+
				"👤 Клієнт: %s\n"+
				"🆔 ID: %s\n"+
				"👨‍💻 Username: @%s\n"+
				"🏙️ Місто: %s\n"+
				"📦 Товар: %s\n"+
				"💵 Ціна: %.2f грн\n"+
				"📱 Телефон: %s\n"+
				"🏘 Район: %s\n"+
				"📝 Коментар: %s\n"+
				"📌 Статус: Очікує підтвердження",
			orderIDs[0], fullName, user.Link(), username, l.City, l.Name, l.Price,
			st.Phone, st.Area, comment,
		)
	}

	ids := make([]string, len(orderIDs))
	for i, id := range orderIDs {
		ids[i] = fmt.Sprint(id)
	}

	text := fmt.Sprintf(
		"🆕 НОВЕ ЗАМОВЛЕННЯ (КОШИК) #%s\n\n"+
			"👤 Клієнт: %s\n"+
			"🆔 ID: %s\n"+
			"👨‍💻 Username: @%s\n"+
			"🏙️ Місто: %s\n"+
			"📱 Телефон: %s\n"+
			"🏘 Район: %s\n"+
			"📝 Коментар: %s\n\n"+
			"📦 <b>ТОВАРИ:</b>\n",
		strings.Join(ids, "-"), fullName, user.Link(), username,
		st.Draft.Lines[0].City, st.Phone, st.Area, comment,
	)
	for _, l := range st.Draft.Lines {
		text += fmt.Sprintf("• %s × %d шт = %v грн\n", l.Name, l.Quantity, l.Price*float64(l.Quantity))
	}
	text += fmt.Sprintf("\n💰 <b>ВСЬОГО: %v грн</b>\n📌 Статус: Очікує підтвердження", st.Draft.Total())
	return text
}
