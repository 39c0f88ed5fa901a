package cart

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"flowershop-bot/internal/chat"
	"flowershop-bot/internal/events"
	"flowershop-bot/internal/models"
	"flowershop-bot/internal/session"
)

// DecisionHandler lets a manager accept or reject a pending order. The
// decision is one-way: once a status leaves pending it never changes again.
type DecisionHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
	Sessions *session.Store
	Sender   chat.Sender
	AdminIDs []int64
}

func (h *DecisionHandler) isAdmin(id int64) bool {
	for _, a := range h.AdminIDs {
		if a == id {
			return true
		}
	}
	return false
}

type orderRef struct {
	ID          uint
	UserID      int64
	Status      string
	ProductName string
}

func (h *DecisionHandler) loadOrder(id int64) (*orderRef, error) {
	var ref orderRef
	err := h.DB.Table("orders").
		Select("orders.id AS id, orders.user_id AS user_id, orders.status AS status, products.name AS product_name").
		Joins("LEFT JOIN products ON products.id = orders.product_id").
		Where("orders.id = ?", id).
		Scan(&ref).Error
	if err != nil {
		return nil, err
	}
	if ref.ID == 0 {
		return nil, nil
	}
	if ref.ProductName == "" {
		ref.ProductName = "Замовлення з кошика"
	}
	return &ref, nil
}

// guard checks the presser and the order before either decision prompt.
func (h *DecisionHandler) guard(ctx context.Context, up chat.Update) (*orderRef, error) {
	if !h.isAdmin(up.User.ID) {
		return nil, h.Sender.Send(ctx, chat.Message{
			ChatID: up.User.ID,
			Text:   "⛔ Ти не адмін",
		})
	}

	t, err := chat.ParseToken(up.Callback)
	if err != nil {
		return nil, err
	}

	ref, err := h.loadOrder(t.ID)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, h.Sender.Send(ctx, chat.Message{
			ChatID: up.User.ID,
			Text:   "❌ Замовлення не знайдено",
		})
	}
	if ref.Status != models.OrderStatusPending {
		return nil, h.Sender.Send(ctx, chat.Message{
			ChatID: up.User.ID,
			Text:   fmt.Sprintf("ℹ️ Замовлення #%d вже опрацьовано", ref.ID),
		})
	}
	return ref, nil
}

func (h *DecisionHandler) Accept(ctx context.Context, up chat.Update) error {
	ref, err := h.guard(ctx, up)
	if ref == nil {
		return err
	}

	h.Sessions.Set(up.User.ID, session.AcceptMessage{
		OrderID:     ref.ID,
		CustomerID:  ref.UserID,
		ProductName: ref.ProductName,
	})

	return h.Sender.Send(ctx, chat.Message{
		ChatID: up.User.ID,
		Text: fmt.Sprintf("✅ Замовлення #%d буде прийнято.\n"+
			"Напишіть повідомлення для клієнта (або '-' для стандартного):", ref.ID),
	})
}

func (h *DecisionHandler) Reject(ctx context.Context, up chat.Update) error {
	ref, err := h.guard(ctx, up)
	if ref == nil {
		return err
	}

	h.Sessions.Set(up.User.ID, session.RejectReason{
		OrderID:     ref.ID,
		CustomerID:  ref.UserID,
		ProductName: ref.ProductName,
	})

	return h.Sender.Send(ctx, chat.Message{
		ChatID: up.User.ID,
		Text: fmt.Sprintf("❌ Замовлення #%d буде відхилено.\n"+
			"Напишіть причину відхилення для клієнта:", ref.ID),
	})
}

// decide flips a pending order to its final status. RowsAffected guards
// against a second manager racing the same order.
func (h *DecisionHandler) decide(orderID uint, status string) (bool, error) {
	res := h.DB.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, models.OrderStatusPending).
		Update("status", status)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// AcceptText finalizes the acceptance with the manager's message. "-"
// sends the standard confirmation instead.
func (h *DecisionHandler) AcceptText(ctx context.Context, up chat.Update) error {
	st, ok := h.Sessions.Get(up.User.ID).(session.AcceptMessage)
	if !ok {
		return nil
	}
	defer h.Sessions.Clear(up.User.ID)

	decided, err := h.decide(st.OrderID, models.OrderStatusAccepted)
	if err != nil {
		return err
	}
	if !decided {
		return h.Sender.Send(ctx, chat.Message{
			ChatID: up.User.ID,
			Text:   fmt.Sprintf("ℹ️ Замовлення #%d вже опрацьовано", st.OrderID),
		})
	}

	publish(ctx, h.Producer, "order_events", st.CustomerID, map[string]any{
		"type":    "order_accepted",
		"orderID": st.OrderID,
	})

	custom := strings.TrimSpace(up.Text)
	var clientText string
	if custom == "-" {
		clientText = fmt.Sprintf(
			"✅ <b>Ваше замовлення прийнято!</b>\n\n"+
				"📦 Товар: %s\n"+
				"🆔 Номер замовлення: #%d\n\n"+
				"Дякуємо за покупку! Скоро з вами зв'яжуться для уточнення деталей доставки.",
			st.ProductName, st.OrderID,
		)
	} else {
		clientText = fmt.Sprintf(
			"✅ <b>Ваше замовлення прийнято!</b>\n\n"+
				"📦 Товар: %s\n"+
				"🆔 Номер замовлення: #%d\n\n"+
				"💬 Повідомлення від менеджера:\n%s",
			st.ProductName, st.OrderID, custom,
		)
	}

	confirm := fmt.Sprintf("✅ Замовлення #%d прийнято і клієнта повідомлено!", st.OrderID)
	if err := h.Sender.Send(ctx, chat.Message{ChatID: st.CustomerID, Text: clientText}); err != nil {
		confirm = fmt.Sprintf("✅ Замовлення #%d прийнято, але не вдалося повідомити клієнта", st.OrderID)
	}

	return h.Sender.Send(ctx, chat.Message{ChatID: up.User.ID, Text: confirm})
}

// RejectText finalizes the rejection with the manager's reason.
func (h *DecisionHandler) RejectText(ctx context.Context, up chat.Update) error {
	st, ok := h.Sessions.Get(up.User.ID).(session.RejectReason)
	if !ok {
		return nil
	}
	defer h.Sessions.Clear(up.User.ID)

	decided, err := h.decide(st.OrderID, models.OrderStatusRejected)
	if err != nil {
		return err
	}
	if !decided {
		return h.Sender.Send(ctx, chat.Message{
			ChatID: up.User.ID,
			Text:   fmt.Sprintf("ℹ️ Замовлення #%d вже опрацьовано", st.OrderID),
		})
	}

	publish(ctx, h.Producer, "order_events", st.CustomerID, map[string]any{
		"type":    "order_rejected",
		"orderID": st.OrderID,
	})

	clientText := fmt.Sprintf(
		"❌ <b>На жаль, ваше замовлення відхилено</b>\n\n"+
			"📦 Товар: %s\n"+
			"🆔 Номер замовлення: #%d\n\n"+
			"💬 Причина відхилення:\n%s\n\n"+
			"Ви можете оформити нове замовлення або зв'язатися з нами для уточнень.",
		st.ProductName, st.OrderID, strings.TrimSpace(up.Text),
	)

	confirm := fmt.Sprintf("❌ Замовлення #%d відхилено і клієнта повідомлено", st.OrderID)
	if err := h.Sender.Send(ctx, chat.Message{ChatID: st.CustomerID, Text: clientText}); err != nil {
		confirm = fmt.Sprintf("❌ Замовлення #%d відхилено, але не вдалося повідомити клієнта", st.OrderID)
	}

	return h.Sender.Send(ctx, chat.Message{ChatID: up.User.ID, Text: confirm})
}
