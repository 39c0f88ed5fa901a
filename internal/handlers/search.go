package handlers

import (
	"context"
	"fmt"
	"strings"

	"flowershop-bot/internal/chat"
	"flowershop-bot/internal/keyboards"
	"flowershop-bot/internal/models"
	"flowershop-bot/internal/search"
	"flowershop-bot/internal/session"
)

const searchLimit = 10

type SearchHandler struct {
	Search   *search.Service
	Sessions *session.Store
	Sender   chat.Sender
}

func (h *SearchHandler) Start(ctx context.Context, up chat.Update) error {
	h.Sessions.Set(up.User.ID, session.SearchPrompt{})
	return h.Sender.Send(ctx, chat.Message{
		ChatID: up.User.ID,
		Text: "🔎 <b>Пошук товару</b>\n\n" +
			"Введіть назву або опис товару:",
	})
}

// Query runs the search and renders each hit as a product card. City names
// are resolved so the customer knows where each hit is offered.
func (h *SearchHandler) Query(ctx context.Context, up chat.Update) error {
	defer h.Sessions.Clear(up.User.ID)

	query := strings.TrimSpace(up.Text)
	products, err := h.Search.Search(ctx, query, searchLimit)
	if err != nil {
		return err
	}

	if len(products) == 0 {
		return h.Sender.Send(ctx, chat.Message{
			ChatID:   up.User.ID,
			Text:     fmt.Sprintf("🔎 За запитом «%s» нічого не знайдено 🌱", query),
			Keyboard: keyboards.MainMenu(),
		})
	}

	cityNames := make(map[uint]string)
	for _, p := range products {
		if _, ok := cityNames[p.CityID]; ok {
			continue
		}
		var city models.City
		if err := h.Search.DB.First(&city, p.CityID).Error; err == nil {
			cityNames[p.CityID] = city.Name
		}
	}

	for _, p := range products {
		kb := chat.NewKeyboard()
		kb.Button("🛒 Додати в кошик", chat.IDToken(chat.VerbAddToCart, int64(p.ID)))
		kb.Button("⚡ Замовити зараз", chat.IDToken(chat.VerbBuy, int64(p.ID)))
		kb.Adjust(2)

		text := fmt.Sprintf("<b>%s</b>\n%s\n💵 %v грн", p.Name, p.Description, p.Price)
		if name := cityNames[p.CityID]; name != "" {
			text += "\n🏙️ " + name
		}

		msg := chat.Message{
			ChatID:   up.User.ID,
			Text:     text,
			PhotoID:  p.Photo,
			Keyboard: kb.Rows(),
		}
		if err := h.Sender.Send(ctx, msg); err != nil {
			return err
		}
	}

	kb := chat.NewKeyboard()
	kb.Button("🔙 Назад до меню", string(chat.VerbBackToMain))

	return h.Sender.Send(ctx, chat.Message{
		ChatID:   up.User.ID,
		Text:     fmt.Sprintf("🔎 Знайдено товарів: %d", len(products)),
		Keyboard: kb.Rows(),
	})
}
