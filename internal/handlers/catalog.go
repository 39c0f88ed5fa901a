package handlers

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"flowershop-bot/internal/chat"
	"flowershop-bot/internal/handlers/cart"
	"flowershop-bot/internal/models"
	"flowershop-bot/internal/session"
)

type CatalogHandler struct {
	DB       *gorm.DB
	Sessions *session.Store
	Sender   chat.Sender
}

// defaultCities is offered when the catalog has no cities yet.
var defaultCities = []string{"Київ", "Дніпро", "Львів"}

// MainOrder shows the city list. While the cart holds products from one
// city, every other city is rendered disabled so the cart can never mix
// cities.
func (h *CatalogHandler) MainOrder(ctx context.Context, up chat.Update) error {
	var cities []models.City
	if err := h.DB.Find(&cities).Error; err != nil {
		return err
	}
	if len(cities) == 0 {
		for _, name := range defaultCities {
			city := models.City{Name: name}
			if err := h.DB.Create(&city).Error; err != nil {
				return err
			}
			cities = append(cities, city)
		}
	}

	cartCity, err := cart.UserCartCity(h.DB, up.User.ID)
	if err != nil {
		return err
	}

	kb := chat.NewKeyboard()
	for _, city := range cities {
		if cartCity != nil && cartCity.ID != city.ID {
			kb.Button("🚫 "+city.Name+" (очистіть кошик)", string(chat.VerbCityConflict))
		} else {
			kb.Button(city.Name, chat.IDToken(chat.VerbCity, int64(city.ID)))
		}
	}
	kb.Button("🔙 Назад", string(chat.VerbBackToMain))
	kb.Adjust(2)

	text := "🏙️ Оберіть своє місто:"
	if cartCity != nil {
		text += fmt.Sprintf(
			"\n\n⚠️ У вашому кошику є товари з міста %s. Ви можете замовляти тільки з одного міста за раз.",
			cartCity.Name,
		)
	}

	return h.Sender.Send(ctx, chat.Message{
		ChatID:   up.User.ID,
		Text:     text,
		Keyboard: kb.Rows(),
	})
}

func (h *CatalogHandler) CityConflict(ctx context.Context, up chat.Update) error {
	return h.Sender.Send(ctx, chat.Message{
		ChatID: up.User.ID,
		Text:   "❌ Спочатку очистіть кошик або оформіть замовлення",
	})
}

// SelectCity renders every product of the chosen city as its own card with
// add-to-cart and buy-now buttons.
func (h *CatalogHandler) SelectCity(ctx context.Context, up chat.Update) error {
	t, err := chat.ParseToken(up.Callback)
	if err != nil {
		return err
	}

	var products []models.Product
	if err := h.DB.Where("city_id = ?", t.ID).Find(&products).Error; err != nil {
		return err
	}

	if len(products) == 0 {
		return h.Sender.Send(ctx, chat.Message{
			ChatID: up.User.ID,
			Text:   "У цьому місті поки немає товарів 🌱",
		})
	}

	for _, p := range products {
		kb := chat.NewKeyboard()
		kb.Button("🛒 Додати в кошик", chat.IDToken(chat.VerbAddToCart, int64(p.ID)))
		kb.Button("⚡ Замовити зараз", chat.IDToken(chat.VerbBuy, int64(p.ID)))
		kb.Adjust(2)

		msg := chat.Message{
			ChatID:   up.User.ID,
			Text:     fmt.Sprintf("<b>%s</b>\n%s\n💵 %v грн", p.Name, p.Description, p.Price),
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
		Text:     "🌸 Оберіть товар зі списку вище або поверніться до меню:",
		Keyboard: kb.Rows(),
	})
}
