package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"flowershop-bot/internal/chat"
	"flowershop-bot/internal/models"
	"flowershop-bot/internal/search"
	"flowershop-bot/internal/session"
)

type CityHandler struct {
	DB       *gorm.DB
	Search   *search.Service
	Sessions *session.Store
	Sender   chat.Sender
	AdminIDs []int64
}

func (h *CityHandler) AddStart(ctx context.Context, up chat.Update) error {
	if !authorized(h.AdminIDs, up.User.ID) {
		return denied(ctx, h.Sender, up.User.ID)
	}

	h.Sessions.Set(up.User.ID, session.CityName{})
	return h.Sender.Send(ctx, chat.Message{ChatID: up.User.ID, Text: "Введи назву міста:"})
}

// AddName creates the city and, when other cities already carry products,
// offers to copy a catalog over.
func (h *CityHandler) AddName(ctx context.Context, up chat.Update) error {
	name := strings.TrimSpace(up.Text)

	var existing models.City
	err := h.DB.Where("name = ?", name).First(&existing).Error
	if err == nil {
		h.Sessions.Clear(up.User.ID)
		return h.Sender.Send(ctx, chat.Message{
			ChatID: up.User.ID,
			Text:   fmt.Sprintf("❌ Місто <b>%s</b> вже існує!", name),
		})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	city := models.City{Name: name}
	if err := h.DB.Create(&city).Error; err != nil {
		return err
	}

	var sources []models.City
	err = h.DB.
		Joins("JOIN products ON products.city_id = cities.id").
		Where("cities.id <> ?", city.ID).
		Distinct("cities.id", "cities.name").
		Find(&sources).Error
	if err != nil {
		return err
	}

	if len(sources) == 0 {
		h.Sessions.Clear(up.User.ID)
		return h.Sender.Send(ctx, chat.Message{
			ChatID: up.User.ID,
			Text:   fmt.Sprintf("🏙 Місто <b>%s</b> додано!", name),
		})
	}

	h.Sessions.Set(up.User.ID, session.CityCopy{NewCityID: city.ID, Name: name})

	kb := chat.NewKeyboard()
	for _, src := range sources {
		kb.Button("📦 З міста "+src.Name, chat.IDToken(chat.VerbCopyFrom, int64(src.ID)))
	}
	kb.Button("❌ Не копіювати товари", string(chat.VerbNoCopy))
	kb.Adjust(1)

	return h.Sender.Send(ctx, chat.Message{
		ChatID: up.User.ID,
		Text: fmt.Sprintf("🏙 Місто <b>%s</b> додано!\n\n"+
			"Хочете скопіювати товари з інших міст?", name),
		Keyboard: kb.Rows(),
	})
}

// CopyFrom clones every product of the source city into the new one.
func (h *CityHandler) CopyFrom(ctx context.Context, up chat.Update) error {
	st, ok := h.Sessions.Get(up.User.ID).(session.CityCopy)
	if !ok {
		return nil
	}

	t, err := chat.ParseToken(up.Callback)
	if err != nil {
		return err
	}

	var copied []models.Product
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var products []models.Product
		if err := tx.Where("city_id = ?", t.ID).Find(&products).Error; err != nil {
			return err
		}
		for _, p := range products {
			clone := models.Product{
				CityID:      st.NewCityID,
				Name:        p.Name,
				Description: p.Description,
				Price:       p.Price,
				Photo:       p.Photo,
			}
			if err := tx.Create(&clone).Error; err != nil {
				return err
			}
			copied = append(copied, clone)
		}
		return nil
	})
	if err != nil {
		return err
	}

	indexProducts(ctx, h.Search, copied)
	h.Sessions.Clear(up.User.ID)

	var source models.City
	if err := h.DB.First(&source, t.ID).Error; err != nil {
		return err
	}

	return h.Sender.Send(ctx, chat.Message{
		ChatID: up.User.ID,
		Text: fmt.Sprintf("✅ <b>Місто %s створено!</b>\n\n"+
			"Скопійовано %d товарів з міста %s", st.Name, len(copied), source.Name),
	})
}

func (h *CityHandler) NoCopy(ctx context.Context, up chat.Update) error {
	st, ok := h.Sessions.Get(up.User.ID).(session.CityCopy)
	if !ok {
		return nil
	}

	h.Sessions.Clear(up.User.ID)
	return h.Sender.Send(ctx, chat.Message{
		ChatID: up.User.ID,
		Text:   fmt.Sprintf("✅ Місто <b>%s</b> створено без товарів!", st.Name),
	})
}

func (h *CityHandler) cityListMessage(ctx context.Context, userID int64, verb chat.Verb, prompt string) error {
	var cities []models.City
	if err := h.DB.Find(&cities).Error; err != nil {
		return err
	}
	if len(cities) == 0 {
		return h.Sender.Send(ctx, chat.Message{ChatID: userID, Text: "❌ Міст нема"})
	}

	kb := chat.NewKeyboard()
	for _, c := range cities {
		kb.Button(c.Name, chat.IDToken(verb, int64(c.ID)))
	}
	kb.Adjust(2)

	return h.Sender.Send(ctx, chat.Message{ChatID: userID, Text: prompt, Keyboard: kb.Rows()})
}

func (h *CityHandler) EditStart(ctx context.Context, up chat.Update) error {
	if !authorized(h.AdminIDs, up.User.ID) {
		return denied(ctx, h.Sender, up.User.ID)
	}
	return h.cityListMessage(ctx, up.User.ID, chat.VerbEditCity, "Оберіть місто для редагування:")
}

func (h *CityHandler) EditChoose(ctx context.Context, up chat.Update) error {
	if !authorized(h.AdminIDs, up.User.ID) {
		return denied(ctx, h.Sender, up.User.ID)
	}

	t, err := chat.ParseToken(up.Callback)
	if err != nil {
		return err
	}

	h.Sessions.Set(up.User.ID, session.CityRename{CityID: uint(t.ID)})
	return h.Sender.Send(ctx, chat.Message{ChatID: up.User.ID, Text: "Введіть нову назву міста:"})
}

func (h *CityHandler) EditName(ctx context.Context, up chat.Update) error {
	st, ok := h.Sessions.Get(up.User.ID).(session.CityRename)
	if !ok {
		return nil
	}
	defer h.Sessions.Clear(up.User.ID)

	name := strings.TrimSpace(up.Text)
	err := h.DB.Model(&models.City{}).Where("id = ?", st.CityID).Update("name", name).Error
	if err != nil {
		return err
	}

	return h.Sender.Send(ctx, chat.Message{
		ChatID: up.User.ID,
		Text:   "🏙 Місто оновлено: " + name,
	})
}

func (h *CityHandler) DeleteStart(ctx context.Context, up chat.Update) error {
	if !authorized(h.AdminIDs, up.User.ID) {
		return denied(ctx, h.Sender, up.User.ID)
	}
	return h.cityListMessage(ctx, up.User.ID, chat.VerbDeleteCity, "Оберіть місто для видалення:")
}

// Delete removes the city together with its products. Cart lines pointing
// at the removed products stay behind as dangling references.
func (h *CityHandler) Delete(ctx context.Context, up chat.Update) error {
	if !authorized(h.AdminIDs, up.User.ID) {
		return denied(ctx, h.Sender, up.User.ID)
	}

	t, err := chat.ParseToken(up.Callback)
	if err != nil {
		return err
	}

	var productIDs []uint
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).Where("city_id = ?", t.ID).Pluck("id", &productIDs).Error; err != nil {
			return err
		}
		if len(productIDs) > 0 {
			if err := tx.Where("city_id = ?", t.ID).Delete(&models.Product{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.City{}, t.ID).Error
	})
	if err != nil {
		return err
	}

	removeProducts(ctx, h.Search, productIDs)

	return h.Sender.Send(ctx, chat.Message{
		ChatID: up.User.ID,
		Text:   "✅ Місто та всі товари видалено!",
	})
}
