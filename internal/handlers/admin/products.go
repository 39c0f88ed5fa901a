package admin

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"flowershop-bot/internal/chat"
	"flowershop-bot/internal/models"
	"flowershop-bot/internal/search"
	"flowershop-bot/internal/session"
	"flowershop-bot/internal/validate"
)

type ProductHandler struct {
	DB       *gorm.DB
	Search   *search.Service
	Sessions *session.Store
	Sender   chat.Sender
	AdminIDs []int64
}

// citySelectionRows renders the multi-select city keyboard with checkmarks
// on the already-picked cities.
func citySelectionRows(cities []models.City, selected map[uint]bool, toggle chat.Verb, confirmLabel string, confirm chat.Verb) [][]chat.Button {
	kb := chat.NewKeyboard()
	for _, c := range cities {
		mark := "☐"
		if selected[c.ID] {
			mark = "☑️"
		}
		kb.Button(mark+" "+c.Name, chat.IDToken(toggle, int64(c.ID)))
	}
	kb.Button(confirmLabel, string(confirm))
	kb.Adjust(2)
	return kb.Rows()
}

func selectedIDs(selected map[uint]bool) []uint {
	ids := make([]uint, 0, len(selected))
	for id := range selected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (h *ProductHandler) AddStart(ctx context.Context, up chat.Update) error {
	if !authorized(h.AdminIDs, up.User.ID) {
		return denied(ctx, h.Sender, up.User.ID)
	}

	var cities []models.City
	if err := h.DB.Find(&cities).Error; err != nil {
		return err
	}
	if len(cities) == 0 {
		return h.Sender.Send(ctx, chat.Message{ChatID: up.User.ID, Text: "❌ Спочатку додайте міста"})
	}

	h.Sessions.Set(up.User.ID, session.ProductCities{Selected: make(map[uint]bool)})

	return h.Sender.Send(ctx, chat.Message{
		ChatID:   up.User.ID,
		Text:     "Оберіть міста для товару (можна вибрати кілька):",
		Keyboard: citySelectionRows(cities, nil, chat.VerbCitySelect, "✅ Підтвердити вибір", chat.VerbCitiesConfirmed),
	})
}

// ToggleCity flips one city in the selection and re-renders the keyboard.
func (h *ProductHandler) ToggleCity(ctx context.Context, up chat.Update) error {
	st, ok := h.Sessions.Get(up.User.ID).(session.ProductCities)
	if !ok {
		return nil
	}

	t, err := chat.ParseToken(up.Callback)
	if err != nil {
		return err
	}

	cityID := uint(t.ID)
	if st.Selected[cityID] {
		delete(st.Selected, cityID)
	} else {
		st.Selected[cityID] = true
	}
	h.Sessions.Set(up.User.ID, st)

	var cities []models.City
	if err := h.DB.Find(&cities).Error; err != nil {
		return err
	}

	return h.Sender.Send(ctx, chat.Message{
		ChatID:   up.User.ID,
		Text:     fmt.Sprintf("Вибрано міст: %d", len(st.Selected)),
		Keyboard: citySelectionRows(cities, st.Selected, chat.VerbCitySelect, "✅ Підтвердити вибір", chat.VerbCitiesConfirmed),
	})
}

func (h *ProductHandler) ConfirmCities(ctx context.Context, up chat.Update) error {
	st, ok := h.Sessions.Get(up.User.ID).(session.ProductCities)
	if !ok {
		return nil
	}

	if len(st.Selected) == 0 {
		return h.Sender.Send(ctx, chat.Message{ChatID: up.User.ID, Text: "❌ Оберіть хоча б одне місто"})
	}

	h.Sessions.Set(up.User.ID, session.ProductPhoto{CityIDs: selectedIDs(st.Selected)})
	return h.Sender.Send(ctx, chat.Message{
		ChatID: up.User.ID,
		Text:   fmt.Sprintf("Вибрано міст: %d\nНадішли фото товару:", len(st.Selected)),
	})
}

func (h *ProductHandler) Photo(ctx context.Context, up chat.Update) error {
	st, ok := h.Sessions.Get(up.User.ID).(session.ProductPhoto)
	if !ok {
		return nil
	}

	h.Sessions.Set(up.User.ID, session.ProductName{CityIDs: st.CityIDs, PhotoID: up.PhotoID})
	return h.Sender.Send(ctx, chat.Message{ChatID: up.User.ID, Text: "Введи назву товару:"})
}

func (h *ProductHandler) Name(ctx context.Context, up chat.Update) error {
	st, ok := h.Sessions.Get(up.User.ID).(session.ProductName)
	if !ok {
		return nil
	}

	h.Sessions.Set(up.User.ID, session.ProductDescription{
		CityIDs: st.CityIDs,
		PhotoID: st.PhotoID,
		Name:    strings.TrimSpace(up.Text),
	})
	return h.Sender.Send(ctx, chat.Message{ChatID: up.User.ID, Text: "Введи опис товару:"})
}

func (h *ProductHandler) Description(ctx context.Context, up chat.Update) error {
	st, ok := h.Sessions.Get(up.User.ID).(session.ProductDescription)
	if !ok {
		return nil
	}

	h.Sessions.Set(up.User.ID, session.ProductPrice{
		CityIDs:     st.CityIDs,
		PhotoID:     st.PhotoID,
		Name:        st.Name,
		Description: strings.TrimSpace(up.Text),
	})
	return h.Sender.Send(ctx, chat.Message{ChatID: up.User.ID, Text: "Введи ціну (числом):"})
}

// Price finishes the add flow: one product row per selected city, created
// atomically. A bad price re-prompts without losing the collected fields.
func (h *ProductHandler) Price(ctx context.Context, up chat.Update) error {
	st, ok := h.Sessions.Get(up.User.ID).(session.ProductPrice)
	if !ok {
		return nil
	}

	price, err := validate.Price(up.Text)
	if err != nil {
		return h.Sender.Send(ctx, chat.Message{ChatID: up.User.ID, Text: "❌ Невірна ціна, введи числом"})
	}

	var created []models.Product
	var cityNames []string
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		for _, cityID := range st.CityIDs {
			var city models.City
			if err := tx.First(&city, cityID).Error; err != nil {
				return err
			}
			cityNames = append(cityNames, city.Name)

			p := models.Product{
				CityID:      cityID,
				Name:        st.Name,
				Description: st.Description,
				Price:       price,
				Photo:       st.PhotoID,
			}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
			created = append(created, p)
		}
		return nil
	})
	if err != nil {
		return err
	}

	indexProducts(ctx, h.Search, created)
	h.Sessions.Clear(up.User.ID)

	return h.Sender.Send(ctx, chat.Message{
		ChatID: up.User.ID,
		Text:   fmt.Sprintf("✅ Товар <b>%s</b> додано в міста: %s!", st.Name, strings.Join(cityNames, ", ")),
	})
}

// distinctProducts lists one representative row per product name, so a
// product offered in many cities shows up once.
func (h *ProductHandler) distinctProducts() ([]models.Product, error) {
	var products []models.Product
	err := h.DB.Table("products").
		Select("MIN(id) AS id, name").
		Group("name").
		Order("name").
		Scan(&products).Error
	return products, err
}

func (h *ProductHandler) productListMessage(ctx context.Context, userID int64, verb chat.Verb, prompt string) error {
	products, err := h.distinctProducts()
	if err != nil {
		return err
	}
	if len(products) == 0 {
		return h.Sender.Send(ctx, chat.Message{ChatID: userID, Text: "❌ Товарів нема"})
	}

	kb := chat.NewKeyboard()
	for _, p := range products {
		label := p.Name
		if len([]rune(label)) > 30 {
			label = string([]rune(label)[:30]) + "..."
		}
		kb.Button(label, chat.IDToken(verb, int64(p.ID)))
	}
	kb.Adjust(1)

	return h.Sender.Send(ctx, chat.Message{ChatID: userID, Text: prompt, Keyboard: kb.Rows()})
}

func (h *ProductHandler) EditStart(ctx context.Context, up chat.Update) error {
	if !authorized(h.AdminIDs, up.User.ID) {
		return denied(ctx, h.Sender, up.User.ID)
	}
	return h.productListMessage(ctx, up.User.ID, chat.VerbEditProduct, "Оберіть товар для редагування:")
}

func (h *ProductHandler) EditChoose(ctx context.Context, up chat.Update) error {
	if !authorized(h.AdminIDs, up.User.ID) {
		return denied(ctx, h.Sender, up.User.ID)
	}

	t, err := chat.ParseToken(up.Callback)
	if err != nil {
		return err
	}

	var product models.Product
	if err := h.DB.First(&product, t.ID).Error; err != nil {
		return err
	}

	h.Sessions.Set(up.User.ID, session.ProductField{ProductName: product.Name})

	kb := chat.NewKeyboard()
	kb.Button("Назва", chat.FieldToken(chat.FieldName))
	kb.Button("Опис", chat.FieldToken(chat.FieldDescription))
	kb.Button("Ціна", chat.FieldToken(chat.FieldPrice))
	kb.Adjust(1)

	return h.Sender.Send(ctx, chat.Message{
		ChatID:   up.User.ID,
		Text:     fmt.Sprintf("Що хочеш редагувати в товарі '%s'?", product.Name),
		Keyboard: kb.Rows(),
	})
}

func (h *ProductHandler) EditField(ctx context.Context, up chat.Update) error {
	st, ok := h.Sessions.Get(up.User.ID).(session.ProductField)
	if !ok {
		return nil
	}

	t, err := chat.ParseToken(up.Callback)
	if err != nil {
		return err
	}

	h.Sessions.Set(up.User.ID, session.ProductValue{ProductName: st.ProductName, Field: t.Field})
	return h.Sender.Send(ctx, chat.Message{
		ChatID: up.User.ID,
		Text:   fmt.Sprintf("Введіть нове значення для %s:", t.Field),
	})
}

// EditValue applies the new field value to every city's copy of the
// product, so the name keeps identifying one product everywhere.
func (h *ProductHandler) EditValue(ctx context.Context, up chat.Update) error {
	st, ok := h.Sessions.Get(up.User.ID).(session.ProductValue)
	if !ok {
		return nil
	}

	var value any = strings.TrimSpace(up.Text)
	if st.Field == chat.FieldPrice {
		price, err := validate.Price(up.Text)
		if err != nil {
			return h.Sender.Send(ctx, chat.Message{ChatID: up.User.ID, Text: "❌ Невірна ціна"})
		}
		value = price
	}

	var updated []models.Product
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).
			Where("name = ?", st.ProductName).
			Update(st.Field, value).Error; err != nil {
			return err
		}

		name := st.ProductName
		if st.Field == chat.FieldName {
			name = value.(string)
		}
		return tx.Where("name = ?", name).Find(&updated).Error
	})
	if err != nil {
		return err
	}

	indexProducts(ctx, h.Search, updated)
	h.Sessions.Clear(up.User.ID)

	return h.Sender.Send(ctx, chat.Message{
		ChatID: up.User.ID,
		Text:   fmt.Sprintf("✅ Товар '%s' оновлено в %d містах!", st.ProductName, len(updated)),
	})
}

func (h *ProductHandler) DeleteStart(ctx context.Context, up chat.Update) error {
	if !authorized(h.AdminIDs, up.User.ID) {
		return denied(ctx, h.Sender, up.User.ID)
	}
	return h.productListMessage(ctx, up.User.ID, chat.VerbDeleteProduct, "Оберіть товар для видалення:")
}

func (h *ProductHandler) productCities(name string) ([]models.City, error) {
	var cities []models.City
	err := h.DB.Table("cities").
		Select("cities.id AS id, cities.name AS name").
		Joins("JOIN products ON products.city_id = cities.id").
		Where("products.name = ?", name).
		Order("cities.name").
		Scan(&cities).Error
	return cities, err
}

func (h *ProductHandler) deletionRows(name string, selected map[uint]bool) ([][]chat.Button, error) {
	cities, err := h.productCities(name)
	if err != nil {
		return nil, err
	}

	kb := chat.NewKeyboard()
	for _, c := range cities {
		mark := "☐"
		if selected[c.ID] {
			mark = "☑️"
		}
		kb.Button(mark+" "+c.Name, chat.IDToken(chat.VerbDelCitySelect, int64(c.ID)))
	}
	kb.Button("🗑️ Видалити з обраних міст", string(chat.VerbConfirmDeletion))
	kb.Button("🗑️ Видалити з усіх міст", string(chat.VerbDeleteAllCities))
	kb.Adjust(2)
	return kb.Rows(), nil
}

func (h *ProductHandler) DeleteChoose(ctx context.Context, up chat.Update) error {
	if !authorized(h.AdminIDs, up.User.ID) {
		return denied(ctx, h.Sender, up.User.ID)
	}

	t, err := chat.ParseToken(up.Callback)
	if err != nil {
		return err
	}

	var product models.Product
	if err := h.DB.First(&product, t.ID).Error; err != nil {
		return err
	}

	h.Sessions.Set(up.User.ID, session.ProductDelete{
		ProductName: product.Name,
		Selected:    make(map[uint]bool),
	})

	rows, err := h.deletionRows(product.Name, nil)
	if err != nil {
		return err
	}

	return h.Sender.Send(ctx, chat.Message{
		ChatID: up.User.ID,
		Text: fmt.Sprintf("Товар '<b>%s</b>' знайдено в містах:\n"+
			"Оберіть міста, з яких хочете видалити товар:", product.Name),
		Keyboard: rows,
	})
}

func (h *ProductHandler) ToggleDeleteCity(ctx context.Context, up chat.Update) error {
	st, ok := h.Sessions.Get(up.User.ID).(session.ProductDelete)
	if !ok {
		return nil
	}

	t, err := chat.ParseToken(up.Callback)
	if err != nil {
		return err
	}

	cityID := uint(t.ID)
	if st.Selected[cityID] {
		delete(st.Selected, cityID)
	} else {
		st.Selected[cityID] = true
	}
	h.Sessions.Set(up.User.ID, st)

	rows, err := h.deletionRows(st.ProductName, st.Selected)
	if err != nil {
		return err
	}

	return h.Sender.Send(ctx, chat.Message{
		ChatID:   up.User.ID,
		Text:     fmt.Sprintf("Обрано міст: %d", len(st.Selected)),
		Keyboard: rows,
	})
}

// deleteFromCities removes the product's rows in the given cities. Nil
// cityIDs means every city. Cart lines keep their product ids and go
// dangling.
func (h *ProductHandler) deleteFromCities(name string, cityIDs []uint) ([]uint, error) {
	var productIDs []uint
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&models.Product{}).Where("name = ?", name)
		if cityIDs != nil {
			q = q.Where("city_id IN ?", cityIDs)
		}
		if err := q.Pluck("id", &productIDs).Error; err != nil {
			return err
		}
		if len(productIDs) == 0 {
			return nil
		}
		return tx.Where("id IN ?", productIDs).Delete(&models.Product{}).Error
	})
	return productIDs, err
}

func (h *ProductHandler) ConfirmDeletion(ctx context.Context, up chat.Update) error {
	st, ok := h.Sessions.Get(up.User.ID).(session.ProductDelete)
	if !ok {
		return nil
	}

	if len(st.Selected) == 0 {
		return h.Sender.Send(ctx, chat.Message{ChatID: up.User.ID, Text: "❌ Оберіть хоча б одне місто"})
	}

	cityIDs := selectedIDs(st.Selected)

	var cityNames []string
	if err := h.DB.Model(&models.City{}).Where("id IN ?", cityIDs).Order("name").Pluck("name", &cityNames).Error; err != nil {
		return err
	}

	removed, err := h.deleteFromCities(st.ProductName, cityIDs)
	if err != nil {
		return err
	}

	removeProducts(ctx, h.Search, removed)
	h.Sessions.Clear(up.User.ID)

	return h.Sender.Send(ctx, chat.Message{
		ChatID: up.User.ID,
		Text:   fmt.Sprintf("✅ Товар '<b>%s</b>' видалено з міст: %s", st.ProductName, strings.Join(cityNames, ", ")),
	})
}

func (h *ProductHandler) DeleteAll(ctx context.Context, up chat.Update) error {
	st, ok := h.Sessions.Get(up.User.ID).(session.ProductDelete)
	if !ok {
		return nil
	}

	removed, err := h.deleteFromCities(st.ProductName, nil)
	if err != nil {
		return err
	}

	removeProducts(ctx, h.Search, removed)
	h.Sessions.Clear(up.User.ID)

	return h.Sender.Send(ctx, chat.Message{
		ChatID: up.User.ID,
		Text:   fmt.Sprintf("✅ Товар '<b>%s</b>' видалено з усіх міст!", st.ProductName),
	})
}
