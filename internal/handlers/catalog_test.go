package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"flowershop-bot/internal/chat"
	"flowershop-bot/internal/models"
)

func TestMainOrderListsCities(t *testing.T) {
	env := newTestEnv(t)
	kyiv := env.seedCity(t, "Київ")
	env.seedCity(t, "Львів")

	require.NoError(t, env.Catalog.MainOrder(context.Background(), chat.Update{
		User:     chat.User{ID: testUserID},
		Callback: string(chat.VerbMainOrder),
	}))

	msg := env.Sender.last()
	require.Contains(t, msg.Text, "Оберіть своє місто")
	require.NotContains(t, msg.Text, "⚠️")

	var labels []string
	var tokens []string
	for _, row := range msg.Keyboard {
		for _, b := range row {
			labels = append(labels, b.Label)
			tokens = append(tokens, b.Token)
		}
	}
	require.Contains(t, labels, "Київ")
	require.Contains(t, labels, "Львів")
	require.Contains(t, tokens, chat.IDToken(chat.VerbCity, int64(kyiv.ID)))
	require.Contains(t, tokens, string(chat.VerbBackToMain))
}

func TestMainOrderFallsBackToDefaultCities(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.Catalog.MainOrder(context.Background(), chat.Update{
		User:     chat.User{ID: testUserID},
		Callback: string(chat.VerbMainOrder),
	}))

	var labels []string
	for _, row := range env.Sender.last().Keyboard {
		for _, b := range row {
			labels = append(labels, b.Label)
		}
	}
	require.Contains(t, labels, "Київ")
	require.Contains(t, labels, "Дніпро")
	require.Contains(t, labels, "Львів")

	var count int64
	require.NoError(t, env.DB.Model(&models.City{}).Count(&count).Error)
	require.EqualValues(t, 3, count)
}

func TestMainOrderDisablesConflictingCities(t *testing.T) {
	env := newTestEnv(t)
	kyiv := env.seedCity(t, "Київ")
	env.seedCity(t, "Львів")
	roses := env.seedProduct(t, kyiv.ID, "Троянди", 100)

	require.NoError(t, env.DB.Create(&models.CartItem{
		UserID:    testUserID,
		ProductID: roses.ID,
		Quantity:  1,
	}).Error)

	require.NoError(t, env.Catalog.MainOrder(context.Background(), chat.Update{
		User:     chat.User{ID: testUserID},
		Callback: string(chat.VerbMainOrder),
	}))

	msg := env.Sender.last()
	require.Contains(t, msg.Text, "У вашому кошику є товари з міста Київ")

	var labels []string
	conflicts := 0
	for _, row := range msg.Keyboard {
		for _, b := range row {
			labels = append(labels, b.Label)
			if b.Token == string(chat.VerbCityConflict) {
				conflicts++
			}
		}
	}
	require.Contains(t, labels, "Київ")
	require.Contains(t, labels, "🚫 Львів (очистіть кошик)")
	require.Equal(t, 1, conflicts)
}

func TestCityConflictReply(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.Catalog.CityConflict(context.Background(), chat.Update{
		User:     chat.User{ID: testUserID},
		Callback: string(chat.VerbCityConflict),
	}))
	require.Contains(t, env.Sender.last().Text, "очистіть кошик")
}

func TestSelectCityRendersProducts(t *testing.T) {
	env := newTestEnv(t)
	kyiv := env.seedCity(t, "Київ")
	roses := env.seedProduct(t, kyiv.ID, "Троянди", 100)
	env.seedProduct(t, kyiv.ID, "Півонії", 150)

	require.NoError(t, env.Catalog.SelectCity(context.Background(), chat.Update{
		User:     chat.User{ID: testUserID},
		Callback: chat.IDToken(chat.VerbCity, int64(kyiv.ID)),
	}))

	msgs := env.Sender.to(testUserID)
	require.Len(t, msgs, 3)

	require.Contains(t, msgs[0].Text, "Троянди")
	require.Equal(t, "ph", msgs[0].PhotoID)
	require.Len(t, msgs[0].Keyboard, 1)
	require.Len(t, msgs[0].Keyboard[0], 2)
	require.Equal(t, chat.IDToken(chat.VerbAddToCart, int64(roses.ID)), msgs[0].Keyboard[0][0].Token)
	require.Equal(t, chat.IDToken(chat.VerbBuy, int64(roses.ID)), msgs[0].Keyboard[0][1].Token)

	require.Contains(t, msgs[2].Text, "поверніться до меню")
}

func TestSelectCityEmpty(t *testing.T) {
	env := newTestEnv(t)
	kyiv := env.seedCity(t, "Київ")

	require.NoError(t, env.Catalog.SelectCity(context.Background(), chat.Update{
		User:     chat.User{ID: testUserID},
		Callback: chat.IDToken(chat.VerbCity, int64(kyiv.ID)),
	}))
	require.Contains(t, env.Sender.last().Text, "поки немає товарів")
}
