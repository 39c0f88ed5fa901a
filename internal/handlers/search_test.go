package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"flowershop-bot/internal/chat"
	"flowershop-bot/internal/session"
)

func TestSearchStartPrompts(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.Search.Start(context.Background(), chat.Update{
		User:     chat.User{ID: testUserID},
		Callback: string(chat.VerbMainSearch),
	}))

	_, ok := env.Sessions.Get(testUserID).(session.SearchPrompt)
	require.True(t, ok)
	require.Contains(t, env.Sender.last().Text, "Пошук товару")
}

func TestSearchQueryMatchesNameAndDescription(t *testing.T) {
	env := newTestEnv(t)
	kyiv := env.seedCity(t, "Київ")
	roses := env.seedProduct(t, kyiv.ID, "Троянди червоні", 100)
	require.NoError(t, env.DB.Model(&roses).Update("description", "букет з 11 троянд").Error)
	env.seedProduct(t, kyiv.ID, "Тюльпани", 80)

	env.Sessions.Set(testUserID, session.SearchPrompt{})
	require.NoError(t, env.Search.Query(context.Background(), chat.Update{
		User: chat.User{ID: testUserID},
		Text: "троянд",
	}))

	msgs := env.Sender.to(testUserID)
	require.Len(t, msgs, 2)

	require.Contains(t, msgs[0].Text, "Троянди червоні")
	require.Contains(t, msgs[0].Text, "🏙️ Київ")
	require.Len(t, msgs[0].Keyboard, 1)
	require.Equal(t, chat.IDToken(chat.VerbAddToCart, int64(roses.ID)), msgs[0].Keyboard[0][0].Token)

	require.Contains(t, msgs[1].Text, "Знайдено товарів: 1")
	require.Nil(t, env.Sessions.Get(testUserID))
}

func TestSearchQueryNoResults(t *testing.T) {
	env := newTestEnv(t)
	kyiv := env.seedCity(t, "Київ")
	env.seedProduct(t, kyiv.ID, "Тюльпани", 80)

	env.Sessions.Set(testUserID, session.SearchPrompt{})
	require.NoError(t, env.Search.Query(context.Background(), chat.Update{
		User: chat.User{ID: testUserID},
		Text: "орхідеї",
	}))

	require.Contains(t, env.Sender.last().Text, "нічого не знайдено")
	require.Nil(t, env.Sessions.Get(testUserID))
}
