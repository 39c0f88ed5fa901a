package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"flowershop-bot/internal/chat"
	"flowershop-bot/internal/models"
	"flowershop-bot/internal/session"
)

const (
	testManagerChat int64 = -100200300
	testAdminID     int64 = 99
	testCustomerID  int64 = 1
)

type sentLog struct {
	mu     sync.Mutex
	msgs   []chat.Message
	failTo map[int64]bool
}

func (s *sentLog) Send(_ context.Context, msg chat.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failTo[msg.ChatID] {
		return errors.New("delivery failed")
	}
	s.msgs = append(s.msgs, msg)
	return nil
}

func (s *sentLog) all() []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]chat.Message(nil), s.msgs...)
}

func (s *sentLog) last() chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.msgs) == 0 {
		return chat.Message{}
	}
	return s.msgs[len(s.msgs)-1]
}

// to returns the messages delivered to one chat.
func (s *sentLog) to(chatID int64) []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []chat.Message
	for _, m := range s.msgs {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out
}

type testEnv struct {
	DB       *gorm.DB
	Sessions *session.Store
	Sender   *sentLog
	Cart     *CartHandler
	Order    *OrderHandler
	Decision *DecisionHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:cart_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.City{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.TermsContent{},
	))

	sessions := session.NewStore(time.Minute)
	sender := &sentLog{failTo: make(map[int64]bool)}

	env := &testEnv{
		DB:       db,
		Sessions: sessions,
		Sender:   sender,
		Cart:     &CartHandler{DB: db, Sessions: sessions, Sender: sender},
		Order: &OrderHandler{
			DB:            db,
			Sessions:      sessions,
			Sender:        sender,
			ManagerChatID: testManagerChat,
			AdminIDs:      []int64{testAdminID},
		},
		Decision: &DecisionHandler{
			DB:       db,
			Sessions: sessions,
			Sender:   sender,
			AdminIDs: []int64{testAdminID},
		},
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return env
}

// seedCatalog creates two cities with one product each.
func (env *testEnv) seedCatalog(t *testing.T) (kyiv, lviv models.City, roses, tulips models.Product) {
	t.Helper()

	kyiv = models.City{Name: "Київ"}
	lviv = models.City{Name: "Львів"}
	require.NoError(t, env.DB.Create(&kyiv).Error)
	require.NoError(t, env.DB.Create(&lviv).Error)

	roses = models.Product{CityID: kyiv.ID, Name: "Троянди", Description: "букет", Price: 100, Photo: "ph1"}
	tulips = models.Product{CityID: lviv.ID, Name: "Тюльпани", Description: "букет", Price: 80, Photo: "ph2"}
	require.NoError(t, env.DB.Create(&roses).Error)
	require.NoError(t, env.DB.Create(&tulips).Error)
	return
}

func (env *testEnv) addToCart(t *testing.T, userID int64, p models.Product, qty string) {
	t.Helper()

	user := chat.User{ID: userID}
	require.NoError(t, env.Cart.Add(context.Background(), chat.Update{
		User:     user,
		Callback: chat.IDToken(chat.VerbAddToCart, int64(p.ID)),
	}))
	require.NoError(t, env.Cart.Quantity(context.Background(), chat.Update{User: user, Text: qty}))
}

func (env *testEnv) cartRows(t *testing.T, userID int64) []models.CartItem {
	t.Helper()
	var items []models.CartItem
	require.NoError(t, env.DB.Where("user_id = ?", userID).Find(&items).Error)
	return items
}
