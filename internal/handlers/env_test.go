package handlers

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
	"flowershop-bot/internal/search"
	"flowershop-bot/internal/session"
)

const (
	testUserID      int64 = 10
	testManagerChat int64 = -555
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

func (s *sentLog) last() chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.msgs) == 0 {
		return chat.Message{}
	}
	return s.msgs[len(s.msgs)-1]
}

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
	Start    *StartHandler
	Catalog  *CatalogHandler
	Search   *SearchHandler
	Feedback *FeedbackHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
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
		Start:    &StartHandler{DB: db, Sessions: sessions, Sender: sender},
		Catalog:  &CatalogHandler{DB: db, Sessions: sessions, Sender: sender},
		Search:   &SearchHandler{Search: &search.Service{DB: db}, Sessions: sessions, Sender: sender},
		Feedback: &FeedbackHandler{Sessions: sessions, Sender: sender, ManagerChatID: testManagerChat},
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return env
}

func (env *testEnv) seedCity(t *testing.T, name string) models.City {
	t.Helper()
	city := models.City{Name: name}
	require.NoError(t, env.DB.Create(&city).Error)
	return city
}

func (env *testEnv) seedProduct(t *testing.T, cityID uint, name string, price float64) models.Product {
	t.Helper()
	p := models.Product{CityID: cityID, Name: name, Description: "опис", Price: price, Photo: "ph"}
	require.NoError(t, env.DB.Create(&p).Error)
	return p
}
