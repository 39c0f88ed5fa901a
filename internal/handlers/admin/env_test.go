package admin

import (
	"context"
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
	testAdminID    int64 = 42
	testOutsiderID int64 = 7
)

type sentLog struct {
	mu   sync.Mutex
	msgs []chat.Message
}

func (s *sentLog) Send(_ context.Context, msg chat.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
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

type testEnv struct {
	DB       *gorm.DB
	Sessions *session.Store
	Sender   *sentLog
	Panel    *PanelHandler
	Cities   *CityHandler
	Products *ProductHandler
	Terms    *TermsHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:admin_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
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
	sender := &sentLog{}
	svc := &search.Service{DB: db}
	admins := []int64{testAdminID}

	env := &testEnv{
		DB:       db,
		Sessions: sessions,
		Sender:   sender,
		Panel:    &PanelHandler{Sender: sender, AdminIDs: admins},
		Cities:   &CityHandler{DB: db, Search: svc, Sessions: sessions, Sender: sender, AdminIDs: admins},
		Products: &ProductHandler{DB: db, Search: svc, Sessions: sessions, Sender: sender, AdminIDs: admins},
		Terms:    &TermsHandler{DB: db, Sessions: sessions, Sender: sender, AdminIDs: admins},
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return env
}

func adminUpdate(callback string) chat.Update {
	return chat.Update{User: chat.User{ID: testAdminID}, Callback: callback}
}

func adminText(text string) chat.Update {
	return chat.Update{User: chat.User{ID: testAdminID}, Text: text}
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
