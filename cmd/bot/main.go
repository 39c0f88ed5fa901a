package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flowershop-bot/internal/config"
	"flowershop-bot/internal/dispatcher"
	"flowershop-bot/internal/events"
	"flowershop-bot/internal/handlers"
	"flowershop-bot/internal/handlers/admin"
	"flowershop-bot/internal/handlers/cart"
	"flowershop-bot/internal/logging"
	"flowershop-bot/internal/search"
	"flowershop-bot/internal/session"
	"flowershop-bot/internal/transport"
	"flowershop-bot/internal/transport/webhook"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("Помилка ініціалізації БД: %v", err)
	}

	var producer *events.Producer
	if configuration.KAFKA_ADDRESS != "" {
		producer = events.NewProducer(configuration.KAFKA_ADDRESS)
	}

	esClient, err := search.NewClient(configuration)
	if err != nil {
		log.Fatal(err)
	}
	searchSvc := &search.Service{DB: db, ES: esClient}

	sessions := session.NewStore(configuration.SESSION_TTL)

	bridge := webhook.New(configuration.OUTBOUND_URL, logger)

	deps := transport.Deps{
		StartHandler:    &handlers.StartHandler{DB: db, Sessions: sessions, Sender: bridge},
		CatalogHandler:  &handlers.CatalogHandler{DB: db, Sessions: sessions, Sender: bridge},
		SearchHandler:   &handlers.SearchHandler{Search: searchSvc, Sessions: sessions, Sender: bridge},
		FeedbackHandler: &handlers.FeedbackHandler{Sessions: sessions, Sender: bridge, ManagerChatID: configuration.MANAGER_CHAT_ID},
		CartHandler:     &cart.CartHandler{DB: db, Producer: producer, Sessions: sessions, Sender: bridge},
		OrderHandler:    &cart.OrderHandler{DB: db, Producer: producer, Sessions: sessions, Sender: bridge, ManagerChatID: configuration.MANAGER_CHAT_ID, AdminIDs: configuration.ADMIN_IDS},
		DecisionHandler: &cart.DecisionHandler{DB: db, Producer: producer, Sessions: sessions, Sender: bridge, AdminIDs: configuration.ADMIN_IDS},
		PanelHandler:    &admin.PanelHandler{Sender: bridge, AdminIDs: configuration.ADMIN_IDS},
		CityHandler:     &admin.CityHandler{DB: db, Search: searchSvc, Sessions: sessions, Sender: bridge, AdminIDs: configuration.ADMIN_IDS},
		ProductHandler:  &admin.ProductHandler{DB: db, Search: searchSvc, Sessions: sessions, Sender: bridge, AdminIDs: configuration.ADMIN_IDS},
		TermsHandler:    &admin.TermsHandler{DB: db, Sessions: sessions, Sender: bridge, AdminIDs: configuration.ADMIN_IDS},
	}

	d := dispatcher.New(logger, sessions, bridge)
	transport.Register(d, &deps)

	ctx, cancel := context.WithCancel(logging.IntoContext(context.Background(), logger))
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		d.Run(ctx, bridge.Updates())
	}()

	addr := configuration.LISTEN_ADDR
	if addr == "" {
		addr = ":8080"
	}
	go func() {
		if err := bridge.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("webhook server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := bridge.Shutdown(shutdownCtx); err != nil {
		log.Printf("webhook shutdown error: %v", err)
	}

	<-done
	cancel()

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
