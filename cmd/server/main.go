package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/config"
	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/handlers"
	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/logging"
	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/mailer"
	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/middleware"
	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/mykafka"
	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/repo"
	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	db, err := config.InitDB(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	prod := mykafka.NewProducer(cfg.KafkaBrokers)

	var sender mailer.Sender
	if cfg.SMTPAddr != "" {
		sender = &mailer.SMTP{Addr: cfg.SMTPAddr, From: cfg.SMTPFrom}
	} else {
		sender = &mailer.Log{L: logger}
	}

	r := &repo.GormRepo{DB: db}
	catalogSvc := &service.CatalogService{Repo: r}
	cartSvc := &service.CartService{Repo: r, Catalog: catalogSvc}
	orderSvc := &service.OrderService{Repo: r, Cart: cartSvc}
	paymentSvc := &service.PaymentService{Repo: r}
	verifySvc := &service.VerificationService{Repo: r, Mailer: sender, TTL: cfg.OTPTTL}
	userSvc := &service.UserService{Repo: r}
	contentSvc := &service.ContentService{Repo: r}

	e := echo.New()
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID(), middleware.RequestLogger(logger))
	e.Validator = handlers.NewValidator()

	deps := handlers.Deps{
		UserHandler:         &handlers.UserHandler{Svc: userSvc},
		CatalogHandler:      &handlers.CatalogHandler{Svc: catalogSvc},
		CartHandler:         &handlers.CartHandler{Svc: cartSvc},
		OrderHandler:        &handlers.OrderHandler{Svc: orderSvc, Producer: prod},
		PaymentHandler:      &handlers.PaymentHandler{Svc: paymentSvc, Producer: prod},
		VerificationHandler: &handlers.VerificationHandler{Svc: verifySvc},
		ContentHandler:      &handlers.ContentHandler{Svc: contentSvc},
		ServiceSecret:       cfg.ServiceSecret,
	}
	handlers.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
