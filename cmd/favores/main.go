package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/vecinoapp/favores-service/internal/auth"
	"github.com/vecinoapp/favores-service/internal/config"
	"github.com/vecinoapp/favores-service/internal/repository/postgres"
	"github.com/vecinoapp/favores-service/internal/service"
	"github.com/vecinoapp/favores-service/internal/stream"
	myhttp "github.com/vecinoapp/favores-service/internal/transport/http"
	"github.com/vecinoapp/favores-service/pkg/logger/slogpretty"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.MustLoad()
	log := slogpretty.SetupLogger(cfg.Env)

	log.Info("starting favores-service", slog.String("env", cfg.Env))

	errChan := make(chan error, 1)

	db, err := postgres.NewDB(cfg.Postgres, log)
	if err != nil {
		return fmt.Errorf("failed to init db: %v", err)
	}
	defer func() {
		err = db.DB().Close()
		if err != nil {
			errChan <- fmt.Errorf("db close failed: %v", err)
		}
	}()

	userRepo := postgres.NewUserRepository(db.DB(), log)
	favorRepo := postgres.NewFavorRepository(db.DB(), log)
	chatRepo := postgres.NewChatRepository(db.DB(), log)
	ratingRepo := postgres.NewRatingRepository(db.DB(), log)
	notificationRepo := postgres.NewNotificationRepository(db.DB(), log)

	broker := stream.NewBroker()
	tokens := auth.NewManager(cfg.Auth)

	ratingService := service.NewRatingService(db.DB(), log, ratingRepo, favorRepo)
	userService := service.NewUserService(log, userRepo, ratingService, tokens, cfg.Auth.BcryptCost)
	favorService := service.NewFavorService(db.DB(), db.DB(), log, favorRepo, userRepo, notificationRepo)
	chatService := service.NewChatService(db.DB(), log, chatRepo, notificationRepo, broker)
	notificationService := service.NewNotificationService(log, notificationRepo)

	srv := myhttp.NewServer(log, tokens, userService, favorService, chatService, ratingService, notificationService)
	httpServer := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler: srv.Routes(),
	}

	go startServer(log, httpServer, errChan)

	select {
	case err := <-errChan:
		return fmt.Errorf("http server error: %v", err)

	case <-ctx.Done():
		log.Info("stopping server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shuting down http server: %v", err)
	}

	return nil
}

func startServer(log *slog.Logger, httpServer *http.Server, errChan chan error) {
	defer close(errChan)

	log.Info("service started", slog.String("addr", httpServer.Addr))

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		errChan <- fmt.Errorf("error listening and serving: %v", err)
	}
}
