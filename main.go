package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"timesheets/config"
	"timesheets/database"
	"timesheets/handlers"
	"timesheets/middleware"
	"timesheets/notify"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	middleware.SetJWTSecret(cfg.JWTSecret)

	if err := database.Init(cfg); err != nil {
		logrus.WithError(err).Fatal("failed to initialize database")
	}

	var sender notify.Sender
	if cfg.ResendAPIKey != "" {
		sender = notify.NewResendSender(cfg.ResendAPIKey, cfg.NotifyFrom, cfg.NotifyAdminTo)
	} else {
		logrus.Warn("email notifications disabled: RESEND_API_KEY not configured")
	}
	dispatcher := notify.NewDispatcher(sender, 64)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: handlers.NewRouter(&cfg, dispatcher),
	}

	go func() {
		logrus.WithField("port", cfg.ServerPort).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logrus.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("server shutdown failed")
	}
	dispatcher.Close()
}
