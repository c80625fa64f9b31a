package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JerryLinyx/pilotts/config"
	"github.com/JerryLinyx/pilotts/global"
	"github.com/JerryLinyx/pilotts/router"
)

func main() {
	config.InitConfig()

	// Run database migrations
	config.MigrateDB()
	config.Seed()
	config.InitServices()

	r := router.InitRouter(config.AppConfig.App.FrontendOrigins)
	port := config.AppConfig.App.Port
	if port == "" {
		port = ":8080"
	}
	srv := &http.Server{
		Addr:    port,
		Handler: r,
	}

	go func() {
		global.Logger.Info("server listening", "addr", port, "app", config.AppConfig.App.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			global.Logger.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	global.Logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		global.Logger.Error("server shutdown failed", "error", err)
	}
	if err := global.RedisDB.Close(); err != nil {
		global.Logger.Warn("closing redis", "error", err)
	}
	if sqlDB, err := global.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	global.Logger.Info("server exiting")
}
