package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/phenrril/gge-dashboard/internal/app"
	"github.com/phenrril/gge-dashboard/internal/config"
	"github.com/phenrril/gge-dashboard/internal/logging"
)

func main() {
	cfg := config.Load()
	if closer := logging.Setup(cfg.LogLevel, cfg.LogFile); closer != nil {
		defer closer.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApp(ctx, cfg)
	if err != nil {
		zlog.Fatal().Err(err).Msg("falha ao iniciar app")
	}
	defer application.Close()

	port := cfg.Port
	ln, err := net.Listen("tcp", ":"+port)
	if err != nil && cfg.IsDev() {
		for p := 8081; p <= 8090; p++ {
			l2, err2 := net.Listen("tcp", net.JoinHostPort("", fmt.Sprint(p)))
			if err2 == nil {
				ln, err = l2, nil
				port = fmt.Sprint(p)
				break
			}
		}
	}
	if err != nil {
		zlog.Fatal().Err(err).Str("port", cfg.Port).Msg("abrir porta")
	}

	server := &http.Server{
		Handler:           application.HTTPHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zlog.Info().Str("port", port).Str("env", cfg.Env).Msg("painel de anúncios no ar")
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error().Err(err).Msg("servidor http")
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	zlog.Info().Msg("encerrado")
}
