package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"olilab/app"
	"olilab/config"
	"olilab/logging"
	"olilab/routes"

	"github.com/rs/zerolog/log"
)

func main() {
	config.LoadEnv()

	lg, err := logging.New().
		FromPath(config.Get("LOG_FILE", "")).
		Console(strings.EqualFold(config.Get("LOG_FORMAT", "json"), "console")).
		Level(config.Get("LOG_LEVEL", "info")).
		Make()
	if err != nil {
		log.Fatal().Err(err).Msg("init logger")
	}
	defer lg.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.MustNew(ctx, lg.Logger)
	defer application.Close()

	app.CheckAdmins(application.Engine.Snapshot(), lg.Logger)
	routes.RegisterRoutes(application.Router, application)

	port := application.Config.Port
	lg.Info().Str("port", port).Msg("listening")
	go func() {
		if err := application.Router.Run(":" + port); err != nil {
			lg.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()
	<-ctx.Done()
	lg.Info().Msg("shutting down")
}
