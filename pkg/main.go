package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	pkg "github.com/snapit-app/server/pkg/internal"
	"github.com/snapit-app/server/pkg/internal/cache"
	"github.com/snapit-app/server/pkg/internal/conf"
	"github.com/snapit-app/server/pkg/internal/database"
	"github.com/snapit-app/server/pkg/internal/http"
	"github.com/snapit-app/server/pkg/internal/services"
	"github.com/snapit-app/server/pkg/internal/storage"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Booting screen
	fmt.Println(color.YellowString(" ____                        _ _\n/ ___| _ __   __ _ _ __  (_) |_\n\\___ \\| '_ \\ / _` | '_ \\| | __|\n ___) | | | | (_| | |_) | | |_\n|____/|_| |_|\\__,_| .__/|_|\\__|\n                  |_|"))
	fmt.Printf("%s v%s\n", color.New(color.FgHiYellow).Add(color.Bold).Sprintf("Snapit"), pkg.AppVersion)
	fmt.Printf("The image pin-board service\n")
	color.HiBlack("=====================================================\n")

	// Load settings
	cfg, err := conf.Load()
	if err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}

	// Prepare local cache
	if err := cache.NewStore(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when initializing local cache.")
	}

	// Connect to object storage
	if err := storage.NewMinio(cfg); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connecting to object storage.")
	}

	// Connect to database
	if err := database.NewGorm(cfg); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connect to database.")
	} else if err := database.RunMigration(database.C); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
	}

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	quartz.AddFunc("@every 60m", services.DoAutoDatabaseCleanup)
	quartz.Start()

	// Server
	go http.NewServer(cfg).Listen()

	// Messages
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	quartz.Stop()
}
