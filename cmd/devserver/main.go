package main

import (
	"context"
	"log"
	"os"

	"github.com/study-upc/studyclient/internal/devserver"
	"github.com/study-upc/studyclient/internal/devserver/config"
	"github.com/study-upc/studyclient/internal/logging"
)

func main() {
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.LogFormat, os.Stdout, false)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	ctx := context.Background()
	app, err := devserver.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
