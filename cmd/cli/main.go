package main

import (
	"context"
	"log"
	"os"

	"github.com/study-upc/studyclient/internal/client/cli"
	"github.com/study-upc/studyclient/internal/client/config"
	"github.com/study-upc/studyclient/internal/logging"
)

func main() {
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// the REPL owns stdout, so logs go to stderr
	logger, err := logging.New(cfg.LogFormat, os.Stderr, cfg.Debug)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	ctx := context.Background()
	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
