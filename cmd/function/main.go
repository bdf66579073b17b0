// Command function handles a single serverless invocation: it reads one event as JSON
// from stdin and writes the response as JSON to stdout.
package main

import (
	"context"
	"encoding/json"
	"os"

	"launcher-api/internal/app"
	"launcher-api/internal/config"
	"launcher-api/internal/constants"
	"launcher-api/pkg/netlifyfn"
)

func main() {
	logger := app.SetupLogger()
	// stdout carries the response
	logger.SetOutput(os.Stderr)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration: ", err)
	}
	app.ConfigureLogger(logger, cfg.LogLevel, cfg.LogFormat)

	// Invocations share nothing in memory, so every call starts from the store
	cfg.Store.ReloadPerRequest = true

	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultRequestTimeout)
	defer cancel()

	var ev netlifyfn.Event
	if err := json.NewDecoder(os.Stdin).Decode(&ev); err != nil {
		logger.Fatal("Failed to decode event: ", err)
	}

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize: ", err)
	}
	defer a.Close(context.Background())

	result := netlifyfn.New(a.Router, logger).Invoke(ctx, ev)
	if err := json.NewEncoder(os.Stdout).Encode(result); err != nil {
		logger.Error("Failed to write result: ", err)
	}
}
