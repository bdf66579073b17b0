// Command hubctl administers a launcher API deployment: it prepares local storage and
// drives the HTTP API as a client.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"launcher-api/internal/app"
	"launcher-api/internal/constants"
)

func main() {
	logger := app.SetupLogger()
	logger.SetOutput(os.Stderr)

	flags := pflag.NewFlagSet("hubctl", pflag.ExitOnError)
	flags.String("url", "http://localhost:"+constants.DefaultPort, "API base URL")
	flags.String("token", "", "bearer token")
	flags.String("username", "", "username for login")
	flags.String("password", "", "password for login")
	flags.String("group", constants.DefaultChatGroup, "chat group for watch")
	flags.Duration("interval", constants.DefaultPollInterval, "poll interval for watch")
	flags.Duration("timeout", constants.DefaultRequestTimeout, "request timeout")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: hubctl [flags] <command> [args]\n\nCommands:\n%s\nFlags:\n", commandUsage())
		flags.PrintDefaults()
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		logger.Fatal(err)
	}

	// Flags may also come from HUB_URL, HUB_TOKEN and so on
	v := viper.New()
	v.SetEnvPrefix("HUB")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		logger.Fatal("Failed to bind flags: ", err)
	}

	args := flags.Args()
	if len(args) == 0 {
		flags.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := &cli{v: v, logger: logger, out: os.Stdout}
	if err := c.run(ctx, args[0], args[1:]); err != nil {
		logger.Error(err)
		cancel()
		os.Exit(1)
	}
}
