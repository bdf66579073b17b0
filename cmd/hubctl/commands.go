package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"launcher-api/internal/app"
	"launcher-api/internal/config"
	"launcher-api/internal/models"
	"launcher-api/internal/storage"
	"launcher-api/pkg/hubclient"
)

type command struct {
	usage string
	args  int
	run   func(c *cli, ctx context.Context, args []string) error
}

var commandHandlers = map[string]command{
	"init-store":  {"create empty collection files for the configured store", 0, (*cli).initStore},
	"routes":      {"list the API route table", 0, (*cli).listRoutes},
	"health":      {"show server health", 0, (*cli).health},
	"login":       {"log in with --username and --password and print the token", 0, (*cli).login},
	"users":       {"list users (admin)", 0, (*cli).users},
	"grant":       {"grant premium to USER (admin)", 1, (*cli).grant},
	"revoke":      {"remove premium from USER (admin)", 1, (*cli).revoke},
	"delete-user": {"delete USER (admin)", 1, (*cli).deleteUser},
	"payments":    {"list payments (admin)", 0, (*cli).payments},
	"confirm":     {"confirm payment ID (admin)", 1, (*cli).confirm},
	"broadcast":   {"broadcast MESSAGE to every client (admin)", 1, (*cli).broadcast},
	"watch":       {"poll chat messages and broadcasts until interrupted", 0, (*cli).watch},
}

// commandUsage lists the commands in alphabetical order
func commandUsage() string {
	names := make([]string, 0, len(commandHandlers))
	for name := range commandHandlers {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "  %-12s %s\n", name, commandHandlers[name].usage)
	}
	return b.String()
}

type cli struct {
	v      *viper.Viper
	logger *logrus.Logger
	out    io.Writer
}

func (c *cli) run(ctx context.Context, name string, args []string) error {
	cmd, ok := commandHandlers[name]
	if !ok {
		return fmt.Errorf("unknown command %q", name)
	}
	if len(args) < cmd.args {
		return fmt.Errorf("%s: expected %d argument(s)", name, cmd.args)
	}
	return cmd.run(c, ctx, args)
}

func (c *cli) client() *hubclient.Client {
	client := hubclient.NewClient(c.v.GetString("url"), c.logger, hubclient.WithTimeout(c.v.GetDuration("timeout")))
	client.SetToken(c.v.GetString("token"))
	return client
}

func (c *cli) print(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.out, string(data))
	return err
}

func (c *cli) initStore(ctx context.Context, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := storage.Open(ctx, cfg.Store, c.logger)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	created, err := store.Init(ctx)
	if err != nil {
		return err
	}

	if len(created) == 0 {
		c.logger.Info("All collections already exist")
		return nil
	}
	c.logger.Infof("Created %s in %s storage", strings.Join(created, ", "), store.Backend)
	return nil
}

func (c *cli) listRoutes(ctx context.Context, _ []string) error {
	cfg := &config.Config{
		Store: config.StoreConfig{Backend: config.BackendMemory},
		Auth:  config.AuthConfig{TokenMode: "plain"},
	}

	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	a, err := app.New(ctx, cfg, quiet)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	for _, key := range a.Router.Routes() {
		fmt.Fprintln(c.out, key)
	}
	return nil
}

func (c *cli) health(ctx context.Context, _ []string) error {
	resp, err := c.client().Health(ctx)
	if err != nil {
		return err
	}
	return c.print(resp)
}

func (c *cli) login(ctx context.Context, _ []string) error {
	username := c.v.GetString("username")
	if username == "" {
		return errors.New("login requires --username")
	}

	resp, err := c.client().Login(ctx, username, c.v.GetString("password"))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.out, resp.Token)
	return err
}

func (c *cli) users(ctx context.Context, _ []string) error {
	resp, err := c.client().Users(ctx)
	if err != nil {
		return err
	}
	return c.print(resp.Users)
}

func (c *cli) grant(ctx context.Context, args []string) error {
	resp, err := c.client().SetPremium(ctx, args[0], true)
	if err != nil {
		return err
	}
	return c.print(resp)
}

func (c *cli) revoke(ctx context.Context, args []string) error {
	resp, err := c.client().SetPremium(ctx, args[0], false)
	if err != nil {
		return err
	}
	return c.print(resp)
}

func (c *cli) deleteUser(ctx context.Context, args []string) error {
	resp, err := c.client().DeleteUser(ctx, args[0])
	if err != nil {
		return err
	}
	return c.print(resp)
}

func (c *cli) payments(ctx context.Context, _ []string) error {
	resp, err := c.client().Payments(ctx)
	if err != nil {
		return err
	}
	return c.print(resp.Payments)
}

func (c *cli) confirm(ctx context.Context, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid payment id %q", args[0])
	}

	resp, err := c.client().ConfirmPayment(ctx, id)
	if err != nil {
		return err
	}
	return c.print(resp)
}

func (c *cli) broadcast(ctx context.Context, args []string) error {
	resp, err := c.client().Broadcast(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	return c.print(resp.Broadcast)
}

func (c *cli) watch(ctx context.Context, _ []string) error {
	poller := hubclient.NewPoller(c.client(), c.v.GetString("group"), c.v.GetDuration("interval"), c.logger).
		OnMessages(func(msgs []models.Message) {
			for _, m := range msgs {
				fmt.Fprintf(c.out, "[%s] %s (%s): %s\n", m.Group, m.Username, m.Tier, m.Message)
			}
		}).
		OnBroadcasts(func(bs []models.Broadcast) {
			for _, b := range bs {
				fmt.Fprintf(c.out, "[broadcast] %s\n", b.Message)
			}
		})

	err := poller.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
