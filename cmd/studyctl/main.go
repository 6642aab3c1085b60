// Package main implements studyctl, a command line client for the study desk.
// It talks to a LAN server when --server is set and to a local database
// otherwise.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"studydesk/backend/internal/config"
	"studydesk/backend/internal/db"
	"studydesk/backend/internal/focus"
	"studydesk/backend/internal/gateway"
	"studydesk/backend/internal/gateway/lan"
	"studydesk/backend/internal/logger"
	"studydesk/backend/internal/service"
	"studydesk/backend/internal/srs"
	"studydesk/backend/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var (
	serverFlag  string
	dbFlag      string
	recentsFlag string
	quietFlag   bool
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:           "studyctl",
	Short:         "Study desk client: focus runs, templates, quizzes and weekly review",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&serverFlag, "server", "", "LAN server base URL (default $STUDYDESK_SERVER, local database when empty)")
	flags.StringVar(&dbFlag, "db", "", "local database path (default $DB_PATH)")
	flags.StringVar(&recentsFlag, "recents", "", "recent templates file (default $STUDYDESK_RECENTS)")
	flags.BoolVarP(&quietFlag, "quiet", "q", false, "print only ids of created records")
	flags.BoolVarP(&verboseFlag, "verbose", "v", false, "log background writes to stderr")
}

// client holds the gateway chosen for one command invocation.
type client struct {
	gw      gateway.Gateway
	store   focus.Store
	cfg     config.Config
	log     *logger.Logger
	closeFn func() error
}

func (c *client) Close() error {
	if c.closeFn == nil {
		return nil
	}
	return c.closeFn()
}

func openClient(ctx context.Context) (*client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.NewNop()
	if verboseFlag {
		if log, err = logger.New(cfg.LogMode); err != nil {
			return nil, err
		}
	}

	server := serverFlag
	if server == "" {
		server = cfg.ServerURL
	}
	if server != "" {
		remote := lan.NewClient(server)
		return &client{gw: remote, store: remote, cfg: cfg, log: log}, nil
	}

	path := dbFlag
	if path == "" {
		path = cfg.DBPath
	}
	database, err := db.Open(path, migrations.Source(cfg.MigrationsDir))
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	local := gateway.NewLocal(service.New(database, srs.NewScheduler(cfg.SRS.Params())), "")
	return &client{gw: local, store: local, cfg: cfg, log: log, closeFn: database.Close}, nil
}

func (c *client) recentsPath() (string, error) {
	if recentsFlag != "" {
		return recentsFlag, nil
	}
	if c.cfg.RecentsPath != "" {
		return c.cfg.RecentsPath, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.New("no recents path: set --recents or STUDYDESK_RECENTS")
	}
	return filepath.Join(dir, "studydesk", "recents.json"), nil
}

// templates builds a manager whose recents are persisted after fn returns.
func (c *client) withTemplates(fn func(*focus.TemplateManager) error) error {
	path, err := c.recentsPath()
	if err != nil {
		return err
	}
	recents, err := focus.LoadRecents(path)
	if err != nil {
		return err
	}
	manager := focus.NewTemplateManager(c.gw, recents)
	if err := fn(manager); err != nil {
		return err
	}
	return recents.Save(path)
}

// run opens a client for the duration of fn.
func run(cmd *cobra.Command, fn func(ctx context.Context, c *client) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	c, err := openClient(ctx)
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(ctx, c)
}
