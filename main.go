// Command may15 serves the tags, users and blogs API.
//
// It reads its configuration from the environment (optionally seeded from a .env file),
// builds the document store gateway selected by CONNECTION_STRING and listens on PORT.
//
//	may15 serve     # default
//	may15 migrate   # create the PostgreSQL schema and exit
//
// @title may15 content API
// @version 1.0
// @description Tags, users and blogs over a document store.
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @BasePath /
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	// `godotenv` loads environment variables from a .env file, useful for development.
	"github.com/joho/godotenv"
	// `cli` parses the command line into the serve and migrate commands.
	"github.com/urfave/cli/v2"

	"github.com/user/may15-go/apperror"
	"github.com/user/may15-go/config"
	"github.com/user/may15-go/db"
	"github.com/user/may15-go/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "may15",
		Usage: "tags, users and blogs API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "dotenv file to load before reading the environment",
				Value: ".env",
			},
		},
		Before: func(c *cli.Context) error {
			// A missing .env is normal outside development.
			if err := godotenv.Load(c.String("env-file")); err != nil && c.IsSet("env-file") {
				return fmt.Errorf("load %s: %w", c.String("env-file"), err)
			}
			return nil
		},
		Action: serveCommand,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "start the HTTP server (default)",
				Action: serveCommand,
			},
			{
				Name:   "migrate",
				Usage:  "apply the PostgreSQL schema migrations and exit",
				Action: migrateCommand,
			},
		},
	}
}

// exitCodeConfig is the process status for an invalid or incomplete environment.
const exitCodeConfig = 2

func loadConfig() (*config.AppConfig, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		code := 1
		if apperror.IsConfigError(err) {
			code = exitCodeConfig
		}
		return nil, cli.Exit(fmt.Sprintf("failed to load config: %v", err), code)
	}
	return cfg, nil
}

func serveCommand(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logging.New(os.Stderr, cfg.Log)

	return serve(c.Context, cfg, log)
}

func migrateCommand(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logging.New(os.Stderr, cfg.Log)

	driver, err := cfg.Store.Driver()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if driver != config.DriverPostgres {
		log.Info(c.Context, "nothing to migrate", "driver", driver)
		return nil
	}

	if err := db.RunMigrations(cfg.Store.ConnectionURI()); err != nil {
		return cli.Exit(fmt.Sprintf("migrations failed: %v", err), 1)
	}
	log.Info(c.Context, "migrations applied")
	return nil
}
