/*
Ordermgr opens the order database, creates its tables if asked to, and runs the
demo order: one item, one user, one order and a single order line, then prints
the order's lines and total.

Usage:

	ordermgr [flags]

Settings come from the environment (DB_DRIVER, DB_DSN, LOG_LEVEL, LOG_FORMAT and
the DB_* pool settings); with GO_ENV=local a .env file in the working directory
is loaded first. Flags override the environment.

The flags are:

	-d, --driver NAME
		Database driver: sqlite (default) or pgx.

	--dsn DSN
		Data source name passed to the driver.

	-l, --log-level LEVEL
		One of debug, info, warn, error.

	--bootstrap
		Create the item, user, order and order_item tables if missing.
		Defaults to true.
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/pflag"
	_ "modernc.org/sqlite"

	"ordermgr/app/cart"
	"ordermgr/config"
	"ordermgr/data/db/basic"
	"ordermgr/data/orm/repo"
	"ordermgr/domain/model"
	"ordermgr/logging"
	"ordermgr/store"
)

const (
	exitSuccess   = 0
	exitError     = 1
	exitPanic     = 2
	exitInterrupt = 3
)

var exitCode = exitSuccess

var (
	flagDriver    = pflag.StringP("driver", "d", "", "Database driver (sqlite, pgx)")
	flagDSN       = pflag.String("dsn", "", "Data source name")
	flagLogLevel  = pflag.StringP("log-level", "l", "", "Log level (debug, info, warn, error)")
	flagBootstrap = pflag.Bool("bootstrap", true, "Create tables if they do not exist")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			fmt.Fprintf(os.Stderr, "fatal panic: %v\n", panicErr)
			exitCode = exitPanic
		}
		os.Exit(exitCode)
	}()

	pflag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		exitCode = exitError
		return
	}
	if *flagDriver != "" {
		cfg.DB.Driver = *flagDriver
	}
	if *flagDSN != "" {
		cfg.DB.DSN = *flagDSN
	}
	if *flagLogLevel != "" {
		cfg.Log.Level = *flagLogLevel
	}

	logger, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		exitCode = exitError
		return
	}
	logging.SetLogger(logger)

	if err := run(ctx, cfg, logger); err != nil {
		if ctx.Err() != nil {
			logger.Warn(ctx, "interrupted")
			exitCode = exitInterrupt
			return
		}
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		exitCode = exitError
	}
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	logger.Info(ctx, "opening database", logging.String("driver", cfg.DB.Driver))
	db, err := basic.New(cfg.DBConfig())
	if err != nil {
		return err
	}
	defer db.Close()

	if *flagBootstrap {
		if err := store.Bootstrap(ctx, db); err != nil {
			return err
		}
	}

	stores, err := store.New(db, repo.WithLogger(logger))
	if err != nil {
		return err
	}
	svc := cart.New(db, stores, cart.WithLogger(logger))

	item, err := stores.Items.Insert(ctx, &model.Item{Name: "Candy", Price: 4.30, Stock: 10})
	if err != nil {
		return err
	}
	logger.Info(ctx, "item created",
		logging.Int64("id", item.ID),
		logging.String("name", item.Name),
		logging.Float64("price", item.Price))

	user, err := stores.Users.Insert(ctx, &model.User{Email: "bob@bobson.com"})
	if err != nil {
		return err
	}
	logger.Info(ctx, "user created", logging.Int64("id", user.ID), logging.String("email", user.Email))

	order, err := stores.Orders.Insert(ctx, &model.Order{UserID: user.ID})
	if err != nil {
		return err
	}
	logger.Info(ctx, "order created", logging.Int64("id", order.ID), logging.Int64("user_id", order.UserID))

	if _, err := svc.AddLine(ctx, order.ID, item.ID, 3); err != nil {
		return err
	}

	lines, err := svc.Lines(ctx, order.ID)
	if err != nil {
		return err
	}
	for _, l := range lines {
		fmt.Printf("%-12s %3d x %8.2f = %8.2f\n", l.ItemName, l.Amount, l.Price, l.Subtotal)
	}
	total, err := svc.Total(ctx, order.ID)
	if err != nil {
		return err
	}
	fmt.Printf("%-12s %25.2f\n", "TOTAL", total)
	return nil
}
