package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/quantbt/qbt/backtester/data/database"
	"github.com/urfave/cli/v2"
)

const defaultInterval = "1d"

var databasePath string

func main() {
	app := &cli.App{
		Name:                 "dbseed",
		Usage:                "seeds the backtester candle database",
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "database",
				Aliases:     []string{"d"},
				Value:       "candles.db",
				Usage:       "path to the sqlite3 candle database, created when missing",
				EnvVars:     []string{"QBT_DATA_SETTINGS_DATABASE_PATH"},
				Destination: &databasePath,
				TakesFile:   true,
			},
		},
		Before: func(_ *cli.Context) error {
			if _, err := os.Stat(".env"); err == nil {
				return godotenv.Load()
			}
			return nil
		},
		Commands: []*cli.Command{
			importCommand,
			listCommand,
			deleteCommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func connect(c *cli.Context) (*database.Source, error) {
	return database.Connect(c.Context, databasePath)
}
