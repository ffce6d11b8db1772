package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"
)

var errNoSymbol = errors.New("no symbol provided")

var intervalFlag = &cli.StringFlag{
	Name:  "interval",
	Value: defaultInterval,
	Usage: "interval of the candle data",
}

var importCommand = &cli.Command{
	Name:      "import",
	Usage:     "imports candle data from a csv file with the header date,symbol,open,high,low,close,volume",
	ArgsUsage: "<file>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:      "file",
			Aliases:   []string{"f"},
			Usage:     "csv file to load candle data from",
			TakesFile: true,
		},
		intervalFlag,
	},
	Action: importCandles,
}

var listCommand = &cli.Command{
	Name:   "list",
	Usage:  "lists the symbols stored for an interval",
	Flags:  []cli.Flag{intervalFlag},
	Action: listSymbols,
}

var deleteCommand = &cli.Command{
	Name:      "delete",
	Usage:     "deletes every candle of a symbol for an interval",
	ArgsUsage: "<symbol>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "symbol",
			Usage: "symbol to delete",
		},
		intervalFlag,
	},
	Action: deleteCandles,
}

func importCandles(c *cli.Context) error {
	if c.NumFlags() == 0 && c.NArg() == 0 {
		return cli.ShowSubcommandHelp(c)
	}
	var path string
	if c.IsSet("file") {
		path = c.String("file")
	} else {
		path = c.Args().First()
	}
	db, err := connect(c)
	if err != nil {
		return err
	}
	defer db.Close()
	inserted, err := db.InsertFromCSV(c.Context, c.String("interval"), path)
	if err != nil {
		return err
	}
	fmt.Printf("Inserted %d candles from %v into %v\n", inserted, path, databasePath)
	return nil
}

func listSymbols(c *cli.Context) error {
	db, err := connect(c)
	if err != nil {
		return err
	}
	defer db.Close()
	symbols, err := db.Symbols(c.Context, c.String("interval"))
	if err != nil {
		return err
	}
	if len(symbols) == 0 {
		fmt.Printf("No %v candles stored in %v\n", c.String("interval"), databasePath)
		return nil
	}
	for _, s := range symbols {
		fmt.Println(s)
	}
	return nil
}

func deleteCandles(c *cli.Context) error {
	symbol := c.String("symbol")
	if symbol == "" {
		symbol = c.Args().First()
	}
	if symbol == "" {
		return errNoSymbol
	}
	db, err := connect(c)
	if err != nil {
		return err
	}
	defer db.Close()
	deleted, err := db.DeleteCandles(c.Context, symbol, c.String("interval"))
	if err != nil {
		return err
	}
	fmt.Printf("Deleted %d %v candles of %v\n", deleted, c.String("interval"), symbol)
	return nil
}
