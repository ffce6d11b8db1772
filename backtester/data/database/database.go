package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	// import sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/quantbt/qbt/backtester/common"
	"github.com/quantbt/qbt/backtester/data"
	"github.com/quantbt/qbt/backtester/data/csv"
	"github.com/quantbt/qbt/log"
)

const schema = `CREATE TABLE IF NOT EXISTS candle (
	id TEXT PRIMARY KEY NOT NULL,
	symbol TEXT NOT NULL,
	interval TEXT NOT NULL,
	timestamp TEXT NOT NULL,
	open REAL NOT NULL,
	high REAL NOT NULL,
	low REAL NOT NULL,
	close REAL NOT NULL,
	volume REAL NOT NULL,
	UNIQUE (symbol, interval, timestamp) ON CONFLICT REPLACE
);`

var (
	// ErrNoDatabaseProvided is returned when no database path is set
	ErrNoDatabaseProvided = errors.New("no database provided")
	// ErrDatabaseNotConnected is returned when the source has been closed
	ErrDatabaseNotConnected = errors.New("database not connected")

	errNoCandleData    = errors.New("no candle data provided")
	errInvalidInterval = errors.New("invalid interval")
)

// Source is a data.Source backed by a sqlite3 candle table
type Source struct {
	path string
	db   *sql.DB
}

// Connect opens the sqlite3 database at path, creating the candle table when
// it does not exist
func Connect(ctx context.Context, path string) (*Source, error) {
	if path == "" {
		return nil, ErrNoDatabaseProvided
	}
	dbConn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	dbConn.SetMaxOpenConns(1)
	if _, err = dbConn.ExecContext(ctx, schema); err != nil {
		if closeErr := dbConn.Close(); closeErr != nil {
			log.Errorln(common.Database, closeErr)
		}
		return nil, err
	}
	log.Debugf(common.Database, "connected to %v", path)
	return &Source{path: path, db: dbConn}, nil
}

// Close closes the underlying connection
func (s *Source) Close() error {
	if s == nil || s.db == nil {
		return ErrDatabaseNotConnected
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Insert stores every bar of the table against the interval, replacing bars
// already stored for the same symbol, interval and timestamp
func (s *Source) Insert(ctx context.Context, interval string, tbl *data.Table) (uint64, error) {
	if s == nil || s.db == nil {
		return 0, ErrDatabaseNotConnected
	}
	if interval == "" {
		return 0, errInvalidInterval
	}
	if tbl.Len() == 0 {
		return 0, errNoCandleData
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	var totalInserted uint64
	for _, d := range tbl.Dates() {
		slice := tbl.SliceAt(d)
		for _, sym := range slice.Symbols() {
			b := slice.Bars[sym]
			var id uuid.UUID
			id, err = uuid.NewV4()
			if err != nil {
				break
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO candle (id, symbol, interval, timestamp, open, high, low, close, volume) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				id.String(), sym, interval, d.UTC().Format(time.RFC3339), b.Open, b.High, b.Low, b.Close, b.Volume)
			if err != nil {
				break
			}
			totalInserted++
		}
		if err != nil {
			break
		}
	}
	if err != nil {
		if errRB := tx.Rollback(); errRB != nil {
			log.Errorln(common.Database, errRB)
		}
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return totalInserted, nil
}

// InsertFromCSV imports a candle csv file into the database
func (s *Source) InsertFromCSV(ctx context.Context, interval, file string) (uint64, error) {
	f, err := os.Open(file)
	if err != nil {
		return 0, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Errorln(common.Database, closeErr)
		}
	}()
	tbl, err := csv.Read(f)
	if err != nil {
		return 0, fmt.Errorf("%v %w", file, err)
	}
	return s.Insert(ctx, interval, tbl)
}

// GetPrice returns the stored bars for the symbols and interval between start
// and end inclusive
func (s *Source) GetPrice(ctx context.Context, symbols []string, start, end time.Time, interval string) (*data.Table, error) {
	if s == nil || s.db == nil {
		return nil, ErrDatabaseNotConnected
	}
	if len(symbols) == 0 {
		return nil, common.ErrEmptyUniverse
	}
	if end.IsZero() {
		end = time.Now()
	}
	args := make([]any, 0, len(symbols)+3)
	args = append(args, interval, start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339))
	placeholders := make([]string, len(symbols))
	for x := range symbols {
		placeholders[x] = "?"
		args = append(args, strings.ToUpper(symbols[x]))
	}
	query := `SELECT symbol, timestamp, open, high, low, close, volume FROM candle
		WHERE interval = ? AND timestamp BETWEEN ? AND ? AND symbol IN (` + strings.Join(placeholders, ",") + `)
		ORDER BY timestamp`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Errorln(common.Database, closeErr)
		}
	}()
	tbl := data.NewTable()
	for rows.Next() {
		var (
			b  data.Bar
			ts string
		)
		if err = rows.Scan(&b.Symbol, &ts, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, err
		}
		b.Date, err = time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, err
		}
		if err = tbl.Set(b); err != nil {
			return nil, err
		}
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	log.Debugf(common.Database, "loaded %d bars for %v", tbl.Len(), symbols)
	return tbl, nil
}

// Symbols returns the distinct symbols stored for an interval
func (s *Source) Symbols(ctx context.Context, interval string) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, ErrDatabaseNotConnected
	}
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT symbol FROM candle WHERE interval = ? ORDER BY symbol`, interval)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Errorln(common.Database, closeErr)
		}
	}()
	var resp []string
	for rows.Next() {
		var sym string
		if err = rows.Scan(&sym); err != nil {
			return nil, err
		}
		resp = append(resp, sym)
	}
	return resp, rows.Err()
}

// DeleteCandles removes every bar stored for a symbol and interval
func (s *Source) DeleteCandles(ctx context.Context, symbol, interval string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, ErrDatabaseNotConnected
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM candle WHERE symbol = ? AND interval = ?`, strings.ToUpper(symbol), interval)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
