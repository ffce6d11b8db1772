package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/quantbt/qbt/backtester/common"
	"github.com/quantbt/qbt/backtester/data"
	qbtcommon "github.com/quantbt/qbt/common"
	"github.com/quantbt/qbt/log"
)

// Header is the expected first row of a candle file
var Header = []string{"date", "symbol", "open", "high", "low", "close", "volume"}

var (
	errEmptyPath     = errors.New("csv path is empty")
	errInvalidHeader = errors.New("invalid csv header")
	errInvalidRow    = errors.New("invalid csv row")
)

// Source reads daily bars from a csv file
type Source struct {
	Path string
}

// NewSource returns a Source reading from path
func NewSource(path string) (*Source, error) {
	if path == "" {
		return nil, errEmptyPath
	}
	return &Source{Path: path}, nil
}

// GetPrice loads the file and returns the bars of the symbols between start
// and end inclusive. The file is expected to already be at the interval
// requested
func (s *Source) GetPrice(ctx context.Context, symbols []string, start, end time.Time, _ string) (*data.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Errorln(common.Data, closeErr)
		}
	}()
	tbl, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%v %w", s.Path, err)
	}
	resp := tbl.Filter(symbols, start, end)
	log.Debugf(common.Data, "loaded %d of %d bars from %v", resp.Len(), tbl.Len(), s.Path)
	return resp, nil
}

// Read parses a candle csv with the header date,symbol,open,high,low,close,volume
func Read(r io.Reader) (*data.Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", errInvalidHeader)
		}
		return nil, err
	}
	if len(header) != len(Header) {
		return nil, fmt.Errorf("%w: %v", errInvalidHeader, header)
	}
	for x := range header {
		if !strings.EqualFold(strings.TrimSpace(header[x]), Header[x]) {
			return nil, fmt.Errorf("%w: %v", errInvalidHeader, header)
		}
	}
	tbl := data.NewTable()
	line := 1
	for {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		line++
		b, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d %w", line, err)
		}
		if err := tbl.Set(b); err != nil {
			return nil, fmt.Errorf("line %d %w", line, err)
		}
	}
	return tbl, nil
}

func parseRow(row []string) (data.Bar, error) {
	var b data.Bar
	date, err := ParseDate(row[0])
	if err != nil {
		return b, fmt.Errorf("%w: %w", errInvalidRow, err)
	}
	b.Date = date
	b.Symbol = strings.ToUpper(strings.TrimSpace(row[1]))
	values := make([]float64, 5)
	for x := range values {
		values[x], err = strconv.ParseFloat(strings.TrimSpace(row[x+2]), 64)
		if err != nil {
			return b, fmt.Errorf("%w %v: %w", errInvalidRow, Header[x+2], err)
		}
	}
	b.Open, b.High, b.Low, b.Close, b.Volume = values[0], values[1], values[2], values[3], values[4]
	return b, nil
}

// ParseDate accepts a plain date or an RFC3339 timestamp
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(qbtcommon.DateFormat, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// Write writes the table in the format Read accepts
func Write(w io.Writer, tbl *data.Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return err
	}
	for _, d := range tbl.Dates() {
		s := tbl.SliceAt(d)
		for _, sym := range s.Symbols() {
			b := s.Bars[sym]
			err := writer.Write([]string{
				d.Format(qbtcommon.DateFormat),
				sym,
				strconv.FormatFloat(b.Open, 'f', -1, 64),
				strconv.FormatFloat(b.High, 'f', -1, 64),
				strconv.FormatFloat(b.Low, 'f', -1, 64),
				strconv.FormatFloat(b.Close, 'f', -1, 64),
				strconv.FormatFloat(b.Volume, 'f', -1, 64),
			})
			if err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}
