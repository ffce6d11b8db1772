package data

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// NewTable returns an empty table
func NewTable() *Table {
	return &Table{rows: make(map[int64]map[string]*Bar)}
}

// Set adds or replaces the bar for its date and symbol. The symbol is
// upper cased and the date normalised to UTC
func (t *Table) Set(b Bar) error {
	if b.Symbol == "" || b.Date.IsZero() {
		return fmt.Errorf("%w: symbol %q date %v", errInvalidBar, b.Symbol, b.Date)
	}
	c := b.Copy()
	c.Symbol = strings.ToUpper(c.Symbol)
	c.Date = c.Date.UTC()
	key := c.Date.Unix()
	day, ok := t.rows[key]
	if !ok {
		day = make(map[string]*Bar)
		t.rows[key] = day
	}
	day[c.Symbol] = &c
	t.dirty = true
	return nil
}

// SetIndicator stores an indicator value on an existing bar
func (t *Table) SetIndicator(date time.Time, symbol, column string, value float64) error {
	day, ok := t.rows[date.UTC().Unix()]
	if !ok {
		return fmt.Errorf("%w: %v %v", errBarNotFound, symbol, date)
	}
	b, ok := day[strings.ToUpper(symbol)]
	if !ok {
		return fmt.Errorf("%w: %v %v", errBarNotFound, symbol, date)
	}
	if b.Indicators == nil {
		b.Indicators = make(map[string]float64)
	}
	b.Indicators[column] = value
	return nil
}

// Get returns the bar for a date and symbol
func (t *Table) Get(date time.Time, symbol string) (Bar, bool) {
	day, ok := t.rows[date.UTC().Unix()]
	if !ok {
		return Bar{}, false
	}
	b, ok := day[strings.ToUpper(symbol)]
	if !ok {
		return Bar{}, false
	}
	return b.Copy(), true
}

// Len returns the number of bars held
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	var l int
	for _, day := range t.rows {
		l += len(day)
	}
	return l
}

func (t *Table) index() {
	if !t.dirty {
		return
	}
	t.dates = t.dates[:0]
	symbols := make(map[string]struct{})
	for key, day := range t.rows {
		t.dates = append(t.dates, time.Unix(key, 0).UTC())
		for s := range day {
			symbols[s] = struct{}{}
		}
	}
	sort.Slice(t.dates, func(i, j int) bool {
		return t.dates[i].Before(t.dates[j])
	})
	t.symbols = t.symbols[:0]
	for s := range symbols {
		t.symbols = append(t.symbols, s)
	}
	sort.Strings(t.symbols)
	t.dirty = false
}

// Dates returns the distinct dates held in ascending order
func (t *Table) Dates() []time.Time {
	if t == nil {
		return nil
	}
	t.index()
	resp := make([]time.Time, len(t.dates))
	copy(resp, t.dates)
	return resp
}

// Symbols returns the distinct symbols held in alphabetical order
func (t *Table) Symbols() []string {
	if t == nil {
		return nil
	}
	t.index()
	resp := make([]string, len(t.symbols))
	copy(resp, t.symbols)
	return resp
}

// SliceAt returns every bar for the date
func (t *Table) SliceAt(date time.Time) Slice {
	s := Slice{Date: date.UTC(), Bars: make(map[string]Bar)}
	if t == nil {
		return s
	}
	for sym, b := range t.rows[date.UTC().Unix()] {
		s.Bars[sym] = b.Copy()
	}
	return s
}

// Series returns the bars of a symbol in ascending date order
func (t *Table) Series(symbol string) []Bar {
	if t == nil {
		return nil
	}
	symbol = strings.ToUpper(symbol)
	var resp []Bar
	for _, d := range t.Dates() {
		if b, ok := t.rows[d.Unix()][symbol]; ok {
			resp = append(resp, b.Copy())
		}
	}
	return resp
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	c := NewTable()
	if t == nil {
		return c
	}
	for key, day := range t.rows {
		cd := make(map[string]*Bar, len(day))
		for s, b := range day {
			bc := b.Copy()
			cd[s] = &bc
		}
		c.rows[key] = cd
	}
	c.dirty = true
	return c
}

// Filter returns a copy of the table holding only the requested symbols
// between start and end inclusive. A zero start or end is unbounded
func (t *Table) Filter(symbols []string, start, end time.Time) *Table {
	c := NewTable()
	if t == nil {
		return c
	}
	wanted := make(map[string]struct{}, len(symbols))
	for x := range symbols {
		wanted[strings.ToUpper(symbols[x])] = struct{}{}
	}
	for key, day := range t.rows {
		d := time.Unix(key, 0).UTC()
		if !start.IsZero() && d.Before(start) {
			continue
		}
		if !end.IsZero() && d.After(end) {
			continue
		}
		for s, b := range day {
			if _, ok := wanted[s]; !ok && len(wanted) > 0 {
				continue
			}
			bc := b.Copy()
			cd, ok := c.rows[key]
			if !ok {
				cd = make(map[string]*Bar)
				c.rows[key] = cd
			}
			cd[s] = &bc
		}
	}
	c.dirty = true
	return c
}

// Prepare applies the generators to the table in order, returning the
// annotated table
func Prepare(t *Table, generators ...Generator) (*Table, error) {
	if t == nil {
		return nil, errNilTable
	}
	var err error
	for x := range generators {
		t, err = generators[x].Transform(t)
		if err != nil {
			return nil, fmt.Errorf("%w %v: %w", errGeneratorFailure, generators[x].Name(), err)
		}
		if t == nil {
			return nil, fmt.Errorf("%w %v: %w", errGeneratorFailure, generators[x].Name(), errNilTable)
		}
	}
	return t, nil
}
