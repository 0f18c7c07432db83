package costbasis

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Price series are persisted as one JSONL file per ticker, one line per
// day, so that they stay human-readable and git-friendly:
//
//	{"date":"2025-01-02","close":"243.85"}

// jprice is a line of a price series file.
type jprice struct {
	Date  Date            `json:"date"`
	Close decimal.Decimal `json:"close"`
}

// DecodeHistory reads a JSONL price series. name is for error messages only.
func DecodeHistory(r io.Reader, name string) (*History, error) {
	h := new(History)
	scanner := bufio.NewScanner(r)
	i := 0
	for scanner.Scan() {
		i++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var p jprice
		if err := json.Unmarshal(line, &p); err != nil {
			return nil, fmt.Errorf("parse error %s:%d: %w", name, i, err)
		}
		if p.Date.IsZero() {
			return nil, fmt.Errorf("parse error %s:%d: missing the property %q", name, i, "date")
		}
		h.Append(p.Date, p.Close)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read error %s: %w", name, err)
	}
	return h, nil
}

// EncodeHistory writes h as a JSONL price series.
func EncodeHistory(w io.Writer, h *History) error {
	bw := bufio.NewWriter(w)
	for on, v := range h.Values() {
		data, err := json.Marshal(jprice{Date: on, Close: v})
		if err != nil {
			return err
		}
		bw.Write(data)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// readHistoryFile decodes the price series stored in file.
func readHistoryFile(file string) (*History, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeHistory(f, file)
}

// writeHistoryFile atomically replaces file with the series h.
func writeHistoryFile(file string, h *History) error {
	dir := filepath.Dir(file)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if err := EncodeHistory(tmp, h); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", file, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	return os.Rename(tmp.Name(), file)
}

// tickerFile returns the file name of a ticker series.
func tickerFile(ticker string) string {
	return strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(ticker) + ".jsonl"
}

// MarketDir is a MarketData reading one JSONL price series per ticker
// from a directory. Series are loaded on first use.
type MarketDir struct {
	dir string

	mu     sync.Mutex
	series map[string]*History
}

// NewMarketDir returns the MarketDir stored in dir.
func NewMarketDir(dir string) *MarketDir {
	return &MarketDir{dir: dir, series: make(map[string]*History)}
}

func (m *MarketDir) PriceSeries(ticker string) (*History, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.series[ticker]; ok {
		return nonEmpty(ticker, h)
	}
	h, err := readHistoryFile(filepath.Join(m.dir, tickerFile(ticker)))
	if errors.Is(err, fs.ErrNotExist) {
		h, err = new(History), nil
	}
	if err != nil {
		return nil, err
	}
	log.Debug().Str("ticker", ticker).Int("days", h.Len()).Str("dir", m.dir).Msg("price series loaded")
	m.series[ticker] = h
	return nonEmpty(ticker, h)
}

func (m *MarketDir) Price(ticker string, on Date) (decimal.Decimal, error) {
	h, err := m.PriceSeries(ticker)
	if err != nil {
		return decimal.Zero, err
	}
	v, ok := h.Get(on)
	if !ok {
		return decimal.Zero, &NoDataError{Ticker: ticker, Date: on}
	}
	return v, nil
}

// Save stores the series of ticker in the directory.
func (m *MarketDir) Save(ticker string, h *History) error {
	if err := writeHistoryFile(filepath.Join(m.dir, tickerFile(ticker)), h); err != nil {
		return err
	}
	m.mu.Lock()
	m.series[ticker] = h
	m.mu.Unlock()
	return nil
}

func nonEmpty(ticker string, h *History) (*History, error) {
	if h.Len() == 0 {
		return nil, &NoDataError{Ticker: ticker}
	}
	return h, nil
}
