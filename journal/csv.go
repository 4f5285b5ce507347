package journal

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

var csvHeader = []string{
	"id", "timestamp", "side", "size", "price",
	"order_id", "signal_source", "status", "error_message",
}

// CSV appends trade records to a single CSV file. The file is opened in
// append mode so repeated run-once invocations share one day's history; the
// header is written only when the file is created.
type CSV struct {
	w *csv.Writer
	f *os.File
}

// DailyPath returns the conventional per-day history filename inside dir,
// e.g. dir/trade_history_20260829.csv.
func DailyPath(dir string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("trade_history_%s.csv", now.Format("20060102")))
}

// NewCSV opens (or creates) the trade-history file at path.
func NewCSV(path string) (*CSV, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal dir: %w", err)
		}
	}

	info, err := os.Stat(path)
	fresh := os.IsNotExist(err) || (err == nil && info.Size() == 0)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open journal file: %w", err)
	}

	w := csv.NewWriter(f)
	if fresh {
		if err := w.Write(csvHeader); err != nil {
			f.Close()
			return nil, err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return nil, err
		}
	}

	return &CSV{w: w, f: f}, nil
}

func (j *CSV) RecordTrade(rec TradeRecord) error {
	err := j.w.Write([]string{
		rec.ID,
		rec.Timestamp.Format(time.RFC3339),
		string(rec.Side),
		f(rec.Size),
		f(rec.Price),
		rec.OrderID,
		rec.SignalSource,
		string(rec.Status),
		rec.ErrorMessage,
	})
	if err != nil {
		return err
	}
	j.w.Flush()
	return j.w.Error()
}

func (j *CSV) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		j.f.Close()
		return err
	}
	return j.f.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
