package data

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"brasero-forecast/internal/model"
)

var (
	ErrNoDateColumn    = errors.New("actuals: no date column")
	ErrNoRevenueColumn = errors.New("actuals: no revenue column")
	ErrNoRows          = errors.New("actuals: no data rows")
)

// Header names accepted for each column, compared case-insensitively.
var (
	dateHeaders    = []string{"date", "day", "jour", "month", "mois"}
	revenueHeaders = []string{"revenue", "amount", "ca", "montant", "chiffre_affaires", "chiffre d'affaires"}
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
	"2006/01/02",
	"2006-01",
}

// LoadActualRevenueCSV reads a revenue export from disk.
func LoadActualRevenueCSV(path string) ([]model.MonthlyRevenue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseActualRevenueCSV(f)
}

// ParseActualRevenueCSV reads a table with at least a date and a revenue
// column and returns one total per calendar month, sorted by month.
// Comma and semicolon separated files are accepted; with semicolons, a
// decimal comma is allowed in amounts.
func ParseActualRevenueCSV(r io.Reader) ([]model.MonthlyRevenue, error) {
	br := bufio.NewReader(r)
	first, err := br.Peek(br.Size())
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, err
	}
	sep := detectSeparator(string(first))

	cr := csv.NewReader(br)
	cr.Comma = sep
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("actuals: read header: %w", err)
	}
	dateCol := findColumn(header, dateHeaders)
	if dateCol < 0 {
		return nil, ErrNoDateColumn
	}
	revCol := findColumn(header, revenueHeaders)
	if revCol < 0 {
		return nil, ErrNoRevenueColumn
	}

	totals := map[time.Time]float64{}
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("actuals: line %d: %w", line, err)
		}
		if isBlank(rec) {
			continue
		}
		if dateCol >= len(rec) || revCol >= len(rec) {
			return nil, fmt.Errorf("actuals: line %d: missing columns", line)
		}
		day, err := parseDate(rec[dateCol])
		if err != nil {
			return nil, fmt.Errorf("actuals: line %d: %w", line, err)
		}
		amount, err := parseAmount(rec[revCol], sep == ';')
		if err != nil {
			return nil, fmt.Errorf("actuals: line %d: %w", line, err)
		}
		totals[model.MonthStart(day)] += amount
	}
	if len(totals) == 0 {
		return nil, ErrNoRows
	}

	out := make([]model.MonthlyRevenue, 0, len(totals))
	for m, v := range totals {
		out = append(out, model.MonthlyRevenue{Month: m, Revenue: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out, nil
}

func detectSeparator(head string) rune {
	if i := strings.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}
	if strings.Count(head, ";") > strings.Count(head, ",") {
		return ';'
	}
	return ','
}

func findColumn(header []string, names []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for _, n := range names {
			if h == n {
				return i
			}
		}
	}
	return -1
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable date %q", s)
}

func parseAmount(s string, decimalComma bool) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "€")
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if decimalComma {
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unparsable amount %q", s)
	}
	return v, nil
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
