// Package dataset turns uploaded workbooks and CSV exports into raw
// record collections. It owns all file I/O; the analysis core only ever
// sees the in-memory bundle.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"sales-insights-go/internal/types"
)

// ErrNoSheets means the workbook opened fine but no sheet name matched
// any known collection.
var ErrNoSheets = errors.New("no recognized sheets in workbook")

// collection tags used in the sheet mapping returned by LoadWorkbook.
const (
	CollectionTrips        = "trips"
	CollectionQuotes       = "quotes"
	CollectionPassthroughs = "passthroughs"
	CollectionHotPasses    = "hot_passes"
	CollectionBookings     = "bookings"
	CollectionNonConverted = "non_converted"
)

// classify maps a sheet name to a collection tag by case-insensitive
// substring. Order matters: "Non Converted Trips" must not land in
// trips, and "Hot Pass" must not land in passthroughs.
func classify(sheet string) (string, bool) {
	l := strings.ToLower(sheet)
	negated := strings.Contains(l, "non") || strings.Contains(l, "not")
	switch {
	case negated && (strings.Contains(l, "convert") || strings.Contains(l, "validat")):
		return CollectionNonConverted, true
	case strings.Contains(l, "lost"):
		return CollectionNonConverted, true
	case strings.Contains(l, "book"):
		return CollectionBookings, true
	case strings.Contains(l, "hot"):
		return CollectionHotPasses, true
	case strings.Contains(l, "pass"):
		return CollectionPassthroughs, true
	case strings.Contains(l, "quote"):
		return CollectionQuotes, true
	case strings.Contains(l, "trip") || strings.Contains(l, "enquir") || strings.Contains(l, "lead"):
		return CollectionTrips, true
	}
	return "", false
}

// LoadWorkbook opens an xlsx export and assigns each recognized sheet to
// a collection. Unrecognized sheets are ignored; the returned mapping
// (sheet name to collection tag) lets the caller log what was used.
// Missing collections stay empty, which the analysis treats as ordinary
// sparse data.
func LoadWorkbook(path string) (*types.Bundle, map[string]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	bundle := &types.Bundle{}
	mapping := map[string]string{}
	for _, sheet := range f.GetSheetList() {
		tag, ok := classify(sheet)
		if !ok {
			continue
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		assign(bundle, tag, Records(rows))
		mapping[sheet] = tag
	}
	if len(mapping) == 0 {
		return nil, nil, ErrNoSheets
	}
	return bundle, mapping, nil
}

func assign(b *types.Bundle, tag string, records []types.Record) {
	switch tag {
	case CollectionTrips:
		b.Trips = append(b.Trips, records...)
	case CollectionQuotes:
		b.Quotes = append(b.Quotes, records...)
	case CollectionPassthroughs:
		b.Passthroughs = append(b.Passthroughs, records...)
	case CollectionHotPasses:
		b.HotPasses = append(b.HotPasses, records...)
	case CollectionBookings:
		b.Bookings = append(b.Bookings, records...)
	case CollectionNonConverted:
		b.NonConverted = append(b.NonConverted, records...)
	}
}

// LoadCSV reads one collection from a CSV export.
func LoadCSV(path string) ([]types.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return Records(rows), nil
}

// Records converts a header row plus data rows into records keyed by
// lower-cased trimmed header. Duplicate headers keep their first
// column; blank headers and all-blank rows are dropped. Short rows pad
// with empty strings so every record carries the full header set.
func Records(rows [][]string) []types.Record {
	if len(rows) < 2 {
		return nil
	}

	type column struct {
		key string
		idx int
	}
	var cols []column
	seen := map[string]bool{}
	for i, h := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(h))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		cols = append(cols, column{key: key, idx: i})
	}
	if len(cols) == 0 {
		return nil
	}

	var out []types.Record
	for _, row := range rows[1:] {
		rec := make(types.Record, len(cols))
		blank := true
		for _, c := range cols {
			v := ""
			if c.idx < len(row) {
				v = row[c.idx]
			}
			rec[c.key] = v
			if strings.TrimSpace(v) != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		out = append(out, rec)
	}
	return out
}
