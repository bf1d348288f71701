package types

import "strings"

// Record is one row of a source sheet. Keys are header names, lower-cased
// and trimmed by the loader; values are the raw cell contents.
type Record map[string]string

// Field returns the trimmed value under key, or "" when the column is
// absent.
func (r Record) Field(key string) string {
	return strings.TrimSpace(r[key])
}

// Has reports whether the row carries a non-blank value under key.
func (r Record) Has(key string) bool {
	return r.Field(key) != ""
}

// Bundle groups the six source collections of a sales workbook. Any
// collection may be empty; the analysis degrades per metric rather than
// failing.
type Bundle struct {
	Trips        []Record
	Quotes       []Record
	Passthroughs []Record
	HotPasses    []Record
	Bookings     []Record
	NonConverted []Record
}

// BundleStats is the per-collection row count echo used for startup
// logging and the report header.
type BundleStats struct {
	Trips        int `json:"trips"`
	Quotes       int `json:"quotes"`
	Passthroughs int `json:"passthroughs"`
	HotPasses    int `json:"hot_passes"`
	Bookings     int `json:"bookings"`
	NonConverted int `json:"non_converted"`
}

func (b *Bundle) Stats() BundleStats {
	return BundleStats{
		Trips:        len(b.Trips),
		Quotes:       len(b.Quotes),
		Passthroughs: len(b.Passthroughs),
		HotPasses:    len(b.HotPasses),
		Bookings:     len(b.Bookings),
		NonConverted: len(b.NonConverted),
	}
}

// Empty reports whether no collection holds any rows.
func (b *Bundle) Empty() bool {
	s := b.Stats()
	return s.Trips == 0 && s.Quotes == 0 && s.Passthroughs == 0 &&
		s.HotPasses == 0 && s.Bookings == 0 && s.NonConverted == 0
}
