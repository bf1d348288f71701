// Package columns resolves logical fields against the loose header
// spellings seen across workbook exports. Sheets rarely agree on exact
// header names, so lookup is by ordered candidate lists instead of fixed
// positions.
package columns

import (
	"sort"
	"strings"

	"sales-insights-go/internal/types"
)

// Candidate lists, most specific spelling first. Matching is
// case-insensitive equals-or-contains, so "Agent Name", "agent" and
// "Assigned Agent" all resolve to the same logical field. Keep new
// spellings here rather than scattering literals through the engines.
var (
	Agent           = []string{"agent name", "agent", "consultant", "owner", "assigned to"}
	Created         = []string{"created date", "date created", "enquiry date", "created", "creation date"}
	PassthroughDate = []string{"passthrough date", "passed through date", "pass date", "passthrough"}
	QuoteSent       = []string{"quote sent date", "quote sent", "quote date", "date sent"}
	HotPass         = []string{"hot pass date", "hot pass", "hotpass", "hot-pass"}
	BookingDate     = []string{"booking date", "booked date", "date booked", "booked"}
	Region          = []string{"destination", "region", "country"}
	ClientType      = []string{"repeat or new", "new or repeat", "client type", "repeat"}
	Channel         = []string{"b2b or b2c", "b2b/b2c", "channel", "b2b"}
	Reason          = []string{"non validated reason", "not validated reason", "lost reason", "reason"}
	TripName        = []string{"trip name", "enquiry name", "trip", "title"}
)

// Resolve returns the first key of sample that equals or contains one of
// the candidates, case-insensitively, trying candidates in the given
// priority order. Keys are scanned in sorted order so the same row and
// candidate list always resolve to the same header.
func Resolve(sample types.Record, candidates []string) (string, bool) {
	keys := make([]string, 0, len(sample))
	for k := range sample {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, cand := range candidates {
		c := strings.ToLower(strings.TrimSpace(cand))
		if c == "" {
			continue
		}
		for _, k := range keys {
			lk := strings.ToLower(k)
			if lk == c || strings.Contains(lk, c) {
				return k, true
			}
		}
	}
	return "", false
}

// FromRows resolves against the first row of a collection. Loader output
// gives every row the full header set, so one sample row is enough.
func FromRows(rows []types.Record, candidates []string) (string, bool) {
	if len(rows) == 0 {
		return "", false
	}
	return Resolve(rows[0], candidates)
}
