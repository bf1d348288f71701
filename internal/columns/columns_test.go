package columns

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sales-insights-go/internal/types"
)

func TestResolve_ExactMatch(t *testing.T) {
	row := types.Record{"agent name": "Dana", "created date": "2025-03-01"}

	key, ok := Resolve(row, Agent)
	assert.True(t, ok)
	assert.Equal(t, "agent name", key)
}

func TestResolve_ContainsMatch(t *testing.T) {
	row := types.Record{"assigned agent name": "Dana", "created": "2025-03-01"}

	key, ok := Resolve(row, Agent)
	assert.True(t, ok)
	assert.Equal(t, "assigned agent name", key)
}

func TestResolve_CaseInsensitive(t *testing.T) {
	// Loader lower-cases headers, but Resolve should not depend on it.
	row := types.Record{"Agent Name": "Dana"}

	key, ok := Resolve(row, Agent)
	assert.True(t, ok)
	assert.Equal(t, "Agent Name", key)
}

func TestResolve_CandidatePriorityWins(t *testing.T) {
	// Both headers match some candidate; the earlier candidate decides.
	row := types.Record{
		"owner":      "Sam",
		"agent name": "Dana",
	}

	key, ok := Resolve(row, Agent)
	assert.True(t, ok)
	assert.Equal(t, "agent name", key)
}

func TestResolve_SortedKeysBreakTies(t *testing.T) {
	// Two headers contain the same candidate; the lexically smaller key
	// wins, every time.
	row := types.Record{
		"trip name (new)": "Alps",
		"trip name (old)": "Alps",
	}

	for i := 0; i < 20; i++ {
		key, ok := Resolve(row, TripName)
		assert.True(t, ok)
		assert.Equal(t, "trip name (new)", key)
	}
}

func TestResolve_NotFound(t *testing.T) {
	row := types.Record{"colour": "blue", "size": "large"}

	key, ok := Resolve(row, Agent)
	assert.False(t, ok)
	assert.Equal(t, "", key)
}

func TestResolve_EmptyRow(t *testing.T) {
	_, ok := Resolve(types.Record{}, Created)
	assert.False(t, ok)
}

func TestFromRows(t *testing.T) {
	rows := []types.Record{
		{"destination": "Iceland", "agent": "Dana"},
		{"destination": "Peru", "agent": "Sam"},
	}

	key, ok := FromRows(rows, Region)
	assert.True(t, ok)
	assert.Equal(t, "destination", key)

	_, ok = FromRows(nil, Region)
	assert.False(t, ok)
}

func TestCandidateLists_ResolveTypicalExport(t *testing.T) {
	// Header set lifted from a representative trips export.
	row := types.Record{
		"trip name":            "Iceland Adventure",
		"agent name":           "Dana",
		"created date":         "2025-03-01 10:15:00",
		"passthrough date":     "2025-03-02",
		"quote sent date":      "2025-03-04",
		"hot pass date":        "",
		"destination":          "Iceland",
		"repeat or new":        "New",
		"b2b or b2c":           "B2C",
		"not validated reason": "",
	}

	cases := []struct {
		candidates []string
		want       string
	}{
		{Agent, "agent name"},
		{Created, "created date"},
		{PassthroughDate, "passthrough date"},
		{QuoteSent, "quote sent date"},
		{HotPass, "hot pass date"},
		{Region, "destination"},
		{ClientType, "repeat or new"},
		{Channel, "b2b or b2c"},
		{Reason, "not validated reason"},
		{TripName, "trip name"},
	}
	for _, tc := range cases {
		key, ok := Resolve(row, tc.candidates)
		assert.True(t, ok, "candidates %v", tc.candidates)
		assert.Equal(t, tc.want, key)
	}
}
