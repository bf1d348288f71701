package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		sheet string
		want  string
		ok    bool
	}{
		{"Trips", CollectionTrips, true},
		{"Enquiries 2025", CollectionTrips, true},
		{"Quotes Sent", CollectionQuotes, true},
		{"Passthroughs", CollectionPassthroughs, true},
		{"Hot Pass", CollectionHotPasses, true},
		{"Bookings", CollectionBookings, true},
		{"Non Converted Trips", CollectionNonConverted, true},
		{"Not Validated Leads", CollectionNonConverted, true},
		{"Lost", CollectionNonConverted, true},
		{"Pivot", "", false},
		{"Notes", "", false},
	}
	for _, tc := range cases {
		got, ok := classify(tc.sheet)
		assert.Equal(t, tc.ok, ok, tc.sheet)
		assert.Equal(t, tc.want, got, tc.sheet)
	}
}

func TestRecords(t *testing.T) {
	rows := [][]string{
		{"Trip Name", "Agent Name", " Created Date ", "", "Agent Name"},
		{"Iceland", "Dana", "2025-03-01", "x", "dupe"},
		{"Peru", "", "2025-03-02"},
		{"", "  ", ""},
	}

	recs := Records(rows)
	require.Len(t, recs, 2) // the all-blank row is dropped

	first := recs[0]
	assert.Equal(t, "Iceland", first["trip name"])
	assert.Equal(t, "Dana", first["agent name"]) // first duplicate column wins
	assert.Equal(t, "2025-03-01", first["created date"])
	assert.NotContains(t, first, "")

	// Short rows pad so every record carries the full header set.
	second := recs[1]
	assert.Equal(t, "", second["agent name"])
	assert.Contains(t, second, "created date")
}

func TestRecords_DegenerateInputs(t *testing.T) {
	assert.Nil(t, Records(nil))
	assert.Nil(t, Records([][]string{{"only header"}}))
	assert.Nil(t, Records([][]string{{"", "  "}, {"a", "b"}}))
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trips.csv")
	body := "Trip Name,Agent Name,Created Date\nIceland,Dana,2025-03-01\nPeru,Sam,2025-03-02\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	recs, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Sam", recs[1]["agent name"])
}

func TestLoadCSV_MissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

func TestLoadWorkbook_MissingFile(t *testing.T) {
	_, _, err := LoadWorkbook(filepath.Join(t.TempDir(), "absent.xlsx"))
	assert.Error(t, err)
}
