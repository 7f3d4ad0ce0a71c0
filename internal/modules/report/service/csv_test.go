package service

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/reshetovitsme/community-analytics/internal/modules/report/domain"
	"github.com/reshetovitsme/community-analytics/internal/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCSV_RoundTrip(t *testing.T) {
	records := []domain.Record{{{Name: "a", Value: "1"}, {Name: "b", Value: "x,y"}}}

	data, err := MarshalCSV(records)
	require.NoError(t, err)
	assert.Equal(t, "\"a\",\"b\"\n\"1\",\"x,y\"", string(data))

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"1", "x,y"}}, rows)
}

func TestMarshalCSV_EscapesQuotesAndNewlines(t *testing.T) {
	records := []domain.Record{
		{{Name: "Name", Value: `Say "hi"`}, {Name: "Note", Value: "two\nlines"}},
		{{Name: "Note", Value: "reordered"}, {Name: "Name", Value: ""}},
	}

	data, err := MarshalCSV(records)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "\"Name\",\"Note\"\n\"Say \"\"hi\"\"\""))

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Name", "Note"},
		{`Say "hi"`, "two\nlines"},
		{"", "reordered"},
	}, rows)
}

func TestMarshalCSV_RepeatedColumnNames(t *testing.T) {
	records := []domain.Record{
		{{Name: "Name", Value: "Twin"}, {Name: "Twin", Value: "1"}, {Name: "Name", Value: "0.5"}, {Name: "Twin", Value: "0.25"}},
		{{Name: "Name", Value: "Name"}, {Name: "Twin", Value: "1"}, {Name: "Name", Value: "1"}, {Name: "Twin", Value: "0"}},
	}

	data, err := MarshalCSV(records)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Name", "Twin", "Name", "Twin"},
		{"Twin", "1", "0.5", "0.25"},
		{"Name", "1", "1", "0"},
	}, rows)
}

func TestMarshalCSV_Empty(t *testing.T) {
	_, err := MarshalCSV(nil)
	assert.ErrorIs(t, err, errors.ErrEmptyReport)
}
