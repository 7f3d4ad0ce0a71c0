package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	day := time.Date(2026, 10, 18, 23, 59, 0, 0, time.UTC)
	name := FileName(day, ReportKindUnreadInactive)
	assert.Equal(t, "2026-10-18-unread-inactive.csv", name)

	date, kind, err := ParseFileName(name)
	require.NoError(t, err)
	assert.Equal(t, ReportKindUnreadInactive, kind)
	assert.Equal(t, "2026-10-18", date.Format(DateLayout))
}

func TestParseFileName_Rejects(t *testing.T) {
	for _, name := range []string{
		"notes.txt",
		"2026-10-18-inactive.txt",
		"2026-13-18-inactive.csv",
		"2026-10-18-bogus.csv",
		"2026-10-18.csv",
		"../2026-10-18-inactive.csv",
	} {
		_, _, err := ParseFileName(name)
		assert.Error(t, err, name)
	}
}

func TestRecord(t *testing.T) {
	r := Record{{Name: "User ID", Value: "u1"}, {Name: "Group", Value: "G1"}}
	assert.Equal(t, []string{"User ID", "Group"}, r.Names())

	v, ok := r.Get("Group")
	assert.True(t, ok)
	assert.Equal(t, "G1", v)

	_, ok = r.Get("Missing")
	assert.False(t, ok)
}
