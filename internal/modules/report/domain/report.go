package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO date that prefixes every report file name.
const DateLayout = "2006-01-02"

const fileExt = ".csv"

// Field is one named cell of a record.
type Field struct {
	Name  string
	Value string
}

// Record is one row of a report. Field order is column order.
type Record []Field

// Names returns the field names in order.
func (r Record) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}
	return names
}

// Get returns the value of the named field.
func (r Record) Get(name string) (string, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// ReportFile describes a written report.
type ReportFile struct {
	Name    string     `json:"name"`
	Kind    ReportKind `json:"kind"`
	Date    time.Time  `json:"date"`
	Size    int64      `json:"size"`
	ModTime time.Time  `json:"mod_time"`
	Rows    int        `json:"rows,omitempty"`
}

// FileName returns "<YYYY-MM-DD>-<kind>.csv".
func FileName(date time.Time, kind ReportKind) string {
	return fmt.Sprintf("%s-%s%s", date.Format(DateLayout), kind, fileExt)
}

// ParseFileName splits a report file name into its date and kind.
func ParseFileName(name string) (time.Time, ReportKind, error) {
	base, ok := strings.CutSuffix(name, fileExt)
	if !ok || len(base) < len(DateLayout)+2 || base[len(DateLayout)] != '-' {
		return time.Time{}, "", fmt.Errorf("%q is not a report file name", name)
	}

	date, err := time.Parse(DateLayout, base[:len(DateLayout)])
	if err != nil {
		return time.Time{}, "", err
	}
	kind, err := ParseReportKind(base[len(DateLayout)+1:])
	if err != nil {
		return time.Time{}, "", err
	}
	return date, kind, nil
}
