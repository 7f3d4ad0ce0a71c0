package service

import (
	"io"
	"slices"
	"strings"

	"github.com/reshetovitsme/community-analytics/internal/modules/report/domain"
	"github.com/reshetovitsme/community-analytics/internal/shared/errors"
	"github.com/samber/oops"
)

// WriteCSV writes the header taken from the first record's field names, then
// one row per record. Every field is quoted, embedded quotes are doubled and
// rows are separated by a single newline with none after the last row.
// Records with the header's field order are written positionally, so repeated
// column names keep their own values. Other records are matched by field name
// and a missing field is written empty.
func WriteCSV(w io.Writer, records []domain.Record) error {
	if len(records) == 0 {
		return errors.ErrEmptyReport
	}

	header := records[0].Names()
	var b strings.Builder
	writeRow(&b, header)

	row := make([]string, len(header))
	for _, r := range records {
		if slices.Equal(r.Names(), header) {
			for i, f := range r {
				row[i] = f.Value
			}
		} else {
			for i, name := range header {
				row[i], _ = r.Get(name)
			}
		}
		b.WriteByte('\n')
		writeRow(&b, row)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return oops.With("rows", len(records)).Wrap(err)
	}
	return nil
}

// MarshalCSV returns the CSV encoding of records.
func MarshalCSV(records []domain.Record) ([]byte, error) {
	var b strings.Builder
	if err := WriteCSV(&b, records); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
}
