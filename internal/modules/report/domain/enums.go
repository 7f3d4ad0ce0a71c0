//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// ReportKind names the report a file holds. It is the suffix of the file name.
// ENUM(group-intersections,inactive,unread-inactive,undelivered-inactive,unknown-authors,top-active,users-only-in-one-group)
type ReportKind string
