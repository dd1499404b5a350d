package catalog

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/user/dataset-explorer/internal/entity"
)

// The embedded schema is not guaranteed to be valid JSON, so each field has its own
// narrow pattern and none of them depends on the others matching.
var (
	modifiedPattern     = regexp.MustCompile(`"modified":\s*"([^"]*)"`)
	recordsCountPattern = regexp.MustCompile(`"records_count":\s*(\d+)`)
	themePattern        = regexp.MustCompile(`"theme":\s*\[(.*?)\]`)
)

// isoLayouts are tried in order when reading the `modified` timestamp.
// Values without an offset are taken as UTC.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

const modifiedDisplayLayout = "January 02, 2006, 03:04 PM"

// schemaFields is what the regex pass recovers from the embedded schema.
type schemaFields struct {
	LastModified string
	RecordCount  entity.RecordCount
	Theme        string
}

// unescapeSchema undoes the escaping applied to the attribute payload.
func unescapeSchema(raw string) string {
	s := strings.ReplaceAll(raw, `\u2013`, "-")
	return strings.ReplaceAll(s, `\\`, `\`)
}

func parseSchemaFields(schema string) schemaFields {
	fields := schemaFields{
		LastModified: entity.NotAvailable,
		Theme:        entity.NotAvailable,
	}

	if m := modifiedPattern.FindStringSubmatch(schema); m != nil {
		if formatted, ok := FormatModified(m[1]); ok {
			fields.LastModified = formatted
		}
	}

	if m := recordsCountPattern.FindStringSubmatch(schema); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			fields.RecordCount = entity.KnownRecordCount(n)
		}
	}

	if m := themePattern.FindStringSubmatch(schema); m != nil {
		if theme := joinThemes(m[1]); theme != "" {
			fields.Theme = theme
		}
	}

	return fields
}

// FormatModified renders an ISO-8601 timestamp as "May 01, 2023, 10:00 AM UTC".
func FormatModified(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range isoLayouts {
		t, err := time.ParseInLocation(layout, raw, time.UTC)
		if err == nil {
			return t.UTC().Format(modifiedDisplayLayout) + " UTC", true
		}
	}
	return "", false
}

// joinThemes turns the inside of a JSON list (`"Economy", "Transport"`) into "Economy, Transport".
func joinThemes(list string) string {
	var themes []string
	for _, part := range strings.Split(list, ",") {
		part = strings.Trim(strings.TrimSpace(part), `"`)
		if part != "" {
			themes = append(themes, part)
		}
	}
	return strings.Join(themes, ", ")
}
