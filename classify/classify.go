// Package classify implements the C1 string classifier: a pure, total
// function from a string observation to a schema.StringKind format tag.
// Ordering is significant — the first matching rule wins, following
// §4.1 of the specification: uuid, then email, then url, then numeric
// string, then iso-datetime, then iso-date, then hostname.
package classify

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/outpostlabs/shapecast/schema"
)

var (
	hostnameLabelRegex = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9-]*[A-Za-z0-9])?$`)
	emailRegex         = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	numericRegex       = regexp.MustCompile(`^-?[0-9]+$`)
	isoDateRegex       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	isoDateTimeRegex   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?$`)
)

// Classify classifies a single string observation, returning a populated
// schema.StringSchema with its Kind and any format-relevant payload
// (MinLen/MaxLen for NumericString and Unknown, CharsSeen for Unknown).
func Classify(s string) schema.StringSchema {
	if isUUID(s) {
		return schema.StringSchema{Kind: schema.StringUUID}
	}
	if isEmail(s) {
		return schema.StringSchema{Kind: schema.StringEmail}
	}
	if isURL(s) {
		return schema.StringSchema{Kind: schema.StringURL}
	}
	if isNumeric(s) {
		n := len([]rune(s))
		return schema.StringSchema{Kind: schema.StringNumeric, MinLen: n, MaxLen: n}
	}
	if isIsoDateTime(s) {
		return schema.StringSchema{Kind: schema.StringIsoDateTime}
	}
	if isIsoDate(s) {
		return schema.StringSchema{Kind: schema.StringIsoDate}
	}
	if isHostname(s) {
		return schema.StringSchema{Kind: schema.StringHostname}
	}
	runes := []rune(s)
	return schema.StringSchema{
		Kind:      schema.StringUnknown,
		MinLen:    len(runes),
		MaxLen:    len(runes),
		CharsSeen: append([]rune(nil), runes...),
	}
}

// isUUID matches RFC-4122 lowercase-hex UUIDs (8-4-4-4-12), same length
// pre-check the original Rust classifier uses before the regex match.
func isUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	for i, c := range s {
		switch i {
		case 8, 13, 18, 23:
			if c != '-' {
				return false
			}
		default:
			if !isLowerHex(c) {
				return false
			}
		}
	}
	_, err := uuid.Parse(s)
	return err == nil
}

func isLowerHex(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
}

// isEmail requires a local@domain shape with a dot in the domain and no
// whitespace anywhere in the string.
func isEmail(s string) bool {
	if strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	if !strings.Contains(s, "@") || !emailRegex.MatchString(s) {
		return false
	}
	at := strings.LastIndex(s, "@")
	domain := s[at+1:]
	return strings.Contains(domain, ".")
}

// isURL requires an absolute URL with both a scheme and a host.
func isURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.IsAbs() && u.Scheme != "" && u.Host != ""
}

func isNumeric(s string) bool {
	return s != "" && numericRegex.MatchString(s)
}

// isIsoDateTime matches YYYY-MM-DDTHH:MM:SS with optional fractional
// seconds and optional Z/±HH:MM offset, and confirms it parses as a real
// instant (rejects e.g. month 13 or minute 61).
func isIsoDateTime(s string) bool {
	if !isoDateTimeRegex.MatchString(s) {
		return false
	}
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05.999999999",
	} {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func isIsoDate(s string) bool {
	if !isoDateRegex.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// isHostname requires dot-separated labels of [A-Za-z0-9-] with no leading
// or trailing hyphen in any label, and at least two labels.
func isHostname(s string) bool {
	labels := strings.Split(s, ".")
	if len(labels) < 2 {
		return false
	}
	for _, l := range labels {
		if l == "" || !hostnameLabelRegex.MatchString(l) {
			return false
		}
	}
	return true
}
