// Package htmlsanitize wraps the bluemonday policies the app uses for
// user-generated content.
//
// Donor-entered free text (item descriptions, addresses, rejection
// reasons) is stored and later rendered by clients we do not control,
// so it is sanitized on the way in rather than trusting every consumer
// to escape it.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// ugc allows basic formatting, the usual user-generated-content set.
	ugc = bluemonday.UGCPolicy()

	// strict strips all markup, leaving plain text.
	strict = bluemonday.StrictPolicy()
)

// Sanitize keeps safe formatting markup and removes everything else.
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}

// Strip removes all markup and trims the result. Fields that are
// semantically plain text (names, addresses, phone numbers, reasons)
// go through this.
func Strip(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
