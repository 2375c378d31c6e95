// ABOUTME: Calendar-day resolution for user-supplied dates.
// ABOUTME: Accepts YYYY-MM-DD or casual English like "yesterday" or "last friday".
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var dateParser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// ResolveDate turns s into a calendar day relative to now. An empty s is
// now's day.
func ResolveDate(s string, now time.Time) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now.Format(DateLayout), nil
	}
	if day, err := ParseDate(s); err == nil {
		return day, nil
	}

	r, err := dateParser.Parse(s, now)
	if err != nil || r == nil {
		return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD or a phrase like \"yesterday\"", s)
	}
	return r.Time.Format(DateLayout), nil
}
