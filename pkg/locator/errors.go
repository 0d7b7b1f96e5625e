package locator

import (
	"fmt"
	"strings"
)

// EmptyLocatorListError reports that an element was defined with no
// locators at all. This is a programming error in the page object, not a
// resolution failure, and is never retried.
type EmptyLocatorListError struct {
	Element string
}

func (e *EmptyLocatorListError) Error() string {
	return fmt.Sprintf("%s: no locators provided", e.Element)
}

// Attempt records one failed resolution attempt.
type Attempt struct {
	Index    int // 1-based position in the original locator list
	Strategy Strategy
	Value    string
	Reason   string
}

func (a Attempt) String() string {
	return fmt.Sprintf("%s: %s - %s", strings.ToUpper(string(a.Strategy)), a.Value, a.Reason)
}

// AllLocatorsFailedError reports that every attempted strategy failed. The
// message enumerates the attempts in their original order; callers and
// tests rely on its content for diagnostics.
type AllLocatorsFailedError struct {
	Element  string
	Total    int // number of locators supplied, including skipped entries
	Attempts []Attempt
}

func (e *AllLocatorsFailedError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: all %d locator(s) failed:", e.Element, e.Total)
	for i, attempt := range e.Attempts {
		fmt.Fprintf(&b, "\n  %d. %s", i+1, attempt)
	}
	return b.String()
}
