package locator

import (
	"errors"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/specto/internal/common"
)

// ErrNotVisible is returned (possibly wrapped) by Finder implementations
// when an element did not become visible within the allowed time.
var ErrNotVisible = errors.New("element not visible within timeout")

// Element is the minimal handle the resolver hands back to callers.
// The session package provides the engine-backed implementation.
type Element interface {
	Click() error
	Fill(text string) error
	Clear() error
	InnerText() (string, error)
	IsVisible() (bool, error)
}

// Finder resolves a single locator spec against a live page, blocking until
// the match is visible or the timeout elapses.
type Finder interface {
	Find(spec Spec, timeout time.Duration) (Element, error)
}

// DefaultTimeout is used when a Resolver is constructed without one.
const DefaultTimeout = 5 * time.Second

// Resolver attempts an ordered locator list against a page, falling back
// through the list until one strategy yields a visible element.
//
// Attempts are strictly sequential. The first success wins; failures are
// collected as data and surface in one aggregated error when the list is
// exhausted.
type Resolver struct {
	finder  Finder
	timeout time.Duration
	logger  arbor.ILogger
}

// NewResolver creates a Resolver over the given page finder. A zero timeout
// selects DefaultTimeout.
func NewResolver(finder Finder, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Resolver{
		finder:  finder,
		timeout: timeout,
		logger:  common.GetLogger(),
	}
}

// Timeout returns the per-attempt element timeout.
func (r *Resolver) Timeout() time.Duration {
	return r.timeout
}

// Resolve tries each locator in order and returns the first visible match.
//
// Entries with an empty value or an unknown strategy are skipped with a
// warning and do not count as failures. When every attempted entry fails,
// the returned *AllLocatorsFailedError enumerates each attempt with its
// failure reason, in original order.
func (r *Resolver) Resolve(specs []Spec, elementName string) (Element, error) {
	if len(specs) == 0 {
		return nil, &EmptyLocatorListError{Element: elementName}
	}

	attempts := make([]Attempt, 0, len(specs))

	for i, spec := range specs {
		if spec.Value == "" {
			r.logger.Warn().
				Str("element", elementName).
				Int("locator", i+1).
				Msg("Empty locator value, skipping")
			continue
		}
		if !spec.Strategy.Known() {
			r.logger.Warn().
				Str("element", elementName).
				Int("locator", i+1).
				Str("strategy", string(spec.Strategy)).
				Msg("Unknown locator strategy, skipping")
			continue
		}

		r.logger.Debug().
			Str("element", elementName).
			Int("locator", i+1).
			Int("total", len(specs)).
			Str("attempt", spec.String()).
			Msg("Attempting locator")

		element, err := r.finder.Find(spec, r.timeout)
		if err == nil {
			r.logger.Info().
				Str("element", elementName).
				Int("locator", i+1).
				Int("total", len(specs)).
				Str("matched", spec.String()).
				Msg("Locator succeeded")
			return element, nil
		}

		attempts = append(attempts, Attempt{
			Index:    i + 1,
			Strategy: spec.Strategy,
			Value:    spec.Value,
			Reason:   err.Error(),
		})
		r.logger.Debug().
			Str("element", elementName).
			Int("locator", i+1).
			Int("total", len(specs)).
			Str("failed", spec.String()).
			Str("reason", err.Error()).
			Msg("Locator failed")
	}

	failure := &AllLocatorsFailedError{
		Element:  elementName,
		Total:    len(specs),
		Attempts: attempts,
	}
	r.logger.Error().Str("element", elementName).Msg(failure.Error())
	return nil, failure
}

// Click resolves the element and clicks it.
func (r *Resolver) Click(specs []Spec, elementName string) error {
	element, err := r.Resolve(specs, elementName)
	if err != nil {
		return err
	}
	if err := element.Click(); err != nil {
		return err
	}
	r.logger.Debug().Str("element", elementName).Msg("Clicked")
	return nil
}

// TypeText resolves the element and fills it with text, clearing the field
// first when clearFirst is set.
func (r *Resolver) TypeText(specs []Spec, text, elementName string, clearFirst bool) error {
	element, err := r.Resolve(specs, elementName)
	if err != nil {
		return err
	}
	if clearFirst {
		if err := element.Clear(); err != nil {
			return err
		}
	}
	if err := element.Fill(text); err != nil {
		return err
	}
	r.logger.Debug().Str("element", elementName).Msg("Text entered")
	return nil
}

// ReadText resolves the element and returns its inner text.
func (r *Resolver) ReadText(specs []Spec, elementName string) (string, error) {
	element, err := r.Resolve(specs, elementName)
	if err != nil {
		return "", err
	}
	return element.InnerText()
}

// CheckVisible reports whether any locator resolves to a visible element.
//
// "Not found" is a valid check result for this operation, so an exhausted
// locator list yields false rather than an error. An empty locator list is
// still a programming error and propagates.
func (r *Resolver) CheckVisible(specs []Spec, elementName string) (bool, error) {
	element, err := r.Resolve(specs, elementName)
	if err != nil {
		var allFailed *AllLocatorsFailedError
		if errors.As(err, &allFailed) {
			return false, nil
		}
		return false, err
	}
	return element.IsVisible()
}
