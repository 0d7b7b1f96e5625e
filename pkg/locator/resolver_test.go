package locator

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeElement struct {
	clicked  bool
	cleared  bool
	filled   string
	text     string
	visible  bool
	clickErr error
	textErr  error
	fillErr  error
	clearErr error
	visErr   error
}

func (f *fakeElement) Click() error               { f.clicked = true; return f.clickErr }
func (f *fakeElement) Fill(text string) error     { f.filled = text; return f.fillErr }
func (f *fakeElement) Clear() error               { f.cleared = true; return f.clearErr }
func (f *fakeElement) InnerText() (string, error) { return f.text, f.textErr }
func (f *fakeElement) IsVisible() (bool, error)   { return f.visible, f.visErr }

// scriptedFinder fails the first failures calls, then returns element.
type scriptedFinder struct {
	failures int
	element  Element
	calls    []Spec
}

func (s *scriptedFinder) Find(spec Spec, timeout time.Duration) (Element, error) {
	s.calls = append(s.calls, spec)
	if len(s.calls) <= s.failures {
		return nil, ErrNotVisible
	}
	if s.element == nil {
		return nil, ErrNotVisible
	}
	return s.element, nil
}

func TestResolveFirstLocatorWins(t *testing.T) {
	want := &fakeElement{}
	finder := &scriptedFinder{element: want}
	resolver := NewResolver(finder, time.Second)

	got, err := resolver.Resolve([]Spec{ID("username"), CSS("#username")}, "username field")
	require.NoError(t, err)
	assert.Same(t, want, got)
	assert.Len(t, finder.calls, 1, "should stop at first success")
}

func TestResolveFallsBackInOrder(t *testing.T) {
	want := &fakeElement{}
	finder := &scriptedFinder{failures: 2, element: want}
	resolver := NewResolver(finder, time.Second)

	specs := []Spec{
		XPath("//input[@id='q']"),
		CSS("input.search"),
		ID("q"),
	}
	got, err := resolver.Resolve(specs, "search box")
	require.NoError(t, err)
	assert.Same(t, want, got)

	require.Len(t, finder.calls, 3)
	assert.Equal(t, StrategyXPath, finder.calls[0].Strategy)
	assert.Equal(t, StrategyCSS, finder.calls[1].Strategy)
	assert.Equal(t, StrategyID, finder.calls[2].Strategy)
}

func TestResolveAllFail(t *testing.T) {
	finder := &scriptedFinder{failures: 2}
	resolver := NewResolver(finder, time.Second)

	specs := []Spec{CSS("#missing"), Text("Submit")}
	_, err := resolver.Resolve(specs, "submit button")
	require.Error(t, err)

	var allFailed *AllLocatorsFailedError
	require.ErrorAs(t, err, &allFailed)
	assert.Equal(t, "submit button", allFailed.Element)
	assert.Equal(t, 2, allFailed.Total)
	require.Len(t, allFailed.Attempts, 2)

	msg := err.Error()
	assert.Contains(t, msg, "submit button: all 2 locator(s) failed:")
	assert.Contains(t, msg, "1. CSS: #missing - element not visible within timeout")
	assert.Contains(t, msg, "2. TEXT: Submit - element not visible within timeout")
}

func TestResolveEmptyList(t *testing.T) {
	resolver := NewResolver(&scriptedFinder{}, time.Second)

	_, err := resolver.Resolve(nil, "orphan")
	require.Error(t, err)

	var empty *EmptyLocatorListError
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, "orphan: no locators provided", err.Error())
}

func TestResolveSkipsEmptyValues(t *testing.T) {
	want := &fakeElement{}
	finder := &scriptedFinder{element: want}
	resolver := NewResolver(finder, time.Second)

	specs := []Spec{
		{Strategy: StrategyCSS, Value: ""},
		ID("real"),
	}
	got, err := resolver.Resolve(specs, "field")
	require.NoError(t, err)
	assert.Same(t, want, got)
	require.Len(t, finder.calls, 1, "empty value must not reach the finder")
	assert.Equal(t, StrategyID, finder.calls[0].Strategy)
}

func TestResolveSkipsUnknownStrategy(t *testing.T) {
	finder := &scriptedFinder{failures: 1}
	resolver := NewResolver(finder, time.Second)

	specs := []Spec{
		{Strategy: Strategy("telepathy"), Value: "just know it"},
		CSS("#gone"),
	}
	_, err := resolver.Resolve(specs, "field")
	require.Error(t, err)

	var allFailed *AllLocatorsFailedError
	require.ErrorAs(t, err, &allFailed)
	assert.Equal(t, 2, allFailed.Total)
	assert.Len(t, allFailed.Attempts, 1, "skipped entries are not failures")
	assert.Len(t, finder.calls, 1)
}

func TestClick(t *testing.T) {
	element := &fakeElement{}
	resolver := NewResolver(&scriptedFinder{element: element}, time.Second)

	err := resolver.Click([]Spec{ID("go")}, "go button")
	require.NoError(t, err)
	assert.True(t, element.clicked)
}

func TestClickPropagatesResolutionFailure(t *testing.T) {
	resolver := NewResolver(&scriptedFinder{failures: 1}, time.Second)

	err := resolver.Click([]Spec{ID("go")}, "go button")
	var allFailed *AllLocatorsFailedError
	require.ErrorAs(t, err, &allFailed)
}

func TestTypeTextClearsWhenAsked(t *testing.T) {
	element := &fakeElement{}
	resolver := NewResolver(&scriptedFinder{element: element}, time.Second)

	err := resolver.TypeText([]Spec{ID("email")}, "a@b.c", "email field", true)
	require.NoError(t, err)
	assert.True(t, element.cleared)
	assert.Equal(t, "a@b.c", element.filled)
}

func TestTypeTextWithoutClear(t *testing.T) {
	element := &fakeElement{}
	resolver := NewResolver(&scriptedFinder{element: element}, time.Second)

	err := resolver.TypeText([]Spec{ID("email")}, "a@b.c", "email field", false)
	require.NoError(t, err)
	assert.False(t, element.cleared)
	assert.Equal(t, "a@b.c", element.filled)
}

func TestReadText(t *testing.T) {
	element := &fakeElement{text: "Welcome back"}
	resolver := NewResolver(&scriptedFinder{element: element}, time.Second)

	text, err := resolver.ReadText([]Spec{CSS(".greeting")}, "greeting")
	require.NoError(t, err)
	assert.Equal(t, "Welcome back", text)
}

func TestCheckVisibleTrue(t *testing.T) {
	element := &fakeElement{visible: true}
	resolver := NewResolver(&scriptedFinder{element: element}, time.Second)

	visible, err := resolver.CheckVisible([]Spec{ID("toast")}, "toast")
	require.NoError(t, err)
	assert.True(t, visible)
}

func TestCheckVisibleAbsorbsExhaustion(t *testing.T) {
	resolver := NewResolver(&scriptedFinder{failures: 1}, time.Second)

	visible, err := resolver.CheckVisible([]Spec{ID("toast")}, "toast")
	require.NoError(t, err, "an exhausted list is a negative check, not an error")
	assert.False(t, visible)
}

func TestCheckVisibleStillRejectsEmptyList(t *testing.T) {
	resolver := NewResolver(&scriptedFinder{}, time.Second)

	_, err := resolver.CheckVisible(nil, "toast")
	var empty *EmptyLocatorListError
	require.ErrorAs(t, err, &empty)
}

func TestCheckVisiblePropagatesElementError(t *testing.T) {
	element := &fakeElement{visErr: errors.New("page closed")}
	resolver := NewResolver(&scriptedFinder{element: element}, time.Second)

	_, err := resolver.CheckVisible([]Spec{ID("toast")}, "toast")
	require.Error(t, err)
}

func TestAttemptReasonsPreserved(t *testing.T) {
	finder := &reasonFinder{}
	resolver := NewResolver(finder, time.Second)

	_, err := resolver.Resolve([]Spec{CSS("#a"), CSS("#b")}, "field")
	var allFailed *AllLocatorsFailedError
	require.ErrorAs(t, err, &allFailed)
	assert.Equal(t, "boom 1", allFailed.Attempts[0].Reason)
	assert.Equal(t, "boom 2", allFailed.Attempts[1].Reason)
}

type reasonFinder struct {
	n int
}

func (r *reasonFinder) Find(spec Spec, timeout time.Duration) (Element, error) {
	r.n++
	return nil, fmt.Errorf("boom %d", r.n)
}

func TestDefaultTimeoutApplied(t *testing.T) {
	resolver := NewResolver(&scriptedFinder{}, 0)
	assert.Equal(t, DefaultTimeout, resolver.Timeout())
}
