package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/ternarybob/specto/pkg/locator"
)

// pageFinder adapts a playwright page to the locator.Finder interface.
type pageFinder struct {
	page playwright.Page
}

func (f *pageFinder) Find(spec locator.Spec, timeout time.Duration) (locator.Element, error) {
	var loc playwright.Locator
	switch spec.Strategy {
	case locator.StrategyXPath:
		loc = f.page.Locator("xpath=" + spec.Value)
	case locator.StrategyCSS:
		loc = f.page.Locator(spec.Value)
	case locator.StrategyID:
		loc = f.page.Locator("#" + spec.Value)
	case locator.StrategyText:
		loc = f.page.GetByText(spec.Value)
	case locator.StrategyRole:
		loc = f.page.GetByRole(playwright.AriaRole(spec.Value))
	default:
		return nil, fmt.Errorf("unsupported locator strategy %q", spec.Strategy)
	}

	err := loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		if errors.Is(err, playwright.ErrTimeout) {
			return nil, locator.ErrNotVisible
		}
		return nil, err
	}
	return &pageElement{locator: loc}, nil
}

// pageElement wraps a matched playwright locator as a locator.Element.
type pageElement struct {
	locator playwright.Locator
}

func (e *pageElement) Click() error {
	return e.locator.Click()
}

func (e *pageElement) Fill(text string) error {
	return e.locator.Fill(text)
}

func (e *pageElement) Clear() error {
	return e.locator.Clear()
}

func (e *pageElement) InnerText() (string, error) {
	return e.locator.InnerText()
}

func (e *pageElement) IsVisible() (bool, error) {
	return e.locator.IsVisible()
}
