// Package pages provides the page-object base that test suites build on.
package pages

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/specto/internal/common"
	"github.com/ternarybob/specto/pkg/locator"
	"github.com/ternarybob/specto/pkg/session"
)

// Element is a named element with its ordered locator fallback chain.
type Element struct {
	Name     string
	Locators []locator.Spec
}

// BasePage binds a session's page to the locator resolver. Concrete page
// objects embed it and declare their Elements.
type BasePage struct {
	Session  *session.Session
	Resolver *locator.Resolver

	logger arbor.ILogger
}

// NewBasePage creates a page object bound to the given session.
func NewBasePage(s *session.Session) *BasePage {
	return &BasePage{
		Session:  s,
		Resolver: s.Resolver(),
		logger:   common.GetLogger(),
	}
}

// Navigate opens the URL and waits for the DOM to be ready.
func (p *BasePage) Navigate(url string) error {
	p.logger.Info().Str("url", url).Msg("Navigating")
	_, err := p.Session.Page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// Click clicks the element, trying its locators in order.
func (p *BasePage) Click(element Element) error {
	return p.Resolver.Click(element.Locators, element.Name)
}

// Type fills the element with text, clearing it first.
func (p *BasePage) Type(element Element, text string) error {
	return p.Resolver.TypeText(element.Locators, text, element.Name, true)
}

// Text returns the element's inner text.
func (p *BasePage) Text(element Element) (string, error) {
	return p.Resolver.ReadText(element.Locators, element.Name)
}

// Visible reports whether the element is currently visible. A fully
// exhausted locator chain reads as not visible.
func (p *BasePage) Visible(element Element) (bool, error) {
	return p.Resolver.CheckVisible(element.Locators, element.Name)
}

// Title returns the current document title.
func (p *BasePage) Title() (string, error) {
	return p.Session.Page.Title()
}

// URL returns the current page URL.
func (p *BasePage) URL() string {
	return p.Session.Page.URL()
}

// WaitLoaded blocks until the page reaches the load state.
func (p *BasePage) WaitLoaded() error {
	return p.Session.Page.WaitForLoadState()
}

// Screenshot captures a full-page screenshot to the given path.
func (p *BasePage) Screenshot(path string) error {
	_, err := p.Session.Page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to capture screenshot %s: %w", path, err)
	}
	p.logger.Debug().Str("path", path).Msg("Screenshot captured")
	return nil
}
