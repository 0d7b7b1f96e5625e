// store_pages.go - Page objects for the demo store used by the example suite.
// Locator chains deliberately lead with brittle locators so the fallback
// behavior is exercised on every run.

package ui

import (
	"github.com/ternarybob/specto/pkg/locator"
	"github.com/ternarybob/specto/pkg/pages"
	"github.com/ternarybob/specto/pkg/session"
)

// LoginPage models the demo store login screen.
type LoginPage struct {
	*pages.BasePage

	Username    pages.Element
	Password    pages.Element
	LoginButton pages.Element
	Error       pages.Element
}

func NewLoginPage(s *session.Session) *LoginPage {
	return &LoginPage{
		BasePage: pages.NewBasePage(s),
		Username: pages.Element{
			Name: "username field",
			Locators: []locator.Spec{
				locator.XPath("//input[@data-test='username-legacy']"),
				locator.ID("user-name"),
				locator.CSS("input[data-test='username']"),
			},
		},
		Password: pages.Element{
			Name: "password field",
			Locators: []locator.Spec{
				locator.ID("password"),
				locator.CSS("input[data-test='password']"),
			},
		},
		LoginButton: pages.Element{
			Name: "login button",
			Locators: []locator.Spec{
				locator.ID("login-button"),
				locator.CSS("input[type='submit']"),
				locator.Text("Login"),
			},
		},
		Error: pages.Element{
			Name: "login error message",
			Locators: []locator.Spec{
				locator.CSS("h3[data-test='error']"),
				locator.CSS(".error-message-container"),
			},
		},
	}
}

// Login submits the credentials.
func (p *LoginPage) Login(username, password string) error {
	if err := p.Type(p.Username, username); err != nil {
		return err
	}
	if err := p.Type(p.Password, password); err != nil {
		return err
	}
	return p.Click(p.LoginButton)
}

// ErrorText returns the login error banner text.
func (p *LoginPage) ErrorText() (string, error) {
	return p.Text(p.Error)
}

// InventoryPage models the product listing shown after login.
type InventoryPage struct {
	*pages.BasePage

	Title        pages.Element
	FirstAddItem pages.Element
	CartBadge    pages.Element
	CartLink     pages.Element
}

func NewInventoryPage(s *session.Session) *InventoryPage {
	return &InventoryPage{
		BasePage: pages.NewBasePage(s),
		Title: pages.Element{
			Name: "inventory title",
			Locators: []locator.Spec{
				locator.CSS("span[data-test='title']"),
				locator.CSS(".title"),
			},
		},
		FirstAddItem: pages.Element{
			Name: "add to cart button",
			Locators: []locator.Spec{
				locator.ID("add-to-cart-sauce-labs-backpack"),
				locator.CSS(".inventory_item:first-child button"),
			},
		},
		CartBadge: pages.Element{
			Name: "cart badge",
			Locators: []locator.Spec{
				locator.CSS("span[data-test='shopping-cart-badge']"),
				locator.CSS(".shopping_cart_badge"),
			},
		},
		CartLink: pages.Element{
			Name: "cart link",
			Locators: []locator.Spec{
				locator.CSS("a[data-test='shopping-cart-link']"),
				locator.CSS(".shopping_cart_link"),
			},
		},
	}
}

// CartPage models the shopping cart.
type CartPage struct {
	*pages.BasePage

	ItemName pages.Element
	Checkout pages.Element
}

func NewCartPage(s *session.Session) *CartPage {
	return &CartPage{
		BasePage: pages.NewBasePage(s),
		ItemName: pages.Element{
			Name: "cart item name",
			Locators: []locator.Spec{
				locator.CSS(".cart_item .inventory_item_name"),
			},
		},
		Checkout: pages.Element{
			Name: "checkout button",
			Locators: []locator.Spec{
				locator.ID("checkout"),
				locator.Text("Checkout"),
			},
		},
	}
}
