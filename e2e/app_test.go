package e2e

import (
	"fmt"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// E2ETestSuite provides a test suite for end-to-end tests
type E2ETestSuite struct {
	suite.Suite
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
	expect  playwright.PlaywrightAssertions
}

// SetupSuite runs once before all tests
func (suite *E2ETestSuite) SetupSuite() {
	pw, err := playwright.Run()
	require.NoError(suite.T(), err, "could not launch playwright")
	suite.pw = pw

	browser, err := pw.Chromium.Launch()
	require.NoError(suite.T(), err, "could not launch chromium")
	suite.browser = browser

	suite.expect = playwright.NewPlaywrightAssertions()
}

// TearDownSuite runs once after all tests
func (suite *E2ETestSuite) TearDownSuite() {
	if suite.browser != nil {
		suite.browser.Close()
	}
	if suite.pw != nil {
		suite.pw.Stop()
	}
}

// SetupTest gives every test a fresh browser context so cookies do not leak.
func (suite *E2ETestSuite) SetupTest() {
	page, err := suite.browser.NewPage()
	require.NoError(suite.T(), err, "could not create page")
	suite.page = page

	_, err = suite.page.Goto(appURL)
	require.NoError(suite.T(), err, "could not navigate to app")
}

// TearDownTest runs after each test
func (suite *E2ETestSuite) TearDownTest() {
	if suite.page != nil {
		suite.page.Close()
	}
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}

func (suite *E2ETestSuite) register(email, password string) {
	_, err := suite.page.Goto(appURL + "/register")
	require.NoError(suite.T(), err, "could not open register page")

	err = suite.expect.Locator(suite.page.Locator("#register-form")).ToBeVisible()
	require.NoError(suite.T(), err, "register form not visible")

	require.NoError(suite.T(), suite.page.Locator("#register-form input[name=email]").Fill(email))
	require.NoError(suite.T(), suite.page.Locator("#register-form input[name=password]").Fill(password))
	require.NoError(suite.T(), suite.page.Locator("#register-form button[type=submit]").Click())

	// Registration lands on the login page
	err = suite.expect.Locator(suite.page.Locator("#login-form")).ToBeVisible()
	require.NoError(suite.T(), err, "did not redirect to login after registering")
}

func (suite *E2ETestSuite) login(email, password string) {
	err := suite.expect.Locator(suite.page.Locator("#login-form")).ToBeVisible()
	require.NoError(suite.T(), err, "login form not visible")

	require.NoError(suite.T(), suite.page.Locator("#login-form input[name=email]").Fill(email))
	require.NoError(suite.T(), suite.page.Locator("#login-form input[name=password]").Fill(password))
	require.NoError(suite.T(), suite.page.Locator("#login-form button[type=submit]").Click())

	err = suite.expect.Locator(suite.page.Locator("#transaction-form")).ToBeVisible()
	require.NoError(suite.T(), err, "did not reach dashboard after login")
}

func (suite *E2ETestSuite) addTransaction(amount, category, txType, description string) {
	form := suite.page.Locator("#transaction-form")
	require.NoError(suite.T(), form.Locator("input[name=amount]").Fill(amount))
	require.NoError(suite.T(), form.Locator("input[name=category]").Fill(category))
	_, err := form.Locator("select[name=type]").SelectOption(playwright.SelectOptionValues{
		Values: &[]string{txType},
	})
	require.NoError(suite.T(), err, "failed to select type")
	require.NoError(suite.T(), form.Locator("input[name=description]").Fill(description))
	require.NoError(suite.T(), form.Locator("button[type=submit]").Click())
}

func (suite *E2ETestSuite) TestUnauthenticatedDashboardRedirects() {
	_, err := suite.page.Goto(appURL + "/dashboard")
	require.NoError(suite.T(), err)

	err = suite.expect.Locator(suite.page.Locator("#login-form")).ToBeVisible()
	require.NoError(suite.T(), err, "dashboard should redirect anonymous visitors to login")
}

func (suite *E2ETestSuite) TestWrongPasswordShowsError() {
	email := uniqueEmail("wrongpass")
	suite.register(email, "correct-horse-1")

	require.NoError(suite.T(), suite.page.Locator("#login-form input[name=email]").Fill(email))
	require.NoError(suite.T(), suite.page.Locator("#login-form input[name=password]").Fill("not-the-password"))
	require.NoError(suite.T(), suite.page.Locator("#login-form button[type=submit]").Click())

	err := suite.expect.Locator(suite.page.Locator("#login-form [data-role=error]")).ToHaveText("Invalid email or password")
	require.NoError(suite.T(), err, "login error not shown")
}

func (suite *E2ETestSuite) TestCompleteUserFlow() {
	email := uniqueEmail("flow")
	suite.register(email, "testpass123")
	suite.login(email, "testpass123")

	// Empty ledger
	err := suite.expect.Locator(suite.page.Locator("[data-testid=balance]")).ToHaveText("0.00")
	require.NoError(suite.T(), err, "initial balance mismatch")

	suite.addTransaction("1000", "Salary", "INCOME", "October pay")
	err = suite.expect.Locator(suite.page.Locator("#transactions .item")).ToHaveCount(1)
	require.NoError(suite.T(), err, "income not listed")

	suite.addTransaction("12.50", "Food", "EXPENSE", "Lunch Test")
	err = suite.expect.Locator(suite.page.Locator("#transactions .item")).ToHaveCount(2)
	require.NoError(suite.T(), err, "expense not listed")

	err = suite.expect.Locator(suite.page.Locator("[data-testid=income]")).ToHaveText("1000.00")
	require.NoError(suite.T(), err, "income total mismatch")
	err = suite.expect.Locator(suite.page.Locator("[data-testid=expense]")).ToHaveText("12.50")
	require.NoError(suite.T(), err, "expense total mismatch")
	err = suite.expect.Locator(suite.page.Locator("[data-testid=balance]")).ToHaveText("987.50")
	require.NoError(suite.T(), err, "balance mismatch")

	lunch := suite.page.Locator("#transactions .item", playwright.PageLocatorOptions{
		HasText: "Lunch Test",
	})
	err = suite.expect.Locator(lunch.Locator(".amount")).ToContainText("12.50")
	require.NoError(suite.T(), err, "amount mismatch")

	// Delete the expense
	require.NoError(suite.T(), lunch.Locator("[data-delete]").Click())
	err = suite.expect.Locator(suite.page.Locator("#transactions .item")).ToHaveCount(1)
	require.NoError(suite.T(), err, "expense not removed")
	err = suite.expect.Locator(suite.page.Locator("[data-testid=balance]")).ToHaveText("1000.00")
	require.NoError(suite.T(), err, "balance after delete mismatch")

	// Log out
	require.NoError(suite.T(), suite.page.Locator("#logout").Click())
	err = suite.expect.Locator(suite.page.Locator("#login-form")).ToBeVisible()
	require.NoError(suite.T(), err, "logout did not return to login")
}

func (suite *E2ETestSuite) TestLedgersAreIsolated() {
	alice := uniqueEmail("alice")
	suite.register(alice, "alicepass123")
	suite.login(alice, "alicepass123")
	suite.addTransaction("42", "Books", "EXPENSE", "Only alice sees this")
	err := suite.expect.Locator(suite.page.Locator("#transactions .item")).ToHaveCount(1)
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), suite.page.Locator("#logout").Click())

	bob := uniqueEmail("bob")
	suite.register(bob, "bobpass1234")
	suite.login(bob, "bobpass1234")
	err = suite.expect.Locator(suite.page.Locator("#transactions .item")).ToHaveCount(0)
	require.NoError(suite.T(), err, "another user's transactions leaked")
}

// TestE2ESuite runs the e2e test suite
func TestE2ESuite(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}
