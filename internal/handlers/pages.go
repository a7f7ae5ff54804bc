package handlers

import (
	"fmt"
	"html/template"
	"net/http"
	"sort"
	"strings"
	"time"

	"finance-ledger/internal/apperr"
	"finance-ledger/internal/models"
)

// CategoryDef defines the properties of a suggested category.
type CategoryDef struct {
	ID    string
	Name  string
	Icon  string
	Color string
}

var categories = []CategoryDef{
	{"salary", "Salary", "💼", "#34d399"},
	{"food", "Food", "🍽️", "#60a5fa"},
	{"transport", "Transport", "🚌", "#a78bfa"},
	{"entertainment", "Entertainment", "🎮", "#f472b6"},
	{"utilities", "Utilities", "💡", "#fbbf24"},
	{"housing", "Housing", "🏠", "#818cf8"},
	{"gifts", "Gifts", "🎁", "#fb7185"},
	{"other", "Other", "📦", "#94a3b8"},
}

// CategoryStyle defines the visual style for a category.
type CategoryStyle struct {
	Icon  string
	Color string
}

func getCategoryStyle(category string) CategoryStyle {
	catLower := strings.ToLower(strings.TrimSpace(category))
	for _, c := range categories {
		if c.ID == catLower {
			return CategoryStyle{Icon: c.Icon, Color: c.Color}
		}
	}
	return CategoryStyle{Icon: "📦", Color: "#94a3b8"}
}

// TransactionItem represents a transaction in the dashboard list.
type TransactionItem struct {
	models.Transaction
	Style    CategoryStyle
	IsIncome bool
}

// TransactionGroup groups transactions by calendar day.
type TransactionGroup struct {
	Title string
	Date  string
	Net   float64
	Items []TransactionItem
}

// AuthViewModel holds data for the login and register pages.
type AuthViewModel struct {
	Email string
	Error string
}

// DashboardViewModel is the data passed to the dashboard template.
type DashboardViewModel struct {
	Email      string
	Today      string
	Summary    Summary
	Groups     []TransactionGroup
	Categories []CategoryDef
}

// Index sends signed-in callers to the dashboard and everyone else to login.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.guard.ResolveCallerID(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

// LoginPage renders the login page.
func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	// If already logged in, redirect to the dashboard
	if _, ok := h.guard.ResolveCallerID(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	h.render(w, r, "login.html", AuthViewModel{})
}

// RegisterPage renders the registration page.
func (h *Handlers) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.guard.ResolveCallerID(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	h.render(w, r, "register.html", AuthViewModel{})
}

// Dashboard renders the caller's ledger. It must be mounted behind PageAuth.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r)
	if session == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	transactions, err := h.store.ListTransactions(r.Context(), session.UserID)
	if err != nil {
		h.logger.Error("list transactions for dashboard failed", "error", err)
		http.Error(w, apperr.MsgInternal, http.StatusInternalServerError)
		return
	}

	h.render(w, r, "dashboard.html", DashboardViewModel{
		Email:      session.Email,
		Today:      time.Now().UTC().Format("2006-01-02"),
		Summary:    summarize(transactions),
		Groups:     groupByDay(transactions, time.Now().UTC()),
		Categories: categories,
	})
}

// groupByDay buckets transactions by their date, most recent day first.
// Within a day the incoming order is kept.
func groupByDay(transactions []models.Transaction, now time.Time) []TransactionGroup {
	groupsMap := make(map[string]*TransactionGroup)

	for _, t := range transactions {
		dateStr := t.Date.Format("2006-01-02")
		if _, ok := groupsMap[dateStr]; !ok {
			groupsMap[dateStr] = &TransactionGroup{Date: dateStr, Title: formatGroupTitle(t.Date, now)}
		}
		group := groupsMap[dateStr]

		isIncome := t.Type == models.TransactionIncome
		if isIncome {
			group.Net += t.Amount
		} else {
			group.Net -= t.Amount
		}

		group.Items = append(group.Items, TransactionItem{
			Transaction: t,
			Style:       getCategoryStyle(t.Category),
			IsIncome:    isIncome,
		})
	}

	groups := make([]TransactionGroup, 0, len(groupsMap))
	for _, g := range groupsMap {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Date > groups[j].Date })
	return groups
}

func formatGroupTitle(date, now time.Time) string {
	dateStr := date.Format("2006-01-02")

	if dateStr == now.Format("2006-01-02") {
		return "TODAY"
	}
	if dateStr == now.AddDate(0, 0, -1).Format("2006-01-02") {
		return "YESTERDAY"
	}
	return strings.ToUpper(date.Format("Mon, 02 Jan '06"))
}

var templateFuncs = template.FuncMap{
	"money": func(v float64) string {
		if v < 0 {
			return fmt.Sprintf("-%.2f", -v)
		}
		return fmt.Sprintf("%.2f", v)
	},
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, viewName string, data any) {
	tmpl, err := template.New(viewName).Funcs(templateFuncs).ParseFS(h.templates, "base.html", viewName)
	if err != nil {
		h.logger.Error("template parse failed", "view", viewName, "error", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	target := "base.html"
	if r.Header.Get("HX-Request") == "true" {
		target = "content"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, target, data); err != nil {
		h.logger.Error("template execution failed", "view", viewName, "error", err)
	}
}
