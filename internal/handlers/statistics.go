package handlers

import (
	"sort"
	"strings"

	"finance-ledger/internal/models"
)

// CategoryTotal is the spending within one expense category.
type CategoryTotal struct {
	Category   string
	Total      float64
	Count      int
	Percentage float64
	Style      CategoryStyle
}

// Summary holds the totals shown at the top of the dashboard.
type Summary struct {
	Income     float64
	Expense    float64
	Balance    float64
	Categories []CategoryTotal
}

// summarize totals income and expense and breaks expenses down by category,
// largest first. Categories are merged case-insensitively under the first
// spelling seen.
func summarize(transactions []models.Transaction) Summary {
	var s Summary
	byKey := make(map[string]*CategoryTotal)
	var order []string

	for _, t := range transactions {
		if t.Type == models.TransactionIncome {
			s.Income += t.Amount
			continue
		}
		s.Expense += t.Amount

		key := strings.ToLower(t.Category)
		ct, ok := byKey[key]
		if !ok {
			ct = &CategoryTotal{Category: t.Category, Style: getCategoryStyle(t.Category)}
			byKey[key] = ct
			order = append(order, key)
		}
		ct.Total += t.Amount
		ct.Count++
	}
	s.Balance = s.Income - s.Expense

	s.Categories = make([]CategoryTotal, 0, len(order))
	for _, key := range order {
		ct := byKey[key]
		if s.Expense > 0 {
			ct.Percentage = (ct.Total / s.Expense) * 100
		}
		s.Categories = append(s.Categories, *ct)
	}
	sort.SliceStable(s.Categories, func(i, j int) bool {
		return s.Categories[i].Total > s.Categories[j].Total
	})
	return s
}
