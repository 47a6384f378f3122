// Package mockdata generates plausible transaction history for the
// in-memory backend, so the dashboard has something to show on a fresh
// start.
package mockdata

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"budget/internal/core"
)

const historyWindow = 182 * 24 * time.Hour // roughly six months

var expenseDescriptions = map[string][]string{
	"food":           {"Grocery run", "Lunch out", "Coffee", "Dinner with friends", "Takeaway"},
	"transportation": {"Fuel", "Train ticket", "Bus pass", "Taxi ride", "Parking"},
	"utilities":      {"Electricity bill", "Water bill", "Internet bill", "Gas bill"},
	"entertainment":  {"Cinema tickets", "Concert", "Video game", "Streaming rental"},
	"shopping":       {"Clothes", "Electronics", "Home goods", "Gift"},
	"health":         {"Pharmacy", "Gym membership", "Doctor visit"},
	"housing":        {"Rent", "Home insurance", "Repairs"},
	"travel":         {"Flight", "Hotel night", "Car rental"},
	"subscriptions":  {"Music subscription", "Cloud storage", "News subscription"},
	"education":      {"Online course", "Books", "Workshop fee"},
}

var incomeDescriptions = map[string][]string{
	"salary":      {"Monthly salary", "Salary"},
	"freelance":   {"Freelance project", "Consulting fee"},
	"bonus":       {"Performance bonus", "Referral bonus"},
	"investments": {"Dividend payout", "Interest"},
	"business":    {"Invoice payment", "Product sale"},
}

var amountRanges = map[string][2]float64{
	"food":           {5, 120},
	"transportation": {2, 90},
	"utilities":      {30, 250},
	"entertainment":  {8, 150},
	"shopping":       {10, 400},
	"health":         {10, 200},
	"housing":        {50, 1500},
	"travel":         {40, 900},
	"subscriptions":  {5, 50},
	"education":      {15, 300},
	"salary":         {1800, 4500},
	"freelance":      {200, 2000},
	"bonus":          {100, 1500},
	"investments":    {10, 600},
	"business":       {150, 3000},
}

// Generate returns n transactions spread over the last six months,
// sorted newest first. The same rng yields the same data, which keeps
// seeded runs reproducible.
func Generate(n int, rng *rand.Rand) []core.Transaction {
	if n <= 0 {
		return nil
	}

	now := time.Now().UTC().Truncate(24 * time.Hour)
	txs := make([]core.Transaction, 0, n)
	for i := 0; i < n; i++ {
		var (
			typ  core.TransactionType
			cat  string
			desc string
		)
		// Keep income rarer than spending, like a real ledger.
		if rng.Intn(100) < 20 {
			typ = core.Income
			cat, desc = pick(incomeDescriptions, rng)
		} else {
			typ = core.Expense
			cat, desc = pick(expenseDescriptions, rng)
		}

		r := amountRanges[cat]
		amount := r[0] + rng.Float64()*(r[1]-r[0])
		amount = float64(int(amount*100)) / 100

		offset := time.Duration(rng.Int63n(int64(historyWindow)))
		date := now.Add(-offset).Truncate(24 * time.Hour)

		txs = append(txs, core.Transaction{
			ID:          fmt.Sprintf("%d-seed%04d", date.UnixMilli(), i),
			Amount:      amount,
			Description: desc,
			Category:    cat,
			Date:        date,
			Type:        typ,
		})
	}

	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date)
	})
	return txs
}

func pick(pool map[string][]string, rng *rand.Rand) (category, description string) {
	cats := make([]string, 0, len(pool))
	for c := range pool {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	category = cats[rng.Intn(len(cats))]
	descs := pool[category]
	description = descs[rng.Intn(len(descs))]
	return category, description
}
