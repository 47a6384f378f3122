package core

// Category is a descriptive display association for a category identifier.
// The store never validates transactions against this catalog; category is
// an open string set and unknown values fall back to the default entry.
type Category struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Icon string          `json:"icon"`
	Type TransactionType `json:"type"`
}

var defaultCategory = Category{ID: "default", Name: "Other", Icon: "credit-card", Type: Expense}

var catalog = []Category{
	{ID: "food", Name: "Food & Dining", Icon: "utensils", Type: Expense},
	{ID: "transportation", Name: "Transportation", Icon: "car", Type: Expense},
	{ID: "utilities", Name: "Utilities", Icon: "zap", Type: Expense},
	{ID: "entertainment", Name: "Entertainment", Icon: "film", Type: Expense},
	{ID: "shopping", Name: "Shopping", Icon: "shopping-bag", Type: Expense},
	{ID: "health", Name: "Health", Icon: "heart", Type: Expense},
	{ID: "healthcare", Name: "Healthcare", Icon: "heart", Type: Expense},
	{ID: "education", Name: "Education", Icon: "book-open", Type: Expense},
	{ID: "housing", Name: "Housing", Icon: "credit-card", Type: Expense},
	{ID: "travel", Name: "Travel", Icon: "film", Type: Expense},
	{ID: "subscriptions", Name: "Subscriptions", Icon: "film", Type: Expense},
	{ID: "salary", Name: "Salary", Icon: "dollar-sign", Type: Income},
	{ID: "freelance", Name: "Freelance", Icon: "laptop", Type: Income},
	{ID: "bonus", Name: "Bonus", Icon: "gift", Type: Income},
	{ID: "investments", Name: "Investments", Icon: "bar-chart", Type: Income},
	{ID: "business", Name: "Business", Icon: "dollar-sign", Type: Income},
}

// Catalog returns a copy of the category display catalog.
func Catalog() []Category {
	out := make([]Category, len(catalog))
	copy(out, catalog)
	return out
}

// LookupCategory resolves an identifier to its catalog entry, falling back
// to the default entry for unknown identifiers.
func LookupCategory(id string) Category {
	for _, c := range catalog {
		if c.ID == id {
			return c
		}
	}
	return defaultCategory
}
