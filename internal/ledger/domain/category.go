package domain

// CategoryKind distinguishes the two user-extensible catalogs.
type CategoryKind string

const (
	CategoryKindExpense CategoryKind = "expense"
	CategoryKindIncome  CategoryKind = "income"
)

// Category is one entry of an expense or income catalog.
type Category struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Glyph string `json:"glyph,omitempty"`
}

// DefaultExpenseCategories returns the built-in expense catalog. The catalog
// is restorable on demand; each call returns fresh local ids.
func DefaultExpenseCategories() []Category {
	names := []struct{ name, glyph string }{
		{"Food", "🍜"},
		{"Transport", "🚇"},
		{"Shopping", "🛍️"},
		{"Housing", "🏠"},
		{"Entertainment", "🎮"},
		{"Health", "💊"},
		{"Education", "📚"},
		{"Travel", "✈️"},
		{"Pets", "🐱"},
		{"Other", "📦"},
	}
	out := make([]Category, 0, len(names))
	for _, n := range names {
		out = append(out, Category{ID: NewLocalID(), Name: n.name, Glyph: n.glyph})
	}
	return out
}

// DefaultIncomeCategories returns the built-in income catalog.
func DefaultIncomeCategories() []Category {
	names := []struct{ name, glyph string }{
		{"Salary", "💼"},
		{"Bonus", "🧧"},
		{"Investment", "📈"},
		{"Gift", "🎁"},
		{"Refund", "↩️"},
		{"Other", "💰"},
	}
	out := make([]Category, 0, len(names))
	for _, n := range names {
		out = append(out, Category{ID: NewLocalID(), Name: n.name, Glyph: n.glyph})
	}
	return out
}
