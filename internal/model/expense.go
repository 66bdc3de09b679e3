package model

import "github.com/shopspring/decimal"

// Expense categories offered by the entry form. Category is free text,
// so rows with other values are kept as they are.
const (
	CategoryIngredients = "Ingredients"
	CategoryPackaging   = "Packaging"
	CategoryDelivery    = "Delivery"
	CategoryEquipment   = "Equipment"
	CategoryMarketing   = "Marketing"
	CategoryUtilities   = "Utilities"
	CategoryOther       = "Other"
)

// Categories lists the predefined expense categories.
var Categories = []string{
	CategoryIngredients,
	CategoryPackaging,
	CategoryDelivery,
	CategoryEquipment,
	CategoryMarketing,
	CategoryUtilities,
	CategoryOther,
}

// Expense is a single business expense.
type Expense struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        Date            `json:"date"`
	Category    string          `json:"category"`
}

// Equal reports whether two expenses carry the same values.
func (e Expense) Equal(f Expense) bool {
	return e.ID == f.ID &&
		e.Description == f.Description &&
		e.Amount.Equal(f.Amount) &&
		e.Date == f.Date &&
		e.Category == f.Category
}
