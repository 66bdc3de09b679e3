// Package fixtures generates plausible orders and expenses for demos and
// load tests. Output is deterministic for a given seed and reference day.
package fixtures

import (
	"math/rand"

	"github.com/jaswdr/faker"
	"github.com/shopspring/decimal"

	"github.com/roach88/cakeledger/internal/model"
)

var cakeTypes = []string{
	"Black Forest",
	"Chocolate Truffle",
	"Red Velvet",
	"Pineapple",
	"Butterscotch",
	"Vanilla Sponge",
	"Fresh Fruit",
	"Mango Cheesecake",
}

var expenseDescriptions = map[string][]string{
	model.CategoryIngredients: {"Flour and sugar", "Butter", "Fresh cream", "Cocoa", "Eggs"},
	model.CategoryPackaging:   {"Cake boxes", "Boards", "Ribbon"},
	model.CategoryDelivery:    {"Fuel", "Courier fee"},
	model.CategoryEquipment:   {"Piping tips", "Cake tins"},
	model.CategoryMarketing:   {"Flyers", "Social media ads"},
	model.CategoryUtilities:   {"Electricity", "Gas cylinder"},
	model.CategoryOther:       {"Miscellaneous"},
}

// Generator produces fixture records. Not safe for concurrent use.
type Generator struct {
	fake      faker.Faker
	today     model.Date
	customers []model.Customer
}

// New returns a generator seeded with seed. Dates are spread around today.
func New(seed int64, today model.Date) *Generator {
	return &Generator{
		fake:  faker.NewWithSeed(rand.NewSource(seed)),
		today: today,
	}
}

func (g *Generator) money(min, max int) decimal.Decimal {
	// whole units plus a multiple of 0.50
	units := g.fake.IntBetween(min, max)
	half := g.fake.IntBetween(0, 1)
	return decimal.NewFromInt(int64(units)).Add(decimal.New(int64(half*5), -1))
}

// customer returns a repeat customer about a third of the time once some
// exist, otherwise a new one.
func (g *Generator) customer() (name, phone string) {
	if len(g.customers) > 0 && g.fake.IntBetween(0, 2) == 0 {
		c := g.customers[g.fake.IntBetween(0, len(g.customers)-1)]
		return c.Name, c.Phone
	}
	name = g.fake.Person().Name()
	phone = g.fake.Numerify("555#######")
	g.customers = append(g.customers, model.Customer{Name: name, Phone: phone})
	return name, phone
}

// Order returns an order without an ID. The order date falls in the last
// 60 days and the due date up to two weeks after it.
func (g *Generator) Order() model.Order {
	name, phone := g.customer()
	orderDate := g.today.AddDays(-g.fake.IntBetween(0, 60))
	due := orderDate.AddDays(g.fake.IntBetween(1, 14))

	o := model.Order{
		CustomerName:  name,
		CustomerPhone: phone,
		CakeType:      g.fake.RandomStringElement(cakeTypes),
		Quantity:      g.fake.IntBetween(1, 3),
		Price:         g.money(20, 120),
		IsEggless:     g.fake.IntBetween(0, 3) == 0,
		OrderDate:     orderDate,
		DueDate:       due,
		Status:        model.StatusPending,
	}
	if g.fake.Bool() {
		o.AdditionalCharges = g.money(0, 15)
	}
	if g.fake.Bool() {
		o.HasDelivery = true
		o.DeliveryAddress = g.fake.Address().StreetAddress()
		o.DeliveryCharge = g.money(3, 12)
	}
	if g.fake.IntBetween(0, 2) == 0 {
		o.OtherDetails = g.fake.Lorem().Sentence(6)
	}
	if due.Before(g.today) {
		o.Status = model.StatusDelivered
	} else if g.fake.Bool() {
		o.Status = model.StatusInProgress
	}
	return o
}

// Expense returns an expense without an ID dated in the last 60 days.
func (g *Generator) Expense() model.Expense {
	category := g.fake.RandomStringElement(model.Categories)
	return model.Expense{
		Description: g.fake.RandomStringElement(expenseDescriptions[category]),
		Amount:      g.money(2, 80),
		Date:        g.today.AddDays(-g.fake.IntBetween(0, 60)),
		Category:    category,
	}
}

// Orders returns n orders.
func (g *Generator) Orders(n int) []model.Order {
	out := make([]model.Order, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, g.Order())
	}
	return out
}

// Expenses returns n expenses.
func (g *Generator) Expenses(n int) []model.Expense {
	out := make([]model.Expense, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, g.Expense())
	}
	return out
}
