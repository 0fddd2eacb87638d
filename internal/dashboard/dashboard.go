// Package dashboard computes the overview figures from the backend's order rows.
// Only delivered orders count towards sales.
package dashboard

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bloomadmin/internal/domain"
)

// Sales periods.
const (
	PeriodAll     = "all"
	PeriodCurrent = "current"
)

// ErrBadPeriod is returned for a period that is neither "all", "current" nor YYYY-MM.
var ErrBadPeriod = errors.New("dashboard: period must be all, current or YYYY-MM")

// NoProduct is shown when nothing sold in the month.
const NoProduct = "N/A"

type Stats struct {
	DeliveredOrders    int
	Revenue            decimal.Decimal
	DeliveredThisMonth int
	RevenueThisMonth   decimal.Decimal
	ProductsSold       int
	Users              int
	MostSold           string
	Month              string
}

// CategorySales is the delivered revenue of one category in a period.
type CategorySales struct {
	Category string
	Total    decimal.Decimal
}

func delivered(r domain.OrderRow) bool {
	return strings.EqualFold(strings.TrimSpace(r.Status), string(domain.StatusDelivered))
}

func sameMonth(t time.Time, year int, month time.Month) bool {
	return t.Year() == year && t.Month() == month
}

// Compute derives the overview cards. Orders are counted once however many line items they have.
func Compute(rows []domain.OrderRow, users int, now time.Time) Stats {
	st := Stats{Users: users, Month: now.Month().String(), MostSold: NoProduct}

	orders := map[int64]bool{}
	ordersMonth := map[int64]bool{}
	products := map[int64]bool{}
	qty := map[string]int{}
	var names []string

	for _, r := range rows {
		products[r.ProductID] = true
		if !delivered(r) {
			continue
		}
		orders[r.OrderID] = true
		st.Revenue = st.Revenue.Add(r.ItemTotal)
		if !sameMonth(r.CreatedAt.Time, now.Year(), now.Month()) {
			continue
		}
		ordersMonth[r.OrderID] = true
		st.RevenueThisMonth = st.RevenueThisMonth.Add(r.ItemTotal)
		if _, ok := qty[r.ProductName]; !ok {
			names = append(names, r.ProductName)
		}
		qty[r.ProductName] += r.Quantity
	}
	st.DeliveredOrders = len(orders)
	st.DeliveredThisMonth = len(ordersMonth)
	st.ProductsSold = len(products)

	best := 0
	for _, n := range names {
		if qty[n] > best {
			best = qty[n]
			st.MostSold = n
		}
	}
	return st
}

// ParsePeriod resolves period into a year and month. ok is false for "all".
func ParsePeriod(period string, now time.Time) (year int, month time.Month, ok bool, err error) {
	switch p := strings.ToLower(strings.TrimSpace(period)); p {
	case "", PeriodAll:
		return 0, 0, false, nil
	case PeriodCurrent:
		return now.Year(), now.Month(), true, nil
	default:
		t, perr := time.Parse("2006-01", p)
		if perr != nil {
			return 0, 0, false, ErrBadPeriod
		}
		return t.Year(), t.Month(), true, nil
	}
}

// PeriodLabel names period for headings: "All time" or "October 2025".
func PeriodLabel(period string, now time.Time) string {
	y, m, ok, err := ParsePeriod(period, now)
	if err != nil || !ok {
		return "All time"
	}
	return fmt.Sprintf("%s %d", m, y)
}

// SalesByCategory sums delivered line items per category in the period. Rows without a
// category are grouped under their product name. Categories keep first-seen order.
func SalesByCategory(rows []domain.OrderRow, period string, now time.Time) ([]CategorySales, error) {
	y, m, monthly, err := ParsePeriod(period, now)
	if err != nil {
		return nil, err
	}
	idx := map[string]int{}
	var out []CategorySales
	for _, r := range rows {
		if !delivered(r) || (monthly && !sameMonth(r.CreatedAt.Time, y, m)) {
			continue
		}
		key := r.Category
		if key == "" {
			key = r.ProductName
		}
		i, ok := idx[key]
		if !ok {
			out = append(out, CategorySales{Category: key})
			i = len(out) - 1
			idx[key] = i
		}
		out[i].Total = out[i].Total.Add(r.ItemTotal)
	}
	return out, nil
}

// Total adds up the sales of every category.
func Total(sales []CategorySales) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range sales {
		sum = sum.Add(s.Total)
	}
	return sum
}

// Recent returns the n most recently created orders, newest first.
func Recent(orders []domain.Order, n int) []domain.Order {
	out := slices.Clone(orders)
	slices.SortStableFunc(out, func(a, b domain.Order) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
