package export

import (
	"strings"
	"time"

	"bloomadmin/internal/dashboard"
	"bloomadmin/internal/domain"
	"bloomadmin/internal/money"
)

func ProductTable(ps []domain.Product, at time.Time) Table {
	t := Table{
		Entity:    "products",
		Title:     "Products Report",
		Header:    []string{"Name", "Category", "Price", "Stock"},
		Widths:    []float64{4, 3, 2, 1},
		Generated: at,
	}
	for _, p := range ps {
		t.Rows = append(t.Rows, []any{p.Name, p.Category, money.Format(p.Price), p.Stock})
	}
	return t
}

func InventoryTable(ps []domain.Product, at time.Time) Table {
	t := Table{
		Entity:    "inventory",
		Title:     "Inventory Report",
		Header:    []string{"Name", "Category", "Price", "Stock", "Level"},
		Widths:    []float64{4, 3, 2.5, 1, 2},
		Generated: at,
	}
	for _, p := range ps {
		t.Rows = append(t.Rows, []any{p.Name, p.Category, money.Format(p.Price), p.Stock, domain.StockLevel(p.Stock)})
	}
	return t
}

func OrderTable(os []domain.Order, at time.Time) Table {
	t := Table{
		Entity:    "orders",
		Title:     "Orders Report",
		Header:    []string{"Name", "Products", "Qty", "Total", "Payment", "Date", "Status"},
		Widths:    []float64{3, 5, 1, 2.5, 2, 2.5, 2.5},
		Generated: at,
	}
	for _, o := range os {
		t.Rows = append(t.Rows, []any{
			o.UserName,
			strings.Join(o.ProductNames(), ", "),
			o.Quantity(),
			money.Format(o.Total),
			o.PaymentMode,
			o.CreatedAt.Date(),
			string(o.Status),
		})
	}
	return t
}

func UserTable(us []domain.User, at time.Time) Table {
	t := Table{
		Entity:    "users",
		Title:     "Users Report",
		Header:    []string{"Name", "Email", "Contact", "Role"},
		Widths:    []float64{3, 4, 2.5, 1.5},
		Generated: at,
	}
	for _, u := range us {
		contact := u.ContactNumber
		if !domain.FieldApplies(u.Role, domain.FieldContactNumber) || contact == "" {
			contact = "-"
		}
		t.Rows = append(t.Rows, []any{u.Name, u.Email, contact, string(u.Role)})
	}
	return t
}

// SalesTable is the dashboard sales report for one period.
func SalesTable(sales []dashboard.CategorySales, st dashboard.Stats, period string, at time.Time) Table {
	t := Table{
		Entity: "sales",
		Title:  "Sales Report",
		Subtitle: []string{
			"Revenue for " + dashboard.PeriodLabel(period, at) + ": " + money.Format(dashboard.Total(sales)),
			"Most Sold Product (" + st.Month + "): " + st.MostSold,
		},
		Header:    []string{"Category", "Sales"},
		Widths:    []float64{3, 2},
		Generated: at,
	}
	for _, s := range sales {
		t.Rows = append(t.Rows, []any{s.Category, money.Format(s.Total)})
	}
	return t
}
