package console

import (
	"cmp"

	"bloomadmin/internal/domain"
	"bloomadmin/internal/listview"
)

// ProductSpec filters on category, sorts by stock or price and searches the name.
// The inventory screen uses it too.
var ProductSpec = listview.Spec[domain.Product]{
	Filter: func(p domain.Product) string { return p.Category },
	Sorts: map[string]func(a, b domain.Product) int{
		"stock": func(a, b domain.Product) int { return cmp.Compare(a.Stock, b.Stock) },
		"price": func(a, b domain.Product) int { return a.Price.Cmp(b.Price) },
	},
	Search: func(p domain.Product) []string { return []string{p.Name} },
}

// OrderSpec filters on status, sorts by total or date and searches the customer
// and the products ordered.
var OrderSpec = listview.Spec[domain.Order]{
	Filter: func(o domain.Order) string { return string(o.Status) },
	Sorts: map[string]func(a, b domain.Order) int{
		"total": func(a, b domain.Order) int { return a.Total.Cmp(b.Total) },
		"date": func(a, b domain.Order) int {
			return cmp.Compare(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano())
		},
	},
	Search: func(o domain.Order) []string { return append([]string{o.UserName}, o.ProductNames()...) },
}

// UserSpec filters on role and searches name and email.
var UserSpec = listview.Spec[domain.User]{
	Filter: func(u domain.User) string { return string(u.Role) },
	Search: func(u domain.User) []string { return []string{u.Name, u.Email} },
}

func productID(p domain.Product) int64 { return p.ID }
func orderID(o domain.Order) int64     { return o.ID }
func userID(u domain.User) int64       { return u.ID }
