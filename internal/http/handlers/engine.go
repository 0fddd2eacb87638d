package handlers

import (
	"strings"

	html "github.com/gofiber/template/html/v2"
	"github.com/shopspring/decimal"

	"bloomadmin/internal/domain"
	"bloomadmin/internal/money"
	"bloomadmin/internal/validate"
)

// NewEngine loads the templates under dir with the console's template functions.
func NewEngine(dir string) *html.Engine {
	engine := html.New(dir, ".html")
	engine.AddFunc("peso", func(d decimal.Decimal) string { return money.Format(d) })
	engine.AddFunc("level", domain.StockLevel)
	engine.AddFunc("join", strings.Join)
	engine.AddFunc("lower", strings.ToLower)
	engine.AddFunc("applies", func(role domain.Role, field string) bool { return domain.FieldApplies(role, field) })
	engine.AddFunc("pageSizes", func() []int { return validate.PageSizes })
	engine.AddFunc("statuses", func() []domain.OrderStatus { return domain.OrderStatuses })
	engine.AddFunc("roles", func() []domain.Role { return domain.Roles })
	engine.AddFunc("eq_s", func(a, b any) bool { return strings.EqualFold(toString(a), toString(b)) })
	return engine
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case domain.Role:
		return string(x)
	case domain.OrderStatus:
		return string(x)
	case nil:
		return ""
	}
	return ""
}
