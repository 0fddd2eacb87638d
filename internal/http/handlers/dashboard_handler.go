package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"bloomadmin/internal/dashboard"
	"bloomadmin/internal/domain"
	"bloomadmin/internal/export"
	"bloomadmin/internal/log"
	"bloomadmin/internal/services"
	"bloomadmin/internal/validate"
)

// RecentOrders is how many orders the dashboard lists.
const RecentOrders = 5

// DashboardBackend is what the dashboard reads from the shop API.
type DashboardBackend interface {
	ListOrderRows(ctx context.Context) ([]domain.OrderRow, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

type DashboardHandler struct {
	Backend DashboardBackend
	Audit   *services.AuditService
}

type overview struct {
	Stats   dashboard.Stats
	Sales   []dashboard.CategorySales
	Recent  []domain.Order
	Period  string
	LoadErr bool
}

// load fetches fresh order rows and users and derives the figures for period.
func (h *DashboardHandler) load(c *fiber.Ctx, period, q string, now time.Time) (overview, error) {
	ov := overview{Period: period}
	rows, err := h.Backend.ListOrderRows(c.UserContext())
	if err != nil {
		log.Error(c, "admin.dashboard.orders.fail", err, nil)
		ov.LoadErr = true
	}
	users, err := h.Backend.ListUsers(c.UserContext())
	if err != nil {
		log.Error(c, "admin.dashboard.users.fail", err, nil)
		ov.LoadErr = true
	}
	ov.Stats = dashboard.Compute(rows, len(users), now)
	ov.Recent = dashboard.Recent(domain.GroupOrders(rows), RecentOrders)

	sales, err := dashboard.SalesByCategory(rows, period, now)
	if err != nil {
		return ov, err
	}
	if q != "" {
		kept := sales[:0]
		for _, s := range sales {
			if strings.Contains(strings.ToLower(s.Category), strings.ToLower(q)) {
				kept = append(kept, s)
			}
		}
		sales = kept
	}
	ov.Sales = sales
	return ov, nil
}

func dashboardParams(c *fiber.Ctx) (period, q string) {
	period = strings.TrimSpace(c.Query("period", dashboard.PeriodAll))
	if m := strings.TrimSpace(c.Query("month")); m != "" {
		period = m
	}
	q, ok := validate.Q(c.Query("q"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "q"})
		q = ""
	}
	return period, q
}

// GET /admin
func (h *DashboardHandler) Dashboard(c *fiber.Ctx) error {
	now := time.Now()
	period, q := dashboardParams(c)
	ov, err := h.load(c, period, q, now)
	if errors.Is(err, dashboard.ErrBadPeriod) {
		log.Security(c, "validation.fail", map[string]any{"field": "period", "value": period})
		return c.Status(fiber.StatusBadRequest).Render("notfound", fiber.Map{"Message": "Unknown sales period"})
	}
	audit, aerr := h.Audit.Latest(10)
	if aerr != nil {
		log.Error(c, "admin.dashboard.audit.fail", aerr, nil)
	}
	return render(c, "admin_dashboard", fiber.Map{
		"Stats":       ov.Stats,
		"Sales":       ov.Sales,
		"SalesTotal":  dashboard.Total(ov.Sales),
		"PeriodLabel": dashboard.PeriodLabel(period, now),
		"Period":      period,
		"Q":           q,
		"Recent":      ov.Recent,
		"Audit":       audit,
		"LoadErr":     ov.LoadErr,
	})
}

// GET /admin/sales/export
func (h *DashboardHandler) Export(c *fiber.Ctx) error {
	now := time.Now()
	period, q := dashboardParams(c)
	ov, err := h.load(c, period, q, now)
	if errors.Is(err, dashboard.ErrBadPeriod) {
		log.Security(c, "validation.fail", map[string]any{"field": "period", "value": period})
		return c.Status(fiber.StatusBadRequest).SendString("unknown sales period")
	}
	return sendExport(c, h.Audit, export.SalesTable(ov.Sales, ov.Stats, period, now), "/admin")
}
