package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"bloomadmin/internal/export"
	"bloomadmin/internal/services"
	"bloomadmin/internal/validate"
)

type OrderHandler struct {
	Audit *services.AuditService
}

// GET /admin/orders
func (h *OrderHandler) List(c *fiber.Ctx) error {
	ws := workspaceOf(c)
	openScreen(c, ws.Orders)
	applyView(c, ws.Orders)
	return render(c, "admin_orders", listData(ws.Orders, ws.Orders.View()))
}

// GET /admin/orders/search
func (h *OrderHandler) Search(c *fiber.Ctx) error {
	return liveSearch(c, workspaceOf(c).Orders, "admin_orders_rows")
}

// GET /admin/orders/export
func (h *OrderHandler) Export(c *fiber.Ctx) error {
	ws := workspaceOf(c)
	openScreen(c, ws.Orders)
	return sendExport(c, h.Audit, export.OrderTable(ws.Orders.Rows(), time.Now()), "/admin/orders")
}

// POST /admin/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, "Order not found")
	}
	status := c.FormValue("status")
	if err := workspaceOf(c).UpdateOrderStatus(c.UserContext(), id, status); err != nil {
		return fail(c, "admin.orders.update", "/admin/orders", err, map[string]any{"order_id": id, "status": status})
	}
	h.Audit.Record(c, adminEmail(c), "status", "orders", id, status)
	setFlash(c, "success", "Order status updated.")
	return c.Redirect("/admin/orders", fiber.StatusSeeOther)
}
