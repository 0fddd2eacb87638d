package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"bloomadmin/internal/domain"
	"bloomadmin/internal/export"
	"bloomadmin/internal/services"
	"bloomadmin/internal/validate"
)

// InventoryHandler serves the stock view over the products store.
type InventoryHandler struct {
	Audit *services.AuditService
}

// GET /admin/inventory
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	ws := workspaceOf(c)
	openScreen(c, ws.Inventory)
	applyView(c, ws.Inventory)
	return render(c, "admin_inventory", listData(ws.Inventory, ws.Inventory.View()))
}

// GET /admin/inventory/search
func (h *InventoryHandler) Search(c *fiber.Ctx) error {
	return liveSearch(c, workspaceOf(c).Inventory, "admin_inventory_rows")
}

// GET /admin/inventory/export
func (h *InventoryHandler) Export(c *fiber.Ctx) error {
	ws := workspaceOf(c)
	openScreen(c, ws.Inventory)
	return sendExport(c, h.Audit, export.InventoryTable(ws.Inventory.Rows(), time.Now()), "/admin/inventory")
}

// POST /admin/inventory/:id sets the stock of one product and keeps everything else.
func (h *InventoryHandler) UpdateStock(c *fiber.Ctx) error {
	ws := workspaceOf(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, "Product not found")
	}
	cur, found := ws.Products.Store.Find(id)
	if !found {
		return notFound(c, "Product not found")
	}
	stock, err := strconv.Atoi(strings.TrimSpace(c.FormValue("stock")))
	if err != nil {
		return fail(c, "admin.inventory.save", "/admin/inventory", validate.Errors{"stock": "must be a whole number"}, map[string]any{"id": id})
	}
	p := domain.ProductPayload{
		Name:        cur.Name,
		Price:       cur.Price,
		Stock:       stock,
		Category:    domain.Some(cur.Category),
		Description: domain.Some(cur.Description),
		Image:       domain.KeepImage(cur.ImageURL),
	}
	if err := ws.UpdateProduct(c.UserContext(), id, p); err != nil {
		return fail(c, "admin.inventory.save", "/admin/inventory", err, map[string]any{"id": id, "stock": stock})
	}
	h.Audit.Record(c, adminEmail(c), "stock", "inventory", id, strconv.Itoa(stock))
	setFlash(c, "success", "Stock updated for "+cur.Name+".")
	return c.Redirect("/admin/inventory", fiber.StatusSeeOther)
}
