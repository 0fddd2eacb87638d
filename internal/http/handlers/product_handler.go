package handlers

import (
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"bloomadmin/internal/domain"
	"bloomadmin/internal/export"
	"bloomadmin/internal/services"
	"bloomadmin/internal/validate"
)

// MaxImageSize caps an uploaded product image.
const MaxImageSize = 5 << 20

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

type ProductHandler struct {
	Audit *services.AuditService
}

// GET /admin/products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	ws := workspaceOf(c)
	openScreen(c, ws.Products)
	applyView(c, ws.Products)
	data := listData(ws.Products, ws.Products.View())
	if id, ok := validate.ID(c.Query("edit")); ok {
		if p, found := ws.Products.Store.Find(id); found {
			data["Editing"] = p
		}
	}
	return render(c, "admin_products", data)
}

// GET /admin/products/search
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	return liveSearch(c, workspaceOf(c).Products, "admin_products_rows")
}

// GET /admin/products/export
func (h *ProductHandler) Export(c *fiber.Ctx) error {
	ws := workspaceOf(c)
	openScreen(c, ws.Products)
	return sendExport(c, h.Audit, export.ProductTable(ws.Products.Rows(), time.Now()), "/admin/products")
}

// POST /admin/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	p, ferr := productPayload(c)
	if ferr != nil {
		return fail(c, "admin.products.create", "/admin/products", ferr, nil)
	}
	if err := workspaceOf(c).CreateProduct(c.UserContext(), p); err != nil {
		return fail(c, "admin.products.create", "/admin/products", err, map[string]any{"name": p.Name})
	}
	h.Audit.Record(c, adminEmail(c), "create", "products", nil, p.Name)
	setFlash(c, "success", "Product added.")
	return c.Redirect("/admin/products", fiber.StatusSeeOther)
}

// POST /admin/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, "Product not found")
	}
	back := "/admin/products?edit=" + strconv.FormatInt(id, 10)
	p, ferr := productPayload(c)
	if ferr != nil {
		return fail(c, "admin.products.update", back, ferr, map[string]any{"id": id})
	}
	if err := workspaceOf(c).UpdateProduct(c.UserContext(), id, p); err != nil {
		return fail(c, "admin.products.update", back, err, map[string]any{"id": id})
	}
	h.Audit.Record(c, adminEmail(c), "update", "products", id, p.Name)
	setFlash(c, "success", "Product updated.")
	return c.Redirect("/admin/products", fiber.StatusSeeOther)
}

// GET /admin/products/:id/delete
func (h *ProductHandler) ConfirmDelete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, "Product not found")
	}
	p, found := workspaceOf(c).Products.Store.Find(id)
	if !found {
		return notFound(c, "Product not found")
	}
	return render(c, "admin_confirm", fiber.Map{
		"Title":  "Delete product",
		"What":   p.Name,
		"Action": "/admin/products/" + strconv.FormatInt(id, 10) + "/delete",
		"Back":   "/admin/products",
	})
}

// POST /admin/products/:id/delete
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, "Product not found")
	}
	if !confirmed(c) {
		return c.Redirect("/admin/products", fiber.StatusSeeOther)
	}
	if err := workspaceOf(c).DeleteProduct(c.UserContext(), id, true); err != nil {
		return fail(c, "admin.products.delete", "/admin/products", err, map[string]any{"id": id})
	}
	h.Audit.Record(c, adminEmail(c), "delete", "products", id, "")
	setFlash(c, "success", "Product deleted.")
	return c.Redirect("/admin/products", fiber.StatusSeeOther)
}

// formHas reports whether the submitted form carries key at all, even empty.
func formHas(c *fiber.Ctx, key string) bool {
	if form, err := c.MultipartForm(); err == nil {
		_, ok := form.Value[key]
		return ok
	}
	return c.Request().PostArgs().Has(key)
}

func optional(c *fiber.Ctx, key string) domain.Field[string] {
	if !formHas(c, key) {
		return domain.None[string]()
	}
	return domain.Some(strings.TrimSpace(c.FormValue(key)))
}

// productPayload reads the product form. Parse errors come back as validate.Errors so they
// are reported like any other invalid field.
func productPayload(c *fiber.Ctx) (domain.ProductPayload, error) {
	errs := validate.Errors{}
	p := domain.ProductPayload{
		Name:        strings.TrimSpace(c.FormValue("name")),
		Category:    optional(c, "category"),
		Description: optional(c, "description"),
	}

	price, err := decimal.NewFromString(strings.TrimSpace(c.FormValue("price")))
	if err != nil {
		errs["price"] = "must be a number"
	} else {
		p.Price = price
	}
	stock, err := strconv.Atoi(strings.TrimSpace(c.FormValue("stock")))
	if err != nil {
		errs["stock"] = "must be a whole number"
	} else {
		p.Stock = stock
	}

	if fh, err := c.FormFile("image"); err == nil && fh.Size > 0 {
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		switch {
		case !imageExts[ext]:
			errs["image"] = "must be a JPG, PNG, GIF or WEBP file"
		case fh.Size > MaxImageSize:
			errs["image"] = "must be at most 5 MB"
		default:
			f, err := fh.Open()
			if err != nil {
				return p, err
			}
			data, err := io.ReadAll(io.LimitReader(f, MaxImageSize+1))
			f.Close()
			if err != nil {
				return p, err
			}
			p.Image = domain.ReplaceImage(filepath.Base(fh.Filename), data)
		}
	} else if existing := strings.TrimSpace(c.FormValue("existingImageUrl")); existing != "" {
		p.Image = domain.KeepImage(existing)
	}

	if len(errs) > 0 {
		var ve validate.Errors
		if errors.As(validate.Struct(p), &ve) {
			for k, m := range ve {
				if _, dup := errs[k]; !dup {
					errs[k] = m
				}
			}
		}
		return p, errs
	}
	return p, nil
}
