package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"bloomadmin/internal/export"
	"bloomadmin/internal/log"
	"bloomadmin/internal/services"
)

// sendExport renders t in the requested format (xlsx by default) as a download.
func sendExport(c *fiber.Ctx, audit *services.AuditService, t export.Table, back string) error {
	format := strings.ToLower(strings.TrimSpace(c.Query("format", export.XLSX)))
	ct, ok := export.ContentTypes[format]
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "format", "value": format})
		return c.Status(fiber.StatusBadRequest).SendString("unknown export format")
	}
	data, err := export.Render(t, format)
	if err != nil {
		log.Error(c, "admin."+t.Entity+".export.fail", err, map[string]any{"format": format})
		setFlash(c, "error", "The report could not be generated.")
		return c.Redirect(back, fiber.StatusSeeOther)
	}
	audit.Record(c, adminEmail(c), "export", t.Entity, nil, format)
	c.Attachment(export.Filename(t.Entity, format, t.Generated))
	c.Set(fiber.HeaderContentType, ct)
	return c.Send(data)
}
