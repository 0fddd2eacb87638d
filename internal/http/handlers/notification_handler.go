package handlers

import (
	"crypto/subtle"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"bloomadmin/internal/console"
	"bloomadmin/internal/domain"
	"bloomadmin/internal/log"
	"bloomadmin/internal/notify"
	"bloomadmin/internal/services"
	"bloomadmin/internal/validate"
)

type NotificationHandler struct {
	Audit *services.AuditService
}

// GET /admin/notifications
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	ws := workspaceOf(c)
	if err := ws.OpenNotifications(c.UserContext()); err != nil {
		log.Error(c, "admin.notifications.load.fail", err, nil)
	}
	q := console.NotesQuery{Filter: c.Query("filter")}
	if raw, ok := queryPresent(c, "q"); ok {
		if term, valid := validate.Q(raw); valid {
			q.Search = &term
		}
	}
	if v := c.Query("page"); v != "" {
		q.Page = validate.Page(v)
	}
	page := ws.NotificationsView(q)
	return render(c, "admin_notifications", fiber.Map{
		"Page":  page,
		"State": ws.NotesState(),
		"Total": ws.Notes.Len(),
	})
}

// POST /admin/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if err := workspaceOf(c).MarkNotificationRead(c.UserContext(), id); err != nil {
		return fail(c, "admin.notifications.read", "/admin/notifications", err, map[string]any{"id": id})
	}
	return c.Redirect("/admin/notifications", fiber.StatusSeeOther)
}

// POST /admin/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	n, err := workspaceOf(c).MarkAllNotificationsRead(c.UserContext())
	if err != nil {
		if n > 0 {
			log.Info(c, "admin.notifications.read_all.partial", map[string]any{"marked": n})
		}
		return fail(c, "admin.notifications.read_all", "/admin/notifications", err, map[string]any{"marked": n})
	}
	h.Audit.Record(c, adminEmail(c), "read_all", "notifications", nil, strconv.Itoa(n))
	setFlash(c, "success", strconv.Itoa(n)+" notifications marked as read.")
	return c.Redirect("/admin/notifications", fiber.StatusSeeOther)
}

// POST /admin/notifications/:id/delete
func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if err := workspaceOf(c).DeleteNotification(c.UserContext(), id); err != nil {
		return fail(c, "admin.notifications.delete", "/admin/notifications", err, map[string]any{"id": id})
	}
	h.Audit.Record(c, adminEmail(c), "delete", "notifications", id, "")
	return c.Redirect("/admin/notifications", fiber.StatusSeeOther)
}

// HookSecretHeader carries the shared secret on backend pushes.
const HookSecretHeader = "X-Hook-Secret"

// HookHandler receives notifications pushed by the shop backend.
type HookHandler struct {
	Hub    *notify.Hub
	Secret string
}

// POST /hooks/notifications
func (h *HookHandler) Notification(c *fiber.Ctx) error {
	got := c.Get(HookSecretHeader)
	if h.Secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(h.Secret)) != 1 {
		log.Security(c, "hook.denied", nil)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	var n domain.Notification
	if err := c.BodyParser(&n); err != nil {
		log.Security(c, "hook.bad_body", map[string]any{"err": err.Error()})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid notification"})
	}
	n.Message = strings.TrimSpace(n.Message)
	if n.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "message is required"})
	}
	n = h.Hub.Publish(n)
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"id": n.ID, "delivered": h.Hub.Len()})
}
