package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"bloomadmin/internal/console"
	"bloomadmin/internal/domain"
	"bloomadmin/internal/export"
	"bloomadmin/internal/log"
	"bloomadmin/internal/repos"
	"bloomadmin/internal/services"
	"bloomadmin/internal/validate"
)

type UserHandler struct {
	Audit    *services.AuditService
	Sessions *repos.SessionRepo
	Registry *console.Registry
}

// GET /admin/users
func (h *UserHandler) List(c *fiber.Ctx) error {
	ws := workspaceOf(c)
	openScreen(c, ws.Users)
	applyView(c, ws.Users)
	data := listData(ws.Users, ws.Users.View())
	if id, ok := validate.ID(c.Query("edit")); ok {
		if u, found := ws.Users.Store.Find(id); found {
			data["Editing"] = u
		}
	}
	return render(c, "admin_users", data)
}

// GET /admin/users/search
func (h *UserHandler) Search(c *fiber.Ctx) error {
	return liveSearch(c, workspaceOf(c).Users, "admin_users_rows")
}

// GET /admin/users/export
func (h *UserHandler) Export(c *fiber.Ctx) error {
	ws := workspaceOf(c)
	openScreen(c, ws.Users)
	return sendExport(c, h.Audit, export.UserTable(ws.Users.Rows(), time.Now()), "/admin/users")
}

// userPayload reads the user form. The password is only sent when typed.
func userPayload(c *fiber.Ctx) domain.UserPayload {
	p := domain.UserPayload{
		Name:  strings.TrimSpace(c.FormValue("name")),
		Email: strings.TrimSpace(c.FormValue("email")),
		Role:  domain.Role(strings.ToLower(strings.TrimSpace(c.FormValue("role")))),
	}
	if formHas(c, "contact_number") {
		p.ContactNumber = domain.Some(strings.TrimSpace(c.FormValue("contact_number")))
	}
	if pw := c.FormValue("password"); pw != "" {
		p.Password = domain.Some(pw)
	}
	return p
}

// POST /admin/users
func (h *UserHandler) Create(c *fiber.Ctx) error {
	p := userPayload(c)
	u, err := workspaceOf(c).CreateUser(c.UserContext(), p)
	if err != nil {
		return fail(c, "admin.users.create", "/admin/users", err, map[string]any{"email": p.Email})
	}
	h.Audit.Record(c, adminEmail(c), "create", "users", u.ID, u.Email)
	setFlash(c, "success", "User "+u.Name+" added.")
	return c.Redirect("/admin/users", fiber.StatusSeeOther)
}

// POST /admin/users/:id
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, "User not found")
	}
	p := userPayload(c)
	u, err := workspaceOf(c).UpdateUser(c.UserContext(), id, p)
	if err != nil {
		return fail(c, "admin.users.update", "/admin/users?edit="+strconv.FormatInt(id, 10), err, map[string]any{"id": id})
	}
	h.Audit.Record(c, adminEmail(c), "update", "users", id, u.Email)
	setFlash(c, "success", "User updated.")
	return c.Redirect("/admin/users", fiber.StatusSeeOther)
}

// GET /admin/users/:id/delete
func (h *UserHandler) ConfirmDelete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, "User not found")
	}
	u, found := workspaceOf(c).Users.Store.Find(id)
	if !found {
		return notFound(c, "User not found")
	}
	return render(c, "admin_confirm", fiber.Map{
		"Title":  "Delete user",
		"What":   u.Name + " (" + u.Email + ")",
		"Action": "/admin/users/" + strconv.FormatInt(id, 10) + "/delete",
		"Back":   "/admin/users",
	})
}

// POST /admin/users/:id/delete also signs the deleted user out of the console.
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	ws := workspaceOf(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, "User not found")
	}
	if !confirmed(c) {
		return c.Redirect("/admin/users", fiber.StatusSeeOther)
	}
	if id == ws.Admin.ID {
		log.Security(c, "admin.users.delete.self", map[string]any{"id": id})
		setFlash(c, "error", "You cannot delete your own account.")
		return c.Redirect("/admin/users", fiber.StatusSeeOther)
	}
	if err := ws.DeleteUser(c.UserContext(), id, true); err != nil {
		return fail(c, "admin.users.delete", "/admin/users", err, map[string]any{"user_id": id})
	}
	sids, err := h.Sessions.DeleteUser(id)
	if err != nil {
		log.Error(c, "admin.users.sessions.fail", err, map[string]any{"user_id": id})
	}
	for _, sid := range sids {
		h.Registry.Close(sid)
	}
	h.Audit.Record(c, adminEmail(c), "delete", "users", id, "")
	setFlash(c, "success", "User deleted.")
	return c.Redirect("/admin/users", fiber.StatusSeeOther)
}
