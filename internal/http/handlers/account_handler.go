package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"bloomadmin/internal/domain"
	"bloomadmin/internal/log"
	"bloomadmin/internal/services"
	"bloomadmin/internal/validate"
)

// AccountBackend is what the profile screen needs from the shop API.
type AccountBackend interface {
	GetUser(ctx context.Context, id int64) (domain.User, error)
	UpdateUser(ctx context.Context, id int64, p domain.UserPayload) (domain.User, error)
	ChangePassword(ctx context.Context, current, next string) error
}

// AccountHandler lets the signed-in admin edit their own profile and password.
type AccountHandler struct {
	Backend AccountBackend
	Audit   *services.AuditService
}

// GET /admin/account
func (h *AccountHandler) Profile(c *fiber.Ctx) error {
	ws := workspaceOf(c)
	u, err := h.Backend.GetUser(c.UserContext(), ws.Admin.ID)
	if err != nil {
		log.Error(c, "admin.account.load.fail", err, map[string]any{"id": ws.Admin.ID})
		u = ws.Admin
	}
	return render(c, "admin_account", fiber.Map{"Profile": u})
}

// POST /admin/account
func (h *AccountHandler) UpdateProfile(c *fiber.Ctx) error {
	ws := workspaceOf(c)
	p := domain.UserPayload{
		Name:  c.FormValue("name"),
		Email: c.FormValue("email"),
		Role:  domain.RoleAdmin,
	}
	if err := validate.Struct(p); err != nil {
		return fail(c, "admin.account.update", "/admin/account", err, nil)
	}
	u, err := h.Backend.UpdateUser(c.UserContext(), ws.Admin.ID, p)
	if err != nil {
		return fail(c, "admin.account.update", "/admin/account", err, nil)
	}
	if u.ID == 0 {
		u = domain.User{ID: ws.Admin.ID, Name: p.Name, Email: p.Email, Role: domain.RoleAdmin}
	}
	ws.Users.Store.Update(u.ID, func(domain.User) domain.User { return u })
	h.Audit.Record(c, adminEmail(c), "update", "account", u.ID, u.Email)
	setFlash(c, "success", "Profile updated.")
	return c.Redirect("/admin/account", fiber.StatusSeeOther)
}

// POST /admin/account/password
func (h *AccountHandler) ChangePassword(c *fiber.Ctx) error {
	current := c.FormValue("current_password")
	next := c.FormValue("new_password")
	confirm := c.FormValue("confirm_password")

	errs := validate.Errors{}
	switch {
	case current == "":
		errs["current_password"] = "is required"
	case !validate.Password(next):
		errs["new_password"] = "must be 6 to 72 characters"
	case next != confirm:
		errs["confirm_password"] = "does not match the new password"
	case next == current:
		errs["new_password"] = "must differ from the current password"
	}
	if len(errs) > 0 {
		return fail(c, "admin.account.password", "/admin/account", errs, nil)
	}
	if err := h.Backend.ChangePassword(c.UserContext(), current, next); err != nil {
		return fail(c, "admin.account.password", "/admin/account", err, nil)
	}
	log.Security(c, "auth.password.changed", nil)
	h.Audit.Record(c, adminEmail(c), "password", "account", workspaceOf(c).Admin.ID, "")
	setFlash(c, "success", "Password changed.")
	return c.Redirect("/admin/account", fiber.StatusSeeOther)
}
