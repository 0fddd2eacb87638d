package handlers

import (
	"github.com/gofiber/fiber/v2"

	"bloomadmin/internal/console"
	applog "bloomadmin/internal/log"
	"bloomadmin/internal/services"
)

// SessionCookie holds the signed session token.
const SessionCookie = "session"

// RequireAdmin admits requests carrying a live admin session and attaches the
// session's workspace.
func RequireAdmin(auth *services.AuthService, reg *console.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := c.Cookies(SessionCookie)
		if tok == "" {
			return c.Redirect("/login")
		}
		sess, err := auth.CurrentUser(tok)
		if err != nil {
			applog.Security(c, "access.denied.admin", map[string]any{"reason": err.Error()})
			clearSession(c)
			return c.Redirect("/login")
		}
		if !sess.User.IsAdmin() {
			applog.Security(c, "access.denied.admin", map[string]any{"email": sess.User.Email})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Access denied"})
		}
		c.Locals("admin", sess.User)
		c.Locals(applog.AdminKey, sess.User.Email)
		c.Locals("workspace", reg.Open(sess.ID, sess.User))
		return c.Next()
	}
}

func workspaceOf(c *fiber.Ctx) *console.Workspace {
	ws, _ := c.Locals("workspace").(*console.Workspace)
	return ws
}

func adminEmail(c *fiber.Ctx) string {
	s, _ := c.Locals(applog.AdminKey).(string)
	return s
}
