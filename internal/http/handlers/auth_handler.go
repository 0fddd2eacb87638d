package handlers

import (
	"errors"
	"time"

	"bloomadmin/internal/console"
	"bloomadmin/internal/log"
	"bloomadmin/internal/services"
	"bloomadmin/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth     *services.AuthService
	Registry *console.Registry
}

func clearSession(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	if tok := c.Cookies(SessionCookie); tok != "" {
		if _, err := h.Auth.CurrentUser(tok); err == nil {
			return c.Redirect("/admin")
		}
	}
	return render(c, "login", fiber.Map{"Err": ""})
}

func (h *AuthHandler) loginFailed(c *fiber.Ctx, status int, msg string) error {
	c.Status(status)
	return render(c, "login", fiber.Map{"Err": msg, "Email": c.FormValue("email")})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	email := c.FormValue("email")
	pass := c.FormValue("password")
	if _, ok := validate.Email(email); !ok {
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_format"})
		return h.loginFailed(c, fiber.StatusUnauthorized, "Invalid email or password")
	}
	if !validate.Password(pass) {
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_password_format"})
		return h.loginFailed(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	tok, sess, err := h.Auth.Login(c.UserContext(), email, pass)
	switch {
	case errors.Is(err, services.ErrBadCreds):
		log.Security(c, "auth.login.fail", map[string]any{"email": email})
		return h.loginFailed(c, fiber.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, services.ErrNotAdmin):
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "not_admin"})
		return h.loginFailed(c, fiber.StatusForbidden, "Only administrators can sign in here")
	case err != nil:
		log.Error(c, "auth.login.error", err, map[string]any{"email": email})
		return h.loginFailed(c, fiber.StatusBadGateway, "The shop server could not be reached. Please try again.")
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    tok,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false, // set true behind HTTPS
		Expires:  sess.ExpiresAt,
	})
	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.Redirect("/admin")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid, err := h.Auth.Logout(c.Cookies(SessionCookie))
	if err != nil {
		log.Error(c, "auth.logout.error", err, nil)
	}
	if sid != "" {
		h.Registry.Close(sid)
	}
	clearSession(c)
	log.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return c.Redirect("/login")
}
