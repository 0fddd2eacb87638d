package handlers

import (
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
)

const flashCookie = "flash"

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if a := c.Locals("admin"); a != nil {
		data["Admin"] = a
	}
	if ws := workspaceOf(c); ws != nil {
		data["Unread"] = ws.Notes.Unread()
	}
	// Pick up the token the CSRF middleware put into Locals
	tok, _ := c.Locals("csrf").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	if tok != "" {
		data["CSRFToken"] = tok
	}
	if _, ok := data["Flash"]; !ok {
		if kind, msg := takeFlash(c); msg != "" {
			data["Flash"] = fiber.Map{"Kind": kind, "Message": msg}
		}
	}
	return c.Render(tmpl, data)
}

// setFlash leaves a one-shot message for the next page rendered.
func setFlash(c *fiber.Ctx, kind, msg string) {
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(kind + "|" + msg),
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(time.Minute),
	})
}

func takeFlash(c *fiber.Ctx) (kind, msg string) {
	raw := c.Cookies(flashCookie)
	if raw == "" {
		return "", ""
	}
	c.Cookie(&fiber.Cookie{Name: flashCookie, Value: "", Path: "/", HTTPOnly: true, Expires: time.Now().Add(-time.Hour)})
	v, err := url.QueryUnescape(raw)
	if err != nil {
		return "", ""
	}
	for i := 0; i < len(v); i++ {
		if v[i] == '|' {
			return v[:i], v[i+1:]
		}
	}
	return "info", v
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": msg})
}
