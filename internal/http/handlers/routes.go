package handlers

import "github.com/gofiber/fiber/v2"

// MountAdmin registers the signed-in console under /admin and the backend push hook.
// Login routes are registered by the caller so it can pick the throttling.
func MountAdmin(app *fiber.App, d *Deps) {
	app.Post("/hooks/notifications", d.HookHandler.Notification)
	app.Post("/logout", d.AuthHandler.Logout)

	admin := app.Group("/admin", RequireAdmin(d.Auth, d.Registry))
	admin.Get("/", d.DashboardHandler.Dashboard)
	admin.Get("/sales/export", d.DashboardHandler.Export)

	admin.Get("/products", d.ProductHandler.List)
	admin.Get("/products/search", d.ProductHandler.Search)
	admin.Get("/products/export", d.ProductHandler.Export)
	admin.Post("/products", d.ProductHandler.Create)
	admin.Post("/products/:id", d.ProductHandler.Update)
	admin.Get("/products/:id/delete", d.ProductHandler.ConfirmDelete)
	admin.Post("/products/:id/delete", d.ProductHandler.Delete)

	admin.Get("/inventory", d.InventoryHandler.List)
	admin.Get("/inventory/search", d.InventoryHandler.Search)
	admin.Get("/inventory/export", d.InventoryHandler.Export)
	admin.Post("/inventory/:id", d.InventoryHandler.UpdateStock)

	admin.Get("/orders", d.OrderHandler.List)
	admin.Get("/orders/search", d.OrderHandler.Search)
	admin.Get("/orders/export", d.OrderHandler.Export)
	admin.Post("/orders/:id/status", d.OrderHandler.UpdateStatus)

	admin.Get("/users", d.UserHandler.List)
	admin.Get("/users/search", d.UserHandler.Search)
	admin.Get("/users/export", d.UserHandler.Export)
	admin.Post("/users", d.UserHandler.Create)
	admin.Post("/users/:id", d.UserHandler.Update)
	admin.Get("/users/:id/delete", d.UserHandler.ConfirmDelete)
	admin.Post("/users/:id/delete", d.UserHandler.Delete)

	admin.Get("/notifications", d.NoteHandler.List)
	admin.Post("/notifications/read-all", d.NoteHandler.MarkAllRead)
	admin.Post("/notifications/:id/read", d.NoteHandler.MarkRead)
	admin.Post("/notifications/:id/delete", d.NoteHandler.Delete)

	admin.Get("/account", d.AccountHandler.Profile)
	admin.Post("/account", d.AccountHandler.UpdateProfile)
	admin.Post("/account/password", d.AccountHandler.ChangePassword)
}
