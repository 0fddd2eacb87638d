package handlers

import (
	"bloomadmin/internal/backend"
	"bloomadmin/internal/config"
	"bloomadmin/internal/console"
	"bloomadmin/internal/notify"
	"bloomadmin/internal/repos"
	"bloomadmin/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	Auth             *services.AuthService
	Registry         *console.Registry
	AuthHandler      *AuthHandler
	DashboardHandler *DashboardHandler
	ProductHandler   *ProductHandler
	InventoryHandler *InventoryHandler
	OrderHandler     *OrderHandler
	UserHandler      *UserHandler
	NoteHandler      *NotificationHandler
	HookHandler      *HookHandler
	AccountHandler   *AccountHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, client *backend.Client) *Deps {
	sessRepo := repos.NewSessionRepo(db)
	auditSvc := &services.AuditService{Repo: repos.NewAuditRepo(db)}
	authSvc := &services.AuthService{
		Backend:  client,
		Sessions: sessRepo,
		Secret:   []byte(cfg.SessionSecret),
		TTL:      cfg.SessionTTL,
	}

	hub := notify.NewHub()
	reg := console.NewRegistry(client, hub, console.Options{
		PageSize:       cfg.PageSize,
		SearchDelay:    cfg.SearchDebounce,
		RefetchTimeout: cfg.BackendTimeout,
	}, cfg.WorkspaceIdle)

	return &Deps{
		Auth:             authSvc,
		Registry:         reg,
		AuthHandler:      &AuthHandler{Auth: authSvc, Registry: reg},
		DashboardHandler: &DashboardHandler{Backend: client, Audit: auditSvc},
		ProductHandler:   &ProductHandler{Audit: auditSvc},
		InventoryHandler: &InventoryHandler{Audit: auditSvc},
		OrderHandler:     &OrderHandler{Audit: auditSvc},
		UserHandler:      &UserHandler{Audit: auditSvc, Sessions: sessRepo, Registry: reg},
		NoteHandler:      &NotificationHandler{Audit: auditSvc},
		HookHandler:      &HookHandler{Hub: hub, Secret: cfg.HookSecret},
		AccountHandler:   &AccountHandler{Backend: client, Audit: auditSvc},
	}
}
