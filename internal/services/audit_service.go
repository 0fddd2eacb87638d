package services

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"bloomadmin/internal/log"
	"bloomadmin/internal/repos"
)

// AuditService records admin writes and exports in the audit table and the log.
type AuditService struct {
	Repo *repos.AuditRepo
}

// Record writes one audit entry. Storage failures are logged, never returned:
// the change it describes has already happened.
func (s *AuditService) Record(c *fiber.Ctx, admin, action, entity string, id any, detail string) {
	entityID := ""
	if id != nil {
		entityID = fmt.Sprint(id)
	}
	log.Audit(c, "admin."+entity+"."+action, map[string]any{"id": entityID, "detail": detail})
	if s == nil || s.Repo == nil {
		return
	}
	if err := s.Repo.Record(time.Now(), admin, action, entity, entityID, detail); err != nil {
		log.Error(c, "audit.record.fail", err, map[string]any{"action": action, "entity": entity})
	}
}

func (s *AuditService) Latest(n int) ([]repos.AuditEntry, error) {
	return s.Repo.Latest(n)
}
