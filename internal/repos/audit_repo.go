package repos

import (
	"time"

	"github.com/jmoiron/sqlx"
)

type AuditEntry struct {
	ID       int64  `db:"id"`
	At       string `db:"at"`
	Admin    string `db:"admin_email"`
	Action   string `db:"action"`
	Entity   string `db:"entity"`
	EntityID string `db:"entity_id"`
	Detail   string `db:"detail"`
}

// When parses At.
func (e AuditEntry) When() time.Time {
	t, _ := time.Parse(tsLayout, e.At)
	return t
}

type AuditRepo struct{ DB *sqlx.DB }

func NewAuditRepo(db *sqlx.DB) *AuditRepo { return &AuditRepo{DB: db} }

func (r *AuditRepo) Record(at time.Time, admin, action, entity, entityID, detail string) error {
	_, err := r.DB.Exec(`INSERT INTO audit(at,admin_email,action,entity,entity_id,detail) VALUES(?,?,?,?,?,?)`,
		at.UTC().Format(tsLayout), admin, action, entity, entityID, detail)
	return err
}

// Latest returns up to n entries, newest first.
func (r *AuditRepo) Latest(n int) ([]AuditEntry, error) {
	var out []AuditEntry
	err := r.DB.Select(&out, `SELECT id,at,admin_email,action,entity,COALESCE(entity_id,'') AS entity_id,COALESCE(detail,'') AS detail
                             FROM audit ORDER BY id DESC LIMIT ?`, n)
	return out, err
}
