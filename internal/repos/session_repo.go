package repos

import (
	"database/sql"
	"errors"
	"time"

	"bloomadmin/internal/domain"

	"github.com/jmoiron/sqlx"
)

// ErrNoSession is returned for an unknown or expired session id.
var ErrNoSession = errors.New("session not found")

// tsLayout is fixed width so stored timestamps compare correctly as text.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Session struct {
	ID        string
	User      domain.User
	CreatedAt time.Time
	LastSeen  time.Time
	ExpiresAt time.Time
}

type sessionRow struct {
	ID        string `db:"id"`
	UserID    int64  `db:"user_id"`
	Name      string `db:"name"`
	Email     string `db:"email"`
	Role      string `db:"role"`
	CreatedAt string `db:"created_at"`
	LastSeen  string `db:"last_seen"`
	ExpiresAt string `db:"expires_at"`
}

func (r sessionRow) session() Session {
	parse := func(s string) time.Time {
		t, _ := time.Parse(tsLayout, s)
		return t
	}
	return Session{
		ID:        r.ID,
		User:      domain.User{ID: r.UserID, Name: r.Name, Email: r.Email, Role: domain.Role(r.Role)},
		CreatedAt: parse(r.CreatedAt),
		LastSeen:  parse(r.LastSeen),
		ExpiresAt: parse(r.ExpiresAt),
	}
}

type SessionRepo struct{ DB *sqlx.DB }

func NewSessionRepo(db *sqlx.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Bind stores the signed-in user under sid until expires.
func (r *SessionRepo) Bind(sid string, u domain.User, now, expires time.Time) error {
	_, err := r.DB.Exec(`INSERT INTO sessions(id,user_id,name,email,role,created_at,last_seen,expires_at)
                          VALUES(?,?,?,?,?,?,?,?)
                          ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id,name=excluded.name,
                            email=excluded.email,role=excluded.role,last_seen=excluded.last_seen,expires_at=excluded.expires_at`,
		sid, u.ID, u.Name, u.Email, string(u.Role),
		now.UTC().Format(tsLayout), now.UTC().Format(tsLayout), expires.UTC().Format(tsLayout))
	return err
}

// Get returns the live session sid and records the access time.
func (r *SessionRepo) Get(sid string, now time.Time) (Session, error) {
	var row sessionRow
	err := r.DB.Get(&row, `SELECT id,user_id,name,email,role,created_at,last_seen,expires_at FROM sessions WHERE id=?`, sid)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, err
	}
	s := row.session()
	if !now.Before(s.ExpiresAt) {
		_ = r.Delete(sid)
		return Session{}, ErrNoSession
	}
	if _, err := r.DB.Exec(`UPDATE sessions SET last_seen=? WHERE id=?`, now.UTC().Format(tsLayout), sid); err != nil {
		return Session{}, err
	}
	s.LastSeen = now
	return s, nil
}

func (r *SessionRepo) Delete(sid string) error {
	_, err := r.DB.Exec(`DELETE FROM sessions WHERE id=?`, sid)
	return err
}

// DeleteUser ends every session of the user, e.g. after the account was deleted.
func (r *SessionRepo) DeleteUser(userID int64) ([]string, error) {
	tx, err := r.DB.Beginx()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var ids []string
	if err := tx.Select(&ids, `SELECT id FROM sessions WHERE user_id=?`, userID); err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		query, args, err := sqlx.In(`DELETE FROM sessions WHERE id IN (?)`, ids)
		if err != nil {
			return nil, err
		}
		if _, err := tx.Exec(query, args...); err != nil {
			return nil, err
		}
	}
	return ids, tx.Commit()
}

// Purge drops sessions that expired before now and returns how many.
func (r *SessionRepo) Purge(now time.Time) (int64, error) {
	res, err := r.DB.Exec(`DELETE FROM sessions WHERE expires_at <= ?`, now.UTC().Format(tsLayout))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
