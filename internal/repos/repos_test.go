package repos_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bloomadmin/internal/domain"
	"bloomadmin/internal/repos"
)

var admin = domain.User{ID: 3, Name: "Admin", Email: "admin@shop.test", Role: domain.RoleAdmin}

func TestSessionLifecycle(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	sessions := repos.NewSessionRepo(db)
	now := time.Now()

	require.NoError(t, sessions.Bind("sid-1", admin, now, now.Add(time.Hour)))
	s, err := sessions.Get("sid-1", now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, admin, s.User)
	assert.WithinDuration(t, now.Add(time.Hour), s.ExpiresAt, time.Millisecond)

	_, err = sessions.Get("sid-1", now.Add(2*time.Hour))
	assert.ErrorIs(t, err, repos.ErrNoSession)
	_, err = sessions.Get("sid-1", now)
	assert.ErrorIs(t, err, repos.ErrNoSession, "expired sessions are deleted on access")

	_, err = sessions.Get("missing", now)
	assert.ErrorIs(t, err, repos.ErrNoSession)
}

func TestSessionDeleteUserAndPurge(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	sessions := repos.NewSessionRepo(db)
	now := time.Now()

	require.NoError(t, sessions.Bind("a", admin, now, now.Add(time.Hour)))
	require.NoError(t, sessions.Bind("b", admin, now, now.Add(time.Hour)))
	require.NoError(t, sessions.Bind("c", domain.User{ID: 9, Name: "X", Email: "x@shop.test", Role: domain.RoleAdmin}, now, now.Add(-time.Second)))

	ids, err := sessions.DeleteUser(admin.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids)

	n, err := sessions.Purge(now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestAuditLatest(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	audit := repos.NewAuditRepo(db)
	base := time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, audit.Record(base, "admin@shop.test", "create", "product", "", "Roses"))
	require.NoError(t, audit.Record(base.Add(time.Minute), "admin@shop.test", "delete", "user", "7", ""))
	require.NoError(t, audit.Record(base.Add(2*time.Minute), "admin@shop.test", "export", "orders", "", "xlsx"))

	got, err := audit.Latest(2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "export", got[0].Action)
	assert.Equal(t, "7", got[1].EntityID)
	assert.True(t, got[1].When().Equal(base.Add(time.Minute)))
}
