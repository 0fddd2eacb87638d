package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardFigures(t *testing.T) {
	env := newConsole(t)
	s := env.login(t)

	resp := env.get(t, s, "/admin")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := body(t, resp)
	assert.Contains(t, page, "PHP 2,400.00")
	assert.Contains(t, page, "Red Roses")
	assert.Contains(t, page, "Bouquet")
	assert.NotContains(t, page, "<td>Potted</td>", "pending orders are not sales")
	assert.Contains(t, page, "Dina", "recent orders include pending ones")
}

func TestDashboardPeriodAndSearch(t *testing.T) {
	env := newConsole(t)
	s := env.login(t)

	bad := env.get(t, s, "/admin?period=last-year")
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)

	page := body(t, env.get(t, s, "/admin?period=current&q=pot"))
	assert.Contains(t, page, "No delivered sales in this period.")

	page = body(t, env.get(t, s, "/admin?period=2001-01"))
	assert.Contains(t, page, "January 2001")
	assert.Contains(t, page, "No delivered sales in this period.")
}

func TestDashboardSurvivesBackendOutage(t *testing.T) {
	env := newConsole(t)
	s := env.login(t)
	env.shop.failOn("GET /orders", http.StatusInternalServerError)

	var page string
	logs := captureLogs(t, func() {
		resp := env.get(t, s, "/admin")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		page = body(t, resp)
	})
	assert.Contains(t, page, "could not be loaded")
	_, found := findLog(logs, "admin.dashboard.orders.fail")
	assert.True(t, found)
}

func TestSalesExportIsAudited(t *testing.T) {
	env := newConsole(t)
	s := env.login(t)

	resp := env.get(t, s, "/admin/sales/export?format=pdf&period=current")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "sales_report_")
	assert.True(t, strings.HasPrefix(body(t, resp), "%PDF"))

	entries, err := env.deps.DashboardHandler.Audit.Latest(5)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "export", entries[0].Action)
	assert.Equal(t, "sales", entries[0].Entity)
	assert.Equal(t, adminEmail, entries[0].Admin)

	// the dashboard lists it
	assert.Contains(t, body(t, env.get(t, s, "/admin")), "export sales")
}

func TestAccountProfileAndPassword(t *testing.T) {
	env := newConsole(t)
	s := env.login(t)

	page := body(t, env.get(t, s, "/admin/account"))
	assert.Contains(t, page, adminEmail)

	resp := env.post(t, s, "/admin/account", url.Values{"name": {"Rosa B."}, "email": {adminEmail}})
	assert.Equal(t, "success|Profile updated.", flash(resp))
	env.shop.mu.Lock()
	assert.Equal(t, "Rosa B.", env.shop.users[0].Name)
	env.shop.mu.Unlock()

	mismatch := env.post(t, s, "/admin/account/password", url.Values{
		"current_password": {adminPassword}, "new_password": {"tulips456"}, "confirm_password": {"tulips457"},
	})
	assert.Contains(t, flash(mismatch), "confirm_password: does not match")
	assert.Zero(t, env.shop.called("PUT /admin/change-password"))

	wrong := env.post(t, s, "/admin/account/password", url.Values{
		"current_password": {"guess123"}, "new_password": {"tulips456"}, "confirm_password": {"tulips456"},
	})
	assert.Equal(t, "error|Current password is incorrect", flash(wrong))

	ok := env.post(t, s, "/admin/account/password", url.Values{
		"current_password": {adminPassword}, "new_password": {"tulips456"}, "confirm_password": {"tulips456"},
	})
	assert.Equal(t, "success|Password changed.", flash(ok))
}
