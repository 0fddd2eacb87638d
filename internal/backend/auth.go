package backend

import (
	"context"
	"errors"
	"net/http"

	"bloomadmin/internal/domain"
)

// ErrNoUser is returned when a login succeeds without a user in the response.
var ErrNoUser = errors.New("backend: login response carries no user")

type loginResponse struct {
	User *domain.User `json:"user"`
}

// Login checks the credentials with the backend and returns the signed-in user.
func (c *Client) Login(ctx context.Context, email, password string) (domain.User, error) {
	var out loginResponse
	in := map[string]string{"email": email, "password": password}
	if err := c.sendJSON(ctx, http.MethodPost, "/login", in, &out); err != nil {
		return domain.User{}, err
	}
	if out.User == nil {
		return domain.User{}, ErrNoUser
	}
	return *out.User, nil
}

// ChangePassword asks the backend to replace the admin's password.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	in := map[string]string{"currentPassword": current, "newPassword": next, "confirmPassword": next}
	return c.sendJSON(ctx, http.MethodPut, "/admin/change-password", in, nil)
}
