package backend

import (
	"context"
	"net/http"
	"strconv"

	"bloomadmin/internal/domain"
)

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	if err := c.getJSON(ctx, "/users", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetUser(ctx context.Context, id int64) (domain.User, error) {
	var u domain.User
	err := c.getJSON(ctx, "/users/"+strconv.FormatInt(id, 10), &u)
	return u, err
}

// CreateUser posts p and returns the record the backend stored.
func (c *Client) CreateUser(ctx context.Context, p domain.UserPayload) (domain.User, error) {
	var u domain.User
	err := c.sendJSON(ctx, http.MethodPost, "/users", userBody(p), &u)
	return u, err
}

// UpdateUser puts p and returns the record the backend stored.
func (c *Client) UpdateUser(ctx context.Context, id int64, p domain.UserPayload) (domain.User, error) {
	var u domain.User
	err := c.sendJSON(ctx, http.MethodPut, "/users/"+strconv.FormatInt(id, 10), userBody(p), &u)
	return u, err
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.delete(ctx, "/users/"+strconv.FormatInt(id, 10))
}

// userBody drops the fields that do not apply to the role and the unset optional ones.
func userBody(p domain.UserPayload) map[string]any {
	p = p.Normalize()
	body := map[string]any{
		"name":  p.Name,
		"email": p.Email,
		"role":  p.Role,
	}
	if p.ContactNumber.Set {
		body["contact_number"] = p.ContactNumber.Value
	}
	if p.Password.Set && p.Password.Value != "" {
		body["password"] = p.Password.Value
	}
	return body
}
