package backend

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"

	"bloomadmin/internal/domain"
)

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := c.getJSON(ctx, "/products", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateProduct(ctx context.Context, p domain.ProductPayload) error {
	return c.sendProduct(ctx, http.MethodPost, "/products", p)
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, p domain.ProductPayload) error {
	return c.sendProduct(ctx, http.MethodPut, "/products/"+strconv.FormatInt(id, 10), p)
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.delete(ctx, "/products/"+strconv.FormatInt(id, 10))
}

func (c *Client) sendProduct(ctx context.Context, method, path string, p domain.ProductPayload) error {
	body, ctype, err := productForm(p)
	if err != nil {
		return &FetchError{Method: method, Path: path, Err: err}
	}
	return c.do(ctx, method, path, ctype, body, nil)
}

// productForm encodes p as the multipart form the backend expects. Unset optional
// fields are left out. A kept image is re-submitted as existingImageUrl.
func productForm(p domain.ProductPayload) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"name", p.Name},
		{"price", p.Price.String()},
		{"stock", strconv.Itoa(p.Stock)},
	}
	if p.Category.Set {
		fields = append(fields, [2]string{"category", p.Category.Value})
	}
	if p.Description.Set {
		fields = append(fields, [2]string{"description", p.Description.Value})
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	switch {
	case p.Image.Replaces():
		fw, err := w.CreateFormFile("image", filepath.Base(p.Image.Filename))
		if err != nil {
			return nil, "", err
		}
		if _, err := fw.Write(p.Image.Data); err != nil {
			return nil, "", fmt.Errorf("write image: %w", err)
		}
	case p.Image.Keeps():
		if err := w.WriteField("existingImageUrl", p.Image.Existing); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
