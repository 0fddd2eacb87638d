package domain

import "github.com/shopspring/decimal"

// Field is an optional payload value. An unset Field is left out of the request so the
// backend keeps its current value; a set Field is always sent, even when empty, which
// clears the value on the backend.
type Field[T any] struct {
	Set   bool
	Value T
}

// Some returns a set Field holding v.
func Some[T any](v T) Field[T] { return Field[T]{Set: true, Value: v} }

// None returns an unset Field.
func None[T any]() Field[T] { return Field[T]{} }

type imageAction int

const (
	imageNone imageAction = iota
	imageKeep
	imageReplace
)

// ImageUpdate says what a product mutation does with the product image.
type ImageUpdate struct {
	action   imageAction
	Existing string
	Filename string
	Data     []byte
}

// NoImage sends no image part at all. On update the backend treats this as clearing the image.
func NoImage() ImageUpdate { return ImageUpdate{} }

// KeepImage re-submits the current image reference so an update retains it.
func KeepImage(url string) ImageUpdate {
	if url == "" {
		return NoImage()
	}
	return ImageUpdate{action: imageKeep, Existing: url}
}

// ReplaceImage uploads a new image binary.
func ReplaceImage(filename string, data []byte) ImageUpdate {
	if len(data) == 0 {
		return NoImage()
	}
	return ImageUpdate{action: imageReplace, Filename: filename, Data: data}
}

func (u ImageUpdate) Keeps() bool    { return u.action == imageKeep }
func (u ImageUpdate) Replaces() bool { return u.action == imageReplace }

// ProductPayload is the body of POST /products and PUT /products/{id}.
type ProductPayload struct {
	Name        string          `validate:"required,max=120"`
	Price       decimal.Decimal `validate:"gte=0"`
	Stock       int             `validate:"gte=0"`
	Category    Field[string]
	Description Field[string]
	Image       ImageUpdate
}

// UserPayload is the body of POST /users and PUT /users/{id}.
// Password left unset on update keeps the current password.
type UserPayload struct {
	Name          string `json:"name" validate:"required,max=80"`
	Email         string `json:"email" validate:"required,email,max=120"`
	ContactNumber Field[string]
	Role          Role `json:"role" validate:"required,oneof=admin customer"`
	Password      Field[string]
}

// Normalize applies the role field rules: fields that do not apply to the role are unset.
func (p UserPayload) Normalize() UserPayload {
	if !FieldApplies(p.Role, FieldContactNumber) {
		p.ContactNumber = None[string]()
	}
	return p
}
