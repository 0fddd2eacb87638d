package domain

import (
	"bytes"
	"encoding/json"
)

type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Read      bool      `json:"isRead"`
	ProductID *int64    `json:"product_id,omitempty"`
	CreatedAt Timestamp `json:"created_at"`
}

// UnmarshalJSON accepts the id as a JSON number or string.
func (n *Notification) UnmarshalJSON(b []byte) error {
	type plain Notification
	var aux struct {
		plain
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*n = Notification(aux.plain)
	id := bytes.TrimSpace(aux.ID)
	if len(id) > 0 && id[0] == '"' {
		return json.Unmarshal(id, &n.ID)
	}
	if !bytes.Equal(id, []byte("null")) {
		n.ID = string(id)
	}
	return nil
}
