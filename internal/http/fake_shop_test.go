package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bloomadmin/internal/domain"
)

const (
	adminEmail    = "rosa@bloom.test"
	adminPassword = "petals123"
)

// fakeShop is an in-memory shop backend speaking the REST API the console calls.
type fakeShop struct {
	mu       sync.Mutex
	products []domain.Product
	users    []domain.User
	rows     []domain.OrderRow
	notes    []domain.Notification
	calls    []string
	fail     map[string]int
	nextID   int64
	lastForm map[string][]string
	srv      *httptest.Server
}

func newFakeShop(t *testing.T) *fakeShop {
	t.Helper()
	now := time.Now()
	f := &fakeShop{
		fail:   map[string]int{},
		nextID: 100,
		products: []domain.Product{
			{ID: 1, Name: "Red Roses", Price: decimal.RequireFromString("1200"), Stock: 5, Category: "Bouquet", ImageURL: "/uploads/roses.png"},
			{ID: 2, Name: "Sunflower Pot", Price: decimal.RequireFromString("450.5"), Stock: 40, Category: "Potted"},
			{ID: 3, Name: "Tulip Mix", Price: decimal.RequireFromString("899"), Stock: 0, Category: "Bouquet"},
		},
		users: []domain.User{
			{ID: 1, Name: "Rosa Admin", Email: adminEmail, Role: domain.RoleAdmin},
			{ID: 2, Name: "Carl Customer", Email: "carl@bloom.test", ContactNumber: "09171234567", Role: domain.RoleCustomer},
		},
		rows: []domain.OrderRow{
			{OrderID: 10, OrderItemID: 1, UserName: "Carl Customer", OrderTotal: decimal.RequireFromString("2400"), PaymentMode: "COD",
				Status: "Delivered", CreatedAt: domain.Timestamp{Time: now}, ProductID: 1, ProductName: "Red Roses", Category: "Bouquet",
				Quantity: 2, ItemTotal: decimal.RequireFromString("2400")},
			{OrderID: 11, OrderItemID: 2, UserName: "Dina", OrderTotal: decimal.RequireFromString("450.5"), PaymentMode: "GCash",
				Status: "Pending", CreatedAt: domain.Timestamp{Time: now}, ProductID: 2, ProductName: "Sunflower Pot", Category: "Potted",
				Quantity: 1, ItemTotal: decimal.RequireFromString("450.5")},
		},
		notes: []domain.Notification{
			{ID: "n1", Message: "Low stock: Red Roses", CreatedAt: domain.Timestamp{Time: now}},
			{ID: "n2", Message: "New order #11", Read: true, CreatedAt: domain.Timestamp{Time: now}},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", f.login)
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) { f.list(w, r, func() any { return f.products }) })
	mux.HandleFunc("POST /products", f.createProduct)
	mux.HandleFunc("PUT /products/{id}", f.updateProduct)
	mux.HandleFunc("DELETE /products/{id}", f.deleteProduct)
	mux.HandleFunc("GET /orders", func(w http.ResponseWriter, r *http.Request) { f.list(w, r, func() any { return f.rows }) })
	mux.HandleFunc("PUT /orders/{id}/status", f.orderStatus)
	mux.HandleFunc("GET /users", func(w http.ResponseWriter, r *http.Request) { f.list(w, r, func() any { return f.users }) })
	mux.HandleFunc("GET /users/{id}", f.getUser)
	mux.HandleFunc("POST /users", f.createUser)
	mux.HandleFunc("PUT /users/{id}", f.updateUser)
	mux.HandleFunc("DELETE /users/{id}", f.deleteUser)
	mux.HandleFunc("GET /notifications", func(w http.ResponseWriter, r *http.Request) { f.list(w, r, func() any { return f.notes }) })
	mux.HandleFunc("PUT /notifications/{id}/read", f.readNote)
	mux.HandleFunc("DELETE /notifications/{id}", f.deleteNote)
	mux.HandleFunc("PUT /admin/change-password", f.changePassword)

	f.srv = httptest.NewServer(f.record(mux))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeShop) URL() string { return f.srv.URL }

// failOn makes every call to "METHOD /path" answer status until cleared.
func (f *fakeShop) failOn(route string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[route] = status
}

func (f *fakeShop) called(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == route {
			n++
		}
	}
	return n
}

func (f *fakeShop) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + r.URL.Path
		f.mu.Lock()
		f.calls = append(f.calls, route)
		status, failing := f.fail[route]
		f.mu.Unlock()
		if failing {
			writeJSON(w, status, map[string]string{"error": "backend says no"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeShop) list(w http.ResponseWriter, _ *http.Request, get func() any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, get())
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id
}

func (f *fakeShop) login(w http.ResponseWriter, r *http.Request) {
	var in struct{ Email, Password string }
	_ = json.NewDecoder(r.Body).Decode(&in)
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == in.Email && in.Password == adminPassword {
			writeJSON(w, http.StatusOK, map[string]any{"user": u})
			return
		}
	}
	writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
}

func (f *fakeShop) productFromForm(r *http.Request, p *domain.Product) {
	_ = r.ParseMultipartForm(8 << 20)
	f.lastForm = r.MultipartForm.Value
	p.Name = r.FormValue("name")
	p.Price, _ = decimal.NewFromString(r.FormValue("price"))
	p.Stock, _ = strconv.Atoi(r.FormValue("stock"))
	if v, ok := r.MultipartForm.Value["category"]; ok {
		p.Category = v[0]
	}
	if _, fh, err := r.FormFile("image"); err == nil {
		p.ImageURL = "/uploads/" + fh.Filename
	} else {
		p.ImageURL = r.FormValue("existingImageUrl")
	}
}

func (f *fakeShop) createProduct(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p := domain.Product{ID: f.nextID}
	f.productFromForm(r, &p)
	f.products = append(f.products, p)
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Product added"})
}

func (f *fakeShop) updateProduct(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := pathID(r)
	for i := range f.products {
		if f.products[i].ID == id {
			f.productFromForm(r, &f.products[i])
			writeJSON(w, http.StatusOK, map[string]string{"message": "Product updated"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Product not found"})
}

func (f *fakeShop) deleteProduct(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := pathID(r)
	for i := range f.products {
		if f.products[i].ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Product not found"})
}

func (f *fakeShop) orderStatus(w http.ResponseWriter, r *http.Request) {
	var in struct{ Status string }
	_ = json.NewDecoder(r.Body).Decode(&in)
	f.mu.Lock()
	defer f.mu.Unlock()
	id := pathID(r)
	for i := range f.rows {
		if f.rows[i].OrderID == id {
			f.rows[i].Status = in.Status
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Status updated"})
}

func (f *fakeShop) getUser(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := pathID(r)
	for _, u := range f.users {
		if u.ID == id {
			writeJSON(w, http.StatusOK, u)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})
}

type userIn struct {
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	Role          domain.Role `json:"role"`
	ContactNumber *string     `json:"contact_number"`
	Password      *string     `json:"password"`
}

func (f *fakeShop) createUser(w http.ResponseWriter, r *http.Request) {
	var in userIn
	_ = json.NewDecoder(r.Body).Decode(&in)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	u := domain.User{ID: f.nextID, Name: in.Name, Email: in.Email, Role: in.Role}
	if in.ContactNumber != nil {
		u.ContactNumber = *in.ContactNumber
	}
	f.users = append(f.users, u)
	writeJSON(w, http.StatusCreated, u)
}

func (f *fakeShop) updateUser(w http.ResponseWriter, r *http.Request) {
	var in userIn
	_ = json.NewDecoder(r.Body).Decode(&in)
	f.mu.Lock()
	defer f.mu.Unlock()
	id := pathID(r)
	for i := range f.users {
		if f.users[i].ID == id {
			f.users[i].Name, f.users[i].Email, f.users[i].Role = in.Name, in.Email, in.Role
			if in.ContactNumber != nil {
				f.users[i].ContactNumber = *in.ContactNumber
			}
			writeJSON(w, http.StatusOK, f.users[i])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})
}

func (f *fakeShop) deleteUser(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := pathID(r)
	for i := range f.users {
		if f.users[i].ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})
}

func (f *fakeShop) readNote(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.notes {
		if f.notes[i].ID == r.PathValue("id") {
			f.notes[i].Read = true
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
}

func (f *fakeShop) deleteNote(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.notes {
		if f.notes[i].ID == r.PathValue("id") {
			f.notes = append(f.notes[:i], f.notes[i+1:]...)
			break
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
}

func (f *fakeShop) changePassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)
	if in.CurrentPassword != adminPassword {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Current password is incorrect"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed"})
}
