// Package fixtures provides the fixed sample data served by the API endpoints.
//
// The data is immutable for the lifetime of the process: every call returns
// the same records in the same order, with no I/O and no randomness. Accessors
// return fresh slices so callers can never mutate the shared fixtures, which
// makes them safe to use from any number of concurrent requests.
package fixtures

// User is a fixed sample user record.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OrderStatus is the fulfillment state of a sample order.
type OrderStatus string

// Order statuses.
const (
	StatusPending   OrderStatus = "pending"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
)

// Order is a fixed sample order record. UserID references a User by ID;
// the reference is not enforced anywhere because the data never changes.
type Order struct {
	ID     int         `json:"id"`
	UserID int         `json:"user_id"`
	Total  float64     `json:"total"`
	Status OrderStatus `json:"status"`
}

var users = []User{
	{ID: 1, Name: "Alice", Email: "alice@example.com"},
	{ID: 2, Name: "Bob", Email: "bob@example.com"},
	{ID: 3, Name: "Charlie", Email: "charlie@example.com"},
}

var orders = []Order{
	{ID: 101, UserID: 1, Total: 99.99, Status: StatusShipped},
	{ID: 102, UserID: 2, Total: 149.50, Status: StatusPending},
	{ID: 103, UserID: 1, Total: 29.99, Status: StatusDelivered},
}

// Users returns the fixed user records in their canonical order.
func Users() []User {
	out := make([]User, len(users))
	copy(out, users)
	return out
}

// Orders returns the fixed order records in their canonical order.
func Orders() []Order {
	out := make([]Order, len(orders))
	copy(out, orders)
	return out
}
