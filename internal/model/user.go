package model

// Admin is the authenticated administrator behind an admin request. Every
// write it performs is scoped to CustomerID.
type Admin struct {
	UserID     int `json:"user_id"`
	CustomerID int `json:"customer_id"`
}
