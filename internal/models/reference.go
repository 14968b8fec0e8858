package models

import "time"

// Customer is a persisted customer reference.
type Customer struct {
	Code        string `csv:"code" json:"code"`
	DisplayName string `csv:"name" json:"displayName"`
}

// Order is a persisted order reference.
type Order struct {
	Number string `csv:"number" json:"number"`
}

// FieldStaff is a persisted field-staff member. Code doubles as the chat
// authentication code.
type FieldStaff struct {
	Code string `csv:"code" json:"code"`
	Name string `csv:"name" json:"name"`
}

// Product is a persisted record.
type Product struct {
	ID            string    `json:"id"`
	AccountNumber string    `json:"accountNumber"`
	Record        Record    `json:"record"`
	CreatedAt     time.Time `json:"createdAt"`
}
