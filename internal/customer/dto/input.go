package dto

type CreateCustomerInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string // Optional
}
