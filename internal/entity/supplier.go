package entity

type Supplier struct {
	ID      int    `json:"id"`
	Company string `json:"company"`
	Contact string `json:"contact"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Active  bool   `json:"active"`

	// ProductCount is only filled by the supplier listing.
	ProductCount int `json:"product_count,omitempty"`
}

type Customer struct {
	ID       int    `json:"id"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}
