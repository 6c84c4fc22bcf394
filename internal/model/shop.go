// internal/model/shop.go
package model

// Product is one catalog entry usable as campaign content.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price,omitempty"`
}

// Shop groups catalog products for the content-source selector.
type Shop struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Products []Product `json:"products"`
}
