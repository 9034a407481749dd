package models

// Product is the wire document of a catalog item.
type Product struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ProductInput is the request body for creating or replacing a product.
// ID is accepted but never written; the path or the store decides it.
type ProductInput struct {
	ID   *int64  `json:"id"`
	Name *string `json:"name" validate:"required,max=64"`
}
