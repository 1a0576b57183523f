package models

// CreateItemRequest is the form a seller posts to list an item, trimmed but not yet parsed.
type CreateItemRequest struct {
	Name          string `form:"name" validate:"required"`
	Description   string `form:"description" validate:"required"`
	Price         string `form:"price" validate:"required,amount"`
	Condition     string `form:"condition" validate:"required,condition"`
	Location      string `form:"location" validate:"required"`
	Category      string `form:"category" validate:"required"`
	SellerName    string `form:"sellerName" validate:"required"`
	SellerPhone   string `form:"sellerPhone" validate:"required"`
	OriginalPrice string `form:"originalPrice" validate:"omitempty,amount"`
}
