package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/vietanh2810/inventory-api/internal/domain"
)

// CreateItemRequest uses pointers so a missing field can be told apart from a zero value.
type CreateItemRequest struct {
	Name        *string  `json:"name" example:"Widget"`
	Description *string  `json:"description" example:"A small blue widget"`
	Price       *float64 `json:"price" example:"9.99"`
	Quantity    *int     `json:"quantity" example:"3"`
}

func (req *CreateItemRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.NotNil),
		validation.Field(&req.Description, validation.NotNil),
		validation.Field(&req.Price, validation.NotNil),
		validation.Field(&req.Quantity, validation.NotNil),
	)
}

func (req *CreateItemRequest) ToDomain() domain.Item {
	return domain.Item{
		Name:        *req.Name,
		Description: *req.Description,
		Price:       *req.Price,
		Quantity:    *req.Quantity,
	}
}

// UpdateItemRequest is a partial update: omitted (or null) fields are left unchanged.
type UpdateItemRequest struct {
	Name        *string  `json:"name,omitempty" example:"Widget"`
	Description *string  `json:"description,omitempty" example:"A small blue widget"`
	Price       *float64 `json:"price,omitempty" example:"12.5"`
	Quantity    *int     `json:"quantity,omitempty" example:"0"`
}

func (req *UpdateItemRequest) ToDomain() domain.ItemUpdate {
	return domain.ItemUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
	}
}

type ListItemsRequest struct {
	Skip  int `form:"skip,default=0"`
	Limit int `form:"limit,default=10"`
}

func (req *ListItemsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Skip, validation.Min(0)),
		validation.Field(&req.Limit, validation.Min(0)),
	)
}

func (req *ListItemsRequest) ToDomain() domain.Page {
	return domain.Page{
		Skip:  req.Skip,
		Limit: req.Limit,
	}
}

type SearchItemsRequest struct {
	Name        *string  `form:"name"`
	Description *string  `form:"description"`
	MinPrice    *float64 `form:"min_price"`
	MaxPrice    *float64 `form:"max_price"`
	Quantity    *int     `form:"quantity"`
}

func (req *SearchItemsRequest) ToDomain() domain.ItemFilter {
	return domain.ItemFilter{
		Name:        req.Name,
		Description: req.Description,
		MinPrice:    req.MinPrice,
		MaxPrice:    req.MaxPrice,
		Quantity:    req.Quantity,
	}
}
