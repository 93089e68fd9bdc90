package domain

type Item struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// ItemUpdate carries the fields of a partial update. A nil field is left untouched.
type ItemUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	Quantity    *int
}

func (u ItemUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil && u.Quantity == nil
}

// ItemFilter narrows a search. Nil fields and empty strings are not applied;
// everything else is combined with AND.
type ItemFilter struct {
	Name        *string
	Description *string
	MinPrice    *float64
	MaxPrice    *float64
	Quantity    *int
}

type Page struct {
	Skip  int
	Limit int
}

const (
	DefaultSkip  = 0
	DefaultLimit = 10
)
