package inventory

type createProductRequest struct {
	Name          string   `json:"name" validate:"required,max=255"`
	Category      Category `json:"category"`
	PurchasePrice float64  `json:"purchase_price" validate:"gte=0"`
	SalePrice     float64  `json:"sale_price" validate:"gte=0"`
	StockQuantity int      `json:"stock_quantity" validate:"gte=0,lte=2147483647"`
	MinQuantity   int      `json:"min_quantity" validate:"gte=0,lte=2147483647"`
}

type updateProductRequest struct {
	Name          *string   `json:"name" validate:"omitempty,max=255"`
	Category      *Category `json:"category"`
	PurchasePrice *float64  `json:"purchase_price" validate:"omitempty,gte=0"`
	SalePrice     *float64  `json:"sale_price" validate:"omitempty,gte=0"`
	StockQuantity *int      `json:"stock_quantity" validate:"omitempty,gte=0,lte=2147483647"`
	MinQuantity   *int      `json:"min_quantity" validate:"omitempty,gte=0,lte=2147483647"`
}

type movementRequest struct {
	Quantity    int      `json:"quantity" validate:"required,gte=1,lte=2147483647"`
	UnitPrice   *float64 `json:"unit_price" validate:"required,gte=0"`
	Description *string  `json:"description" validate:"omitempty,max=1000"`
}
