package products

// ProductForm is the create/update payload.
type ProductForm struct {
	Code         string  `json:"code" validate:"required,max=32"`
	Name         string  `json:"name" validate:"required,max=128"`
	Category     string  `json:"category" validate:"max=64"`
	Unit         string  `json:"unit" validate:"max=20"`
	Price        float64 `json:"price" validate:"gte=0"`
	Cost         float64 `json:"cost" validate:"gte=0"`
	MinStock     float64 `json:"min_stock" validate:"gte=0"`
	MaxStock     float64 `json:"max_stock" validate:"gtfield=MinStock"`
	ReorderPoint float64 `json:"reorder_point" validate:"gte=0"`
	IsActive     bool    `json:"is_active"`
}

func (f ProductForm) toModel() Product {
	return Product{
		Code:         f.Code,
		Name:         f.Name,
		Category:     f.Category,
		Unit:         f.Unit,
		Price:        f.Price,
		Cost:         f.Cost,
		MinStock:     f.MinStock,
		MaxStock:     f.MaxStock,
		ReorderPoint: f.ReorderPoint,
		IsActive:     f.IsActive,
	}
}
