package products

import (
	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"

	"poolshop_server/services"
)

type ProductRoutesManager struct {
	logger         *gecho.Logger
	productService *services.ProductService
}

func NewProductRoutesManager(
	logger *gecho.Logger,
	productService *services.ProductService,
) *ProductRoutesManager {
	return &ProductRoutesManager{
		logger:         logger,
		productService: productService,
	}
}

func (prm *ProductRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/products", prm.FetchAllProducts)
	r.Get("/products/categories", prm.FetchCategories)
	r.Get("/products/{id}", prm.FetchProductByID)
}
