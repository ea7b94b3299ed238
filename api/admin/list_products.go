package admin

import (
	"net/http"

	"github.com/MonkyMars/gecho"

	"poolshop_server/handling"
)

// ListAllProducts lists the whole catalog, inactive products included,
// with purchase prices and suppliers.
func (ar *AdminRoutesManager) ListAllProducts(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseProductListOptions(r)
	if err != nil {
		ar.invalidQuery(w, err)
		return
	}

	result, err := ar.services.ProductService.GetAllProducts(opts)
	if err != nil {
		handling.HandleServiceError(err, "products", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(result),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) GetProduct(w http.ResponseWriter, r *http.Request) {
	productId, ok := ar.idParam(w, r, "products")
	if !ok {
		return
	}

	product, err := ar.services.ProductService.GetProductByID(productId)
	if err != nil {
		handling.HandleServiceError(err, "products", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(product),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) ListLowStock(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(ar.services.ProductService.LowStockProducts()),
		gecho.Send(),
	)
}
