package admin

import (
	"net/http"

	"github.com/MonkyMars/gecho"

	"poolshop_server/handling"
	"poolshop_server/lib"
	"poolshop_server/structs"
)

func (ar *AdminRoutesManager) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	productId, ok := ar.idParam(w, r, "products")
	if !ok {
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.ProductRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "products", w)
		return
	}

	product, err := ar.services.ProductService.UpdateProduct(r.Context(), productId, body)
	if err != nil {
		handling.HandleServiceError(err, "products", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.products.updated"),
		gecho.WithData(product),
		gecho.Send(),
	)
}

// AdjustStock adds a signed delta to the stock of an owned product
func (ar *AdminRoutesManager) AdjustStock(w http.ResponseWriter, r *http.Request) {
	productId, ok := ar.idParam(w, r, "products")
	if !ok {
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.StockAdjustmentRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "products", w)
		return
	}

	product, err := ar.services.ProductService.AdjustStock(r.Context(), productId, body.Delta)
	if err != nil {
		handling.HandleServiceError(err, "products", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.products.stockAdjusted"),
		gecho.WithData(product),
		gecho.Send(),
	)
}
