package admin

import (
	"net/http"

	"github.com/MonkyMars/gecho"

	"poolshop_server/handling"
)

func (ar *AdminRoutesManager) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productId, ok := ar.idParam(w, r, "products")
	if !ok {
		return
	}

	if err := ar.services.ProductService.DeleteProduct(r.Context(), productId); err != nil {
		handling.HandleServiceError(err, "products", ar.logger, w)
		return
	}

	ar.logger.Info("Product deleted", gecho.Field("product_id", productId))

	gecho.Success(w,
		gecho.WithMessage("success.products.deleted"),
		gecho.Send(),
	)
}
