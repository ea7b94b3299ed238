package admin

import (
	"net/http"

	"github.com/MonkyMars/gecho"

	"poolshop_server/handling"
	"poolshop_server/lib"
	"poolshop_server/structs"
)

func (ar *AdminRoutesManager) CreateProduct(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.ProductRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "products", w)
		return
	}

	product, err := ar.services.ProductService.CreateProduct(r.Context(), body)
	if err != nil {
		handling.HandleServiceError(err, "products", ar.logger, w)
		return
	}

	ar.logger.Info("Product created", gecho.Field("sku", product.SKU), gecho.Field("product_id", product.ID))

	gecho.Success(w,
		gecho.WithMessage("success.products.created"),
		gecho.WithData(product),
		gecho.Send(),
	)
}
