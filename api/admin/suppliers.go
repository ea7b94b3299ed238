package admin

import (
	"net/http"

	"github.com/MonkyMars/gecho"

	"poolshop_server/handling"
	"poolshop_server/lib"
	"poolshop_server/structs"
)

func (ar *AdminRoutesManager) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers := ar.services.SupplierService.List(r.URL.Query().Get("search"))

	gecho.Success(w,
		gecho.WithData(suppliers),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) GetSupplier(w http.ResponseWriter, r *http.Request) {
	supplierId, ok := ar.idParam(w, r, "supplier")
	if !ok {
		return
	}

	supplier, err := ar.services.SupplierService.Get(supplierId)
	if err != nil {
		handling.HandleServiceError(err, "supplier", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(supplier),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.SupplierRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "supplier", w)
		return
	}

	supplier, err := ar.services.SupplierService.Create(r.Context(), body)
	if err != nil {
		handling.HandleServiceError(err, "supplier", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.supplier.created"),
		gecho.WithData(supplier),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	supplierId, ok := ar.idParam(w, r, "supplier")
	if !ok {
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.SupplierRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "supplier", w)
		return
	}

	supplier, err := ar.services.SupplierService.Update(r.Context(), supplierId, body)
	if err != nil {
		handling.HandleServiceError(err, "supplier", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.supplier.updated"),
		gecho.WithData(supplier),
		gecho.Send(),
	)
}

// DeleteSupplier refuses suppliers still referenced by a product
func (ar *AdminRoutesManager) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	supplierId, ok := ar.idParam(w, r, "supplier")
	if !ok {
		return
	}

	if err := ar.services.SupplierService.Delete(r.Context(), supplierId); err != nil {
		handling.HandleServiceError(err, "supplier", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.supplier.deleted"),
		gecho.Send(),
	)
}
