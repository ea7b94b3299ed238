package admin

import (
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"

	"poolshop_server/handling"
	"poolshop_server/lib"
	"poolshop_server/structs"
)

func (ar *AdminRoutesManager) ListCategories(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(ar.services.ProductService.CategoryTree()),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) CreateCategory(w http.ResponseWriter, r *http.Request) {
	ar.saveCategory(w, r, uuid.Nil, "success.category.created")
}

func (ar *AdminRoutesManager) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	categoryId, ok := ar.idParam(w, r, "category")
	if !ok {
		return
	}
	ar.saveCategory(w, r, categoryId, "success.category.updated")
}

// saveCategory creates the category when id is uuid.Nil
func (ar *AdminRoutesManager) saveCategory(w http.ResponseWriter, r *http.Request, id uuid.UUID, message string) {
	body, err := lib.ExtractAndValidateBody[structs.CategoryRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "category", w)
		return
	}

	category, err := ar.services.ProductService.SaveCategory(r.Context(), id, body)
	if err != nil {
		handling.HandleServiceError(err, "category", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage(message),
		gecho.WithData(category),
		gecho.Send(),
	)
}

// DeleteCategory moves the children of the category up one level
func (ar *AdminRoutesManager) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryId, ok := ar.idParam(w, r, "category")
	if !ok {
		return
	}

	if err := ar.services.ProductService.DeleteCategory(r.Context(), categoryId); err != nil {
		handling.HandleServiceError(err, "category", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.category.deleted"),
		gecho.Send(),
	)
}
