package admin

import (
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"

	"poolshop_server/handling"
	"poolshop_server/lib"
	"poolshop_server/structs"
	"poolshop_server/structs/tables"
)

type templateEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

type testEmailRequest struct {
	Recipient string `json:"recipient" validate:"required,email"`
}

func (ar *AdminRoutesManager) ListTemplates(w http.ResponseWriter, r *http.Request) {
	category := tables.TemplateCategory(r.URL.Query().Get("category"))

	gecho.Success(w,
		gecho.WithData(ar.services.EmailService.ListTemplates(category)),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) GetTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, err := ar.services.EmailService.GetTemplate(chi.URLParam(r, "id"))
	if err != nil {
		handling.HandleServiceError(err, "template", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(tpl),
		gecho.Send(),
	)
}

// SaveTemplate creates or replaces the template stored under {id}
func (ar *AdminRoutesManager) SaveTemplate(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.TemplateRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "template", w)
		return
	}

	tpl, err := ar.services.EmailService.SaveTemplate(r.Context(), chi.URLParam(r, "id"), body)
	if err != nil {
		handling.HandleServiceError(err, "template", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.template.saved"),
		gecho.WithData(tpl),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) SetTemplateEnabled(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[templateEnabledRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "template", w)
		return
	}

	tpl, err := ar.services.EmailService.SetTemplateEnabled(r.Context(), chi.URLParam(r, "id"), body.Enabled)
	if err != nil {
		handling.HandleServiceError(err, "template", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.template.updated"),
		gecho.WithData(tpl),
		gecho.Send(),
	)
}

// PreviewTemplate renders a template against an order or sample values
// without sending anything.
func (ar *AdminRoutesManager) PreviewTemplate(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.TemplatePreviewRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "template", w)
		return
	}

	parts, err := ar.services.EmailService.Preview(chi.URLParam(r, "id"), body)
	if err != nil {
		handling.HandleServiceError(err, "template", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(parts),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) SendTestEmail(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[testEmailRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "template", w)
		return
	}

	notification, err := ar.services.EmailService.SendTest(r.Context(), chi.URLParam(r, "id"), body.Recipient)
	if err != nil {
		handling.HandleServiceError(err, "template", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.template.testSent"),
		gecho.WithData(notification),
		gecho.Send(),
	)
}
