package admin

import (
	"net/http"
	"net/url"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"

	"poolshop_server/handling"
	"poolshop_server/lib"
	"poolshop_server/structs"
)

func (ar *AdminRoutesManager) ListCustomers(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseCustomerListOptions(r)
	if err != nil {
		ar.invalidQuery(w, err)
		return
	}

	gecho.Success(w,
		gecho.WithData(ar.services.CustomerService.List(opts)),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) GetCustomer(w http.ResponseWriter, r *http.Request) {
	email, err := url.PathUnescape(chi.URLParam(r, "email"))
	if err != nil {
		handling.HandleBodyError(err, "customer", w)
		return
	}

	customer, err := ar.services.CustomerService.Get(email)
	if err != nil {
		handling.HandleServiceError(err, "customer", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(customer),
		gecho.Send(),
	)
}

// SendCampaign emails a template to every customer of a segment
func (ar *AdminRoutesManager) SendCampaign(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CampaignRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "campaign", w)
		return
	}

	result, err := ar.services.CustomerService.SendCampaign(r.Context(), body.TemplateId, body.Segment)
	if err != nil {
		handling.HandleServiceError(err, "campaign", ar.logger, w)
		return
	}

	ar.logger.Info("Campaign sent",
		gecho.Field("template_id", result.TemplateId),
		gecho.Field("segment", result.Segment),
		gecho.Field("sent", result.Sent),
	)

	gecho.Success(w,
		gecho.WithMessage("success.campaign.sent"),
		gecho.WithData(result),
		gecho.Send(),
	)
}
