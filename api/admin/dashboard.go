package admin

import (
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (ar *AdminRoutesManager) GetDashboard(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(ar.services.DashboardService.Stats()),
		gecho.Send(),
	)
}
