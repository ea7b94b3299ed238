package admin

import (
	"net/http"

	"github.com/MonkyMars/gecho"

	"poolshop_server/handling"
	"poolshop_server/lib"
	"poolshop_server/structs"
)

func (ar *AdminRoutesManager) ListNotifications(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseNotificationListOptions(r)
	if err != nil {
		ar.invalidQuery(w, err)
		return
	}

	gecho.Success(w,
		gecho.WithData(ar.services.NotificationService.List(opts)),
		gecho.Send(),
	)
}

// SendCustomNotification records a free-text email. The text is escaped
// before it is wrapped in HTML.
func (ar *AdminRoutesManager) SendCustomNotification(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CustomNotificationRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "notification", w)
		return
	}

	notification, err := ar.services.NotificationService.SendCustomNotification(r.Context(), body.Recipient, body.Subject, body.Body)
	if err != nil {
		handling.HandleServiceError(err, "notification", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.notification.sent"),
		gecho.WithData(notification),
		gecho.Send(),
	)
}
