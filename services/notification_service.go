package services

import (
	"context"
	"html"
	"slices"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/prometheus/client_golang/prometheus"

	"poolshop_server/lib"
	"poolshop_server/store"
	"poolshop_server/structs/tables"
)

var NotificationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "poolshop",
		Subsystem: "notifications",
		Name:      "recorded_total",
		Help:      "Simulated emails recorded, by template",
	},
	[]string{"template"},
)

// NotificationService is the outbound notification sink. Nothing is
// delivered: every send is appended to the store and logged.
type NotificationService struct {
	logger    *gecho.Logger
	store     *store.Store
	templates *TemplateEngine
}

func NewNotificationService(logger *gecho.Logger, st *store.Store, templates *TemplateEngine) *NotificationService {
	return &NotificationService{
		logger:    logger,
		store:     st,
		templates: templates,
	}
}

// Record appends a notification. Records are never modified afterwards.
func (ns *NotificationService) Record(ctx context.Context, recipient, subject, body string) (*tables.Notification, error) {
	return ns.record(ctx, recipient, subject, body, "")
}

func (ns *NotificationService) record(ctx context.Context, recipient, subject, body, templateId string) (*tables.Notification, error) {
	action := &store.AppendNotification{
		Recipient:  recipient,
		Subject:    subject,
		Body:       body,
		TemplateId: templateId,
	}
	if err := ns.store.Dispatch(ctx, action); err != nil {
		ns.logger.Error("Failed to record notification", gecho.Field("error", err), gecho.Field("to", recipient))
		return nil, err
	}

	label := templateId
	if label == "" {
		label = "custom"
	}
	NotificationsTotal.WithLabelValues(label).Inc()

	ns.logger.Info("Email recorded",
		gecho.Field("to", recipient),
		gecho.Field("subject", subject),
		gecho.Field("template", label))

	n := action.Result
	return &n, nil
}

// SendCustomNotification wraps plain text in a paragraph and records it.
func (ns *NotificationService) SendCustomNotification(ctx context.Context, recipient, subject, text string) (*tables.Notification, error) {
	if recipient == "" {
		return nil, lib.NewValidationError("recipient", "is required")
	}
	if subject == "" {
		return nil, lib.NewValidationError("subject", "is required")
	}
	return ns.Record(ctx, recipient, subject, textToHTML(text))
}

func textToHTML(text string) string {
	escaped := html.EscapeString(strings.TrimSpace(text))
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	return "<p>" + strings.ReplaceAll(escaped, "\n", "<br>") + "</p>"
}

// SendTemplate renders and records a stored template. Unknown or disabled
// templates are skipped with a warning; the caller is never failed for it.
func (ns *NotificationService) SendTemplate(ctx context.Context, templateId, recipient string, tctx *TemplateContext) *tables.Notification {
	tpl, ok := ns.store.Template(templateId)
	if !ok {
		ns.logger.Warn("Template not found, notification skipped",
			gecho.Field("template", templateId),
			gecho.Field("to", recipient))
		return nil
	}
	if !tpl.Enabled {
		ns.logger.Warn("Template disabled, notification skipped",
			gecho.Field("template", templateId),
			gecho.Field("to", recipient))
		return nil
	}
	if recipient == "" {
		ns.logger.Warn("No recipient, notification skipped", gecho.Field("template", templateId))
		return nil
	}

	parts := ns.templates.RenderTemplate(tpl, tctx)
	n, err := ns.record(ctx, recipient, parts.Subject, parts.Body, templateId)
	if err != nil {
		return nil
	}
	return n
}

// NotificationListOptions filters the notification log.
type NotificationListOptions struct {
	Page       int
	PageSize   int
	Recipient  string
	TemplateId string
	Since      *time.Time
}

// List returns recorded notifications, newest first.
func (ns *NotificationService) List(opts *NotificationListOptions) *store.PaginationResult[tables.Notification] {
	if opts == nil {
		opts = &NotificationListOptions{}
	}

	// The log is append-only, so reversing gives newest first
	items := ns.store.Notifications()
	slices.Reverse(items)

	q := store.From(items).
		WhereIf(opts.Recipient != "", func(n tables.Notification) bool {
			return strings.EqualFold(n.Recipient, opts.Recipient)
		}).
		WhereIf(opts.TemplateId != "", func(n tables.Notification) bool {
			return n.TemplateId == opts.TemplateId
		}).
		WhereIf(opts.Since != nil, func(n tables.Notification) bool {
			return !n.CreatedAt.Before(*opts.Since)
		})

	return store.Paginate(q, opts.Page, opts.PageSize)
}
