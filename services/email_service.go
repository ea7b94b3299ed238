package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/MonkyMars/gecho"

	"poolshop_server/lib"
	"poolshop_server/store"
	"poolshop_server/structs"
	"poolshop_server/structs/tables"
)

// TemplateCampaign is the marketing template installed with the defaults.
const TemplateCampaign = "summer-campaign"

// EmailService administers the email templates: defaults, edits and previews.
// Sending goes through NotificationService.
type EmailService struct {
	logger        *gecho.Logger
	cfg           *structs.Config
	store         *store.Store
	templates     *TemplateEngine
	notifications *NotificationService
}

func NewEmailService(logger *gecho.Logger, cfg *structs.Config, st *store.Store, templates *TemplateEngine, notifications *NotificationService) *EmailService {
	return &EmailService{
		logger:        logger,
		cfg:           cfg,
		store:         st,
		templates:     templates,
		notifications: notifications,
	}
}

// layout wraps a template body in the shop's email frame.
func (es *EmailService) layout(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #0277BD; color: white; padding: 20px; text-align: center; }
		.content { padding: 20px; background-color: #f9f9f9; }
		.footer { text-align: center; padding: 20px; color: #666; font-size: 12px; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>%s</h1>
		</div>
		<div class="content">
%s
		</div>
		<div class="footer">
			<p>%s | %s</p>
		</div>
	</div>
</body>
</html>`, title, content, es.cfg.Shop.Name, es.cfg.Shop.SupportEmail)
}

// DefaultTemplates returns the templates the shop starts with.
func (es *EmailService) DefaultTemplates() []*tables.EmailTemplate {
	defaults := []*tables.EmailTemplate{
		{
			Id:       TemplateOrderConfirmation,
			Name:     "Confirmation de commande",
			Subject:  "Votre commande {{orderId}} est confirmée",
			Category: tables.TemplateCategoryTransactional,
			Body: es.layout("Merci pour votre commande !", `
			<p>Bonjour {{customerName}},</p>
			<p>Nous avons bien reçu votre commande <strong>{{orderId}}</strong>.</p>
			{{cartItemsList}}
			<p><strong>Total TTC : {{orderTotal}}</strong></p>
			<p>Adresse de livraison :</p>
			{{customerShippingAddress}}
			<p>Une question ? Écrivez-nous à {{shopEmail}}.</p>`),
		},
		{
			Id:       TemplateShippingNotification,
			Name:     "Avis d'expédition",
			Subject:  "Votre commande {{orderId}} a été expédiée",
			Category: tables.TemplateCategoryTransactional,
			Body: es.layout("Votre colis est en route", `
			<p>Bonjour {{customerName}},</p>
			<p>Votre commande <strong>{{orderId}}</strong> a été expédiée.</p>
			<p>Numéro de suivi : <strong>{{trackingNumber}}</strong></p>
			<p>Livraison à :</p>
			{{customerShippingAddress}}`),
		},
		{
			Id:       TemplateSupplierPurchaseOrder,
			Name:     "Bon de commande fournisseur",
			Subject:  "Bon de commande {{poNumber}} - {{shopName}}",
			Category: tables.TemplateCategoryTransactional,
			Body: es.layout("Bon de commande {{poNumber}}", `
			<p>Bonjour {{supplierName}},</p>
			<p>Merci d'expédier les articles suivants directement à notre client :</p>
			{{cartItemsList}}
			<p>Total achat HT : <strong>{{poTotal}}</strong> ({{itemsCount}} article(s))</p>
			<p>Adresse de livraison :</p>
			{{customerShippingAddress}}
			<p>Merci de nous communiquer le numéro de suivi à {{shopEmail}}.</p>`),
		},
		{
			Id:       TemplateInvoice,
			Name:     "Facture",
			Subject:  "Votre facture {{invoiceNumber}}",
			Category: tables.TemplateCategoryTransactional,
			Body: es.layout("Facture {{invoiceNumber}}", `
			<p>Bonjour {{customerName}},</p>
			<p>Veuillez trouver ci-dessous votre facture d'un montant de {{invoiceTotal}}.</p>
			{{invoiceBody}}`),
		},
		{
			Id:       TemplatePasswordReset,
			Name:     "Réinitialisation du mot de passe",
			Subject:  "Réinitialisez votre mot de passe",
			Category: tables.TemplateCategoryLifecycle,
			Body: es.layout("Mot de passe oublié ?", `
			<p>Bonjour {{customerName}},</p>
			<p>Cliquez sur le lien suivant pour choisir un nouveau mot de passe :</p>
			<p><a href="{{resetLink}}">{{resetLink}}</a></p>
			<p>Si vous n'êtes pas à l'origine de cette demande, ignorez cet e-mail.</p>`),
		},
		{
			Id:       TemplateCampaign,
			Name:     "Campagne ouverture de saison",
			Subject:  "{{customerName}}, préparez votre piscine pour l'été",
			Category: tables.TemplateCategoryMarketing,
			Body: es.layout("C'est la saison !", `
			<p>Bonjour {{customerName}},</p>
			<p>Traitement de l'eau, filtration, robots : tout pour une remise en route sans souci.</p>
			<p>Découvrez nos produits sur notre boutique.</p>`),
		},
	}
	for _, tpl := range defaults {
		tpl.Enabled = true
		tpl.Placeholders = Placeholders(TemplateParts{Subject: tpl.Subject, Body: tpl.Body})
		tpl.Unrecognized = UnrecognizedPlaceholders(tpl.Placeholders)
	}
	return defaults
}

// EnsureDefaults installs the default templates that are missing. Edited
// templates are left alone.
func (es *EmailService) EnsureDefaults(ctx context.Context) (int, error) {
	installed := 0
	for _, tpl := range es.DefaultTemplates() {
		if _, ok := es.store.Template(tpl.Id); ok {
			continue
		}
		if err := es.store.Dispatch(ctx, &store.UpsertTemplate{Template: tpl}); err != nil {
			return installed, err
		}
		installed++
	}
	if installed > 0 {
		es.logger.Info("Default email templates installed", gecho.Field("count", installed))
	}
	return installed, nil
}

// ListTemplates returns templates sorted by category then name.
func (es *EmailService) ListTemplates(category tables.TemplateCategory) []*tables.EmailTemplate {
	templates := es.store.Templates()
	if category != "" {
		templates = slices.DeleteFunc(templates, func(t *tables.EmailTemplate) bool { return t.Category != category })
	}
	slices.SortFunc(templates, func(a, b *tables.EmailTemplate) int {
		if c := strings.Compare(string(a.Category), string(b.Category)); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return templates
}

func (es *EmailService) GetTemplate(id string) (*tables.EmailTemplate, error) {
	tpl, ok := es.store.Template(id)
	if !ok {
		return nil, fmt.Errorf("template %s: %w", id, lib.ErrNotFound)
	}
	return tpl, nil
}

// SaveTemplate creates or replaces a template. Placeholders are derived from
// the subject and body.
func (es *EmailService) SaveTemplate(ctx context.Context, id string, req *structs.TemplateRequest) (*tables.EmailTemplate, error) {
	if err := lib.ValidateStruct(req); err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, lib.NewValidationError("id", "is required")
	}

	tpl := &tables.EmailTemplate{
		Id:       id,
		Name:     strings.TrimSpace(req.Name),
		Subject:  req.Subject,
		Body:     req.Body,
		Category: req.Category,
		Enabled:  req.Enabled,
	}
	tpl.Placeholders = Placeholders(TemplateParts{Subject: tpl.Subject, Body: tpl.Body})
	tpl.Unrecognized = UnrecognizedPlaceholders(tpl.Placeholders)
	if len(tpl.Unrecognized) > 0 {
		es.logger.Warn("Email template uses unrecognized placeholders",
			gecho.Field("template", id),
			gecho.Field("placeholders", tpl.Unrecognized))
	}

	action := &store.UpsertTemplate{Template: tpl}
	if err := es.store.Dispatch(ctx, action); err != nil {
		return nil, err
	}

	es.logger.Info("Email template saved",
		gecho.Field("template", id),
		gecho.Field("enabled", tpl.Enabled))
	return action.Result, nil
}

// SetTemplateEnabled toggles a template without touching its content.
func (es *EmailService) SetTemplateEnabled(ctx context.Context, id string, enabled bool) (*tables.EmailTemplate, error) {
	tpl, err := es.GetTemplate(id)
	if err != nil {
		return nil, err
	}
	tpl.Enabled = enabled
	action := &store.UpsertTemplate{Template: tpl}
	if err := es.store.Dispatch(ctx, action); err != nil {
		return nil, err
	}
	return action.Result, nil
}

// Preview renders a template against an order, extra values, or nothing.
// Shop values are always available.
func (es *EmailService) Preview(id string, req *structs.TemplatePreviewRequest) (*TemplateParts, error) {
	tpl, err := es.GetTemplate(id)
	if err != nil {
		return nil, err
	}

	tctx := &TemplateContext{Values: es.shopValues()}
	if req != nil {
		if req.OrderId != nil {
			order, err := es.store.Order(*req.OrderId)
			if err != nil {
				return nil, err
			}
			tctx.Order = order
		}
		for k, v := range req.Values {
			tctx.Values[k] = v
		}
	}

	parts := es.templates.RenderTemplate(tpl, tctx)
	return &parts, nil
}

// SendTest records a rendering of the template to the given recipient.
func (es *EmailService) SendTest(ctx context.Context, id, recipient string) (*tables.Notification, error) {
	parts, err := es.Preview(id, nil)
	if err != nil {
		return nil, err
	}
	return es.notifications.Record(ctx, recipient, "[TEST] "+parts.Subject, parts.Body)
}

func (es *EmailService) shopValues() map[string]string {
	return map[string]string{
		"shopName":  es.cfg.Shop.Name,
		"shopEmail": es.cfg.Shop.SupportEmail,
	}
}
