package store

import (
	"fmt"

	"github.com/google/uuid"

	"poolshop_server/lib"
	"poolshop_server/structs/tables"
)

type UpsertTemplate struct {
	Template *tables.EmailTemplate

	Result *tables.EmailTemplate
}

func (a *UpsertTemplate) Name() string { return "UpsertTemplate" }

func (a *UpsertTemplate) Apply(st *State) error {
	t := a.Template.Clone()
	if t == nil || t.Id == "" {
		return lib.NewValidationError("id", "is required")
	}
	t.UpdatedAt = st.Now()
	st.Templates[t.Id] = t
	a.Result = t.Clone()
	return nil
}

// AppendNotification adds a record to the append-only notification list.
type AppendNotification struct {
	Recipient  string
	Subject    string
	Body       string
	TemplateId string

	Result tables.Notification
}

func (a *AppendNotification) Name() string { return "AppendNotification" }

func (a *AppendNotification) Apply(st *State) error {
	if a.Recipient == "" {
		return lib.NewValidationError("recipient", "is required")
	}
	n := tables.Notification{
		Id:         uuid.New(),
		Recipient:  a.Recipient,
		Subject:    a.Subject,
		Body:       a.Body,
		TemplateId: a.TemplateId,
		CreatedAt:  st.Now(),
	}
	st.Notifications = append(st.Notifications, n)
	a.Result = n
	return nil
}

type UpsertPaymentMethod struct {
	Method *tables.PaymentMethod

	Result *tables.PaymentMethod
}

func (a *UpsertPaymentMethod) Name() string { return "UpsertPaymentMethod" }

func (a *UpsertPaymentMethod) Apply(st *State) error {
	pm := a.Method.Clone()
	if pm == nil || pm.Config == nil {
		return lib.NewValidationError("config", "is required")
	}
	if pm.Config.MethodType() != pm.Type {
		return lib.NewValidationError("config", fmt.Sprintf("does not match type %s", pm.Type))
	}
	st.PaymentMethods[pm.Type] = pm
	a.Result = pm.Clone()
	return nil
}
