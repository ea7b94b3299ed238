package services

import (
	"context"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"

	"poolshop_server/lib"
	"poolshop_server/store"
	"poolshop_server/structs"
	"poolshop_server/structs/tables"
)

type SupplierService struct {
	logger *gecho.Logger
	store  *store.Store
}

func NewSupplierService(logger *gecho.Logger, st *store.Store) *SupplierService {
	return &SupplierService{logger: logger, store: st}
}

func (ss *SupplierService) Create(ctx context.Context, req *structs.SupplierRequest) (*tables.Supplier, error) {
	return ss.save(ctx, uuid.Nil, req)
}

func (ss *SupplierService) Update(ctx context.Context, id uuid.UUID, req *structs.SupplierRequest) (*tables.Supplier, error) {
	if _, err := ss.store.Supplier(id); err != nil {
		return nil, err
	}
	return ss.save(ctx, id, req)
}

func (ss *SupplierService) save(ctx context.Context, id uuid.UUID, req *structs.SupplierRequest) (*tables.Supplier, error) {
	if err := lib.ValidateStruct(req); err != nil {
		return nil, err
	}

	action := &store.UpsertSupplier{Supplier: &tables.Supplier{
		Id:    id,
		Name:  strings.TrimSpace(req.Name),
		Email: strings.ToLower(strings.TrimSpace(req.Email)),
		Phone: strings.TrimSpace(req.Phone),
	}}
	if err := ss.store.Dispatch(ctx, action); err != nil {
		return nil, err
	}

	ss.logger.Info("Supplier saved",
		gecho.Field("supplier_id", action.Result.Id),
		gecho.Field("name", action.Result.Name))
	return action.Result, nil
}

// Delete removes a supplier nothing refers to anymore.
func (ss *SupplierService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ss.store.Dispatch(ctx, &store.DeleteSupplier{Id: id}); err != nil {
		return err
	}
	ss.logger.Info("Supplier deleted", gecho.Field("supplier_id", id))
	return nil
}

func (ss *SupplierService) Get(id uuid.UUID) (*tables.Supplier, error) {
	return ss.store.Supplier(id)
}

// List returns suppliers sorted by name.
func (ss *SupplierService) List(search string) []*tables.Supplier {
	search = strings.ToLower(strings.TrimSpace(search))
	return store.From(ss.store.Suppliers()).
		WhereIf(search != "", func(s *tables.Supplier) bool {
			return strings.Contains(strings.ToLower(s.Name), search) ||
				strings.Contains(strings.ToLower(s.Email), search)
		}).
		OrderBy(func(a, b *tables.Supplier) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}, store.ASC).
		All()
}

// FindByName matches a supplier name case-insensitively, as typed in spreadsheets.
func (ss *SupplierService) FindByName(name string) (*tables.Supplier, bool) {
	name = strings.TrimSpace(name)
	for _, s := range ss.store.Suppliers() {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return nil, false
}
