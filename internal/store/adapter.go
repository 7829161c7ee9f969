package store

import (
	"context"
	"errors"
	"time"

	applog "tillpoint/internal/log"

	"tillpoint/internal/domain"
)

// Adapter presents one create/read/update/delete surface over the remote
// database and the local durable store. The remote is the source of truth
// when reachable; the local store holds the last agreed view and absorbs
// writes the remote could not take.
//
// Write methods may return a value together with a *domain.SyncWarning:
// the local result stands, the warning is surfaced without blocking.
type Adapter struct {
	Local  *Local
	Remote Remote // nil when the remote store is unconfigured
}

func NewAdapter(local *Local, remote Remote) *Adapter {
	return &Adapter{Local: local, Remote: remote}
}

// tempID generates a client-side identifier for records created before the
// remote confirms them. Millisecond timestamps are monotonic enough for a
// single till; collisions are out of scope.
func tempID() int64 { return time.Now().UnixMilli() }

func nowRFC3339() string { return time.Now().UTC().Format(time.RFC3339) }

// LoadProducts is the read-through startup path: fetch remote, reconcile
// against the local cache, re-upload local-only records, and persist the
// unified view locally. Remote failures fall back to the cache silently.
func (a *Adapter) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	local, err := a.Local.Products()
	if err != nil {
		return nil, err
	}
	if a.Remote == nil {
		return local, nil
	}

	remote, err := a.Remote.Products(ctx)
	if err != nil {
		applog.Warn(nil, "products.fetch.fallback", map[string]any{"err": err.Error()})
		return local, nil
	}

	unified, toUpload := MergeProducts(local, remote)
	if len(toUpload) > 0 {
		applog.Info(nil, "products.sync.upload", map[string]any{"count": len(toUpload)})
		unified = remote
		for _, lp := range toUpload {
			created, err := a.createRemote(ctx, StripClientFields(lp))
			if err != nil {
				// keep the local copy under its temporary identity
				applog.Warn(nil, "products.sync.upload.fail", map[string]any{"name": lp.Name, "err": err.Error()})
				lp.Sync = domain.SyncTentative
				unified = append(unified, lp)
				continue
			}
			unified = append(unified, created)
		}
	}

	if err := a.Local.SaveProducts(unified); err != nil {
		return nil, err
	}
	return unified, nil
}

// createRemote inserts with the full payload and retries exactly once with
// the core field set when the remote schema rejects a column.
func (a *Adapter) createRemote(ctx context.Context, p domain.Product) (domain.Product, error) {
	created, err := a.Remote.InsertProduct(ctx, p, false)
	if errors.Is(err, domain.ErrSchemaMismatch) {
		applog.Warn(nil, "products.create.schema_retry", map[string]any{"name": p.Name})
		created, err = a.Remote.InsertProduct(ctx, p, true)
	}
	return created, err
}

// CreateProduct assigns identity to a new product. With no remote it gets a
// temporary id immediately; with a remote, the remote-issued identity is
// used. An unreachable remote degrades to the temporary id and a warning.
func (a *Adapter) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	p.ID = 0
	p.CreatedAt = ""

	if a.Remote == nil {
		p.ID = tempID()
		p.CreatedAt = nowRFC3339()
		p.Sync = domain.SyncTentative
		return p, nil
	}

	created, err := a.createRemote(ctx, p)
	if err == nil {
		return created, nil
	}
	if errors.Is(err, domain.ErrRemoteUnavailable) {
		p.ID = tempID()
		p.CreatedAt = nowRFC3339()
		p.Sync = domain.SyncTentative
		return p, &domain.SyncWarning{Err: err}
	}
	return domain.Product{}, err
}

// UpdateProduct pushes an edited product to the remote, with the same
// one-shot reduced-payload retry on schema mismatch. Callers have already
// applied the change locally.
func (a *Adapter) UpdateProduct(ctx context.Context, p domain.Product) error {
	if a.Remote == nil {
		return nil
	}
	err := a.Remote.UpdateProduct(ctx, p, false)
	if errors.Is(err, domain.ErrSchemaMismatch) {
		applog.Warn(nil, "products.update.schema_retry", map[string]any{"id": p.ID})
		err = a.Remote.UpdateProduct(ctx, p, true)
	}
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrRelationMissing) {
		return err
	}
	return &domain.SyncWarning{Err: err}
}

// DeleteProduct distinguishes a missing relation (fatal, caller must revert
// the optimistic removal) from any other remote failure (removal stands,
// warning surfaced).
func (a *Adapter) DeleteProduct(ctx context.Context, id int64) error {
	if a.Remote == nil {
		return nil
	}
	err := a.Remote.DeleteProduct(ctx, id)
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrRelationMissing) {
		return err
	}
	return &domain.SyncWarning{Err: err}
}

// DeductStock issues one remote stock update per affected product. The
// writes are sequential and not transactional; a failure is reported as a
// warning and never rolls back the checkout.
func (a *Adapter) DeductStock(ctx context.Context, affected []domain.Product) error {
	if a.Remote == nil {
		return nil
	}
	var first error
	for _, p := range affected {
		if err := a.Remote.UpdateStock(ctx, p.ID, p.Stock); err != nil {
			applog.Warn(nil, "stock.deduct.remote.fail", map[string]any{"id": p.ID, "err": err.Error()})
			if first == nil {
				first = err
			}
		}
	}
	if first != nil {
		return &domain.SyncWarning{Err: first}
	}
	return nil
}

// LoadOrders fetches order history (newest first, capped at 50). A reachable
// but empty remote triggers a one-time migration of local history; remote
// failures fall back to the local store.
func (a *Adapter) LoadOrders(ctx context.Context) ([]domain.Order, error) {
	local, err := a.Local.Orders()
	if err != nil {
		return nil, err
	}
	if a.Remote == nil {
		return local, nil
	}

	remote, err := a.Remote.Orders(ctx, 50)
	if err != nil {
		applog.Warn(nil, "orders.fetch.fallback", map[string]any{"err": err.Error()})
		return local, nil
	}

	if len(remote) == 0 && len(local) > 0 {
		applog.Info(nil, "orders.migrate.upload", map[string]any{"count": len(local)})
		migrated := make([]domain.Order, 0, len(local))
		for _, o := range local {
			id, created, err := a.Remote.InsertOrder(ctx, o)
			if err != nil {
				applog.Warn(nil, "orders.migrate.fail", map[string]any{"id": o.ID, "err": err.Error()})
				migrated = append(migrated, o)
				continue
			}
			o.ID = id
			o.CreatedAt = created
			o.Sync = domain.SyncConfirmed
			migrated = append(migrated, o)
		}
		if err := a.Local.SaveOrders(migrated); err != nil {
			return nil, err
		}
		return migrated, nil
	}

	if len(remote) > 0 {
		if err := a.Local.SaveOrders(remote); err != nil {
			return nil, err
		}
	}
	return remote, nil
}

// SaveOrder persists a freshly committed order. On remote success the
// temporary identity is replaced in place with the remote-issued one; on
// failure the order stays tentative and the caller keeps it locally.
func (a *Adapter) SaveOrder(ctx context.Context, o domain.Order) (domain.Order, error) {
	if a.Remote == nil {
		o.Sync = domain.SyncTentative
		return o, nil
	}
	id, created, err := a.Remote.InsertOrder(ctx, o)
	if err != nil {
		o.Sync = domain.SyncTentative
		return o, &domain.SyncWarning{Err: err}
	}
	o.ID = id
	o.CreatedAt = created
	o.Sync = domain.SyncConfirmed
	return o, nil
}

// DeleteOrder never restores a removed order: the local store stays
// authoritative for history retention, remote failures only warn.
func (a *Adapter) DeleteOrder(ctx context.Context, id int64) error {
	if a.Remote == nil {
		return nil
	}
	if err := a.Remote.DeleteOrder(ctx, id); err != nil {
		return &domain.SyncWarning{Err: err}
	}
	return nil
}

// Settings are local-only.
func (a *Adapter) Settings() (domain.Settings, bool, error) { return a.Local.Settings() }
func (a *Adapter) SaveSettings(s domain.Settings) error     { return a.Local.SaveSettings(s) }
