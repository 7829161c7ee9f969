package services

import (
	"context"
	"errors"

	"tillpoint/internal/domain"
	applog "tillpoint/internal/log"
	"tillpoint/internal/state"
	"tillpoint/internal/store"
)

// CatalogService is product CRUD over the persistence adapter with
// optimistic in-memory mutation.
type CatalogService struct {
	State *state.Session
	Store *store.Adapter
}

func NewCatalogService(s *state.Session, a *store.Adapter) *CatalogService {
	return &CatalogService{State: s, Store: a}
}

func (c *CatalogService) List() []domain.Product {
	c.State.Lock()
	defer c.State.Unlock()
	return c.State.ProductsSnapshot()
}

func (c *CatalogService) Get(id int64) (domain.Product, error) {
	c.State.Lock()
	defer c.State.Unlock()
	if i := c.State.ProductIndex(id); i >= 0 {
		return c.State.Products[i], nil
	}
	return domain.Product{}, domain.ErrNotFound
}

// Create adds a product. Identity comes from the remote when reachable;
// otherwise the product appears immediately under a temporary id. The
// returned error may be a *domain.SyncWarning, in which case the product
// was still added.
func (c *CatalogService) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	created, err := c.Store.CreateProduct(ctx, p)
	if err != nil && !domain.IsSyncWarning(err) {
		return domain.Product{}, err
	}

	c.State.Lock()
	c.State.Products = append(c.State.Products, created)
	products := c.State.ProductsSnapshot()
	c.State.Unlock()

	if serr := c.Store.Local.SaveProducts(products); serr != nil {
		applog.Error(nil, "catalog.create.local", serr, nil)
	}
	applog.Audit(nil, "product.create", map[string]any{"id": created.ID, "name": created.Name})
	return created, err
}

// Update applies the edit optimistically, then pushes it to the remote.
// A missing relation reverts the edit; other remote failures keep it and
// surface a sync warning.
func (c *CatalogService) Update(ctx context.Context, p domain.Product) error {
	c.State.Lock()
	i := c.State.ProductIndex(p.ID)
	if i < 0 {
		c.State.Unlock()
		return domain.ErrNotFound
	}
	prev := c.State.Products[i]
	p.CreatedAt = prev.CreatedAt
	p.Sync = prev.Sync
	c.State.Products[i] = p
	products := c.State.ProductsSnapshot()
	c.State.Unlock()

	if serr := c.Store.Local.SaveProducts(products); serr != nil {
		applog.Error(nil, "catalog.update.local", serr, nil)
	}

	err := c.Store.UpdateProduct(ctx, p)
	if errors.Is(err, domain.ErrRelationMissing) {
		c.revert(i, prev)
		return err
	}
	return err
}

// Delete removes the product optimistically. A missing relation restores
// it (fatal misconfiguration); any other remote failure keeps the removal
// and surfaces a sync warning.
func (c *CatalogService) Delete(ctx context.Context, id int64) error {
	c.State.Lock()
	i := c.State.ProductIndex(id)
	if i < 0 {
		c.State.Unlock()
		return domain.ErrNotFound
	}
	prev := c.State.Products[i]
	c.State.Products = append(c.State.Products[:i], c.State.Products[i+1:]...)
	products := c.State.ProductsSnapshot()
	c.State.Unlock()

	if serr := c.Store.Local.SaveProducts(products); serr != nil {
		applog.Error(nil, "catalog.delete.local", serr, nil)
	}

	err := c.Store.DeleteProduct(ctx, id)
	if errors.Is(err, domain.ErrRelationMissing) {
		c.State.Lock()
		if i > len(c.State.Products) {
			i = len(c.State.Products)
		}
		c.State.Products = append(c.State.Products[:i], append([]domain.Product{prev}, c.State.Products[i:]...)...)
		products = c.State.ProductsSnapshot()
		c.State.Unlock()
		if serr := c.Store.Local.SaveProducts(products); serr != nil {
			applog.Error(nil, "catalog.delete.revert.local", serr, nil)
		}
		return err
	}
	if err != nil {
		applog.Warn(nil, "catalog.delete.sync", map[string]any{"id": id, "err": err.Error()})
		return err
	}
	applog.Audit(nil, "product.delete", map[string]any{"id": id})
	return nil
}

func (c *CatalogService) revert(i int, prev domain.Product) {
	c.State.Lock()
	if j := c.State.ProductIndex(prev.ID); j >= 0 {
		c.State.Products[j] = prev
	} else if i <= len(c.State.Products) {
		c.State.Products = append(c.State.Products, prev)
	}
	products := c.State.ProductsSnapshot()
	c.State.Unlock()
	if serr := c.Store.Local.SaveProducts(products); serr != nil {
		applog.Error(nil, "catalog.revert.local", serr, nil)
	}
}

// SyncToCloud re-runs the read-through merge so every locally cached
// product absent remotely is re-created there. Deduplication comes from
// the merge identity rules, not a dedicated pass.
func (c *CatalogService) SyncToCloud(ctx context.Context) (int, error) {
	if c.Store.Remote == nil {
		return 0, domain.ErrRemoteUnavailable
	}

	c.State.Lock()
	products := c.State.ProductsSnapshot()
	c.State.Unlock()

	// Persist the in-memory view first so the merge sees it.
	if err := c.Store.Local.SaveProducts(products); err != nil {
		return 0, err
	}

	unified, err := c.Store.LoadProducts(ctx)
	if err != nil {
		return 0, err
	}

	uploaded := 0
	for _, p := range unified {
		if p.Sync == domain.SyncConfirmed {
			uploaded++
		}
	}

	c.State.Lock()
	c.State.Products = unified
	c.State.Unlock()

	applog.Audit(nil, "catalog.sync_to_cloud", map[string]any{"confirmed": uploaded, "total": len(unified)})
	return uploaded, nil
}
