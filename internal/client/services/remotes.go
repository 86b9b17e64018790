package services

import (
	"context"

	"github.com/avolkovs/tillpoint/internal/client/api"
	"github.com/avolkovs/tillpoint/internal/client/models"
	"github.com/avolkovs/tillpoint/internal/client/repositories/products"
	"github.com/avolkovs/tillpoint/internal/client/repositories/sales"
	"github.com/avolkovs/tillpoint/internal/client/repositories/staff"
	"github.com/avolkovs/tillpoint/internal/client/sync"
	"github.com/avolkovs/tillpoint/internal/logging"
)

// The adapters below map the api.Client's per-entity methods onto the
// sync.Remote shape the policies consume.

type productRemote struct{ c *api.Client }

func (r productRemote) List(ctx context.Context) ([]models.Product, error) {
	return r.c.ListProducts(ctx)
}

func (r productRemote) Create(ctx context.Context, p models.Product) (models.Product, error) {
	return r.c.CreateProduct(ctx, p)
}

func (r productRemote) Update(ctx context.Context, id string, p models.Product) (models.Product, error) {
	return r.c.UpdateProduct(ctx, id, p)
}

func (r productRemote) Delete(ctx context.Context, id string) error {
	return r.c.DeleteProduct(ctx, id)
}

type saleRemote struct{ c *api.Client }

func (r saleRemote) List(ctx context.Context) ([]models.Sale, error) {
	return r.c.ListSales(ctx)
}

func (r saleRemote) Create(ctx context.Context, s models.Sale) (models.Sale, error) {
	return r.c.CreateSale(ctx, s)
}

func (r saleRemote) Update(ctx context.Context, id string, s models.Sale) (models.Sale, error) {
	return r.c.UpdateSale(ctx, id, s)
}

func (r saleRemote) Delete(ctx context.Context, id string) error {
	return r.c.DeleteSale(ctx, id)
}

type staffRemote struct{ c *api.Client }

func (r staffRemote) List(ctx context.Context) ([]models.StaffMember, error) {
	return r.c.ListStaff(ctx)
}

func (r staffRemote) Create(ctx context.Context, m models.StaffMember) (models.StaffMember, error) {
	return r.c.CreateStaff(ctx, m)
}

func (r staffRemote) Update(ctx context.Context, id string, m models.StaffMember) (models.StaffMember, error) {
	return r.c.UpdateStaff(ctx, id, m)
}

func (r staffRemote) Delete(ctx context.Context, id string) error {
	return r.c.DeleteStaff(ctx, id)
}

// NewProductPolicy wires the product sync policy onto the API client.
func NewProductPolicy(c *api.Client, repo products.Repository, queue sync.Queue, online sync.Online, log logging.Logger) *sync.Policy[models.Product] {
	return sync.NewPolicy[models.Product]("product", repo, productRemote{c}, queue, online, log)
}

// NewSalePolicy wires the sale sync policy onto the API client.
func NewSalePolicy(c *api.Client, repo sales.Repository, queue sync.Queue, online sync.Online, log logging.Logger) *sync.Policy[models.Sale] {
	return sync.NewPolicy[models.Sale]("sale", repo, saleRemote{c}, queue, online, log)
}

// NewStaffPolicy wires the staff sync policy onto the API client.
func NewStaffPolicy(c *api.Client, repo staff.Repository, queue sync.Queue, online sync.Online, log logging.Logger) *sync.Policy[models.StaffMember] {
	return sync.NewPolicy[models.StaffMember]("staff", repo, staffRemote{c}, queue, online, log)
}
