package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/avolkovs/tillpoint/internal/client/models"
	"github.com/avolkovs/tillpoint/internal/client/repositories/cart"
	"github.com/avolkovs/tillpoint/internal/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartService manages the in-progress cart and turns it into a sale at
// checkout. The cart is purely local; only the checkout touches the sync
// machinery.
type CartService interface {
	// AddProduct adds qty units of a standard-priced product. Lines for
	// the same product merge; operator-priced products must go through
	// AddCustom.
	AddProduct(ctx context.Context, p models.Product, qty int) error

	// AddCustom appends a line at an operator-entered price. Custom lines
	// never merge, and the price counts once regardless of quantity.
	AddCustom(ctx context.Context, p models.Product, price decimal.Decimal, qty int) error

	// SetQuantity changes a line's quantity; zero or less removes it.
	SetQuantity(ctx context.Context, cartItemID string, qty int) error

	Remove(ctx context.Context, cartItemID string) error
	Clear(ctx context.Context) error

	Items(ctx context.Context) ([]models.CartItem, error)
	Total(ctx context.Context) (decimal.Decimal, error)
	ItemCount(ctx context.Context) (int, error)

	// Checkout builds a sale from the cart and commits it through the
	// sale sync path. The cart is cleared unless the sale could not be
	// durably recorded (local store failure or backend rejection).
	Checkout(ctx context.Context, paymentMethod, staffID string) (models.Sale, error)
}

// saleCreator is the slice of the sale path the checkout needs. The sale
// sync policy satisfies it.
type saleCreator interface {
	Create(ctx context.Context, s models.Sale) (models.Sale, error)
}

type cartService struct {
	repo  cart.Repository
	sales saleCreator

	newID func() string
}

func NewCartService(repo cart.Repository, sales saleCreator) CartService {
	return &cartService{repo: repo, sales: sales, newID: uuid.NewString}
}

func (s *cartService) AddProduct(ctx context.Context, p models.Product, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be positive", common.ErrValidation)
	}
	if p.NeedsCustomPrice {
		return fmt.Errorf("%w: %q needs an operator-entered price", common.ErrValidation, p.Name)
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrLocalStore, err)
	}

	merged := false
	for i, item := range items {
		if item.ProductID == p.ID && !item.Custom {
			items[i].Quantity += qty
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, models.CartItem{
			CartItemID: s.newID(),
			ProductID:  p.ID,
			Name:       p.Name,
			Quantity:   qty,
			Price:      p.SellingPrice,
		})
	}
	return s.save(ctx, items)
}

func (s *cartService) AddCustom(ctx context.Context, p models.Product, price decimal.Decimal, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be positive", common.ErrValidation)
	}
	if !price.IsPositive() {
		return fmt.Errorf("%w: price must be positive", common.ErrValidation)
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrLocalStore, err)
	}
	items = append(items, models.CartItem{
		CartItemID: s.newID(),
		ProductID:  p.ID,
		Name:       p.Name,
		Quantity:   qty,
		Price:      price,
		Custom:     true,
	})
	return s.save(ctx, items)
}

func (s *cartService) SetQuantity(ctx context.Context, cartItemID string, qty int) error {
	items, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrLocalStore, err)
	}
	for i, item := range items {
		if item.CartItemID != cartItemID {
			continue
		}
		if qty <= 0 {
			items = append(items[:i], items[i+1:]...)
		} else {
			items[i].Quantity = qty
		}
		return s.save(ctx, items)
	}
	return common.ErrNotFound
}

func (s *cartService) Remove(ctx context.Context, cartItemID string) error {
	return s.SetQuantity(ctx, cartItemID, 0)
}

func (s *cartService) Clear(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("%w: %v", common.ErrLocalStore, err)
	}
	return nil
}

func (s *cartService) Items(ctx context.Context) ([]models.CartItem, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrLocalStore, err)
	}
	return items, nil
}

func (s *cartService) Total(ctx context.Context) (decimal.Decimal, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return cartTotal(items), nil
}

func (s *cartService) ItemCount(ctx context.Context) (int, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count, nil
}

func (s *cartService) Checkout(ctx context.Context, paymentMethod, staffID string) (models.Sale, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return models.Sale{}, err
	}
	if len(items) == 0 {
		return models.Sale{}, fmt.Errorf("%w: cart is empty", common.ErrValidation)
	}
	if strings.TrimSpace(paymentMethod) == "" {
		return models.Sale{}, fmt.Errorf("%w: payment method is required", common.ErrValidation)
	}

	sale := models.Sale{
		Items:         make([]models.SaleItem, 0, len(items)),
		Total:         cartTotal(items),
		PaymentMethod: paymentMethod,
		StaffID:       staffID,
	}
	for _, item := range items {
		sale.Items = append(sale.Items, models.SaleItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
			Custom:    item.Custom,
		})
	}

	created, err := s.sales.Create(ctx, sale)
	if err != nil {
		// nothing durable was recorded: keep the cart so the operator can
		// retry
		return models.Sale{}, err
	}

	if err := s.Clear(ctx); err != nil {
		return created, err
	}
	return created, nil
}

func (s *cartService) save(ctx context.Context, items []models.CartItem) error {
	if err := s.repo.Save(ctx, items); err != nil {
		return fmt.Errorf("%w: %v", common.ErrLocalStore, err)
	}
	return nil
}

// cartTotal sums the lines: standard lines contribute price times quantity,
// operator-priced lines contribute the entered price once.
func cartTotal(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}
