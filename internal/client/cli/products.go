package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/avolkovs/tillpoint/internal/client/models"
	"github.com/avolkovs/tillpoint/internal/common"
	"github.com/shopspring/decimal"
)

// ListProducts prints the catalogue, cached or fresh.
func (a *App) ListProducts(ctx context.Context) error {
	items, err := a.products.List(ctx)
	if err != nil {
		if errors.Is(err, common.ErrNoCachedData) {
			printlnFn("No catalogue available: backend unreachable and nothing cached yet.")
			return err
		}
		printlnFn("Failed to list products:", err)
		return err
	}

	if !a.monitor.IsOnline() {
		printlnFn("(showing cached catalogue)")
	}
	for _, p := range items {
		printlnFn(formatProduct(p))
	}
	return nil
}

func formatProduct(p models.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-14s %-24s %8s", p.ID, p.Name, p.SellingPrice.StringFixed(2))
	if p.SKU != "" {
		fmt.Fprintf(&b, "  sku:%s", p.SKU)
	}
	if p.TrackStock {
		fmt.Fprintf(&b, "  stock:%d", p.Quantity)
	}
	if p.NeedsCustomPrice {
		b.WriteString("  [custom price]")
	}
	if !p.Synced {
		b.WriteString("  [pending sync]")
	}
	return b.String()
}

// AddProduct prompts for the new product's fields and creates it.
func (a *App) AddProduct(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Product name", os.Stdout)
	if err != nil {
		return err
	}
	priceText, err := GetSimpleText(a.reader, "Selling price (e.g. 3.50, empty for operator-priced)", os.Stdout)
	if err != nil {
		return err
	}

	p := models.Product{Name: name}
	if priceText == "" {
		p.NeedsCustomPrice = true
	} else {
		price, err := decimal.NewFromString(priceText)
		if err != nil {
			printlnFn("Not a valid price:", priceText)
			return fmt.Errorf("%w: bad price", common.ErrValidation)
		}
		p.SellingPrice = price
	}

	if sku, err := GetSimpleText(a.reader, "SKU (optional)", os.Stdout); err == nil {
		p.SKU = sku
	}
	if category, err := GetSimpleText(a.reader, "Category (optional)", os.Stdout); err == nil {
		p.Category = category
	}

	created, err := a.products.Create(ctx, p)
	if err != nil {
		printlnFn("Failed to create product:", err)
		return err
	}
	if created.Synced {
		printlnFn("Created", created.ID)
	} else {
		printlnFn("Saved locally as", created.ID, "- pending sync")
	}
	return nil
}

// Sell finds a product by name, SKU or barcode and puts it in the cart.
// The last argument is taken as a quantity when numeric.
func (a *App) Sell(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: sell <name|sku|barcode> [qty]")
		return nil
	}

	qty := 1
	if n, err := strconv.Atoi(args[len(args)-1]); err == nil && len(args) > 1 {
		qty = n
		args = args[:len(args)-1]
	}
	query := strings.Join(args, " ")

	matches, err := a.products.Search(ctx, query)
	if err != nil {
		printlnFn("Search failed:", err)
		return err
	}
	switch {
	case len(matches) == 0:
		printlnFn("No product matches", strconv.Quote(query))
		return nil
	case len(matches) > 1:
		printlnFn("Multiple matches, be more specific:")
		for _, p := range matches {
			printlnFn("  " + formatProduct(p))
		}
		return nil
	}

	p := matches[0]
	if p.NeedsCustomPrice {
		priceText, err := GetSimpleText(a.reader, fmt.Sprintf("Price for %q", p.Name), os.Stdout)
		if err != nil {
			return err
		}
		price, err := decimal.NewFromString(priceText)
		if err != nil {
			printlnFn("Not a valid price:", priceText)
			return fmt.Errorf("%w: bad price", common.ErrValidation)
		}
		if err := a.cart.AddCustom(ctx, p, price, qty); err != nil {
			printlnFn("Failed to add to cart:", err)
			return err
		}
	} else if err := a.cart.AddProduct(ctx, p, qty); err != nil {
		printlnFn("Failed to add to cart:", err)
		return err
	}

	return a.ShowCart(ctx)
}
