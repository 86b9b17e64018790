package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/avolkovs/tillpoint/internal/common"
)

// ShowCart prints the numbered cart lines and the running total.
func (a *App) ShowCart(ctx context.Context) error {
	items, err := a.cart.Items(ctx)
	if err != nil {
		printlnFn("Failed to read the cart:", err)
		return err
	}
	if len(items) == 0 {
		printlnFn("Cart is empty.")
		return nil
	}

	for i, item := range items {
		marker := ""
		if item.Custom {
			marker = " (custom price)"
		}
		printlnFn(fmt.Sprintf("%2d. %-24s x%-3d %8s%s",
			i+1, item.Name, item.Quantity, item.LineTotal().StringFixed(2), marker))
	}

	total, err := a.cart.Total(ctx)
	if err != nil {
		return err
	}
	count, err := a.cart.ItemCount(ctx)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("    %d item(s), total %s", count, total.StringFixed(2)))
	return nil
}

// lineID resolves a 1-based cart line number to its id.
func (a *App) lineID(ctx context.Context, arg string) (string, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return "", fmt.Errorf("%w: %q is not a line number", common.ErrValidation, arg)
	}
	items, err := a.cart.Items(ctx)
	if err != nil {
		return "", err
	}
	if n < 1 || n > len(items) {
		return "", fmt.Errorf("%w: no cart line %d", common.ErrNotFound, n)
	}
	return items[n-1].CartItemID, nil
}

func (a *App) SetQuantity(ctx context.Context, args []string) error {
	if len(args) != 2 {
		printlnFn("Usage: qty <line> <quantity>")
		return nil
	}
	id, err := a.lineID(ctx, args[0])
	if err != nil {
		printlnFn(err)
		return err
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		printlnFn("Not a valid quantity:", args[1])
		return fmt.Errorf("%w: bad quantity", common.ErrValidation)
	}
	if err := a.cart.SetQuantity(ctx, id, qty); err != nil {
		printlnFn("Failed to update the cart:", err)
		return err
	}
	return a.ShowCart(ctx)
}

func (a *App) RemoveLine(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: remove <line>")
		return nil
	}
	id, err := a.lineID(ctx, args[0])
	if err != nil {
		printlnFn(err)
		return err
	}
	if err := a.cart.Remove(ctx, id); err != nil {
		printlnFn("Failed to update the cart:", err)
		return err
	}
	return a.ShowCart(ctx)
}

func (a *App) ClearCart(ctx context.Context) error {
	if err := a.cart.Clear(ctx); err != nil {
		printlnFn("Failed to clear the cart:", err)
		return err
	}
	printlnFn("Cart cleared.")
	return nil
}

// Checkout turns the cart into a sale.
func (a *App) Checkout(ctx context.Context) error {
	method, err := GetSimpleText(a.reader, "Payment method (cash/card, empty for cash)", os.Stdout)
	if err != nil {
		return err
	}
	if method == "" {
		method = "cash"
	}

	sale, err := a.cart.Checkout(ctx, method, a.userName)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrValidation):
			printlnFn(err)
		case errors.Is(err, common.ErrRemoteRejected):
			printlnFn("The backend refused the sale; the cart was kept:", err)
		default:
			printlnFn("Checkout failed:", err)
		}
		return err
	}

	if sale.Synced {
		printlnFn(fmt.Sprintf("Sale %s recorded, total %s.", sale.ID, sale.Total.StringFixed(2)))
	} else {
		printlnFn(fmt.Sprintf("Sale %s saved locally, total %s - pending sync.", sale.ID, sale.Total.StringFixed(2)))
	}
	return nil
}
