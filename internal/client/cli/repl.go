package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to. The real
// App satisfies it; tests provide a stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	ListProducts(ctx context.Context) error
	AddProduct(ctx context.Context) error
	Sell(ctx context.Context, args []string) error
	ShowCart(ctx context.Context) error
	SetQuantity(ctx context.Context, args []string) error
	RemoveLine(ctx context.Context, args []string) error
	ClearCart(ctx context.Context) error
	Checkout(ctx context.Context) error
	ListSales(ctx context.Context) error
	Summary(ctx context.Context, args []string) error
	ListStaff(ctx context.Context) error
	AddStaff(ctx context.Context) error
	ToggleStaff(ctx context.Context, args []string) error
	Dashboard(ctx context.Context, args []string) error
	LowStock(ctx context.Context, args []string) error
	Pending(ctx context.Context) error
	SyncNow(ctx context.Context) error
	Status(ctx context.Context) error
}

const helpLoggedIn = `Available commands:
  products                 list the catalogue
  add-product              create a product
  sell <name|sku> [qty]    add a product to the cart
  cart                     show the cart
  qty <line> <n>           change a cart line's quantity (0 removes)
  remove <line>            remove a cart line
  clear-cart               empty the cart
  checkout                 turn the cart into a sale
  sales                    list recorded sales
  summary [period]         aggregated sales figures
  staff                    list operators
  add-staff                create an operator
  toggle-staff <id>        flip an operator's active flag (online only)
  dashboard [period]       analytics dashboard
  lowstock [threshold]     products running low
  pending                  show queued operations
  sync                     replay queued operations now
  status                   connectivity and session info
  logout, exit`

// runREPL reads a line, parses the first token as the command, and
// dispatches to a. Unknown commands are reported back. The loop exits on
// EOF or "exit"/"quit". Handlers print their own errors; the loop only
// does I/O. The reader is shared with the handlers' own prompts, so a
// single buffer sees all of stdin.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("till (%s) > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if !a.isLoggedIn() {
			switch cmd {
			case "help":
				printlnFn("Available commands: login, status, exit")
			case "login":
				_ = a.Login(ctx)
			case "status":
				_ = a.Status(ctx)
			case "exit", "quit":
				printlnFn("Bye!")
				return
			default:
				printlnFn("Log in first (type 'login').")
			}
			continue
		}

		switch cmd {
		case "help":
			printlnFn(helpLoggedIn)
		case "login":
			_ = a.Login(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "p", "products":
			_ = a.ListProducts(ctx)
		case "add-product":
			_ = a.AddProduct(ctx)
		case "sell":
			_ = a.Sell(ctx, args)
		case "cart":
			_ = a.ShowCart(ctx)
		case "qty":
			_ = a.SetQuantity(ctx, args)
		case "remove":
			_ = a.RemoveLine(ctx, args)
		case "clear-cart":
			_ = a.ClearCart(ctx)
		case "checkout":
			_ = a.Checkout(ctx)
		case "sales":
			_ = a.ListSales(ctx)
		case "summary":
			_ = a.Summary(ctx, args)
		case "staff":
			_ = a.ListStaff(ctx)
		case "add-staff":
			_ = a.AddStaff(ctx)
		case "toggle-staff":
			_ = a.ToggleStaff(ctx, args)
		case "dashboard":
			_ = a.Dashboard(ctx, args)
		case "lowstock":
			_ = a.LowStock(ctx, args)
		case "pending":
			_ = a.Pending(ctx)
		case "sync":
			_ = a.SyncNow(ctx)
		case "status":
			_ = a.Status(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
