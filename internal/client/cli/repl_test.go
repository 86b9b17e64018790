package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubExec records which commands the REPL dispatched.
type stubExec struct {
	loggedIn bool
	calls    []string
}

func (s *stubExec) record(name string) error {
	s.calls = append(s.calls, name)
	return nil
}

func (s *stubExec) isLoggedIn() bool { return s.loggedIn }

func (s *stubExec) Login(ctx context.Context) error  { return s.record("login") }
func (s *stubExec) Logout(ctx context.Context) error { return s.record("logout") }

func (s *stubExec) ListProducts(ctx context.Context) error { return s.record("products") }
func (s *stubExec) AddProduct(ctx context.Context) error   { return s.record("add-product") }

func (s *stubExec) Sell(ctx context.Context, args []string) error {
	return s.record("sell " + strings.Join(args, " "))
}

func (s *stubExec) ShowCart(ctx context.Context) error { return s.record("cart") }

func (s *stubExec) SetQuantity(ctx context.Context, args []string) error {
	return s.record("qty " + strings.Join(args, " "))
}

func (s *stubExec) RemoveLine(ctx context.Context, args []string) error {
	return s.record("remove " + strings.Join(args, " "))
}

func (s *stubExec) ClearCart(ctx context.Context) error { return s.record("clear-cart") }
func (s *stubExec) Checkout(ctx context.Context) error  { return s.record("checkout") }
func (s *stubExec) ListSales(ctx context.Context) error { return s.record("sales") }

func (s *stubExec) Summary(ctx context.Context, args []string) error {
	return s.record("summary " + strings.Join(args, " "))
}

func (s *stubExec) ListStaff(ctx context.Context) error { return s.record("staff") }
func (s *stubExec) AddStaff(ctx context.Context) error  { return s.record("add-staff") }

func (s *stubExec) ToggleStaff(ctx context.Context, args []string) error {
	return s.record("toggle-staff " + strings.Join(args, " "))
}

func (s *stubExec) Dashboard(ctx context.Context, args []string) error {
	return s.record("dashboard " + strings.Join(args, " "))
}

func (s *stubExec) LowStock(ctx context.Context, args []string) error {
	return s.record("lowstock " + strings.Join(args, " "))
}

func (s *stubExec) Pending(ctx context.Context) error { return s.record("pending") }
func (s *stubExec) SyncNow(ctx context.Context) error { return s.record("sync") }
func (s *stubExec) Status(ctx context.Context) error  { return s.record("status") }

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSpace(fmt.Sprintln(a...)))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func runScript(t *testing.T, exec *stubExec, script string) {
	t.Helper()
	reader := bufio.NewReader(strings.NewReader(script))
	runREPL(context.Background(), exec, func() string { return "test" }, reader)
}

func TestREPL_DispatchesCommands(t *testing.T) {
	captureOutput(t)
	exec := &stubExec{loggedIn: true}

	runScript(t, exec, strings.Join([]string{
		"products",
		"sell coffee 2",
		"cart",
		"qty 1 3",
		"checkout",
		"pending",
		"sync",
		"exit",
	}, "\n"))

	assert.Equal(t, []string{
		"products",
		"sell coffee 2",
		"cart",
		"qty 1 3",
		"checkout",
		"pending",
		"sync",
	}, exec.calls)
}

func TestREPL_RequiresLogin(t *testing.T) {
	out := captureOutput(t)
	exec := &stubExec{loggedIn: false}

	runScript(t, exec, "products\nlogin\nexit")

	require.Equal(t, []string{"login"}, exec.calls)

	found := false
	for _, line := range *out {
		if strings.Contains(line, "Log in first") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestREPL_UnknownCommand(t *testing.T) {
	out := captureOutput(t)
	exec := &stubExec{loggedIn: true}

	runScript(t, exec, "frobnicate\nquit")

	assert.Empty(t, exec.calls)
	joined := strings.Join(*out, "\n")
	assert.Contains(t, joined, "Unknown command: frobnicate")
	assert.Contains(t, joined, "Bye!")
}

func TestREPL_ExitsOnEOF(t *testing.T) {
	captureOutput(t)
	exec := &stubExec{loggedIn: true}

	runScript(t, exec, "products")

	assert.Equal(t, []string{"products"}, exec.calls)
}
