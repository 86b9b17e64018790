package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/avolkovs/tillpoint/internal/client/api"
	"github.com/avolkovs/tillpoint/internal/client/config"
	"github.com/avolkovs/tillpoint/internal/client/connectivity"
	"github.com/avolkovs/tillpoint/internal/client/services"
	"github.com/avolkovs/tillpoint/internal/client/store"
	"github.com/avolkovs/tillpoint/internal/client/sync"
	"github.com/avolkovs/tillpoint/internal/logging"
)

// App holds the wired terminal: services, connectivity watcher, replayer
// and the interactive reader.
type App struct {
	config  *config.Config
	repos   *store.Repositories
	client  *api.Client
	monitor *connectivity.Monitor
	replay  *sync.Replayer

	auth      services.AuthService
	products  services.ProductService
	sales     services.SaleService
	staff     services.StaffService
	analytics services.AnalyticsService
	cart      services.CartService

	log      logging.Logger
	reader   *bufio.Reader
	userName string
}

func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Nop{}
	}

	repos, err := store.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize local store: %w", err)
	}

	client := api.New(cfg.APIBaseURL, cfg.RequestTimeout)
	monitor := connectivity.NewMonitor(client, log)

	productPolicy := services.NewProductPolicy(client, repos.Products, repos.Pending, monitor, log)
	salePolicy := services.NewSalePolicy(client, repos.Sales, repos.Pending, monitor, log)
	staffPolicy := services.NewStaffPolicy(client, repos.Staff, repos.Pending, monitor, log)

	replay := sync.NewReplayer(repos.Pending, log)
	replay.Register(productPolicy)
	replay.Register(salePolicy)
	replay.Register(staffPolicy)

	a := &App{
		config:    cfg,
		repos:     repos,
		client:    client,
		monitor:   monitor,
		replay:    replay,
		auth:      services.NewAuthService(client, repos.Metadata, monitor),
		products:  services.NewProductService(productPolicy, repos.Products, client, monitor),
		sales:     services.NewSaleService(salePolicy, client, repos.Analytics, monitor),
		staff:     services.NewStaffService(staffPolicy, repos.Staff, client, monitor),
		analytics: services.NewAnalyticsService(client, repos.Analytics, monitor),
		cart:      services.NewCartService(repos.Cart, salePolicy),
		log:       log,
		reader:    bufio.NewReader(os.Stdin),
	}

	// drain the outbox on every offline-to-online transition
	monitor.OnOnline(func(ctx context.Context) {
		replayed, dropped, err := replay.Drain(ctx)
		if err != nil {
			log.Error(ctx, "replay drain failed", "error", err)
			return
		}
		if replayed > 0 || dropped > 0 {
			printlnFn(fmt.Sprintf("synced %d pending operation(s), dropped %d", replayed, dropped))
		}
	})

	return a, nil
}

// Run starts the connectivity watcher and the REPL and blocks until the
// operator exits.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.repos.Close()

	go a.monitor.Start(ctx, a.config.OnlineCheckInterval)

	printlnFn("tillpoint terminal (type 'help' for commands)")
	a.Login(ctx)

	runREPL(ctx, a, a.status, a.reader)
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

func (a *App) status() string {
	mode := "offline"
	if a.monitor.IsOnline() {
		mode = "online"
	}
	if a.userName == "" {
		return mode
	}
	return a.userName + " " + mode
}
