package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/zappabad/orderticket/internal/config"
	"github.com/zappabad/orderticket/internal/form"
	"github.com/zappabad/orderticket/internal/intent"
	"github.com/zappabad/orderticket/internal/logging"
	"github.com/zappabad/orderticket/internal/submit"
	"github.com/zappabad/orderticket/internal/transport"
	"github.com/zappabad/orderticket/tui"
)

func main() {
	envPath := flag.String("env", "", "path to a .env file (default ./.env)")
	configPath := flag.String("config", "", "path to the YAML configuration (default $ORDERTICKET_CONFIG or config/config.yaml)")
	flag.Parse()

	config.LoadEnv(*envPath)
	path := *configPath
	if path == "" {
		path = config.Path()
	}

	cfg, err := config.Load(path)
	if err != nil && !errors.Is(err, config.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger, lerr := logging.New(cfg.Log)
	if lerr != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", lerr)
		os.Exit(1)
	}
	defer logger.Sync()
	if err != nil {
		logger.Warn("config_defaults", zap.Error(err))
	}
	logger.Info("starting", zap.String("config", path), zap.String("transport", cfg.Transport.Mode))

	// Create context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	t, closeTransport, err := transport.New(cfg.Transport, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating transport: %v\n", err)
		os.Exit(1)
	}
	defer closeTransport()

	receipts := make(chan submit.Receipt, 64)
	dispatcher := form.NewDispatcher(intent.KindNewOrder, cfg.Initial(), logger.Named("form"))
	coord := submit.NewCoordinator(dispatcher, t, tui.ReceiptSink(receipts, logger), logger.Named("submit"))
	dispatcher.SetGuard(coord)

	model := tui.NewModel(ctx, dispatcher, coord, receipts, path, logger)
	if lookup, ok := t.(tui.OrderLookup); ok {
		model.SetLookup(lookup)
	}
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
