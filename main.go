package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lattice-pricer/config"
	"lattice-pricer/console"
	"lattice-pricer/controllers"
	"lattice-pricer/database"
	"lattice-pricer/interfaces"
	"lattice-pricer/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var pricingFlags = map[string]bool{
	"spot": true, "strike": true, "horizon": true, "rate": true,
	"up": true, "down": true, "steps": true, "symbol": true,
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("lattice-pricer", flag.ContinueOnError)
	var req interfaces.PricingRequest
	envFile := fs.String("env", ".env", "Path to optional .env file")
	serve := fs.Bool("serve", false, "Run the HTTP pricing API instead of pricing once")
	addr := fs.String("addr", "", "HTTP listen address (overrides PRICER_ADDR)")
	allowArbitrage := fs.Bool("allow-arbitrage", false, "Price lattices whose risk-neutral probability is outside (0,1)")
	fs.Float64Var(&req.Spot, "spot", console.DefaultRequest.Spot, "Initial stock price (omit with -symbol to use the latest trade)")
	fs.Float64Var(&req.Strike, "strike", console.DefaultRequest.Strike, "Strike price")
	fs.Float64Var(&req.Horizon, "horizon", console.DefaultRequest.Horizon, "Time horizon")
	fs.Float64Var(&req.Rate, "rate", console.DefaultRequest.Rate, "Risk-free rate")
	fs.Float64Var(&req.Up, "up", console.DefaultRequest.Up, "Upward movement factor")
	fs.Float64Var(&req.Down, "down", console.DefaultRequest.Down, "Downward movement factor")
	fs.IntVar(&req.Steps, "steps", console.DefaultRequest.Steps, "Number of lattice steps")
	fs.StringVar(&req.Symbol, "symbol", "", "Underlying symbol for spot lookup")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if req.Symbol != "" && !flagSet(fs, "spot") {
		req.Spot = 0
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.ServerAddr = *addr
	}
	if *allowArbitrage {
		cfg.EnforceNoArbitrage = false
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetLevel(cfg.LogLevel)

	var storage interfaces.StorageService
	if cfg.DatabasePath != "" {
		local, err := database.NewLocalStorage(cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open pricing journal: %w", err)
		}
		defer func() {
			if err := local.Close(); err != nil {
				logger.WithError(err).Warn("Failed to close pricing journal")
			}
		}()
		storage = local
	}

	var marketData interfaces.MarketDataService
	if cfg.HasAlpacaCredentials() {
		marketData = services.NewAlpacaMarketDataService(cfg.AlpacaAPIKey, cfg.AlpacaSecretKey, cfg.AlpacaDataURL)
	}

	pricingService := services.NewLatticePricingService(marketData, storage, cfg.EnforceNoArbitrage, logger)

	if *serve {
		if err := runServer(cfg, pricingService, logger); err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	}

	if !anyPricingFlagSet(fs) {
		prompted, err := console.ReadPricingRequest(console.NewPrompter())
		if err != nil {
			return fmt.Errorf("failed to read pricing inputs: %w", err)
		}
		req = *prompted
	}

	if err := priceOnce(context.Background(), pricingService, &req, stdout); err != nil {
		return fmt.Errorf("pricing failed: %w", err)
	}
	return nil
}

func anyPricingFlagSet(fs *flag.FlagSet) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if pricingFlags[f.Name] {
			set = true
		}
	})
	return set
}

func flagSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func priceOnce(ctx context.Context, svc interfaces.PricingService, req *interfaces.PricingRequest, out io.Writer) error {
	result, err := svc.PriceCall(ctx, req)
	if err != nil {
		return err
	}
	console.PrintResult(out, result)
	return nil
}

func runServer(cfg *config.Config, svc interfaces.PricingService, logger *logrus.Logger) error {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())
	controllers.NewPricingController(svc).RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.ServerAddr).Info("Pricing API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.WithField("signal", sig.String()).Info("Shutting down pricing API")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
