package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/kartoza/order-planner/internal/config"
	"github.com/kartoza/order-planner/internal/server"
)

var version = "dev"

func main() {
	// Parse command-line flags
	port := flag.Int("port", 0, "HTTP server port (overrides settings)")
	dataPath := flag.String("data", "", "Order history CSV or SQLite file (overrides settings)")
	settingsPath := flag.String("config", "config.yaml", "YAML settings file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("Order Planner v%s\n", version)
		os.Exit(0)
	}

	// Flags take priority over the settings file and environment
	settings, err := config.LoadSettings(*settingsPath)
	if err != nil {
		log.Fatalf("Invalid settings: %v", err)
	}
	if *port != 0 {
		settings.Port = *port
	}
	if *dataPath != "" {
		settings.DataPath = *dataPath
	}

	// Find an available port (try up to 10 ports starting from the requested one)
	availablePort, err := findAvailablePort(settings.Port, 10)
	if err != nil {
		log.Fatalf("Failed to find available port: %v", err)
	}
	if availablePort != settings.Port {
		log.Printf("Port %d in use, using port %d instead", settings.Port, availablePort)
	}

	cfg := config.Config{
		Port:              availablePort,
		DataPath:          settings.DataPath,
		Version:           version,
		CapacityPerWorker: settings.CapacityPerWorker,
		SafetyMargin:      settings.SafetyMargin,
	}

	log.Printf("Order Planner v%s starting on port %d", version, cfg.Port)
	log.Printf("Order history: %s", cfg.DataPath)

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Graceful shutdown on SIGINT/SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-stop:
		log.Printf("Received %v signal, shutting down...", sig)
		if err := srv.Stop(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}
}

// findAvailablePort finds an available port, starting from the given port.
// If the port is in use, it tries subsequent ports up to maxAttempts times.
func findAvailablePort(startPort int, maxAttempts int) (int, error) {
	for i := 0; i < maxAttempts; i++ {
		port := startPort + i
		addr := fmt.Sprintf(":%d", port)
		listener, err := net.Listen("tcp", addr)
		if err == nil {
			listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port found after %d attempts starting from %d", maxAttempts, startPort)
}
