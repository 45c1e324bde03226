package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"block-quest/internal/config"
	"block-quest/internal/game"
	"block-quest/internal/levels"
	"block-quest/internal/metrics"
	"block-quest/internal/progress"
	"block-quest/internal/server"
)

func main() {
	log.SetFlags(log.Ltime | log.Lshortfile)

	configPath := flag.String("config", "", "YAML config file (default "+config.DefaultPath+" if present)")
	sshPort := flag.Int("ssh-port", 0, "SSH port (overrides config and PORT)")
	httpPort := flag.Int("http-port", 0, "HTTP port (overrides config and BQ_HTTP_PORT)")
	driver := flag.String("storage", "", "progress store driver: memory, file, sqlite or badger")
	storePath := flag.String("storage-path", "", "progress store path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	if *sshPort > 0 {
		cfg.Server.SSHPort = *sshPort
	}
	if *httpPort > 0 {
		cfg.Server.HTTPPort = *httpPort
	}
	if *driver != "" {
		cfg.Storage.Driver = *driver
	}
	if *storePath != "" {
		cfg.Storage.Path = *storePath
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	// Generate host key if it doesn't exist
	if err := ensureHostKey(cfg.Server.HostKey); err != nil {
		log.Fatalf("Host key error: %v", err)
	}

	store, err := progress.Open(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		log.Fatalf("Progress store error: %v", err)
	}
	defer store.Close()
	log.Printf("Progress store: %s %s", cfg.Storage.Driver, cfg.Storage.Path)

	catalog := levels.Builtin()
	if _, err := catalog.Validate(); err != nil {
		log.Printf("Level check failed: %v", err)
	}

	m := metrics.New()
	gameLoop := game.NewGameLoop(game.Options{
		Catalog: catalog,
		Store:   store,
		Logger:  log.New(log.Writer(), "[game] ", log.Flags()),
		Metrics: m,
	})

	// Start game loop in background
	go gameLoop.Run()
	defer gameLoop.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	web := server.NewWebServer(gameLoop, m, log.New(log.Writer(), "[web] ", log.Flags()))
	go func() {
		if err := web.ListenAndServe(ctx, fmt.Sprintf(":%d", cfg.Server.GetHTTPPort())); err != nil {
			log.Printf("HTTP server error: %v", err)
			stop()
		}
	}()

	sshServer := server.NewSSHServer(fmt.Sprintf(":%d", cfg.Server.GetSSHPort()), cfg.Server.HostKey, gameLoop,
		log.New(log.Writer(), "[ssh] ", log.Flags()))
	go func() {
		<-ctx.Done()
		sshServer.Close()
	}()

	log.Printf("Starting Block Quest: ssh -p %d YourName@localhost or http://localhost:%d/v1/ws",
		cfg.Server.GetSSHPort(), cfg.Server.GetHTTPPort())
	if err := sshServer.Start(); err != nil {
		log.Printf("SSH server error: %v", err)
	}
}

func ensureHostKey(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // key already exists
	}

	log.Println("Generating new host key...")
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return err
	}

	keyBytes, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return err
	}

	pemBlock := &pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: keyBytes,
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return pem.Encode(f, pemBlock)
}
