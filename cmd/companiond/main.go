package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"cosmossdk.io/log"

	"companion/internal/session"
)

const (
	certPath = "/etc/companion/tls/server.crt"
	keyPath  = "/etc/companion/tls/server.key"
)

func main() {
	port := flag.Int("port", 8443, "listen port, bound on 0.0.0.0")
	flag.Parse()

	logger := log.NewLogger(os.Stdout)

	sess := session.New(logger)
	defer sess.Stop()

	mux := http.NewServeMux()
	mux.HandleFunc("/game", sess.ServeGame)

	addr := fmt.Sprintf("0.0.0.0:%d", *port)
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServeTLS(certPath, keyPath); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", "err", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}
