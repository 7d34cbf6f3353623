package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/terry-li-hm/lustro/internal/models"
	"github.com/terry-li-hm/lustro/internal/scheduler"
)

// Execute implements the go-flags Commander interface for ServeCommand.
func (c *ServeCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	svc, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	var mu sync.RWMutex
	var lastReport *models.RunReport
	onReport := func(r *models.RunReport) {
		mu.Lock()
		lastReport = r
		mu.Unlock()
	}

	sched := scheduler.NewService(cfg, svc, onReport)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer sched.Stop()

	router := mux.NewRouter()
	router.HandleFunc("/health", healthHandler).Methods("GET")
	router.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		mu.RLock()
		report := lastReport
		mu.RUnlock()
		w.Header().Set("Content-Type", "application/json")
		if report == nil {
			w.Write([]byte(`{"runs":0}`))
			return
		}
		if err := json.NewEncoder(w).Encode(report); err != nil {
			logrus.Errorf("Failed to encode metrics: %v", err)
		}
	}).Methods("GET")
	router.HandleFunc("/trigger", func(w http.ResponseWriter, r *http.Request) {
		go sched.RunOnce()
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"status":"triggered"}`))
	}).Methods("POST")

	port := cfg.Port
	if c.Port != "" {
		port = c.Port
	}
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.Infof("HTTP server starting on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}
	logrus.Info("Server exited")
	return nil
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","timestamp":"` + time.Now().Format(time.RFC3339) + `"}`))
}
