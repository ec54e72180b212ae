package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"files-manager/internal/server"
)

func main() {
	addr := getenvDefault("FM_ADDR", ":8080")
	mongoURL := getenvDefault("MONGO_URL", "mongodb://localhost:27017")
	mongoDB := getenvDefault("MONGO_DB", "files_manager")
	redisURL := getenvDefault("REDIS_URL", "redis://localhost:6379/0")
	folderPath := getenvDefault("FOLDER_PATH", "/tmp/files_manager")

	maxUpload, err := getenvInt64("FM_MAX_UPLOAD_BYTES", 0)
	if err != nil {
		log.Printf("service=backend msg=%q err=%v", "bad_max_upload_bytes", err)
		os.Exit(1)
	}

	sessionTTL, err := getenvDuration("FM_SESSION_TTL", 24*time.Hour)
	if err != nil {
		log.Printf("service=backend msg=%q err=%v", "bad_session_ttl", err)
		os.Exit(1)
	}

	ctx := context.Background()

	records, err := server.OpenMongo(ctx, mongoURL, mongoDB)
	if err != nil {
		log.Printf("service=backend msg=%q err=%v", "mongo_connect_failed", err)
		os.Exit(1)
	}
	defer func() { _ = records.Close(context.Background()) }()

	sessions, err := server.OpenRedis(ctx, redisURL)
	if err != nil {
		log.Printf("service=backend msg=%q err=%v", "redis_connect_failed", err)
		os.Exit(1)
	}
	defer func() { _ = sessions.Close() }()

	srv := server.New(server.Config{
		Addr:           addr,
		Records:        records,
		Sessions:       sessions,
		Storage:        server.NewLocalStorage(folderPath),
		SessionTTL:     sessionTTL,
		MaxUploadBytes: maxUpload,
	})

	// Start the HTTP server in a background goroutine so we can listen for
	// OS signals while it runs.
	errCh := make(chan error, 1)
	go func() {
		log.Printf("service=backend msg=%q addr=%s storage=%s", "starting", addr, folderPath)
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Block until either a shutdown signal is received or the server errors.
	select {
	case sig := <-sigCh:
		log.Printf("service=backend msg=%q signal=%s", "shutting_down", sig.String())
		// Give the server 5 seconds to finish in-flight requests.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("service=backend msg=%q err=%v", "shutdown_error", err)
			os.Exit(1)
		}
		log.Printf("service=backend msg=%q", "shutdown_complete")
	case err := <-errCh:
		if err != nil {
			log.Printf("service=backend msg=%q err=%v", "server_error", err)
			os.Exit(1)
		}
	}
}

// getenvDefault reads an environment variable and returns a default value if
// not set.
func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

// getenvInt64 parses an integer environment variable, returning def when unset.
func getenvInt64(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

// getenvDuration parses a duration environment variable such as "30m" or
// "48h", returning def when unset.
func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	return time.ParseDuration(v)
}
