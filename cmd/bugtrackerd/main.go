package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bugtracker/internal/server"
	"bugtracker/internal/storage"
	"bugtracker/internal/storage/mongo"
	"bugtracker/internal/storage/sqlite"
	"bugtracker/internal/util"
)

func main() {
	addrFlag := flag.String("addr", util.EnvOrDefault("BUGTRACKER_ADDR", ":8080"), "HTTP listen address")
	mongoURIFlag := flag.String("mongo-uri", util.EnvOrDefault("BUGTRACKER_MONGO_URI", ""), "MongoDB connection URI; empty selects the sqlite backend")
	mongoDBFlag := flag.String("mongo-db", util.EnvOrDefault("BUGTRACKER_MONGO_DB", "bugtracker"), "MongoDB database name")
	dbFlag := flag.String("db", util.EnvOrDefault("BUGTRACKER_DB_PATH", "data/bugtracker.db"), "Path to sqlite database file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	store, err := openStore(*mongoURIFlag, *mongoDBFlag, *dbFlag, logger)
	if err != nil {
		logger.Error("unable to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	srv := server.New(store, logger)

	httpServer := &http.Server{
		Addr:    *addrFlag,
		Handler: srv.Engine(),
	}

	go func() {
		logger.Info("starting server", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}

// openStore selects the document store when a Mongo URI is configured and
// falls back to the local sqlite backend otherwise.
func openStore(mongoURI, mongoDB, dbPath string, logger *slog.Logger) (storage.Store, error) {
	if mongoURI != "" {
		logger.Info("using mongo backend", slog.String("database", mongoDB))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return mongo.Open(ctx, mongoURI, mongoDB, logger)
	}
	logger.Info("using sqlite backend", slog.String("path", dbPath))
	return sqlite.Open(dbPath, logger)
}
