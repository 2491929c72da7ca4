package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"fitbase.org/internal/auth"
	"fitbase.org/internal/fitness"
	"fitbase.org/internal/httpapi"
	"fitbase.org/internal/obs"
)

var (
	version = "0.3.0"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	var db *sql.DB
	if dsn := os.Getenv("FITBASE_PG_DSN"); dsn != "" {
		var err error
		db, err = sql.Open("pgx", dsn)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	// Storage: Postgres when a DSN is configured, in-memory otherwise.
	var (
		accounts auth.AccountStore
		tokens   auth.RefreshTokenStore
		workouts fitness.Store
	)
	if db != nil {
		pg := auth.NewPGStore(db)
		accounts, tokens = pg, pg
		workouts = fitness.NewPGStore(db)
	} else {
		log.Println("FITBASE_PG_DSN not set, using in-memory storage")
		mem := auth.NewMemoryStore()
		accounts, tokens = mem, mem
		workouts = fitness.NewMemoryStore()
	}

	issuer, err := auth.NewTokenIssuer(
		os.Getenv("FITBASE_AUTH_SECRET"),
		envOr("FITBASE_AUTH_ISSUER", "fitbase"),
		envOr("FITBASE_AUTH_AUDIENCE", "fitbase-app"),
		15*time.Minute,
	)
	if err != nil {
		log.Fatalf("token issuer: %v", err)
	}

	opts := []auth.ServiceOption{}
	if appID := os.Getenv("FITBASE_FB_APP_ID"); appID != "" {
		fb, err := auth.NewFacebookVerifier(appID, os.Getenv("FITBASE_FB_APP_SECRET"), http.DefaultClient)
		if err != nil {
			log.Fatalf("facebook verifier: %v", err)
		}
		opts = append(opts, auth.WithVerifier(auth.ProviderFacebook, fb))
	}
	if clientID := os.Getenv("FITBASE_GOOGLE_CLIENT_ID"); clientID != "" {
		g, err := auth.NewGoogleVerifier(clientID)
		if err != nil {
			log.Fatalf("google verifier: %v", err)
		}
		opts = append(opts, auth.WithVerifier(auth.ProviderGoogle, g))
	}

	authSvc, err := auth.NewService(accounts, tokens, issuer, opts...)
	if err != nil {
		log.Fatalf("auth service: %v", err)
	}
	workoutSvc, err := fitness.NewService(workouts)
	if err != nil {
		log.Fatalf("fitness service: %v", err)
	}

	api := httpapi.New(httpapi.ReadyProbe{DB: db}, version, authSvc, issuer, accounts, workoutSvc)

	srv := &http.Server{
		Addr:              envOr("FITBASE_HTTP_ADDR", ":8080"),
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting fitbase-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if db != nil {
		_ = db.Close()
	}
	log.Println("Stopped")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
