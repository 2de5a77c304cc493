package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iamasit07/cep-connect4/backend/internal/config"
	"github.com/iamasit07/cep-connect4/backend/internal/repository/postgres"
	"github.com/iamasit07/cep-connect4/backend/internal/repository/redis"
	"github.com/iamasit07/cep-connect4/backend/internal/service/cleanup"
	"github.com/iamasit07/cep-connect4/backend/internal/service/game"
	"github.com/iamasit07/cep-connect4/backend/internal/service/postal"
	transportHttp "github.com/iamasit07/cep-connect4/backend/internal/transport/http"
	"github.com/iamasit07/cep-connect4/backend/internal/transport/websocket"
	"github.com/iamasit07/cep-connect4/backend/pkg/auth"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found")
		}
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Persistence (optional: without DATABASE_URL nothing is archived)
	var (
		db          *sql.DB
		gameRepo    game.GameRepository
		addressRepo postal.AddressRepository
		archive     transportHttp.GameArchive
		pruner      cleanup.AddressPruner
	)
	if cfg.DatabaseURL != "" {
		db, err = postgres.Open(ctx, cfg.DBDriver, cfg.DatabaseURL, postgres.PoolConfig{
			MaxOpenConns:       cfg.DBMaxOpenConns,
			MaxIdleConns:       cfg.DBMaxIdleConns,
			ConnMaxLifetimeMin: cfg.DBConnMaxLifetimeMin,
		})
		if err != nil {
			log.Fatalf("Database unreachable: %v", err)
		}
		defer db.Close()

		log.Println("Running database migrations...")
		if err := postgres.RunMigrations(ctx, db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Database migration completed successfully")

		games := postgres.NewGameRepo(db)
		addresses := postgres.NewAddressRepo(db)
		gameRepo, archive = games, games
		addressRepo, pruner = addresses, addresses
	} else {
		log.Println("[DB] DATABASE_URL not set, finished games and saved addresses will not be persisted")
	}

	// 2. Cache
	var cache postal.CacheRepository
	if client, ok := redis.Connect(ctx, cfg.RedisURL, cfg.RedisPassword); ok {
		redisCache := redis.NewRedisCache(client)
		defer redisCache.Close()
		cache = redisCache
	}

	// 3. Services
	tableManager, err := game.NewTableManager(gameRepo, cfg.BoardRows, cfg.BoardColumns)
	if err != nil {
		log.Fatalf("Invalid board configuration: %v", err)
	}

	postalService := postal.NewService(postal.Options{
		BaseURL:     cfg.ViaCEPBaseURL,
		Timeout:     cfg.LookupTimeout,
		Cache:       cache,
		CacheTTL:    cfg.CEPCacheTTL,
		Store:       addressRepo,
		FailureRate: cfg.SaveFailureRate,
	})

	tokens := auth.NewTableTokens(cfg.JWTSecret, cfg.TableTokenTTL)
	connManager := websocket.NewConnectionManager()

	// 4. Background workers
	cleanupWorker := cleanup.NewWorker(tableManager, connManager, pruner, cfg.CleanupInterval, cfg.TableIdleTTL, cfg.AddressKeepDays)
	go cleanupWorker.Run(ctx)

	// 5. Transport
	wsHandler := websocket.NewHandler(connManager, tableManager, tokens, cfg.AllowedOrigins)
	router := transportHttp.NewRouter(transportHttp.RouterDeps{
		AllowedOrigins: cfg.AllowedOrigins,
		Addresses:      transportHttp.NewAddressHandler(postalService),
		History:        transportHttp.NewHistoryHandler(archive),
		Tables:         transportHttp.NewTablesHandler(tableManager, connManager),
		WebSocket:      wsHandler.HandleWebSocket,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// let in-flight archive writes finish before the pool closes
	tableManager.Wait()

	log.Println("Server exited gracefully")
}
