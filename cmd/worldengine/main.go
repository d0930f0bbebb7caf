// World engine server - provides the session HTTP/WebSocket API and runs
// the per-session tick drivers.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/worldengine/core/pkg/api"
	"github.com/worldengine/core/pkg/broadcast"
	"github.com/worldengine/core/pkg/cleanup"
	"github.com/worldengine/core/pkg/config"
	"github.com/worldengine/core/pkg/database"
	"github.com/worldengine/core/pkg/eventlog"
	"github.com/worldengine/core/pkg/llm"
	"github.com/worldengine/core/pkg/narrator"
	"github.com/worldengine/core/pkg/session"
	"github.com/worldengine/core/pkg/sessionstore"
	"github.com/worldengine/core/pkg/tickdriver"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configDir := flag.String("config-dir",
		getEnv("CONFIG_DIR", "./deploy/config"),
		"Path to configuration directory")
	flag.Parse()

	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		log.Printf("Warning: Could not load %s file: %v", envPath, err)
		log.Printf("Continuing with existing environment variables...")
	} else {
		log.Printf("Loaded environment from %s", envPath)
	}

	httpPort := getEnv("HTTP_PORT", "8080")

	log.Printf("Starting world engine")
	log.Printf("HTTP Port: %s", httpPort)
	log.Printf("Config Directory: %s", *configDir)

	ctx := context.Background()

	cfg, err := config.Initialize(ctx, *configDir)
	if err != nil {
		log.Fatalf("Failed to initialize configuration: %v", err)
	}

	dbConfig, err := database.LoadConfigFromEnv()
	if err != nil {
		log.Fatalf("Failed to load database config: %v", err)
	}

	pool, err := database.NewPool(ctx, dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()
	log.Println("Connected to PostgreSQL database")

	store := sessionstore.New(pool)

	eventLog := newEventLog(ctx)

	narr := narrator.New(newLLMProvider(), 10*time.Second)

	source := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(os.Getpid())))

	conns := broadcast.NewConnectionManager(5 * time.Second)
	actions := tickdriver.NewActionQueue()
	driver := tickdriver.New(actions, conns, &cfg.Queue)

	sessionMgr := session.New(cfg, eventLog, narr, store, source, driver)

	cleanupSvc := cleanup.NewService(cfg.Retention, sessionMgr, eventLog)
	cleanupSvc.Start(ctx)
	defer cleanupSvc.Stop()

	server := api.NewServer(cfg, sessionMgr, eventLog, conns, actions)

	log.Printf("HTTP server listening on :%s", httpPort)
	log.Printf("Health check available at: http://localhost:%s/health", httpPort)
	if err := server.Start(":" + httpPort); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newEventLog picks the event log backend from REDIS_URL: Redis when
// set (events survive a process restart), the in-process MemoryStore
// otherwise.
func newEventLog(ctx context.Context) eventlog.Store {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		log.Println("REDIS_URL not set, using in-memory event log")
		return eventlog.NewMemoryStore()
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("Failed to parse REDIS_URL: %v", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	log.Println("Connected to Redis event log")
	return eventlog.NewRedisStore(client)
}

// newLLMProvider builds the narrator's Gemini-backed LLM client when
// LLM_SERVICE_ADDR is set. The address only switches the narrator on:
// llm.NewClient ignores it and configures itself from the GEMINI_*
// environment variables. With it unset, the narrator runs
// detached (spec §4.5 Narrator is optional) and every world step
// simply omits narrative text.
func newLLMProvider() narrator.Provider {
	addr := os.Getenv("LLM_SERVICE_ADDR")
	if addr == "" {
		slog.Info("LLM_SERVICE_ADDR not set, narrator disabled")
		return nil
	}
	client, err := llm.NewClient(addr)
	if err != nil {
		slog.Warn("failed to dial LLM service, narrator disabled", "addr", addr, "error", err)
		return nil
	}
	return client
}
