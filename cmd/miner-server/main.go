// Package main is the entry point for the DNA Miner game server.
// It only handles dependency injection and server initialization.
// NO business logic belongs here.
package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/shaomun/dnaminer/server/internal/domain/catalog"
	"github.com/shaomun/dnaminer/server/internal/engine"
	"github.com/shaomun/dnaminer/server/internal/events"
	"github.com/shaomun/dnaminer/server/internal/infra/storage"
	"github.com/shaomun/dnaminer/server/internal/network"
	"github.com/shaomun/dnaminer/server/internal/platform/config"
	"github.com/shaomun/dnaminer/server/internal/platform/logger"
	"github.com/shaomun/dnaminer/server/internal/platform/metrics"
)

// SQLitePersisterAdapter translates domain events to storage events.
type SQLitePersisterAdapter struct {
	repo      *storage.SQLiteEventRepository
	sessionID string
}

func (a *SQLitePersisterAdapter) Append(event events.GameEvent) error {
	payloadBytes, _ := json.Marshal(event.Payload)
	var payloadMap map[string]interface{}
	json.Unmarshal(payloadBytes, &payloadMap)

	storageEvent := storage.GameEvent{
		ID:        event.ID,
		SessionID: a.sessionID,
		Timestamp: event.Timestamp,
		EventType: string(event.Type),
		ActorID:   event.ActorID,
		Payload:   payloadMap,
		StreakDay: event.StreakDay,
	}

	began := time.Now()
	err := a.repo.Append(context.Background(), storageEvent)
	metrics.Get().RecordEventWrite(time.Since(began), err)
	return err
}

func loadCatalog(cfg config.Config, appLogger *logger.Logger) *catalog.Catalog {
	if cfg.CatalogPath == "" {
		return catalog.Default()
	}
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		appLogger.Error("Failed to load catalog file: " + err.Error())
		os.Exit(1)
	}
	appLogger.Info("Loaded catalog overrides from " + cfg.CatalogPath)
	return cat
}

func main() {
	log.Println("[MINER-SERVER] Initializing 'DNA Miner' Authoritative Server...")

	cfg := config.FromEnv()
	appLogger := logger.NewLogger()

	// Each process run is its own journal session. State is never restored
	// from the journal; it exists for audit and replay.
	sessionID := uuid.NewString()

	appLogger.Info("Initializing SQLite journal '" + cfg.JournalPath + "'...")
	db, err := storage.InitSQLite(cfg.JournalPath)
	if err != nil {
		appLogger.Error("Failed to initialize SQLite: " + err.Error())
		os.Exit(1)
	}
	eventRepo := storage.NewSQLiteEventRepository(db)
	eventPersister := &SQLitePersisterAdapter{repo: eventRepo, sessionID: sessionID}

	appLogger.Info("Bootstrapping EventLog...")
	eventLog := events.NewEventLog(eventPersister)

	appLogger.Info("Bootstrapping Progression Engine...")
	cat := loadCatalog(cfg, appLogger)
	gameEngine := engine.NewEngine(cat, eventLog, appLogger, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	accrual := engine.NewAccrualTicker(gameEngine, appLogger, cfg.AccrualInterval)
	go accrual.Start(ctx)

	// Periodic snapshot flush to the journal.
	snapRepo := storage.NewSQLiteSnapshotRepository(db)
	go func() {
		flush := time.NewTicker(cfg.SnapshotFlushInterval)
		defer flush.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-flush.C:
				s := gameEngine.Snapshot()
				snap := storage.PlayerSnapshot{
					PlayerID:      s.PlayerID,
					SessionID:     sessionID,
					Name:          s.PlayerName,
					Coins:         s.Coins,
					Energy:        s.Energy,
					EnergyCap:     s.EnergyCap,
					EarnPerTap:    s.EarnPerTap,
					ProfitPerHour: s.ProfitPerHour,
					Level:         s.Level,
					StreakDay:     s.DailyStreakDay,
					EnergyCharges: s.EnergyCharges,
				}
				if err := snapRepo.Upsert(ctx, snap); err != nil {
					appLogger.Warn("Snapshot flush failed: " + err.Error())
				}
			}
		}
	}()

	appLogger.Info("Bootstrapping WebSocket Hub...")
	hub := network.NewHub(gameEngine, appLogger, cfg.ClientSendBuffer, cfg.ClientActionInterval)
	go hub.Run(ctx)
	hub.StartEventPoller(ctx, eventLog)

	// Setup API Routes
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r, appLogger)
	})

	bridge := network.NewCommandBridge(gameEngine, appLogger)
	http.HandleFunc("/api/command", bridge.HandleCommand)
	http.HandleFunc("/api/state", bridge.HandleState)

	replay := network.NewReplayHandler(eventLog, appLogger)
	http.HandleFunc("/api/replay", replay.HandleReplay)

	http.HandleFunc("/metrics", metrics.Handler())

	go func() {
		log.Printf("[MINER-SERVER] HTTP API & WS Server listening on %s", cfg.ListenAddr)
		if err := http.ListenAndServe(cfg.ListenAddr, nil); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	log.Println("[MINER-SERVER] Server running. Press Ctrl+C to exit.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[MINER-SERVER] Shutting down...")
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow cross-origin requests from the web client dev server
	},
}

// serveWs handles websocket requests from the peer.
func serveWs(hub *network.Hub, w http.ResponseWriter, r *http.Request, log *logger.Logger) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("Failed to upgrade websocket connection")
		return
	}

	client := network.NewClient(hub, conn)
	client.Register()

	go client.WritePump()
	go client.ReadPump()
}
