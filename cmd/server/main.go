package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"tactics-server/internal/domain"
	"tactics-server/internal/engine"
	"tactics-server/internal/infrastructure/storage"
	"tactics-server/internal/server"
	"tactics-server/internal/version"
	"tactics-server/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	var seed int64
	var replayPath string
	var rows, cols int
	// Читаем флаг -seed. По умолчанию 0 (значит сгенерировать случайно).
	flag.Int64Var(&seed, "seed", 0, "Initial combat seed (0 for random)")
	flag.StringVar(&replayPath, "replay", "", "Path to .tcrp replay file to simulate")
	flag.IntVar(&rows, "rows", 15, "Board rows")
	flag.IntVar(&cols, "cols", 20, "Board cols")
	flag.Parse()

	logger.Log.Info("Starting Tactics Server...")
	logger.Log.Info(version.String())

	cfg := engine.NewConfig()
	if seed != 0 {
		cfg.Seed = seed
		logger.Log.Infof("🎲 Using explicit Master Seed: %d", seed)
	} else {
		logger.Log.Infof("🎲 Using random Master Seed: %d", cfg.Seed)
	}

	board := domain.NewBoard(rows, cols, cfg.CellSize)

	// РЕЖИМ РЕПЛЕЯ
	if replayPath != "" {
		logger.Log.Info("💿 Mode: Replay Simulation")

		session, err := storage.Load(replayPath)
		if err != nil {
			logger.Log.Fatal("Failed to load replay: ", err)
		}

		// Сид берется из файла, иначе кости лягут иначе
		cfg.Seed = session.Seed
		gameService := engine.NewService(cfg, board, nil)
		gameService.Playback(session)
		return // Выходим после симуляции
	}

	replayDir := os.Getenv("TS_REPLAY_DIR")
	if replayDir == "" {
		replayDir = "replays"
	}
	recorder, err := storage.NewWriter(replayDir, cfg.Seed)
	if err != nil {
		logger.Log.Fatal("Failed to init replay recorder: ", err)
	}

	port := os.Getenv("TS_PORT")
	if port == "" {
		port = "8080"
	}

	// 2. Инициализация ядра с конфигом
	gameService := engine.NewService(cfg, board, recorder)
	gameService.Start()

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// 3. Запуск сервера
	srv := server.New(gameService, port)

	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.Fatal("Server start error: ", err)
		}
	}()

	<-stop
	logger.Log.Info("Shutting down...")

	// Сбрасываем запись боя на диск
	if path, err := recorder.Close(); err != nil {
		logger.Log.Warn("Failed to save replay: ", err)
	} else {
		logger.Log.Info("Replay saved: ", path)
	}

	logger.Log.Info("Done.")
}
