package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"blob-garden/internal/api"
	"blob-garden/internal/config"
	"blob-garden/internal/render"
	"blob-garden/internal/vis"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file from parent directory
	if err := godotenv.Load("../.env"); err != nil {
		// Try current directory as fallback
		if err := godotenv.Load(".env"); err != nil {
			log.Println("💡 No .env file found, using environment variables only")
		}
	} else {
		log.Println("✅ Loaded environment from ../.env")
	}

	log.Println("🫧 ================================")
	log.Println("🫧  BLOB GARDEN - VISUAL ENGINE")
	log.Println("🫧 ================================")

	// Load centralized configuration (SSOT - Single Source of Truth)
	appConfig := config.Load()
	videoCfg := appConfig.Video
	serverCfg := appConfig.Server

	port := strconv.Itoa(serverCfg.Port)

	log.Printf("🎮 Config: %d TPS, %dx%d canvas, %.0fpx blob",
		videoCfg.TickRate, videoCfg.Width, videoCfg.Height, appConfig.Blob.Diameter)

	// Create visual engine with centralized config
	blobCfg := appConfig.Blob
	contribCfg := appConfig.Contribution
	engine := vis.NewEngine(vis.EngineConfig{
		TickRate:     videoCfg.TickRate,
		CanvasWidth:  videoCfg.Width,
		CanvasHeight: videoCfg.Height,
		BlobDiameter: blobCfg.Diameter,
		Motion: vis.MotionConfig{
			Speed:   appConfig.Motion.Speed,
			Padding: appConfig.Motion.Padding,
		},
		Contribution: vis.ContributionConfig{
			Low:      contribCfg.Low,
			Medium:   contribCfg.Medium,
			High:     contribCfg.High,
			VeryHigh: contribCfg.VeryHigh,
			Colors:   contribCfg.Colors,
		},
		Blob: vis.BlobConfig{
			BreathingRate:      blobCfg.BreathingRate,
			BreathingAmplitude: blobCfg.BreathingAmplitude,
			ClickBoostPeak:     blobCfg.ClickBoostPeak,
			ClickBoostDecay:    blobCfg.ClickBoostDecay,
			ClickHeatPeak:      blobCfg.ClickHeatPeak,
			ClickHeatDecay:     blobCfg.ClickHeatDecay,
			PressureRise:       blobCfg.PressureRise,
			PressureRelax:      blobCfg.PressureRelax,
			RippleSpeed:        blobCfg.RippleSpeed,
			RippleDecay:        blobCfg.RippleDecay,
			NoiseLobes:         blobCfg.NoiseLobes,
			NoiseStep:          blobCfg.NoiseStep,
			NoiseMax:           blobCfg.NoiseMax,
			ClickWindow:        time.Duration(blobCfg.ClickWindowSec) * time.Second,
			BaseColor:          blobCfg.BaseColor,
			HotColor:           blobCfg.HotColor,
			BaseStroke:         blobCfg.BaseStroke,
			HotStroke:          blobCfg.HotStroke,
		},
		Limits: vis.Limits{
			MaxEntities:    appConfig.Limits.MaxEntities,
			MaxCallouts:    appConfig.Limits.MaxCallouts,
			ContourSamples: appConfig.Limits.ContourSamples,
		},
	})
	limits := engine.GetLimits()
	log.Printf("🛡️ Resource limits: %d entities, %d callouts, %d contour samples",
		limits.MaxEntities, limits.MaxCallouts, limits.ContourSamples)

	// Start event log
	if appConfig.EventLog.Enabled {
		if err := engine.StartEventLog(appConfig.EventLog.Path); err != nil {
			log.Printf("⚠️ Event log disabled: %v", err)
		} else {
			log.Printf("📝 Event log: %s", appConfig.EventLog.Path)
		}
	}

	// Start debug server
	if serverCfg.Debug {
		debugCfg := api.DefaultObservabilityConfig()
		debugCfg.ListenAddr = "127.0.0.1:" + strconv.Itoa(serverCfg.DebugPort)
		if err := api.StartDebugServer(debugCfg); err != nil {
			log.Printf("⚠️ Debug server disabled: %v", err)
		}
	}

	// Feed tick timing and callout counts into metrics
	engine.SetTickCallback(api.RecordTick)
	engine.OnCallout = func(vis.FloatingNumberEvent) {
		api.RecordCallouts(1)
	}

	// Create renderer for the frame endpoint
	renderer := render.NewRenderer(videoCfg.Width, videoCfg.Height)

	// Create API server
	server := api.NewServer(engine, renderer)

	// Start engine
	engine.Start()
	log.Println("✅ Visual engine started")

	// Start API server in goroutine
	go func() {
		addr := ":" + port
		log.Printf("🌐 API server on http://localhost%s", addr)
		log.Printf("   - state:  http://localhost%s/api/state", addr)
		log.Printf("   - frame:  http://localhost%s/api/frame.png", addr)
		log.Printf("   - ws:     ws://localhost%s/ws", addr)

		if err := server.Start(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Server ready! Press Ctrl+C to stop.")
	<-quit

	log.Println("🛑 Shutting down...")
	server.Stop()
	engine.StopEventLog()
	engine.Stop()
	log.Println("👋 Goodbye!")
}
