// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for all engine and server settings.
//
// IMPORTANT: When changing values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"
)

// =============================================================================
// VIDEO & CANVAS CONFIGURATION
// =============================================================================

// VideoConfig holds all canvas related settings.
// These values are shared between the visual engine and the renderer.
type VideoConfig struct {
	Width    int // Canvas width in pixels
	Height   int // Canvas height in pixels
	TickRate int // Engine ticks per second
}

// DefaultVideo returns the default video configuration.
func DefaultVideo() VideoConfig {
	return VideoConfig{
		Width:    1280, // 720p canvas
		Height:   720,
		TickRate: 30,
	}
}

// VideoFromEnv returns video configuration with environment variable overrides.
// Environment variables take precedence over defaults.
func VideoFromEnv() VideoConfig {
	cfg := DefaultVideo()

	if w := getEnvInt("CANVAS_WIDTH", 0); w > 0 {
		cfg.Width = w
	}
	if h := getEnvInt("CANVAS_HEIGHT", 0); h > 0 {
		cfg.Height = h
	}
	if tr := getEnvInt("TICK_RATE", 0); tr > 0 {
		cfg.TickRate = tr
	}

	return cfg
}

// =============================================================================
// BLOB CONFIGURATION
// =============================================================================

// BlobConfig holds blob geometry and animation tunables. Every animation
// constant is injectable so tuning never requires a code change.
type BlobConfig struct {
	Diameter float64 // Blob diameter in pixels

	BreathingRate      float64 // rad/s, idle pulsation speed
	BreathingAmplitude float64 // fraction of nominal radius
	ClickBoostPeak     float64 // value set on click
	ClickBoostDecay    float64 // per-second exponential decay rate
	ClickHeatPeak      float64
	ClickHeatDecay     float64 // distinct from boost decay
	PressureRise       float64 // per-second approach rate while held
	PressureRelax      float64 // per-second approach rate after release
	RippleSpeed        float64 // rad/s phase advance while a ripple is live
	RippleDecay        float64 // per-second exponential decay of intensity
	NoiseLobes         int     // number of per-lobe deformation offsets
	NoiseStep          float64 // random-walk step rate per second
	NoiseMax           float64 // per-lobe bound, fraction of nominal radius
	ClickWindowSec     int     // retention for clicks-per-minute history

	BaseColor  string
	HotColor   string
	BaseStroke string
	HotStroke  string
}

// DefaultBlob returns the default blob configuration.
func DefaultBlob() BlobConfig {
	return BlobConfig{
		Diameter:           280,
		BreathingRate:      1.6,
		BreathingAmplitude: 0.04,
		ClickBoostPeak:     1.0,
		ClickBoostDecay:    3.0,
		ClickHeatPeak:      1.0,
		ClickHeatDecay:     1.2,
		PressureRise:       10.0,
		PressureRelax:      4.0,
		RippleSpeed:        8.0,
		RippleDecay:        2.5,
		NoiseLobes:         12,
		NoiseStep:          0.35,
		NoiseMax:           0.12,
		ClickWindowSec:     60,
		BaseColor:          "#27ae60",
		HotColor:           "#e67e22",
		BaseStroke:         "#1e8449",
		HotStroke:          "#ca6f1e",
	}
}

// BlobFromEnv returns blob configuration with environment variable overrides.
func BlobFromEnv() BlobConfig {
	cfg := DefaultBlob()

	if d := getEnvFloat("BLOB_DIAMETER", 0); d > 0 {
		cfg.Diameter = d
	}
	if v := getEnvFloat("BLOB_BREATHING_RATE", 0); v > 0 {
		cfg.BreathingRate = v
	}
	if v := getEnvFloat("BLOB_BREATHING_AMPLITUDE", 0); v > 0 {
		cfg.BreathingAmplitude = v
	}
	if v := getEnvFloat("BLOB_CLICK_BOOST_PEAK", 0); v > 0 {
		cfg.ClickBoostPeak = v
	}
	if v := getEnvFloat("BLOB_CLICK_BOOST_DECAY", 0); v > 0 {
		cfg.ClickBoostDecay = v
	}
	if v := getEnvFloat("BLOB_CLICK_HEAT_PEAK", 0); v > 0 {
		cfg.ClickHeatPeak = v
	}
	if v := getEnvFloat("BLOB_CLICK_HEAT_DECAY", 0); v > 0 {
		cfg.ClickHeatDecay = v
	}
	if v := getEnvFloat("BLOB_PRESSURE_RISE", 0); v > 0 {
		cfg.PressureRise = v
	}
	if v := getEnvFloat("BLOB_PRESSURE_RELAX", 0); v > 0 {
		cfg.PressureRelax = v
	}
	if v := getEnvFloat("BLOB_RIPPLE_SPEED", 0); v > 0 {
		cfg.RippleSpeed = v
	}
	if v := getEnvFloat("BLOB_RIPPLE_DECAY", 0); v > 0 {
		cfg.RippleDecay = v
	}
	if v := getEnvInt("BLOB_NOISE_LOBES", 0); v > 0 {
		cfg.NoiseLobes = v
	}
	if v := getEnvFloat("BLOB_NOISE_STEP", 0); v > 0 {
		cfg.NoiseStep = v
	}
	if v := getEnvFloat("BLOB_NOISE_MAX", 0); v > 0 {
		cfg.NoiseMax = v
	}
	if v := getEnvInt("BLOB_CLICK_WINDOW_SEC", 0); v > 0 {
		cfg.ClickWindowSec = v
	}
	if v := os.Getenv("BLOB_BASE_COLOR"); v != "" {
		cfg.BaseColor = v
	}
	if v := os.Getenv("BLOB_HOT_COLOR"); v != "" {
		cfg.HotColor = v
	}
	if v := os.Getenv("BLOB_BASE_STROKE"); v != "" {
		cfg.BaseStroke = v
	}
	if v := os.Getenv("BLOB_HOT_STROKE"); v != "" {
		cfg.HotStroke = v
	}

	return cfg
}

// =============================================================================
// CONTRIBUTION CONFIGURATION
// =============================================================================

// ContributionConfig holds the four ascending tier thresholds and the
// five tier colors used for entity emphasis.
type ContributionConfig struct {
	Low      float64
	Medium   float64
	High     float64
	VeryHigh float64
	Colors   [5]string // low, medium, high, veryHigh, max
}

// DefaultContribution returns the default contribution configuration.
func DefaultContribution() ContributionConfig {
	return ContributionConfig{
		Low:      0.05,
		Medium:   0.15,
		High:     0.30,
		VeryHigh: 0.50,
		Colors: [5]string{
			"#7f8c8d", // low
			"#2ecc71", // medium
			"#3498db", // high
			"#9b59b6", // veryHigh
			"#f1c40f", // max
		},
	}
}

// ContributionFromEnv returns contribution configuration with environment
// variable overrides.
func ContributionFromEnv() ContributionConfig {
	cfg := DefaultContribution()

	if v := getEnvFloat("CONTRIB_LOW", 0); v > 0 {
		cfg.Low = v
	}
	if v := getEnvFloat("CONTRIB_MEDIUM", 0); v > 0 {
		cfg.Medium = v
	}
	if v := getEnvFloat("CONTRIB_HIGH", 0); v > 0 {
		cfg.High = v
	}
	if v := getEnvFloat("CONTRIB_VERY_HIGH", 0); v > 0 {
		cfg.VeryHigh = v
	}

	colorKeys := [5]string{
		"CONTRIB_COLOR_LOW",
		"CONTRIB_COLOR_MEDIUM",
		"CONTRIB_COLOR_HIGH",
		"CONTRIB_COLOR_VERY_HIGH",
		"CONTRIB_COLOR_MAX",
	}
	for i, key := range colorKeys {
		if v := os.Getenv(key); v != "" {
			cfg.Colors[i] = v
		}
	}

	return cfg
}

// =============================================================================
// MOTION CONFIGURATION
// =============================================================================

// MotionConfig holds entity drift settings.
type MotionConfig struct {
	Speed   float64 // Base drift speed in pixels per second
	Padding float64 // Spawn keep-out margin from the blob edge
}

// DefaultMotion returns the default motion configuration.
func DefaultMotion() MotionConfig {
	return MotionConfig{
		Speed:   18.0,
		Padding: 24.0,
	}
}

// MotionFromEnv returns motion configuration with environment variable overrides.
func MotionFromEnv() MotionConfig {
	cfg := DefaultMotion()

	if s := getEnvFloat("ENTITY_SPEED", 0); s > 0 {
		cfg.Speed = s
	}
	if p := getEnvFloat("SPAWN_PADDING", -1); p >= 0 {
		cfg.Padding = p
	}

	return cfg
}

// =============================================================================
// RESOURCE LIMITS
// =============================================================================

// ResourceLimits controls DoS protection and per-frame render limits.
type ResourceLimits struct {
	MaxEntities    int // Hard cap on rendered entities per frame
	MaxCallouts    int // Per-frame floating number limit
	ContourSamples int // Amoeba contour sample count
}

// DefaultLimits returns the default resource limits.
func DefaultLimits() ResourceLimits {
	return ResourceLimits{
		MaxEntities:    200,
		MaxCallouts:    64,
		ContourSamples: 96,
	}
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port      int
	DebugPort int  // Localhost-only pprof/metrics server
	Debug     bool // Whether the debug server is enabled
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:      3000,
		DebugPort: 6060,
		Debug:     true,
	}
}

// ServerFromEnv returns server configuration with environment variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if dp := getEnvInt("DEBUG_PORT", 0); dp > 0 {
		cfg.DebugPort = dp
	}
	if os.Getenv("DEBUG_SERVER") == "false" {
		cfg.Debug = false
	}

	return cfg
}

// =============================================================================
// EVENT LOG CONFIGURATION
// =============================================================================

// EventLogConfig holds event log persistence settings.
type EventLogConfig struct {
	Enabled bool
	Path    string // JSONL output file
}

// DefaultEventLog returns the default event log configuration.
func DefaultEventLog() EventLogConfig {
	return EventLogConfig{
		Enabled: false,
		Path:    "events.jsonl",
	}
}

// EventLogFromEnv returns event log configuration with environment variable overrides.
func EventLogFromEnv() EventLogConfig {
	cfg := DefaultEventLog()

	if os.Getenv("EVENT_LOG") == "true" {
		cfg.Enabled = true
	}
	if p := os.Getenv("EVENT_LOG_PATH"); p != "" {
		cfg.Path = p
	}

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Video        VideoConfig
	Blob         BlobConfig
	Motion       MotionConfig
	Contribution ContributionConfig
	Server       ServerConfig
	Limits       ResourceLimits
	EventLog     EventLogConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Video:        VideoFromEnv(),
		Blob:         BlobFromEnv(),
		Motion:       MotionFromEnv(),
		Contribution: ContributionFromEnv(),
		Server:       ServerFromEnv(),
		Limits:       DefaultLimits(),
		EventLog:     EventLogFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
