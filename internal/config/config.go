package config

import (
	"os"
	"strconv"

	"github.com/trailwatch/gpsdrift/internal/drift"
)

// Config 应用配置
type Config struct {
	Port      string
	DBPath    string
	JWTSecret string
	MaxMemory int64 // 最大内存使用（字节）

	// Detector holds thresholds loaded from the DRIFT_* environment
	// variables. Profile resolution does not read it: with no named and no
	// default profile, drift.DefaultConfig() is used.
	Detector drift.Config
}

// Load 加载配置
func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/gpsdrift/gpsdrift.db"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "your-secret-key-change-in-production"
	}

	return &Config{
		Port:      port,
		DBPath:    dbPath,
		JWTSecret: jwtSecret,
		MaxMemory: 1024 * 1024 * 800, // 800MB 最大内存使用
		Detector:  loadDetectorConfig(),
	}
}

func loadDetectorConfig() drift.Config {
	cfg := drift.DefaultConfig()

	if v := envInt("DRIFT_WINDOW_SIZE"); v != 0 {
		cfg.WindowSize = v
	}
	if v := envInt64("DRIFT_VALIDITY_PERIOD_MS"); v != 0 {
		cfg.ValidityPeriodMs = v
	}
	if v := envInt("DRIFT_MAX_SEQUENCE"); v != 0 {
		cfg.MaxDriftSequence = v
	}
	if v := envFloat("DRIFT_MULTIPLIER"); v != 0 {
		cfg.DriftMultiplier = v
	}
	if v := envFloat("DRIFT_LINEAR_ANGLE_DEG"); v != 0 {
		cfg.LinearAngleThresholdDeg = v
	}
	if v := envFloat("DRIFT_FLOOR_RADIUS_METERS"); v != 0 {
		cfg.FloorRadiusMeters = v
	}

	return cfg
}

func envInt(key string) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return 0
	}
	return v
}

func envInt64(key string) int64 {
	v, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func envFloat(key string) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return 0
	}
	return v
}
