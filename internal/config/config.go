package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr string

	// DB
	Env    string // "dev" | "prod"
	DBPath string // e.g. "./data/parkd.db"

	// How often the occupancy poller refreshes the free-slot gauges.
	// 0 disables polling.
	OccupancyPollInterval time.Duration
}

func FromEnv() Config {
	addr := getenvDefault("PARKD_HTTP_ADDR", ":8080")

	env := strings.ToLower(getenvDefault("PARKD_ENV", "dev"))
	if env != "dev" && env != "prod" {
		// fail-soft: treat unknown as dev
		env = "dev"
	}

	dbPath := getenvDefault("PARKD_DB_PATH", "./data/parkd.db")

	pollSeconds := getenvInt("PARKD_OCCUPANCY_POLL_SECONDS", 30)

	return Config{
		HTTPAddr: addr,
		Env:      env,
		DBPath:   dbPath,

		OccupancyPollInterval: time.Duration(pollSeconds) * time.Second,
	}
}

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
