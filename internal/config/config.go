package config

import (
	"log"
	"os"
)

type Config struct {
	Port             string
	DBDSN            string
	LogFile          string
	JWTSecret        string
	GatewayServerKey string
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "craftmarket.db" // sqlite file in project root
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./craftmarket.log"
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-only-secret" // override in any real deployment
	}
	serverKey := os.Getenv("GATEWAY_SERVER_KEY")
	if serverKey == "" {
		serverKey = "dev-only-server-key"
	}

	cfg := Config{Port: port, DBDSN: dsn, LogFile: logFile, JWTSecret: secret, GatewayServerKey: serverKey}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s", cfg.Port, cfg.DBDSN, cfg.LogFile)
	return cfg
}
