package main

import (
	"fmt"
	"net/url"
	"os"
)

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// resolveDBURL builds the connection string commands use for direct database
// access. DB_URL wins outright; otherwise the pieces fall back to the same
// defaults the service config uses, so devtool and app always talk to the
// same database in a default dev setup.
func resolveDBURL() string {
	if dbURL := os.Getenv("DB_URL"); dbURL != "" {
		return dbURL
	}

	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "stakevault")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", dbUser, dbPass, dbHost, dbPort, dbName)
}

// redactDBURL strips the password out of a connection string for logging.
func redactDBURL(connStr string) string {
	u, err := url.Parse(connStr)
	if err != nil {
		return "(unparseable connection string)"
	}
	return u.Redacted()
}
