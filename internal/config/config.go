package config

import (
	"os"
	"strconv"
)

type Config struct {
	DB      DBConfig
	Listing ListingConfig
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type ListingConfig struct {
	// IncludeSitelessFolders controls whether admins also see site
	// folders that were never linked to a site (legacy/unassigned rows).
	IncludeSitelessFolders bool
}

func Load() *Config {
	return &Config{
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "filer"),
			Password: getEnv("DB_PASSWORD", "filer_secret"),
			Name:     getEnv("DB_NAME", "filer"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Listing: ListingConfig{
			IncludeSitelessFolders: getEnvAsBool("FILER_INCLUDE_SITELESS_FOLDERS", true),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}
