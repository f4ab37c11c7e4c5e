package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config regroupe la configuration du serveur, chargée depuis les variables
// d'environnement avec des valeurs par défaut raisonnables pour le dev local
type Config struct {
	Port       string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	CatalogDir string
	UseMemory  bool // store en mémoire, sans Postgres (dev et tests)
}

// LoadConfig lit l'environnement via viper et retourne la configuration
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "playlearnspark")
	v.SetDefault("CATALOG_DIR", "configs")
	v.SetDefault("USE_MEMORY_STORE", false)

	cfg := &Config{
		Port:       v.GetString("PORT"),
		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),
		CatalogDir: v.GetString("CATALOG_DIR"),
		UseMemory:  v.GetBool("USE_MEMORY_STORE"),
	}

	if cfg.Port == "" {
		return nil, fmt.Errorf("PORT must not be empty")
	}
	return cfg, nil
}
