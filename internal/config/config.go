package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port            string `envconfig:"PORT" default:"8080"`
	DBDSN           string `envconfig:"DB_DSN" default:"souq.db"`
	Env             string `envconfig:"ENV" default:"development"`
	JWTSecret       string `envconfig:"JWT_SECRET" default:"dev-secret-change-me"`
	UserTokenHours  int    `envconfig:"USER_TOKEN_HOURS" default:"24"`
	AdminTokenHours int    `envconfig:"ADMIN_TOKEN_HOURS" default:"8760"` // admin sessions live 1 year
	MediaDir        string `envconfig:"MEDIA_DIR" default:"./media"`
	UploadURL       string `envconfig:"UPLOAD_URL" default:""`
	UploadCDN       string `envconfig:"UPLOAD_CDN" default:""`
	UploadKey       string `envconfig:"UPLOAD_KEY" default:""`
}

func Load() Config {
	// .env is optional; real env always wins.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("[config] %v", err)
	}
	log.Printf("[config] PORT=%s DB_DSN=%s ENV=%s MEDIA_DIR=%s", cfg.Port, cfg.DBDSN, cfg.Env, cfg.MediaDir)
	return cfg
}
