package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v8"
	"github.com/joho/godotenv"
)

const (
	DriverFirestore = "firestore"
	DriverMemory    = "memory"
)

type Firebase struct {
	Type                    string `env:"FIREBASE_TYPE" json:"type"`
	ProjectId               string `env:"FIREBASE_PROJECT_ID" json:"project_id"`
	PrivateKeyId            string `env:"FIREBASE_PRIVATE_KEY_ID" json:"private_key_id"`
	PrivateKey              string `env:"FIREBASE_PRIVATE_KEY" json:"private_key"`
	ClientEmail             string `env:"FIREBASE_CLIENT_EMAIL" json:"client_email"`
	ClientId                string `env:"FIREBASE_CLIENT_ID" json:"client_id"`
	AuthUri                 string `env:"FIREBASE_AUTH_URI" json:"auth_uri"`
	TokenUri                string `env:"FIREBASE_TOKEN_URI" json:"token_uri"`
	AuthProviderX509CertUrl string `env:"FIREBASE_AUTH_PROVIDER_X509_CERT_URL" json:"auth_provider_x509_cert_url"`
	ClientX509CertUrl       string `env:"FIREBASE_CLIENT_X509_CERT_URL" json:"client_x509_cert_url"`
}

type Store struct {
	Driver     string        `env:"STORE_DRIVER" envDefault:"firestore"`
	Timeout    time.Duration `env:"STORE_TIMEOUT" envDefault:"10s"`
	MaxInQuery int           `env:"STORE_MAX_IN_QUERY" envDefault:"10"`
}

type Ranking struct {
	DealWeight    int `env:"RANKING_DEAL_WEIGHT" envDefault:"5"`
	UpvoteWeight  int `env:"RANKING_UPVOTE_WEIGHT" envDefault:"1"`
	CommentWeight int `env:"RANKING_COMMENT_WEIGHT" envDefault:"3"`
	Concurrency   int `env:"RANKING_CONCURRENCY" envDefault:"8"`
}

// Redis is optional; leaving REDIS_ADDR empty disables the leaderboard snapshot.
type Redis struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	TTL      time.Duration `env:"REDIS_LEADERBOARD_TTL" envDefault:"5m"`
}

type HTTP struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Pretty bool   `env:"LOG_PRETTY" envDefault:"false"`
}

type Config struct {
	Firebase
	Store
	Ranking
	Redis
	HTTP
	Log
}

func LoadConfigOrPanic() Config {
	// a missing .env file is fine, the environment may already be set
	_ = godotenv.Load()

	config, err := load(env.Options{})
	if err != nil {
		panic(err)
	}
	return config
}

func load(opts env.Options) (Config, error) {
	var config *Config = new(Config)
	if err := env.ParseWithOptions(config, opts); err != nil {
		return Config{}, err
	}

	if err := config.normalize(); err != nil {
		return Config{}, err
	}
	return *config, nil
}

func (c *Config) normalize() error {

	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	switch c.Store.Driver {
	case DriverMemory:
	case DriverFirestore:
		if err := c.Firebase.normalize(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}

	if c.Store.Timeout <= 0 {
		c.Store.Timeout = time.Second * 10
	}
	if c.Store.MaxInQuery <= 0 {
		c.Store.MaxInQuery = 10
	}
	if c.Ranking.Concurrency <= 0 {
		c.Ranking.Concurrency = 8
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		c.HTTP.ShutdownTimeout = time.Second * 5
	}
	return nil
}

func (f *Firebase) normalize() error {
	if f.ProjectId == "" || f.PrivateKey == "" || f.ClientEmail == "" {
		return errors.New("FIREBASE_PROJECT_ID, FIREBASE_PRIVATE_KEY and FIREBASE_CLIENT_EMAIL are required for the firestore driver")
	}

	decodedBytes, err := base64.StdEncoding.DecodeString(f.PrivateKey)
	if err != nil {
		return fmt.Errorf("FIREBASE_PRIVATE_KEY is not base64: %w", err)
	}
	f.PrivateKey = strings.ReplaceAll(string(decodedBytes), "\\n", "\n")

	if f.Type == "" {
		f.Type = "service_account"
	}
	return nil
}
