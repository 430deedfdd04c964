package config

import (
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// Config holds everything the service reads from the environment, prefixed
// with ARYACO_ (e.g. ARYACO_MONGO_URI).
type Config struct {
	MongoURI    string   `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	Database    string   `envconfig:"DATABASE" default:"aryaco"`
	ListenAddr  string   `envconfig:"LISTEN_ADDR" default:":8080"`
	JWTSecret   string   `envconfig:"JWT_SECRET" required:"true"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"https://app.aryandco.in"`
}

func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process("aryaco", &c); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	return &c, nil
}
