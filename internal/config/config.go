package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	AppName    string `env:"APP_NAME" envDefault:"EatRite API"`
	AppVersion string `env:"APP_VERSION" envDefault:"1.0.0"`
	HTTPPort   string `env:"HTTP_PORT" envDefault:"8000"`
	APIPrefix  string `env:"API_PREFIX" envDefault:"/api/v1"`

	JWTSecret                string `env:"JWT_SECRET,required"`
	JWTAlgorithm             string `env:"JWT_ALGORITHM" envDefault:"HS256"`
	AccessTokenExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"30"`
	BcryptCost               int    `env:"BCRYPT_COST" envDefault:"10"`

	DatabaseURL           string        `env:"DATABASE_URL"`
	DatabaseTimeout       time.Duration `env:"DATABASE_TIMEOUT" envDefault:"3s"`
	RequireManagedBackend bool          `env:"REQUIRE_MANAGED_BACKEND" envDefault:"false"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:8081,http://localhost:19000,http://localhost:19006"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// LoginMaxAttempts son los logins fallidos tolerados por email y ventana.
	// 0 desactiva el limitador.
	LoginMaxAttempts   int           `env:"LOGIN_MAX_ATTEMPTS" envDefault:"0"`
	LoginAttemptWindow time.Duration `env:"LOGIN_ATTEMPT_WINDOW" envDefault:"5m"`

	S3Bucket       string `env:"S3_BUCKET"`
	S3Region       string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint     string `env:"S3_ENDPOINT"`
	S3AccessKey    string `env:"S3_ACCESS_KEY"`
	S3SecretKey    string `env:"S3_SECRET_KEY"`
	S3UsePathStyle bool   `env:"S3_USE_PATH_STYLE" envDefault:"true"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// AccessTokenTTL devuelve la vigencia de los access tokens.
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}
