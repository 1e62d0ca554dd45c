package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
)

// AccountServiceConfig holds everything the account service reads at startup.
type AccountServiceConfig struct {
	ServiceName     string        `env:"SERVICE_NAME"     envDefault:"account-service"`
	Host            string        `env:"HOST"             envDefault:"0.0.0.0"`
	Port            int           `env:"PORT"             envDefault:"8080"`
	LogLevel        string        `env:"LOG_LEVEL"        envDefault:"info"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT"  envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Mongo  MongoConfig  `envPrefix:"MONGO_"`
	Token  TokenConfig  `envPrefix:"JWT_"`
	Mailer MailerConfig `envPrefix:"SMTP_"`
	Consul ConsulConfig `envPrefix:"CONSUL_"`
}

// MongoConfig configures the record store connection.
type MongoConfig struct {
	URI            string        `env:"URI,required,notEmpty"`
	Database       string        `env:"DATABASE"        envDefault:"account_service"`
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" envDefault:"10s"`
}

// TokenConfig configures access token issuance and verification.
type TokenConfig struct {
	Secret    string        `env:"SECRET,required,notEmpty"`
	Issuer    string        `env:"ISSUER,required,notEmpty"`
	Audience  string        `env:"AUDIENCE,required,notEmpty"`
	ExpiresIn time.Duration `env:"EXPIRES_IN,required"`
}

// MailerConfig configures the welcome e-mail. Mail is disabled when Host is empty.
type MailerConfig struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT"     envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM"`
}

// Enabled reports whether an SMTP host was configured.
func (c MailerConfig) Enabled() bool {
	return c.Host != ""
}

// ConsulConfig configures service registration. Registration is disabled when Address is empty.
type ConsulConfig struct {
	Address       string        `env:"ADDRESS"`
	ServiceID     string        `env:"SERVICE_ID"`
	AdvertiseHost string        `env:"ADVERTISE_HOST" envDefault:"localhost"`
	CheckInterval time.Duration `env:"CHECK_INTERVAL" envDefault:"10s"`
}

// Enabled reports whether a Consul agent address was configured.
func (c ConsulConfig) Enabled() bool {
	return c.Address != ""
}

// NewAccountServiceConfig parses the configuration from environment variables.
func NewAccountServiceConfig() (*AccountServiceConfig, error) {
	cfg, err := env.ParseAs[AccountServiceConfig]()
	if err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *AccountServiceConfig) validate() error {
	if c.Token.ExpiresIn <= 0 {
		return errors.New("JWT_EXPIRES_IN must be a positive duration")
	}
	if c.Mailer.Enabled() && c.Mailer.From == "" {
		return errors.New("missing SMTP_FROM environment variable")
	}

	return nil
}
