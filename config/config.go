package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Configs struct {
	Env      string `toml:"env" env:"ENV"`
	LogLevel string `toml:"log_level" env:"LOG_LEVEL"`

	Database     DatabaseConfigs     `toml:"database" envPrefix:"DATABASE_"`
	ApiServer    ServerConfigs       `toml:"api_server" envPrefix:"API_SERVER_"`
	Auth         AuthConfigs         `toml:"auth" envPrefix:"AUTH_"`
	Redis        RedisConfigs        `toml:"redis" envPrefix:"REDIS_"`
	Kafka        KafkaConfigs        `toml:"kafka" envPrefix:"KAFKA_"`
	Discord      DiscordConfigs      `toml:"discord" envPrefix:"DISCORD_"`
	Solana       SolanaConfigs       `toml:"solana" envPrefix:"SOLANA_"`
	Verification VerificationConfigs `toml:"verification" envPrefix:"VERIFICATION_"`
	Duplicate    DuplicateConfigs    `toml:"duplicate" envPrefix:"DUPLICATE_"`
	RateLimit    RateLimitConfigs    `toml:"rate_limit" envPrefix:"RATE_LIMIT_"`
	Cron         CronConfigs         `toml:"cron" envPrefix:"CRON_"`
}

type DatabaseConfigs struct {
	Host     string `toml:"host" env:"HOST"`
	Port     string `toml:"port" env:"PORT"`
	Database string `toml:"database" env:"NAME"`
	User     string `toml:"user" env:"USER"`
	Password string `toml:"password" env:"PASSWORD"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host           string   `toml:"host" env:"HOST"`
	Port           string   `toml:"port" env:"PORT"`
	AllowedOrigins []string `toml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`
}

type AuthConfigs struct {
	AccessToken TokenConfigs `toml:"access_token" envPrefix:"ACCESS_TOKEN_"`
}

type TokenConfigs struct {
	Name       string        `toml:"name" env:"NAME"`
	Secret     string        `toml:"secret" env:"SECRET"`
	Expiration time.Duration `toml:"expiration" env:"EXPIRATION"`
}

type RedisConfigs struct {
	Enable bool   `toml:"enable" env:"ENABLE"`
	Addr   string `toml:"addr" env:"ADDR"`
}

type KafkaConfigs struct {
	Enable bool   `toml:"enable" env:"ENABLE"`
	Addr   string `toml:"addr" env:"ADDR"`
}

type DiscordConfigs struct {
	BotToken string `toml:"bot_token" env:"BOT_TOKEN"`
	BotID    string `toml:"bot_id" env:"BOT_ID"`

	// OAuth2 service name under which linked Discord accounts are stored.
	ServiceName string `toml:"service_name" env:"SERVICE_NAME"`
}

type SolanaConfigs struct {
	RPCEndpoint string `toml:"rpc_endpoint" env:"RPC_ENDPOINT"`
}

type VerificationConfigs struct {
	FetchTimeout time.Duration `toml:"fetch_timeout" env:"FETCH_TIMEOUT"`
	MaxRetries   int           `toml:"max_retries" env:"MAX_RETRIES"`
}

type DuplicateConfigs struct {
	DiscordReuseScore int           `toml:"discord_reuse_score" env:"DISCORD_REUSE_SCORE"`
	TimingScore       int           `toml:"timing_score" env:"TIMING_SCORE"`
	MultiEventScore   int           `toml:"multi_event_score" env:"MULTI_EVENT_SCORE"`
	TimingWindow      time.Duration `toml:"timing_window" env:"TIMING_WINDOW"`
	TimingBurst       int           `toml:"timing_burst" env:"TIMING_BURST"`
	MultiEventBurst   int           `toml:"multi_event_burst" env:"MULTI_EVENT_BURST"`
}

type RateLimitConfigs struct {
	MaxAttempts int           `toml:"max_attempts" env:"MAX_ATTEMPTS"`
	Window      time.Duration `toml:"window" env:"WINDOW"`

	// TrustedProxies lists the ips or cidrs of the proxies allowed to set the
	// client ip with X-Forwarded-For or X-Real-Ip.
	TrustedProxies []string `toml:"trusted_proxies" env:"TRUSTED_PROXIES" envSeparator:","`
}

type CronConfigs struct {
	AutoDrawInterval time.Duration `toml:"auto_draw_interval" env:"AUTO_DRAW_INTERVAL"`
}

// Default returns the configuration used when neither the file nor the
// environment sets a value.
func Default() Configs {
	return Configs{
		Env:      "local",
		LogLevel: "info",
		ApiServer: ServerConfigs{
			Port:           "8080",
			AllowedOrigins: []string{"*"},
		},
		Auth: AuthConfigs{
			AccessToken: TokenConfigs{
				Name:       "access_token",
				Expiration: 24 * time.Hour,
			},
		},
		Discord: DiscordConfigs{
			ServiceName: "discord",
		},
		Solana: SolanaConfigs{
			RPCEndpoint: "https://api.mainnet-beta.solana.com",
		},
		Verification: VerificationConfigs{
			FetchTimeout: 10 * time.Second,
			MaxRetries:   2,
		},
		Duplicate: DuplicateConfigs{
			DiscordReuseScore: 40,
			TimingScore:       20,
			MultiEventScore:   10,
			TimingWindow:      time.Minute,
			TimingBurst:       5,
			MultiEventBurst:   5,
		},
		RateLimit: RateLimitConfigs{
			MaxAttempts: 10,
			Window:      time.Minute,
		},
		Cron: CronConfigs{
			AutoDrawInterval: time.Minute,
		},
	}
}

// Load reads the defaults, then the TOML file at path (optional), then the
// .env file and process environment. Later sources override earlier ones.
func Load(path string) (Configs, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Configs{}, fmt.Errorf("cannot decode config file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Configs{}, fmt.Errorf("cannot load .env file: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return Configs{}, fmt.Errorf("cannot parse environment: %w", err)
	}

	return cfg, nil
}
