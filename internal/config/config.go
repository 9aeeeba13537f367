package config

import (
	"fmt"
	"strings"
	"time"

	"auction-marketplace/internal/domain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Redis     RedisConfig     `mapstructure:"redis"`
	MySQL     MySQLConfig     `mapstructure:"mysql"`
	Leader    LeaderConfig    `mapstructure:"leader"`
	Instance  InstanceConfig  `mapstructure:"instance"`
	Contracts ContractsConfig `mapstructure:"contracts"`
	Feed      FeedConfig      `mapstructure:"feed"`
	Tokens    TokensConfig    `mapstructure:"tokens"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	FeedPort int    `mapstructure:"feed_port" validate:"required,min=1,max=65535,nefield=Port"`
	Host     string `mapstructure:"host" validate:"required"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address" validate:"required,hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"min=0"`
}

type MySQLConfig struct {
	DSN             string        `mapstructure:"dsn" validate:"required"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type LeaderConfig struct {
	TTL time.Duration `mapstructure:"ttl" validate:"required"`
}

type InstanceConfig struct {
	ID string `mapstructure:"id" validate:"required"`
}

// ContractsConfig holds the deployed contract address for each auction protocol.
type ContractsConfig struct {
	Ascending   string `mapstructure:"ascending" validate:"required,eth_addr"`
	Linear      string `mapstructure:"linear" validate:"required,eth_addr"`
	Exponential string `mapstructure:"exponential" validate:"required,eth_addr"`
	Logarithmic string `mapstructure:"logarithmic" validate:"required,eth_addr"`
	SealedBid   string `mapstructure:"sealed_bid" validate:"required,eth_addr"`
}

// Addresses keys the contract addresses by protocol.
func (c ContractsConfig) Addresses() map[domain.AuctionProtocol]common.Address {
	return map[domain.AuctionProtocol]common.Address{
		domain.ProtocolAscending:        common.HexToAddress(c.Ascending),
		domain.ProtocolLinearDecay:      common.HexToAddress(c.Linear),
		domain.ProtocolExponentialDecay: common.HexToAddress(c.Exponential),
		domain.ProtocolLogarithmicDecay: common.HexToAddress(c.Logarithmic),
		domain.ProtocolSealedBid:        common.HexToAddress(c.SealedBid),
	}
}

type FeedConfig struct {
	// TickSpec is a robfig/cron spec, e.g. "@every 5s".
	TickSpec string `mapstructure:"tick_spec" validate:"required"`
}

type TokensConfig struct {
	CacheSize int           `mapstructure:"cache_size" validate:"min=1"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
	// Symbols maps token address to display symbol for well-known tokens.
	Symbols map[string]string `mapstructure:"symbols" validate:"dive,keys,eth_addr,endkeys,required"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.feed_port", 8081)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("mysql.dsn", "auction_user:auction_pass@tcp(localhost:3306)/auction_db?parseTime=true")
	v.SetDefault("mysql.max_open_conns", 25)
	v.SetDefault("mysql.max_idle_conns", 10)
	v.SetDefault("mysql.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("leader.ttl", 30*time.Second)
	v.SetDefault("instance.id", "marketplace-1")
	v.SetDefault("contracts.ascending", "0x0000000000000000000000000000000000000001")
	v.SetDefault("contracts.linear", "0xA6BD412DaeE7367F21c5eD36883b5731FD351B8B")
	v.SetDefault("contracts.exponential", "0x0000000000000000000000000000000000000002")
	v.SetDefault("contracts.logarithmic", "0x0000000000000000000000000000000000000003")
	v.SetDefault("contracts.sealed_bid", "0x0000000000000000000000000000000000000004")
	v.SetDefault("feed.tick_spec", "@every 5s")
	v.SetDefault("tokens.cache_size", 1024)
	v.SetDefault("tokens.cache_ttl", 24*time.Hour)
	v.SetDefault("log.level", "info")
}

func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Configuration file settings
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/auction-marketplace/")

	// SERVER_PORT, REDIS_ADDRESS, CONTRACTS_SEALED_BID, ...
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read configuration file (optional - will use defaults/env vars if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	return decode(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// GetConfigString returns a formatted string representation of the config
func (c *Config) GetConfigString() string {
	return fmt.Sprintf(
		"Server: %s:%d (feed %d), Redis: %s, Instance: %s, Feed: %s",
		c.Server.Host,
		c.Server.Port,
		c.Server.FeedPort,
		c.Redis.Address,
		c.Instance.ID,
		c.Feed.TickSpec,
	)
}
