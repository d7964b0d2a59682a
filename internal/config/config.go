package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type TokenServiceConfig struct {
	Env           string `yaml:"env"`
	HTTPServer    `yaml:"http_server"`
	ContractDB    `yaml:"contract_db"`
	LogConfig     `yaml:"log_config"`
	KafkaService  `yaml:"kafka-service"`
	TokenPlatform `yaml:"token-platform"`
	Treasury      `yaml:"treasury"`
	Contract      `yaml:"contract"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type ContractDB struct {
	Dsn string `yaml:"dsn"`
	// MigrationsPath points at the SQL migration files; empty skips the
	// migration run and relies on an already prepared schema.
	MigrationsPath string `yaml:"migrations_path"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogOutput string `yaml:"log_output"`
}

type KafkaService struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type TokenPlatform struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type Treasury struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type Contract struct {
	StoreAccount       string        `yaml:"store_account"`
	OwnerAccount       string        `yaml:"owner_account"`
	MarketplaceAccount string        `yaml:"marketplace_account"`
	StoreName          string        `yaml:"store_name"`
	StoreSymbol        string        `yaml:"store_symbol"`
	PerByteRate        uint64        `yaml:"per_byte_rate"`
	MinAttachment      uint64        `yaml:"min_attachment"`
	TokenCost          uint64        `yaml:"token_cost"`
	RegistrationFee    uint64        `yaml:"registration_fee"`
	TokenCodeRef       string        `yaml:"token_code_ref"`
	ChainTimeout       time.Duration `yaml:"chain_timeout" env-default:"2m"`
}

func MustLoad() *TokenServiceConfig {

	// Processing env config variable and file
	configPath := os.Getenv("TOKEN_SERVICE_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("TOKEN_SERVICE_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg TokenServiceConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
