package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Port             string `mapstructure:"PORT"`
	PostgresUsername string `mapstructure:"POSTGRES_USERNAME"`
	PostgresPassword string `mapstructure:"POSTGRES_PASSWORD"`
	PostgresDatabase string `mapstructure:"POSTGRES_DATABASE"`
	PostgresSSLMode  string `mapstructure:"POSTGRES_SSLMODE"`
	PostgresHost     string `mapstructure:"POSTGRES_HOST"`
	PostgresPort     string `mapstructure:"POSTGRES_PORT"`
	RabbitMQURL      string `mapstructure:"RABBITMQ_URL"`
	ServiceName      string `mapstructure:"SERVICE_NAME"`
	GRPCPort         string `mapstructure:"GRPC_PORT"`
	ItemsPerPage     int    `mapstructure:"ITEMS_PER_PAGE"`
	CategoryMaxDepth int    `mapstructure:"CATEGORY_MAX_DEPTH"`
	ImageURLPrefix   string `mapstructure:"IMAGE_URL_PREFIX"`
	LogFormat        string `mapstructure:"LOG_FORMAT"`
}

func Read() *AppConfig {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()

	bindEnvVariables()
	setDefaults()

	var appConfig AppConfig
	err := viper.Unmarshal(&appConfig)
	if err != nil {
		panic(fmt.Errorf("fatal error unmarshalling config: %w", err))
	}

	return &appConfig
}

// PostgresDSN builds a lib/pq connection string.
func (c *AppConfig) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUsername, c.PostgresPassword, c.PostgresDatabase, c.PostgresSSLMode,
	)
}

func bindEnvVariables() {
	_ = viper.BindEnv("PORT")
	_ = viper.BindEnv("POSTGRES_USERNAME")
	_ = viper.BindEnv("POSTGRES_PASSWORD")
	_ = viper.BindEnv("POSTGRES_DATABASE")
	_ = viper.BindEnv("POSTGRES_SSLMODE")
	_ = viper.BindEnv("POSTGRES_HOST")
	_ = viper.BindEnv("POSTGRES_PORT")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("SERVICE_NAME")
	_ = viper.BindEnv("GRPC_PORT")
	_ = viper.BindEnv("ITEMS_PER_PAGE")
	_ = viper.BindEnv("CATEGORY_MAX_DEPTH")
	_ = viper.BindEnv("IMAGE_URL_PREFIX")
	_ = viper.BindEnv("LOG_FORMAT")
}

func setDefaults() {
	viper.SetDefault("PORT", "8000")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")
	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", "5432")
	viper.SetDefault("POSTGRES_USERNAME", "isucari")
	viper.SetDefault("POSTGRES_PASSWORD", "isucari")
	viper.SetDefault("POSTGRES_DATABASE", "isucari")
	viper.SetDefault("SERVICE_NAME", "isucari")
	viper.SetDefault("GRPC_PORT", "9090")
	viper.SetDefault("ITEMS_PER_PAGE", 48)
	viper.SetDefault("CATEGORY_MAX_DEPTH", 8)
	viper.SetDefault("IMAGE_URL_PREFIX", "/upload/")
	viper.SetDefault("LOG_FORMAT", "console")
}
