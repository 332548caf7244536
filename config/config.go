package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBPoolMax  int    `mapstructure:"DB_POOL_MAX"`

	MongoURI string `mapstructure:"MONGO_URI"`
	MongoDB  string `mapstructure:"MONGO_DB"`

	RedisAddr string `mapstructure:"REDIS_ADDR"`

	HTTPPort string `mapstructure:"HTTP_PORT"`
	LogMode  string `mapstructure:"LOG_MODE"`

	BenchCount int `mapstructure:"BENCH_COUNT"`
}

func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	// Bind explicitly so viper resolves the variables even without a config file.
	viper.BindEnv("DB_HOST")
	viper.BindEnv("DB_PORT")
	viper.BindEnv("DB_USER")
	viper.BindEnv("DB_PASSWORD")
	viper.BindEnv("DB_NAME")
	viper.BindEnv("DB_POOL_MAX")
	viper.BindEnv("MONGO_URI")
	viper.BindEnv("MONGO_DB")
	viper.BindEnv("REDIS_ADDR")
	viper.BindEnv("HTTP_PORT")
	viper.BindEnv("LOG_MODE")
	viper.BindEnv("BENCH_COUNT")

	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5438")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_NAME", "study_platform")
	viper.SetDefault("DB_POOL_MAX", 10)
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27018")
	viper.SetDefault("MONGO_DB", "study_platform")
	viper.SetDefault("REDIS_ADDR", "localhost:6380")
	viper.SetDefault("HTTP_PORT", ":8080")
	viper.SetDefault("LOG_MODE", "dev")
	viper.SetDefault("BENCH_COUNT", 20000)

	err = viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		// No config file is fine, the environment is enough.
	}

	err = viper.Unmarshal(&config)
	return
}
