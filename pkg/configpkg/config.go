// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
//
// The values are read by viper from a config file or environement variables.
type Config struct {
	DBDriver            string        `mapstructure:"DB_DRIVER"`
	DBSource            string        `mapstructure:"DB_SOURCE"`
	RedisAddress        string        `mapstructure:"REDIS_ADDRESS"`
	ServerAddress       string        `mapstructure:"SERVER_ADDRESS"`
	TokenSymmetricKey   string        `mapstructure:"TOKEN_SYMMETRIC_KEY"`
	AccessTokenDuration time.Duration `mapstructure:"ACCESS_TOKEN_DURATION"`
	GatewayBaseURL      string        `mapstructure:"GATEWAY_BASE_URL"`
	GatewayKeyID        string        `mapstructure:"GATEWAY_KEY_ID"`
	GatewayKeySecret    string        `mapstructure:"GATEWAY_KEY_SECRET"`
	GatewayAccount      string        `mapstructure:"GATEWAY_ACCOUNT_NUMBER"`
	GatewayTimeout      time.Duration `mapstructure:"GATEWAY_TIMEOUT"`
	GeoIPBaseURL        string        `mapstructure:"GEOIP_BASE_URL"`
	AssignRetryInterval time.Duration `mapstructure:"ASSIGN_RETRY_INTERVAL"`
	Environement        string        `mapstructure:"GO_ENV"`
}

// Load read configuration from file or environment variables.
func Load(path string) (Config, error) {
	var c Config

	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		return c, err
	}

	err = viper.Unmarshal(&c)
	if err != nil {
		return c, err
	}

	return c, nil
}
