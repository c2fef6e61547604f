package config

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	mintconfig "github.com/gaze-network/mintgate/modules/mint/config"
	"github.com/gaze-network/mintgate/pkg/logger"
	"github.com/gaze-network/mintgate/pkg/logger/slogx"
	"github.com/gaze-network/mintgate/pkg/middleware/requestcontext"
	"github.com/gaze-network/mintgate/pkg/middleware/requestlogger"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	isInit bool
	mu     sync.Mutex
	config = defaultConfig()
)

func defaultConfig() *Config {
	return &Config{
		Logger: logger.Config{
			Output: "TEXT",
		},
		HTTPServer: HTTPServerConfig{
			Port: 8080,
		},
		Mint: mintconfig.Default(),
	}
}

type Config struct {
	Logger     logger.Config     `mapstructure:"logger"`
	HTTPServer HTTPServerConfig  `mapstructure:"http_server"`
	Mint       mintconfig.Config `mapstructure:"mint"`
}

type HTTPServerConfig struct {
	Port int `mapstructure:"port"`

	// AdminAPIKey guards the admin routes. Admin routes are disabled when it is empty.
	AdminAPIKey string                            `mapstructure:"admin_api_key"`
	Logger      requestlogger.Config              `mapstructure:"logger"`
	RequestIP   requestcontext.WithClientIPConfig `mapstructure:"request_ip"`
}

// Parse parse the configuration from environment variables and the given config file.
// An empty configFile falls back to ./config.yaml.
func Parse(configFile ...string) Config {
	mu.Lock()
	defer mu.Unlock()
	return parse(configFile...)
}

func parse(configFile ...string) Config {
	ctx := logger.WithContext(context.Background(), slog.String("package", "config"))

	if len(configFile) > 0 && configFile[0] != "" {
		viper.SetConfigFile(configFile[0])
	} else {
		viper.AddConfigPath("./")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := viper.ReadInConfig(); err != nil {
		var errNotfound viper.ConfigFileNotFoundError
		if errors.As(err, &errNotfound) {
			logger.WarnContext(ctx, "config file not found, use default value", slogx.Error(err))
		} else {
			logger.PanicContext(ctx, "invalid config file", slogx.Error(err))
		}
	}

	if err := viper.Unmarshal(config); err != nil {
		logger.PanicContext(ctx, "failed to unmarshal config", slogx.Error(err))
	}

	isInit = true
	return *config
}

// Load returns the loaded configuration, parsing it on first use.
func Load() Config {
	mu.Lock()
	defer mu.Unlock()
	if isInit {
		return *config
	}
	return parse()
}

// BindPFlag binds a specific key to a pflag (as used by cobra).
func BindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		logger.Panic("Something went wrong, failed to bind flag for config", slog.String("package", "config"), slogx.Error(err))
	}
}
