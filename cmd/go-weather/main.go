package main

import (
	"errors"
	"fmt"
	"go-weather/configs"
	"go-weather/pkg/log"
	"go-weather/pkg/resource"
	"os"

	"github.com/spf13/cobra"
)

// @title go-weather API
// @version 1.0
// @description Current weather and forecast by city, served from a local cache when the weather API cannot be reached.
// @BasePath /go-weather

// errSearchFailed marks a search whose ERROR state was already printed
var errSearchFailed = errors.New("search failed")

var (
	propertiesPath string
	backend        string
	logLevel       string
)

var rootCmd = &cobra.Command{
	Use:           "go-weather",
	Short:         "Weather by city, with an offline cache.",
	Long:          `go-weather looks up current conditions and the 5 day forecast of a city on OpenWeatherMap and keeps the last answers in a local cache, served when the API cannot be reached.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadProperties(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&propertiesPath, "config", "", "properties file (default $PROPERTIES_FILE_PATH or configs/application.yml)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "cache backend: sqlite, postgres, gorm or redis")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(serveCmd, getCmd, lastCmd, migrateCmd)
}

// loadProperties reads .env and the properties file, then applies the flags on top.
// A missing default properties file is not an error, the built-in defaults apply.
func loadProperties(cmd *cobra.Command) error {
	if err := configs.LoadEnv(); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	registerDefaults()

	path := propertiesPath
	if path == "" {
		path = configs.Env.PropertiesFilePath
	}
	if _, err := os.Stat(path); err == nil || cmd.Flags().Changed("config") {
		if err := resource.Init(path); err != nil {
			return err
		}
	}

	if backend != "" {
		resource.Set("app.cache.backend", backend)
	}
	if logLevel != "" {
		resource.Set("app.log.level", logLevel)
	}
	log.SetLevel(resource.GetString("app.log.level"))
	return nil
}

func registerDefaults() {
	resource.SetDefault("app.name", configs.Env.ApplicationName)
	resource.SetDefault("app.log.level", "info")
	resource.SetDefault("app.server.port", "8080")
	resource.SetDefault("app.server.context-path", "/go-weather")
	resource.SetDefault("app.weather.base-url", "https://api.openweathermap.org/data/2.5")
	resource.SetDefault("app.weather.units", "metric")
	resource.SetDefault("app.weather.timeout", "10s")
	resource.SetDefault("app.weather.retries", 2)
	resource.SetDefault("app.weather.breaker.consecutive-failures", 5)
	resource.SetDefault("app.weather.breaker.open-timeout", "30s")
	resource.SetDefault("app.weather.breaker.half-open-requests", 2)
	resource.SetDefault("app.cache.backend", "sqlite")
	resource.SetDefault("app.cache.sqlite.path", "data/weather.db")
	resource.SetDefault("app.cache.retention.cron", "@hourly")
	resource.SetDefault("app.cache.retention.max-age", "24h")
	resource.SetDefault("app.db.port", "5432")
	resource.SetDefault("app.db.ssl-mode", "disable")
	resource.SetDefault("app.db.schema", "public")
	resource.SetDefault("app.db.max-open-conns", 10)
	resource.SetDefault("app.redis.host", "localhost")
	resource.SetDefault("app.redis.port", 6379)
}

func main() {
	defer log.Sync()

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errSearchFailed) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
