package resource

import (
	"fmt"
	"os"
	"regexp"
	"sync"
	"time"

	"github.com/spf13/viper"
)

const defaultPropertiesPath = "configs/application.yml"

var (
	mu         sync.RWMutex
	properties = viper.New()
	envPattern = regexp.MustCompile(`\$\{([^:}]+)(?::([^}]*))?}`)
)

// Load reads the properties file pointed to by PROPERTIES_FILE_PATH, or configs/application.yml.
func Load() error {
	path, ok := os.LookupEnv("PROPERTIES_FILE_PATH")
	if !ok {
		path = defaultPropertiesPath
	}
	return Init(path)
}

// Init loads application properties from a YAML file, resolving ${ENV:default} placeholders.
func Init(filepath string) error {
	v := viper.New()
	v.SetConfigFile(filepath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read properties %s: %w", filepath, err)
	}

	resolved := viper.New()
	flatten("", v.AllSettings(), resolved)

	mu.Lock()
	defer mu.Unlock()
	for _, key := range properties.AllKeys() {
		if !resolved.IsSet(key) {
			resolved.SetDefault(key, properties.Get(key))
		}
	}
	properties = resolved
	return nil
}

// SetDefault registers a fallback used when a key is missing from the loaded file.
func SetDefault(key string, value any) {
	mu.Lock()
	defer mu.Unlock()
	properties.SetDefault(key, value)
}

// Set overrides a property, mainly for command-line flags.
func Set(key string, value any) {
	mu.Lock()
	defer mu.Unlock()
	properties.Set(key, value)
}

// flatten walks the YAML tree and stores leaves under dotted keys.
func flatten(prefix string, data map[string]any, target *viper.Viper) {
	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			if resolved, ok := resolveEnvVariable(v); ok {
				target.Set(fullKey, resolved)
			}
		case map[string]any:
			flatten(fullKey, v, target)
		default:
			target.Set(fullKey, v)
		}
	}
}

// resolveEnvVariable replaces every ${NAME:default} occurrence. A placeholder with no value and no default
// makes the whole property unset.
func resolveEnvVariable(value string) (string, bool) {
	missing := false
	resolved := envPattern.ReplaceAllStringFunc(value, func(match string) string {
		groups := envPattern.FindStringSubmatch(match)
		if envValue, exists := os.LookupEnv(groups[1]); exists {
			return envValue
		}
		if groups[2] != "" {
			return groups[2]
		}
		missing = true
		return ""
	})
	if missing && resolved == "" {
		return "", false
	}
	return resolved, true
}

func get[T any](fn func(*viper.Viper, string) T, key string) T {
	mu.RLock()
	defer mu.RUnlock()
	return fn(properties, key)
}

func Get(key string) any {
	return get((*viper.Viper).Get, key)
}

func GetString(key string) string {
	return get((*viper.Viper).GetString, key)
}

func GetBool(key string) bool {
	return get((*viper.Viper).GetBool, key)
}

func GetDuration(key string) time.Duration {
	return get((*viper.Viper).GetDuration, key)
}

func GetInt(key string) int {
	return get((*viper.Viper).GetInt, key)
}

func GetInt64(key string) int64 {
	return get((*viper.Viper).GetInt64, key)
}

func GetFloat64(key string) float64 {
	return get((*viper.Viper).GetFloat64, key)
}

func GetStringSlice(key string) []string {
	return get((*viper.Viper).GetStringSlice, key)
}

func GetStringMapDuration(key string) map[string]time.Duration {
	raw := get((*viper.Viper).GetStringMapString, key)
	result := make(map[string]time.Duration, len(raw))
	for name, value := range raw {
		if d, err := time.ParseDuration(value); err == nil {
			result[name] = d
		}
	}
	return result
}
