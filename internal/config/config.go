package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"league-tracker/internal/constants"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// Row orderings applied after a batch is extracted.
const (
	OrderCompletion = "completion"
	OrderNewest     = "newest"
	OrderOldest     = "oldest"
)

// Participant fields that can supply the row's role.
var roleFields = map[string]bool{
	"teamPosition":       true,
	"individualPosition": true,
	"lane":               true,
	"role":               true,
}

type Config struct {
	RiotAPIKey       string
	RiotRegionalURL  string
	RiotPlatformURL  string
	DragonDataURL    string
	DragonIconURL    string
	IconPathPrefix   string
	FetchConcurrency int
	RoleField        string
	RowOrder         string
	RedisAddr        string
	PlayerCacheTTL   time.Duration
	ServerPort       string
	LogLevel         string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		RiotAPIKey:       getEnv("RIOT_API_KEY", ""),
		RiotRegionalURL:  getEnv("RIOT_REGIONAL_URL", "https://americas.api.riotgames.com"),
		RiotPlatformURL:  getEnv("RIOT_PLATFORM_URL", "https://na1.api.riotgames.com"),
		DragonDataURL:    getEnv("CDRAGON_DATA_URL", "https://raw.communitydragon.org/latest/plugins/rcp-be-lol-game-data/global/default/v1"),
		DragonIconURL:    getEnv("CDRAGON_ICON_URL", "https://raw.communitydragon.org/latest/plugins/rcp-be-lol-game-data/global/default"),
		IconPathPrefix:   getEnv("ICON_PATH_PREFIX", "/lol-game-data/assets/"),
		FetchConcurrency: getEnvInt("MATCH_FETCH_CONCURRENCY", constants.DefaultFetchConcurrency),
		RoleField:        getEnv("ROLE_FIELD", "teamPosition"),
		RowOrder:         strings.ToLower(getEnv("ROW_ORDER", OrderCompletion)),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		PlayerCacheTTL:   getEnvDuration("PLAYER_CACHE_TTL", constants.PlayerCacheTTL),
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		logger.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logger.Info().
		Str("riot_regional_url", cfg.RiotRegionalURL).
		Str("riot_platform_url", cfg.RiotPlatformURL).
		Str("cdragon_data_url", cfg.DragonDataURL).
		Int("fetch_concurrency", cfg.FetchConcurrency).
		Str("role_field", cfg.RoleField).
		Str("row_order", cfg.RowOrder).
		Bool("redis", cfg.RedisAddr != "").
		Dur("player_cache_ttl", cfg.PlayerCacheTTL).
		Str("server_port", cfg.ServerPort).
		Str("log_level", level.String()).
		Msg("configuration loaded")

	return cfg, nil
}

// Validate checks required keys and clamps tunables into range.
func (c *Config) Validate() error {
	if c.RiotAPIKey == "" {
		return fmt.Errorf("RIOT_API_KEY is required")
	}
	if !roleFields[c.RoleField] {
		return fmt.Errorf("ROLE_FIELD %q is not one of teamPosition, individualPosition, lane, role", c.RoleField)
	}
	switch c.RowOrder {
	case OrderCompletion, OrderNewest, OrderOldest:
	default:
		return fmt.Errorf("ROW_ORDER %q is not one of completion, newest, oldest", c.RowOrder)
	}
	if c.FetchConcurrency < 1 {
		c.FetchConcurrency = 1
	}
	if c.FetchConcurrency > constants.MaxFetchConcurrency {
		c.FetchConcurrency = constants.MaxFetchConcurrency
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

var Module = fx.Provide(Load)
