package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gookit/validate"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	chatDomain "github.com/reshetovitsme/community-analytics/internal/modules/chat/domain"
	"github.com/reshetovitsme/community-analytics/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

const envPrefix = "CA_"

var defaultCountableKinds = []string{
	chatDomain.ContentKindChat.String(),
	chatDomain.ContentKindAudio.String(),
	chatDomain.ContentKindPtt.String(),
	chatDomain.ContentKindImage.String(),
	chatDomain.ContentKindVideo.String(),
	chatDomain.ContentKindDocument.String(),
	chatDomain.ContentKindSticker.String(),
	chatDomain.ContentKindLocation.String(),
	chatDomain.ContentKindReaction.String(),        // emoji reaction
	chatDomain.ContentKindListResponse.String(),    // poll answer
	chatDomain.ContentKindButtonsResponse.String(), // business buttons
}

var defaultJoinSubtypes = []string{
	chatDomain.JoinSubtypeLinkedGroupJoin.String(),
	chatDomain.JoinSubtypeInvite.String(),
	chatDomain.JoinSubtypeAdd.String(),
}

type Config struct {
	CommunityID        string `koanf:"community_id" validate:"required"`
	OperatorID         string `koanf:"operator_id"`
	SnapshotPath       string `koanf:"snapshot_path" validate:"required"`
	ReportsPath        string `koanf:"reports_path" validate:"required"`
	HTTPPort           string `koanf:"http_port"`
	HTTPEnabled        bool   `koanf:"http_enabled"`
	TelegramBotToken   string `koanf:"telegram_bot_token"`
	ActivityWindowDays int    `koanf:"activity_window_days"`
	JoinWindowDays     int    `koanf:"join_window_days"`
	TopActiveUsers     int    `koanf:"top_active_users" validate:"required|min:1"`
	MessageLimit       int    `koanf:"message_limit" validate:"min:0"`
	ScanConcurrency    int    `koanf:"scan_concurrency" validate:"required|min:1|max:5"`
	CacheSizeMB        int    `koanf:"cache_size_mb" validate:"min:0"`
	ReceiptCacheTTL    int    `koanf:"receipt_cache_ttl_seconds" validate:"min:0"` // seconds, 0 keeps entries until cleared
	MetricsEnabled     bool   `koanf:"metrics_enabled"`
	GroupsSeparator    string `koanf:"groups_separator"`
	LogLevel           string `koanf:"log_level" validate:"in:debug,info,warn,error"`
	AppEnv             AppEnv `koanf:"-"`

	// List-valued keys are decoded by hand: env values arrive as comma-separated strings
	AllowedUsers   []int64                  `koanf:"-"`
	CountableKinds []chatDomain.ContentKind `koanf:"-"`
	JoinSubtypes   []chatDomain.JoinSubtype `koanf:"-"`
}

// Load reads the first config file found in the working directory (or the
// one named by CA_CONFIG), then environment variables, then defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	configFiles := []string{
		"config.yaml",
		"config.yml",
		"config.json",
		"config.toml",
	}
	if explicit := os.Getenv(envPrefix + "CONFIG"); explicit != "" {
		configFiles = []string{explicit}
	}

	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// CA_COMMUNITY_ID -> community_id
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	defaults := map[string]any{
		"snapshot_path":             "./data/community.json",
		"reports_path":              "./reports",
		"http_port":                 "8080",
		"http_enabled":              true,
		"activity_window_days":      90,
		"join_window_days":          30,
		"top_active_users":          10,
		"message_limit":             0,
		"scan_concurrency":          1,
		"cache_size_mb":             16,
		"receipt_cache_ttl_seconds": 300,
		"metrics_enabled":           true,
		"groups_separator":          ", ",
		"log_level":                 "info",
		"app_env":                   "production",
	}
	for key, value := range defaults {
		if !k.Exists(key) {
			k.Set(key, value)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	// Lists come in as slices from config files and as comma-separated strings from env
	if allowedUsers := k.Get("allowed_users"); allowedUsers != nil {
		switch v := allowedUsers.(type) {
		case string:
			cfg.AllowedUsers = ParseAllowedUsers(v)
		case []interface{}:
			cfg.AllowedUsers = lo.FilterMap(v, func(item interface{}, _ int) (int64, bool) {
				switch val := item.(type) {
				case int64:
					return val, true
				case int:
					return int64(val), true
				case float64:
					return int64(val), true
				default:
					return 0, false
				}
			})
		}
	}

	kinds, err := parseList(stringList(k, "countable_kinds", defaultCountableKinds), chatDomain.ParseContentKind)
	if err != nil {
		return nil, oops.With("key", "countable_kinds").Wrap(err)
	}
	cfg.CountableKinds = kinds

	subtypes, err := parseList(stringList(k, "join_subtypes", defaultJoinSubtypes), chatDomain.ParseJoinSubtype)
	if err != nil {
		return nil, oops.With("key", "join_subtypes").Wrap(err)
	}
	cfg.JoinSubtypes = subtypes

	if appEnv, err := ParseAppEnv(k.String("app_env")); err == nil {
		cfg.AppEnv = appEnv
	} else {
		cfg.AppEnv = AppEnvProduction
	}

	if cfg.CommunityID == "" {
		return nil, errors.ErrMissingCommunityID
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the struct tags of the config. A bot token also requires
// a non-empty allow-list since the bot can remove community members.
func (c *Config) Validate() error {
	v := validate.Struct(c)
	if !v.Validate() {
		return oops.With("context", "validating config").Wrap(v.Errors)
	}
	if c.TelegramBotToken != "" && len(c.AllowedUsers) == 0 {
		return errors.ErrMissingAllowedUsers
	}
	return nil
}

// ParseAllowedUsers parses comma-separated user IDs string into []int64
func ParseAllowedUsers(s string) []int64 {
	if s == "" {
		return []int64{}
	}
	parts := strings.Split(s, ",")
	return lo.FilterMap(parts, func(part string, _ int) (int64, bool) {
		part = strings.TrimSpace(part)
		if part == "" {
			return 0, false
		}
		var id int64
		if _, err := fmt.Sscanf(part, "%d", &id); err == nil {
			return id, true
		}
		return 0, false
	})
}

func stringList(k *koanf.Koanf, key string, fallback []string) []string {
	raw := k.Get(key)
	switch v := raw.(type) {
	case string:
		return lo.Compact(lo.Map(strings.Split(v, ","), func(s string, _ int) string {
			return strings.TrimSpace(s)
		}))
	case []interface{}:
		return lo.FilterMap(v, func(item interface{}, _ int) (string, bool) {
			s, ok := item.(string)
			return strings.TrimSpace(s), ok && strings.TrimSpace(s) != ""
		})
	case []string:
		return v
	default:
		return fallback
	}
}

func parseList[T any](values []string, parse func(string) (T, error)) ([]T, error) {
	out := make([]T, 0, len(values))
	for _, value := range values {
		parsed, err := parse(value)
		if err != nil {
			return nil, err
		}
		out = append(out, parsed)
	}
	return out, nil
}
