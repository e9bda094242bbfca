package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"AppScanner/internal/discovery"
	"AppScanner/internal/ports"
	"AppScanner/internal/relevance"
	"AppScanner/internal/themes"
)

const (
	defaultTimezone   = "UTC"
	configPathEnv     = "APP_SCANNER_CONFIG"
	outDirEnv         = "APP_SCANNER_OUT_DIR"
	concurrencyEnv    = "APP_SCANNER_CONCURRENCY"
	logLevelEnv       = "APP_SCANNER_LOG_LEVEL"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Store         StoreConfig        `yaml:"store"`
	Discovery     DiscoveryConfig    `yaml:"discovery"`
	Fetch         FetchConfig        `yaml:"fetch"`
	Relevance     RelevanceConfig    `yaml:"relevance"`
	Themes        ThemesConfig       `yaml:"themes"`
	Output        OutputConfig       `yaml:"output"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// LoggingConfig selects the slog level and handler format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// StoreConfig describes the Google Play endpoint and locale.
type StoreConfig struct {
	BaseURL string        `yaml:"baseUrl"`
	Lang    string        `yaml:"lang"`
	Country string        `yaml:"country"`
	Timeout time.Duration `yaml:"timeout"`
}

// DiscoveryConfig lists the seeded competitors, search keywords and channel caps.
type DiscoveryConfig struct {
	SeededAppIDs      []string `yaml:"seededAppIds"`
	Keywords          []string `yaml:"keywords"`
	AppsPerKeyword    int      `yaml:"appsPerKeyword"`
	SimilarSeedLimit  int      `yaml:"similarSeedLimit"`
	SimilarAppsPerApp int      `yaml:"similarAppsPerApp"`
}

// FetchConfig bounds the fetch stage.
type FetchConfig struct {
	Concurrency      int           `yaml:"concurrency"`
	MinTotalReviews  int           `yaml:"minTotalReviews"`
	MaxReviewsPerApp int           `yaml:"maxReviewsPerApp"`
	PageSize         int           `yaml:"pageSize"`
	ReviewSort       string        `yaml:"reviewSort"`
	RequestDelay     time.Duration `yaml:"requestDelay"`
}

// RelevanceConfig holds the classifier lists.
type RelevanceConfig struct {
	ExcludedAppIDs     []string `yaml:"excludedAppIds"`
	NegativeKeywords   []string `yaml:"negativeKeywords"`
	PositiveKeywords   []string `yaml:"positiveKeywords"`
	MinPositiveSignals int      `yaml:"minPositiveSignals"`
}

// ThemesConfig holds the taxonomy and example retention limits.
type ThemesConfig struct {
	Taxonomy         themes.Taxonomy `yaml:"taxonomy"`
	MinReviewLength  int             `yaml:"minReviewLength"`
	ExamplesPerLabel int             `yaml:"examplesPerLabel"`
	MaxExcerptChars  int             `yaml:"maxExcerptChars"`
}

// OutputConfig selects the flat files written after a run.
type OutputConfig struct {
	Dir         string `yaml:"dir"`
	JSON        bool   `yaml:"json"`
	CSV         bool   `yaml:"csv"`
	PerApp      bool   `yaml:"perApp"`
	MetricsFile string `yaml:"metricsFile"`
}

// SchedulerConfig defines whether and when full runs repeat.
type SchedulerConfig struct {
	Enabled        bool           `yaml:"enabled"`
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Load reads an optional .env, the YAML file named by APP_SCANNER_CONFIG on top of the
// defaults, then environment overrides. A config file that is set but unreadable is an error.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: cannot load .env: %v", err)
	}

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}
	cfg.bindTimezone()

	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(outDirEnv); v != "" {
		c.Output.Dir = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(concurrencyEnv); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", concurrencyEnv, err)
		}
		c.Fetch.Concurrency = n
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	return nil
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

// Validate rejects settings the scanner must not run with.
func (c Config) Validate() error {
	var errs []error

	if err := c.Themes.Taxonomy.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("themes.taxonomy: %w", err))
	}

	positive := []struct {
		name  string
		value int
	}{
		{"fetch.concurrency", c.Fetch.Concurrency},
		{"fetch.maxReviewsPerApp", c.Fetch.MaxReviewsPerApp},
		{"fetch.pageSize", c.Fetch.PageSize},
		{"themes.examplesPerLabel", c.Themes.ExamplesPerLabel},
		{"themes.maxExcerptChars", c.Themes.MaxExcerptChars},
		{"relevance.minPositiveSignals", c.Relevance.MinPositiveSignals},
	}
	for _, p := range positive {
		if p.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", p.name, p.value))
		}
	}

	if c.Fetch.MinTotalReviews < 0 || c.Themes.MinReviewLength < 0 || c.Fetch.RequestDelay < 0 {
		errs = append(errs, errors.New("minTotalReviews, minReviewLength and requestDelay must not be negative"))
	}
	if _, err := parseReviewSort(c.Fetch.ReviewSort); err != nil {
		errs = append(errs, err)
	}
	if len(c.Relevance.PositiveKeywords) == 0 {
		errs = append(errs, errors.New("relevance.positiveKeywords is empty"))
	}
	if c.Output.Dir == "" && (c.Output.JSON || c.Output.CSV) {
		errs = append(errs, errors.New("output.dir is required when json or csv output is enabled"))
	}
	if c.Scheduler.Enabled && strings.TrimSpace(c.Scheduler.CronExpression) == "" {
		errs = append(errs, errors.New("scheduler.cronExpression is required when the scheduler is enabled"))
	}

	return errors.Join(errs...)
}

// RelevanceRules builds the classifier input.
func (c Config) RelevanceRules() relevance.Rules {
	return relevance.Rules{
		ExcludedIDs:        c.Relevance.ExcludedAppIDs,
		Negative:           c.Relevance.NegativeKeywords,
		Positive:           c.Relevance.PositiveKeywords,
		MinPositiveSignals: c.Relevance.MinPositiveSignals,
	}
}

// ThemeLimits builds the example retention limits.
func (c Config) ThemeLimits() themes.Limits {
	return themes.Limits{
		MinReviewLength:  c.Themes.MinReviewLength,
		ExamplesPerLabel: c.Themes.ExamplesPerLabel,
		MaxExcerptChars:  c.Themes.MaxExcerptChars,
	}
}

// DiscoveryLimits builds the channel caps.
func (c Config) DiscoveryLimits() discovery.Limits {
	return discovery.Limits{
		AppsPerKeyword:    c.Discovery.AppsPerKeyword,
		SimilarSeedLimit:  c.Discovery.SimilarSeedLimit,
		SimilarAppsPerApp: c.Discovery.SimilarAppsPerApp,
	}
}

// ReviewSort maps the configured sort name; Validate rejects unknown names.
func (c Config) ReviewSort() ports.ReviewSort {
	s, _ := parseReviewSort(c.Fetch.ReviewSort)
	return s
}

func parseReviewSort(name string) (ports.ReviewSort, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "newest":
		return ports.SortNewest, nil
	case "relevant", "helpfulness":
		return ports.SortMostRelevant, nil
	case "rating":
		return ports.SortRating, nil
	default:
		return 0, fmt.Errorf("fetch.reviewSort: unknown sort %q", name)
	}
}
