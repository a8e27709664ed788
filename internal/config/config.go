package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"relentless-househunter/common"
	"relentless-househunter/internal/logging"
	"relentless-househunter/internal/pacing"
)

// Config is the crawler configuration, read from the environment.
type Config struct {
	Seeds     []string
	SeedsFile string
	IndexURL  string

	ListingWorkers     int
	MaxRetries         int
	RetryBackoff       pacing.Range
	NavigationDelay    pacing.Range
	ListingDelay       pacing.Tiers
	PopTimeout         time.Duration
	CheckpointInterval time.Duration
	CheckpointPermits  int
	FinalFlushTimeout  time.Duration
	SessionAttempts    int
	SessionRetryDelay  pacing.Range

	CheckpointBackend string
	CheckpointDir     string
	DatasetPath       string

	Headless         bool
	ChromeProfileDir string
	ChromeWorkDir    string
	UserAgent        string
	ReadyTimeout     time.Duration
	UnblockTimeout   time.Duration
	UnblockPoll      time.Duration

	ProxyURL      string
	ProxyPool     string
	Hostname      string
	RespectRobots bool

	RedisAddr   string
	RedisPrefix string
	StatusTTL   time.Duration
	DedupeTTL   time.Duration

	KafkaBroker       string
	KafkaRecordsTopic string
	KafkaDLQTopic     string

	PostgresDSN string

	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string

	MetricsAddr string
}

// LoadEnv loads .env files from the working directory when present. Values
// already set in the process environment win.
func LoadEnv(logger logging.Logger, files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			logger.WithError(err).Warnf("failed to load %s", file)
			continue
		}
		logger.Debugf("loaded env file %s", file)
	}
}

// Load reads the configuration from the environment.
func Load() Config {
	hostname, _ := os.Hostname()
	return Config{
		Seeds:     common.SplitList(os.Getenv("SEED_URLS")),
		SeedsFile: os.Getenv("SEEDS_FILE"),
		IndexURL:  common.GetEnv("INDEX_URL", "https://www.idealista.com"),

		ListingWorkers:  common.ParseInt(os.Getenv("LISTING_WORKERS"), 6),
		MaxRetries:      common.ParseInt(os.Getenv("MAX_RETRIES"), 5),
		RetryBackoff:    envRange("RETRY_BACKOFF", 60*time.Second, 120*time.Second),
		NavigationDelay: envRange("NAVIGATION_DELAY", 10*time.Second, 30*time.Second),
		ListingDelay: pacing.Tiers{
			Long:   envRange("LISTING_DELAY_LONG", 60*time.Second, 120*time.Second),
			Medium: envRange("LISTING_DELAY_MEDIUM", 20*time.Second, 40*time.Second),
			Short:  envRange("LISTING_DELAY_SHORT", 10*time.Second, 30*time.Second),
			Chance: common.ParseFloat(os.Getenv("LISTING_DELAY_CHANCE"), 0.25),
		},
		PopTimeout:         common.ParseDuration(os.Getenv("POP_TIMEOUT"), 500*time.Second),
		CheckpointInterval: common.ParseDuration(os.Getenv("CHECKPOINT_INTERVAL"), 5*time.Minute),
		CheckpointPermits:  common.ParseInt(os.Getenv("CHECKPOINT_PERMITS"), 100),
		FinalFlushTimeout:  common.ParseDuration(os.Getenv("FINAL_FLUSH_TIMEOUT"), 30*time.Second),
		SessionAttempts:    common.ParseInt(os.Getenv("SESSION_ATTEMPTS"), 3),
		SessionRetryDelay:  envRange("SESSION_RETRY_DELAY", 10*time.Second, 30*time.Second),

		CheckpointBackend: strings.ToLower(common.GetEnv("CHECKPOINT_BACKEND", "file")),
		CheckpointDir:     common.GetEnv("CHECKPOINT_DIR", "tmp/idealista"),
		DatasetPath:       common.GetEnv("DATASET_PATH", "dataset/idealista.csv"),

		Headless:         common.ParseBool(os.Getenv("HEADLESS"), false),
		ChromeProfileDir: os.Getenv("CHROME_PROFILE_DIR"),
		ChromeWorkDir:    os.Getenv("CHROME_WORK_DIR"),
		UserAgent:        os.Getenv("USER_AGENT"),
		ReadyTimeout:     common.ParseDuration(os.Getenv("READY_TIMEOUT"), 20*time.Second),
		UnblockTimeout:   common.ParseDuration(os.Getenv("UNBLOCK_TIMEOUT"), 10*time.Minute),
		UnblockPoll:      common.ParseDuration(os.Getenv("UNBLOCK_POLL"), 5*time.Second),

		ProxyURL:      os.Getenv("PROXY_URL"),
		ProxyPool:     os.Getenv("PROXY_POOL"),
		Hostname:      common.GetEnv("HOSTNAME", hostname),
		RespectRobots: common.ParseBool(os.Getenv("RESPECT_ROBOTS_TXT"), false),

		RedisAddr:   os.Getenv("REDIS_ADDR"),
		RedisPrefix: common.GetEnv("REDIS_PREFIX", "househunter:"),
		StatusTTL:   common.ParseDuration(os.Getenv("STATUS_TTL"), 7*24*time.Hour),
		DedupeTTL:   common.ParseDuration(os.Getenv("DEDUPE_TTL"), 0),

		KafkaBroker:       os.Getenv("KAFKA_BROKER"),
		KafkaRecordsTopic: os.Getenv("KAFKA_RECORDS_TOPIC"),
		KafkaDLQTopic:     os.Getenv("KAFKA_DLQ_TOPIC"),

		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		Neo4jURI:      os.Getenv("NEO4J_URI"),
		Neo4jUser:     common.GetEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword: common.GetEnv("NEO4J_PASSWORD", "neo4j"),

		MetricsAddr: common.GetEnv("METRICS_ADDR", ":9090"),
	}
}

// envRange reads PREFIX_MIN and PREFIX_MAX.
func envRange(prefix string, min, max time.Duration) pacing.Range {
	return pacing.Range{
		Min: common.ParseDuration(os.Getenv(prefix+"_MIN"), min),
		Max: common.ParseDuration(os.Getenv(prefix+"_MAX"), max),
	}
}

type seedsFile struct {
	Seeds []string `yaml:"seeds"`
}

// LoadSeeds reads navigation URLs from a YAML (or JSON) file holding either
// a bare list or a "seeds:" key.
func LoadSeeds(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var list []string
	if err := yaml.Unmarshal(data, &list); err == nil {
		return cleanSeeds(list), nil
	}
	var wrapped seedsFile
	if err := yaml.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("parse seeds file %s: %w", path, err)
	}
	return cleanSeeds(wrapped.Seeds), nil
}

func cleanSeeds(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ResolveSeeds picks the seed list: explicit arguments first, then the
// seeds file, then SEED_URLS. An empty result means discovery mode.
func (c Config) ResolveSeeds(args []string) ([]string, error) {
	if seeds := cleanSeeds(args); len(seeds) > 0 {
		return seeds, nil
	}
	if c.SeedsFile != "" {
		return LoadSeeds(c.SeedsFile)
	}
	return c.Seeds, nil
}
