package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Query weighting modes
const (
	// WeightingTraining weights query terms with the training corpus IDF
	WeightingTraining = "training"
	// WeightingSelf weights a query as its own single-document corpus
	WeightingSelf = "self"
)

// Config holds the configuration for the recommender service
type Config struct {
	Corpus     CorpusConfig     `yaml:"corpus"`
	Preprocess PreprocessConfig `yaml:"preprocess"`
	Ranking    RankingConfig    `yaml:"ranking"`
	Fetch      FetchConfig      `yaml:"fetch"`
	Storage    StorageConfig    `yaml:"storage"`
	Server     ServerConfig     `yaml:"server"`
}

// CorpusConfig locates the training data and stopword list.
// Paths may be local files or http(s) URLs.
type CorpusConfig struct {
	Path          string `yaml:"path"`
	HasHeader     bool   `yaml:"has_header"`
	StripMarkup   bool   `yaml:"strip_markup"`
	StopwordsPath string `yaml:"stopwords_path"`
}

type PreprocessConfig struct {
	Stemmer string `yaml:"stemmer"`
}

// RankingConfig holds ranking defaults
type RankingConfig struct {
	TopK           int    `yaml:"top_k"`
	QueryWeighting string `yaml:"query_weighting"`
}

// FetchConfig holds settings for remote corpus sources
type FetchConfig struct {
	Timeout           time.Duration `yaml:"timeout"`
	UserAgent         string        `yaml:"user_agent"`
	EnableRobotsCheck bool          `yaml:"enable_robots_check"`
}

// StorageConfig holds result record storage settings; an empty dir disables it
type StorageConfig struct {
	ResultsDir string `yaml:"results_dir"`
}

type ServerConfig struct {
	Addr     string `yaml:"addr"`
	LogLevel string `yaml:"log_level"`
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Path:          GetStringEnv("CORPUS_PATH", "train.csv"),
			HasHeader:     GetBoolEnv("CORPUS_HAS_HEADER", true),
			StripMarkup:   GetBoolEnv("CORPUS_STRIP_MARKUP", false),
			StopwordsPath: GetStringEnv("STOPWORDS_PATH", "StopWords.txt"),
		},
		Preprocess: PreprocessConfig{
			Stemmer: GetStringEnv("STEMMER", "suffix"),
		},
		Ranking: RankingConfig{
			TopK:           GetIntEnv("RANKING_TOP_K", 3),
			QueryWeighting: GetStringEnv("RANKING_QUERY_WEIGHTING", WeightingTraining),
		},
		Fetch: FetchConfig{
			Timeout:           GetDurationEnv("FETCH_TIMEOUT", 30*time.Second),
			UserAgent:         GetStringEnv("FETCH_USER_AGENT", "MovieRec-Loader/1.0"),
			EnableRobotsCheck: GetBoolEnv("FETCH_ENABLE_ROBOTS_CHECK", true),
		},
		Storage: StorageConfig{
			ResultsDir: GetStringEnv("STORAGE_RESULTS_DIR", ""),
		},
		Server: ServerConfig{
			Addr:     GetStringEnv("SERVER_ADDR", ":8080"),
			LogLevel: GetStringEnv("LOG_LEVEL", "info"),
		},
	}
}

// LoadFile loads the env configuration and overlays the YAML file at path.
// Keys present in the file win over environment values.
func LoadFile(path string) (*Config, error) {
	cfg := Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the engine cannot run with
func (c *Config) Validate() error {
	switch c.Ranking.QueryWeighting {
	case WeightingTraining, WeightingSelf:
	default:
		return fmt.Errorf("unknown query weighting %q", c.Ranking.QueryWeighting)
	}
	switch c.Preprocess.Stemmer {
	case "suffix", "snowball":
	default:
		return fmt.Errorf("unknown stemmer %q", c.Preprocess.Stemmer)
	}
	if c.Ranking.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", c.Ranking.TopK)
	}
	return nil
}

func GetStringEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
