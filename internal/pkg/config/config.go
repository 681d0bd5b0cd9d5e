// Package config предоставляет управление конфигурацией приложения
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // имена часовых поясов доступны и без системной базы

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Server содержит конфигурацию сервера
type Server struct {
	Host            string        `json:"host" yaml:"host"`
	Port            int           `json:"port" yaml:"port"`
	ReadTimeout     time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout" yaml:"write_timeout"`
	IdleTimeout     time.Duration `json:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	CleanupInterval time.Duration `json:"cleanup_interval" yaml:"cleanup_interval"`
}

// Data содержит расположение экспортированных чатов
type Data struct {
	// RootDir - каталог, в котором каждый подкаталог является одним чатом.
	RootDir string `json:"root_dir" yaml:"root_dir"`
}

// Stats содержит параметры вычисления статистики
type Stats struct {
	TopWords         int      `json:"top_words" yaml:"top_words"`
	MinWordLength    int      `json:"min_word_length" yaml:"min_word_length"`
	TopReactions     int      `json:"top_reactions" yaml:"top_reactions"`
	StopWordsFile    string   `json:"stop_words_file" yaml:"stop_words_file"`
	ExtraStopWords   []string `json:"extra_stop_words" yaml:"extra_stop_words"`
	Timezone         string   `json:"timezone" yaml:"timezone"`
	Parallel         bool     `json:"parallel" yaml:"parallel"`
	AveragePrecision int      `json:"average_precision" yaml:"average_precision"`
}

// Processing содержит конфигурацию обработки
type Processing struct {
	TaskTimeout time.Duration `json:"task_timeout" yaml:"task_timeout"` // 0 - без ограничений
	CacheTTL    time.Duration `json:"cache_ttl" yaml:"cache_ttl"`
}

// Logging содержит конфигурацию логирования
type Logging struct {
	Level string `json:"level" yaml:"level"` // debug, info, warn, error
}

// Config содержит конфигурацию приложения
type Config struct {
	Server     Server     `json:"server" yaml:"server"`
	Data       Data       `json:"data" yaml:"data"`
	Stats      Stats      `json:"stats" yaml:"stats"`
	Processing Processing `json:"processing" yaml:"processing"`
	Logging    Logging    `json:"logging" yaml:"logging"`
}

// LoadConfig загружает конфигурацию: значения по умолчанию, затем config.yml, затем
// переменные окружения (в том числе из .env файла). Путь к YAML можно задать в CONFIG_FILE.
func LoadConfig() (*Config, error) {
	// Отсутствие .env файла - нормальная ситуация
	_ = godotenv.Load()

	cfg := defaultConfig()
	if err := loadFromYAML(getEnv("CONFIG_FILE", DefaultConfigFile), cfg); err != nil {
		return nil, err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию из env: %w", err)
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: Server{
			Host:            DefaultServerHost,
			Port:            DefaultServerPort,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			IdleTimeout:     DefaultIdleTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
			CleanupInterval: DefaultCleanupInterval,
		},
		Data: Data{
			RootDir: DefaultMessageDirectory,
		},
		Stats: Stats{
			TopWords:         DefaultTopWords,
			MinWordLength:    DefaultMinWordLength,
			TopReactions:     DefaultTopReactions,
			Timezone:         DefaultTimezone,
			Parallel:         DefaultParallel,
			AveragePrecision: DefaultAveragePrecision,
		},
		Processing: Processing{
			TaskTimeout: DefaultTaskTimeout,
			CacheTTL:    DefaultCacheTTL,
		},
		Logging: Logging{
			Level: DefaultLogLevel,
		},
	}
}

// loadFromYAML накладывает значения из YAML-файла на cfg. Отсутствие файла не является ошибкой.
func loadFromYAML(filename string, cfg *Config) error {
	data, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("не удалось прочитать файл конфигурации %s: %w", filename, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("не удалось разобрать YAML конфигурацию: %w", err)
	}

	return nil
}

// applyEnv переопределяет значения переменными окружения
func applyEnv(cfg *Config) error {
	if v := os.Getenv("DEFAULT_MESSAGE_DIRECTORY"); v != "" {
		cfg.Data.RootDir = v
	}
	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("недопустимый SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("STATS_TIMEZONE"); v != "" {
		cfg.Stats.Timezone = v
	}
	if v := os.Getenv("STATS_TOP_WORDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("недопустимый STATS_TOP_WORDS: %w", err)
		}
		cfg.Stats.TopWords = n
	}
	return nil
}

// Address возвращает адрес сервера в формате "host:port"
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Location возвращает часовой пояс отчета
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Stats.Timezone)
	if err != nil {
		return nil, fmt.Errorf("недопустимый stats.timezone %q: %w", c.Stats.Timezone, err)
	}
	return loc, nil
}

// StopWordList возвращает дополнительные стоп-слова из конфигурации и файла stop_words_file.
// В файле одно слово на строку, строки с # игнорируются.
func (c *Config) StopWordList() ([]string, error) {
	words := append([]string(nil), c.Stats.ExtraStopWords...)
	if c.Stats.StopWordsFile == "" {
		return words, nil
	}

	file, err := os.Open(c.Stats.StopWordsFile)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть файл стоп-слов: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("не удалось прочитать файл стоп-слов: %w", err)
	}
	return words, nil
}

// Validate проверяет, являются ли значения конфигурации допустимыми
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port должен быть действительным номером порта (1-65535)")
	}

	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout должно быть положительным")
	}

	if c.Server.CleanupInterval <= 0 {
		return fmt.Errorf("server.cleanup_interval должно быть положительным")
	}

	if strings.TrimSpace(c.Data.RootDir) == "" {
		return fmt.Errorf("data.root_dir не может быть пустым")
	}

	if c.Stats.TopWords <= 0 {
		return fmt.Errorf("stats.top_words должно быть положительным")
	}

	if c.Stats.MinWordLength <= 0 {
		return fmt.Errorf("stats.min_word_length должно быть положительным")
	}

	if c.Stats.TopReactions <= 0 {
		return fmt.Errorf("stats.top_reactions должно быть положительным")
	}

	if c.Stats.AveragePrecision < 0 || c.Stats.AveragePrecision > 6 {
		return fmt.Errorf("stats.average_precision должно быть в диапазоне 0-6")
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	if c.Processing.TaskTimeout < 0 {
		return fmt.Errorf("processing.task_timeout должно быть неотрицательным (0 для отсутствия ограничений)")
	}

	if c.Processing.CacheTTL <= 0 {
		return fmt.Errorf("processing.cache_ttl должно быть положительным")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// all good
	default:
		return fmt.Errorf("logging.level должен быть одним из: debug, info, warn, error")
	}

	return nil
}

// getEnv извлекает значение переменной окружения или возвращает значение по умолчанию, если она не установлена
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
