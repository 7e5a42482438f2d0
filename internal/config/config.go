package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
)

// DefaultPath 是未設定 LEDGER_CONFIG 時讀取的設定檔
const DefaultPath = "config/config.yaml"

type HTTPConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

type GRPCConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // json | text
}

type LedgerConfig struct {
	Guard string `yaml:"guard"` // account | global | sequencer
}

// Config 服務設定
type Config struct {
	HTTP            HTTPConfig    `yaml:"http"`
	GRPC            GRPCConfig    `yaml:"grpc"`
	Log             LogConfig     `yaml:"log"`
	Ledger          LedgerConfig  `yaml:"ledger"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Load 讀取設定檔並套用環境變數與預設值
// 設定檔不存在不算錯誤，直接使用預設值
//
// 參數:
//
//	path: 設定檔路徑，空字串時依序使用 LEDGER_CONFIG、DefaultPath
//
// 回傳:
//
//	Config: 完整設定
//	error: 檔案無法讀取、YAML 格式錯誤或策略名稱不存在
func Load(path string) (Config, error) {
	if path == "" {
		path = getEnv("LEDGER_CONFIG", DefaultPath)
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	switch cfg.Ledger.Guard {
	case usecase.GuardAccount, usecase.GuardGlobal, usecase.GuardSequencer:
	default:
		return Config{}, fmt.Errorf("%w: %q", usecase.ErrUnknownGuard, cfg.Ledger.Guard)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.HTTP.Addr = getEnv("HTTP_ADDR", c.HTTP.Addr)
	c.GRPC.Addr = getEnv("GRPC_ADDR", c.GRPC.Addr)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
	c.Ledger.Guard = getEnv("LEDGER_GUARD", c.Ledger.Guard)
}

// applyDefaults 補全 yaml 與環境變數都沒設定的欄位
func (c *Config) applyDefaults() {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":3000"
	}
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = 10 * time.Second
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = 10 * time.Second
	}
	if c.HTTP.IdleTimeout == 0 {
		c.HTTP.IdleTimeout = 120 * time.Second
	}
	if c.GRPC.Addr == "" {
		c.GRPC.Addr = ":50051"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Ledger.Guard == "" {
		c.Ledger.Guard = usecase.GuardAccount
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 5 * time.Second
	}
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}
