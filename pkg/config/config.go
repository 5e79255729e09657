package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// 必需的环境变量，缺一不可
const (
	EnvSerperAPIKey  = "SERPER_API_KEY"
	EnvAzureAPIKey   = "AZURE_OPENAI_API_KEY"
	EnvAzureEndpoint = "AZURE_OPENAI_ENDPOINT"
)

// Config 项目配置结构体
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	LLM         LLMConfig         `yaml:"llm"`
	Search      SearchConfig      `yaml:"search"`
	Output      OutputConfig      `yaml:"output"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	DB          DBConfig          `yaml:"db"`
}

// ServerConfig HTTP 服务相关配置
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	Timeout string `yaml:"timeout"`
}

// LLMConfig LLM 相关配置（Azure OpenAI）
type LLMConfig struct {
	Endpoint   string `yaml:"endpoint"`
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	APIVersion string `yaml:"api_version"`
}

// SearchConfig 搜索相关配置
type SearchConfig struct {
	Provider string       `yaml:"provider"`
	Serper   SerperConfig `yaml:"serper"`
	Tavily   TavilyConfig `yaml:"tavily"`
}

// SerperConfig Serper 配置
type SerperConfig struct {
	APIKey string `yaml:"api_key"`
}

// TavilyConfig Tavily 配置
type TavilyConfig struct {
	APIKey string `yaml:"api_key"`
}

// OutputConfig 报告文件输出配置
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig LLM 并发控制配置
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// DBConfig 数据库相关配置，Host 为空表示不启用数据库
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// DefaultConfig 返回带默认值的配置
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:    ":8000",
			Timeout: "30m",
		},
		LLM: LLMConfig{
			Model:      "gpt-4.1",
			APIVersion: "2025-01-01-preview",
		},
		Search: SearchConfig{
			Provider: "serper",
		},
		Output: OutputConfig{
			Dir: "./data",
		},
		Log: LogConfig{
			Level: "info",
		},
		Concurrency: ConcurrencyConfig{
			QPS: 2,
			RPM: 60,
		},
	}
}

// LoadConfig 加载配置：默认值 -> yaml 文件（可选）-> 环境变量覆盖
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	// 加载 .env 文件（不存在则忽略）
	_ = godotenv.Load()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("解析配置文件失败: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	cfg.loadFromEnv()
	return cfg, nil
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("SERVER_ADDR"); val != "" {
		c.Server.Addr = val
	}
	if val := os.Getenv("SERVER_TIMEOUT"); val != "" {
		c.Server.Timeout = val
	}

	if val := os.Getenv(EnvAzureEndpoint); val != "" {
		c.LLM.Endpoint = val
	}
	if val := os.Getenv(EnvAzureAPIKey); val != "" {
		c.LLM.APIKey = val
	}
	if val := os.Getenv("AZURE_OPENAI_MODEL"); val != "" {
		c.LLM.Model = val
	}
	if val := os.Getenv("AZURE_OPENAI_API_VERSION"); val != "" {
		c.LLM.APIVersion = val
	}

	if val := os.Getenv("SEARCH_PROVIDER"); val != "" {
		c.Search.Provider = val
	}
	if val := os.Getenv(EnvSerperAPIKey); val != "" {
		c.Search.Serper.APIKey = val
	}
	if val := os.Getenv("TAVILY_API_KEY"); val != "" {
		c.Search.Tavily.APIKey = val
	}

	if val := os.Getenv("OUTPUT_DIR"); val != "" {
		c.Output.Dir = val
	}

	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FILE"); val != "" {
		c.Log.File = val
	}

	if val := os.Getenv("LLM_QPS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.Concurrency.QPS = v
		}
	}
	if val := os.Getenv("LLM_RPM"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.Concurrency.RPM = v
		}
	}

	if val := os.Getenv("DB_HOST"); val != "" {
		c.DB.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.DB.Port = v
		}
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.DB.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.DB.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.DB.Name = val
	}
}

// ValidateCredentials 校验必需的凭据，缺失时立即报错，
// 保证在发起任何网络/LLM 调用之前失败。
// 校验通过后会把 Serper key 写回环境变量，供依赖环境变量的组件发现。
func (c *Config) ValidateCredentials() error {
	var missing []string
	if c.Search.Serper.APIKey == "" {
		missing = append(missing, EnvSerperAPIKey)
	}
	if c.LLM.APIKey == "" {
		missing = append(missing, EnvAzureAPIKey)
	}
	if c.LLM.Endpoint == "" {
		missing = append(missing, EnvAzureEndpoint)
	}
	if len(missing) > 0 {
		return fmt.Errorf("配置错误: 未设置 %s", strings.Join(missing, ", "))
	}

	os.Setenv(EnvSerperAPIKey, c.Search.Serper.APIKey)
	return nil
}
