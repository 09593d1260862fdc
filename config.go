package main

import (
	"log"
	"os"
	"strconv"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

type Config struct {
	CatalogPath string `yaml:"catalog_path"`
	QueriesPath string `yaml:"queries_path"`

	LLMProvider     string  `yaml:"llm_provider"`
	LLMModel        string  `yaml:"llm_model"`
	Temperature     float64 `yaml:"llm_temperature"`
	AnthropicAPIKey string  `yaml:"anthropic_api_key"`
	OpenAIAPIKey    string  `yaml:"openai_api_key"`
	AzureAPIKey     string  `yaml:"azure_openai_api_key"`
	AzureEndpoint   string  `yaml:"azure_openai_endpoint"`
	AzureDeployment string  `yaml:"azure_openai_deployment"`
	AzureAPIVersion string  `yaml:"azure_openai_api_version"`

	// StrictConfig decides what missing service credentials mean: abort the
	// run before any classification attempt (strict), or warn and proceed so
	// failed calls score as wrong answers (permissive, the default).
	StrictConfig bool `yaml:"strict_config"`

	DBPath          string `yaml:"db_path"`
	StatsPath       string `yaml:"stats_path"`
	ReportOutputDir string `yaml:"report_output_dir"`

	RunSchedule     string `yaml:"run_schedule"`
	SlackBotToken   string `yaml:"slack_bot_token"`
	ReportChannelID string `yaml:"report_channel_id"`
}

func LoadConfig() Config {
	var cfg Config

	// Load from config.yaml if it exists
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.CatalogPath, "CATALOG_PATH")
	envOverride(&cfg.QueriesPath, "QUERIES_PATH")
	envOverride(&cfg.LLMProvider, "LLM_PROVIDER")
	envOverride(&cfg.LLMModel, "LLM_MODEL")
	envOverrideFloat(&cfg.Temperature, "LLM_TEMPERATURE")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	envOverride(&cfg.AzureAPIKey, "AZURE_OPENAI_API_KEY")
	envOverride(&cfg.AzureEndpoint, "AZURE_OPENAI_ENDPOINT")
	envOverride(&cfg.AzureDeployment, "AZURE_OPENAI_DEPLOYMENT")
	envOverride(&cfg.AzureAPIVersion, "AZURE_OPENAI_API_VERSION")
	envOverrideBool(&cfg.StrictConfig, "STRICT_CONFIG")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.StatsPath, "STATS_PATH")
	envOverride(&cfg.ReportOutputDir, "REPORT_OUTPUT_DIR")
	envOverride(&cfg.RunSchedule, "RUN_SCHEDULE")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.ReportChannelID, "REPORT_CHANNEL_ID")

	// Defaults
	if cfg.CatalogPath == "" {
		cfg.CatalogPath = "./data/catalog_items.csv"
	}
	if cfg.QueriesPath == "" {
		cfg.QueriesPath = "./data/support_queries.csv"
	}
	if cfg.LLMProvider == "" {
		cfg.LLMProvider = "anthropic"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./ticketbench.db"
	}
	if cfg.StatsPath == "" {
		cfg.StatsPath = "./stats.json"
	}
	if cfg.ReportOutputDir == "" {
		cfg.ReportOutputDir = "./reports"
	}

	// Validate malformed values. Missing credentials are deliberately not
	// fatal here; ValidateService and strict_config own that decision.
	switch cfg.LLMProvider {
	case "anthropic", "openai", "azure":
	default:
		log.Fatalf("llm_provider must be 'anthropic', 'openai' or 'azure', got '%s'", cfg.LLMProvider)
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		log.Fatalf("invalid llm_temperature '%f': must be between 0 and 2", cfg.Temperature)
	}
	if cfg.RunSchedule != "" {
		parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
		if _, err := parser.Parse(cfg.RunSchedule); err != nil {
			log.Fatalf("invalid run_schedule '%s': %v", cfg.RunSchedule, err)
		}
	}

	return cfg
}

// ValidateService reports the credentials the selected provider is missing.
// Returns nil when the service is callable.
func (c Config) ValidateService() error {
	var missing []string
	switch c.LLMProvider {
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			missing = append(missing, "ANTHROPIC_API_KEY")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			missing = append(missing, "OPENAI_API_KEY")
		}
	case "azure":
		if c.AzureAPIKey == "" {
			missing = append(missing, "AZURE_OPENAI_API_KEY")
		}
		if c.AzureEndpoint == "" {
			missing = append(missing, "AZURE_OPENAI_ENDPOINT")
		}
		if c.AzureDeployment == "" {
			missing = append(missing, "AZURE_OPENAI_DEPLOYMENT")
		}
	}
	if len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}
	return nil
}

func (c Config) SlackConfigured() bool {
	return c.SlackBotToken != "" && c.ReportChannelID != ""
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideFloat(field *float64, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}

func envOverrideBool(field *bool, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.ParseBool(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}
