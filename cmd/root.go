package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const app = "vacmatch"

type Config struct {
	Database string         `mapstructure:"database"`
	Profile  string         `mapstructure:"profile"`
	AI       *AIConfig      `mapstructure:"ai"`
	Report   *ReportConfig  `mapstructure:"report"`
	Cleanup  *CleanupConfig `mapstructure:"cleanup"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile     string `mapstructure:"api-key-file"`
	Model          string `mapstructure:"model"`
	MaxRetries     int    `mapstructure:"max-retries"`
	TimeoutSeconds int    `mapstructure:"timeout-seconds"`
}

type ReportConfig struct {
	MinScore float64 `mapstructure:"min-score"`
	Limit    int     `mapstructure:"limit"`
}

type CleanupConfig struct {
	Days     int     `mapstructure:"days"`
	MinScore float64 `mapstructure:"min-score"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "vacmatch scores scraped job postings against your profile and tracks the results",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is vacmatch.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	viper.SetDefault("database", "vacmatch.db")
	viper.SetDefault("profile", "config/resume_profile.json")
	viper.SetDefault("report.min-score", 70)
	viper.SetDefault("report.limit", 20)
	viper.SetDefault("cleanup.days", 30)
	viper.SetDefault("cleanup.min-score", 60)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional: defaults and flags cover every setting
	// except the Gemini credentials.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return config, err
	}

	return config, nil
}
