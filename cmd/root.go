package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "screener"
)

type Config struct {
	Input     *InputConfig     `mapstructure:"input"`
	Checks    *ChecksConfig    `mapstructure:"checks"`
	Keywords  *KeywordsConfig  `mapstructure:"keywords"`
	Employers *EmployersConfig `mapstructure:"employers"`
	AI        *AIConfig        `mapstructure:"ai"`
	Export    *ExportConfig    `mapstructure:"export"`
}

type InputConfig struct {
	Spreadsheet string `mapstructure:"spreadsheet"`
	ResumeDir   string `mapstructure:"resume-dir"`
}

type ChecksConfig struct {
	Dollar         bool `mapstructure:"dollar"`
	Percent        bool `mapstructure:"percent"`
	ExcludeAnswers bool `mapstructure:"exclude-answers"`
	MinAnswerWords int  `mapstructure:"min-answer-words"`
}

// KeywordsConfig holds free-text keyword blocks, one keyword per line.
type KeywordsConfig struct {
	Required string `mapstructure:"required"`
	Optional string `mapstructure:"optional"`
	Related  string `mapstructure:"related"`
}

type EmployersConfig struct {
	ListFile string `mapstructure:"list-file"`
}

type AIConfig struct {
	Threshold float64       `mapstructure:"threshold"`
	Gemini    *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type ExportConfig struct {
	ResultsFile string        `mapstructure:"results-file"`
	Sheets      *SheetsConfig `mapstructure:"sheets"`
}

type SheetsConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	SpreadsheetID   string `mapstructure:"spreadsheet-id"`
	CredentialsFile string `mapstructure:"credentials-file"`
	Worksheet       string `mapstructure:"worksheet"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "screener is a cli for screening job applicants by resume and application answers",
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

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is screener.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for run command now. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
