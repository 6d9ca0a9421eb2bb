package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/hireloop/screener/internal/applicant"
	"github.com/hireloop/screener/internal/employers"
	"github.com/hireloop/screener/internal/export"
	"github.com/hireloop/screener/internal/logger"
	"github.com/hireloop/screener/internal/match"
	"github.com/hireloop/screener/internal/normalize"
	"github.com/hireloop/screener/internal/screening"
	"github.com/hireloop/screener/internal/secrets"
	"github.com/hireloop/screener/internal/tabular"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"

	defaultResultsFile = "passed.csv"
)

var prompt = promptui.Select{
	Label: "Append passing applicants to the sheet?",
	Items: []string{PromptYes, PromptNo},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the screening pipeline",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before appending to the sheet")
	runCmd.Flags().StringP("results-file", "o", "", "file for the detailed results of passing applicants")

	viper.BindPFlag("export.results-file", runCmd.Flags().Lookup("results-file"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the screener", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	if config.Input == nil || config.Input.Spreadsheet == "" {
		logger.Fatal("input spreadsheet is required under input.spreadsheet")
	}

	if config.Input.ResumeDir == "" {
		logger.Fatal("resume folder is required under input.resume-dir")
	}

	table, err := tabular.ReadFile(config.Input.Spreadsheet)
	if err != nil {
		logger.Fatal("reading the input spreadsheet", zap.Error(err))
	}

	logger.Info("read the input spreadsheet",
		zap.String("file", config.Input.Spreadsheet),
		zap.Int("rows", table.Len()),
	)

	normalize.Table(table, logger)

	records := applicant.FromTable(table)
	if records.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no applicants in the input"))
		return
	}

	pipeline, err := preparePipeline(ctx, config, logger)
	if err != nil {
		logger.Fatal("preparing the pipeline", zap.Error(err))
	}

	result, err := pipeline.Run(ctx, records)
	if err != nil {
		if errors.Is(err, screening.ErrNoResumeColumn) {
			logger.Fatal("exiting", zap.Error(err), zap.String("hint", "the input needs a resume filename column"))
		}
		logger.Fatal("screening failed", zap.Error(err))
	}

	if result.Passed.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no applicants passed screening"))
		return
	}

	resultsFile := resolveResultsFile(config)
	if err := tabular.WriteCSV(resultsFile, result.Passed.ToTable()); err != nil {
		logger.Fatal("writing the results file", zap.Error(err))
	}

	logger.Info("wrote detailed results",
		zap.String("file", resultsFile),
		zap.Int("count", result.Passed.Len()),
	)

	if config.Export == nil || config.Export.Sheets == nil || !config.Export.Sheets.Enabled {
		return
	}

	if cmd.Flag("auto-approve").Value.String() == "false" {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		if action == PromptNo {
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	if err := appendToSheet(ctx, config.Export.Sheets, result.Passed, logger); err != nil {
		logger.Fatal("appending to the sheet", zap.Error(err))
	}
}

func preparePipeline(ctx context.Context, config *Config, logger *zap.Logger) (*screening.Pipeline, error) {
	checks := config.Checks
	if checks == nil {
		checks = &ChecksConfig{}
	}

	keywords := match.KeywordSet{}
	if config.Keywords != nil {
		keywords.Required = match.ParseList(config.Keywords.Required)
		keywords.Optional = match.ParseList(config.Keywords.Optional)
		keywords.Related = match.ParseList(config.Keywords.Related)
	}

	if len(keywords.Related) == 0 {
		return nil, errors.New("at least one related keyword is required under keywords.related")
	}

	disallowed := loadDisallowedEmployers(config, logger)

	matcher, err := prepareMatcher(ctx, config.AI, logger)
	if err != nil {
		return nil, err
	}

	gates := screening.DefaultGates(
		config.Input.ResumeDir,
		disallowed,
		matcher,
		keywords,
		checks.Dollar,
		checks.Percent,
		checks.ExcludeAnswers,
		checks.MinAnswerWords,
	)

	return screening.New(gates, checks.ExcludeAnswers, logger), nil
}

func prepareMatcher(ctx context.Context, config *AIConfig, log *zap.Logger) (*match.Matcher, error) {
	if config == nil || config.Gemini == nil {
		return nil, errors.New("gemini configuration is required under ai.gemini")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: config.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	embedLogger := logger.WithEmbeddingFields(log, "gemini", config.Gemini.Model)

	embedder, err := match.NewGeminiEmbedder(ctx, apiKey, config.Gemini.Model, config.Gemini.MaxRetries, embedLogger)
	if err != nil {
		return nil, fmt.Errorf("building gemini embedder: %w", err)
	}

	matcherLogger := logger.WithEmbeddingFields(log, "gemini", embedder.Model())

	return match.NewMatcher(embedder, config.Threshold, matcherLogger), nil
}

// loadDisallowedEmployers reads the disallowed employers list. A missing or
// unreadable file degrades to an empty list with a warning rather than
// aborting the run.
func loadDisallowedEmployers(config *Config, logger *zap.Logger) []string {
	if config.Employers == nil || config.Employers.ListFile == "" {
		return nil
	}

	list, err := employers.LoadList(config.Employers.ListFile)
	if err != nil {
		logger.Warn("skipping the disallowed employers check",
			zap.String("file", config.Employers.ListFile),
			zap.Error(err),
		)
		return nil
	}

	logger.Info("loaded disallowed employers", zap.Int("count", len(list)))
	return list
}

func resolveResultsFile(config *Config) string {
	if config.Export != nil && strings.TrimSpace(config.Export.ResultsFile) != "" {
		return strings.TrimSpace(config.Export.ResultsFile)
	}
	return defaultResultsFile
}

func appendToSheet(ctx context.Context, config *SheetsConfig, passed *applicant.Records, logger *zap.Logger) error {
	if config.SpreadsheetID == "" {
		return errors.New("spreadsheet id is required under export.sheets.spreadsheet-id")
	}

	credsJSON, err := os.ReadFile(config.CredentialsFile)
	if err != nil {
		return fmt.Errorf("reading sheets credentials: %w", err)
	}

	sheet, err := export.NewGoogleSheets(ctx, credsJSON, config.SpreadsheetID)
	if err != nil {
		return err
	}

	worksheet := strings.TrimSpace(config.Worksheet)
	if worksheet == "" {
		worksheet = worksheetFromRecords(passed)
	}
	if worksheet == "" {
		return errors.New("worksheet title is required under export.sheets.worksheet when applicants have no job title")
	}

	header, rows := export.SheetRows(passed)
	if err := sheet.Append(ctx, worksheet, header, rows); err != nil {
		return err
	}

	logger.Info("appended passing applicants to the sheet",
		zap.String("worksheet", worksheet),
		zap.Int("count", len(rows)),
	)
	return nil
}

// worksheetFromRecords falls back to the first applicant's job title as the
// worksheet name.
func worksheetFromRecords(passed *applicant.Records) string {
	for _, rec := range passed.Items {
		if job := strings.TrimSpace(rec.Get(applicant.ColJob)); job != "" {
			return job
		}
	}
	return ""
}
