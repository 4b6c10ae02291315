package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gkotua/jobradar/internal/jobs"
	"github.com/gkotua/jobradar/internal/logger"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptDone           = "Done"
	PromptReportBySource = "Report matches by source"
	PromptMatchesToFile  = "Dump matches to file"
	PromptRequirements   = "Show extracted requirements"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptDone, PromptReportBySource, PromptMatchesToFile, PromptRequirements},
}

var runCmd = &cobra.Command{
	Use:   "run [message]",
	Short: "Run one search: extract requirements from the message, scrape, match and print the reply",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(cmd, strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("no-prompt", "y", false, "print the reply and exit without the actions prompt")
	runCmd.Flags().String("user", "", "user id recorded with the search history")
}

// run is the main command for the cli.
func run(cmd *cobra.Command, message string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the jobradar", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	service, st, err := buildService(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the search pipeline", zap.Error(err))
	}
	if st != nil {
		defer st.Close()
	}

	result := service.Process(ctx, cmd.Flag("user").Value.String(), message)

	fmt.Println(result.Response)

	logger.Info("search finished",
		zap.Int("jobs_found", result.TotalFound),
		zap.Int("jobs_matched", result.TotalMatched),
		zap.Int64("took_ms", result.DurationMS),
	)

	if result.TotalMatched == 0 || cmd.Flag("no-prompt").Value.String() == "true" {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, result.Requirements, result.Matched); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, req jobs.Requirements, matched *jobs.ScoredJobs) error {
	switch action {
	case PromptDone:
		return errExit
	case PromptReportBySource:
		pretty, _ := json.MarshalIndent(matched.ReportBySource(), "", "  ")
		logger.Info(string(pretty), zap.Int("matched count", matched.Len()))
		return nil
	case PromptMatchesToFile:
		filename, err := matched.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump matches to file: %w", err)
		}
		logger.Info("dumping matches to file", zap.String("filename", filename))
		return nil
	case PromptRequirements:
		pretty, _ := json.MarshalIndent(req, "", "  ")
		logger.Info(string(pretty))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}
