// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/srcpack/internal/config"
	"github.com/temirov/srcpack/internal/packager"
	"github.com/temirov/srcpack/internal/report"
	"github.com/temirov/srcpack/internal/services/clipboard"
	"github.com/temirov/srcpack/internal/tokenizer"
	"github.com/temirov/srcpack/internal/types"
	"github.com/temirov/srcpack/internal/utils"
)

const (
	presetFlagName        = "preset"
	presetFlagShorthand   = "p"
	configFlagName        = "config"
	configFlagShorthand   = "c"
	stripFlagName         = "remove-comments"
	stripFlagShorthand    = "r"
	compressionFlagName   = "compression"
	jobsFlagName          = "jobs"
	tokensFlagName        = "tokens"
	modelFlagName         = "model"
	copyFlagName          = "copy"
	localRulesFlagName    = "local-rules"
	noLocalRulesFlagName  = "no-local-rules"
	verboseFlagName       = "verbose"
	verboseFlagShorthand  = "v"
	versionFlagName       = "version"
	versionTemplate       = "srcpack version: %s\n"
	defaultTokenizerModel = "gpt-4o"
	defaultJobCount       = 1

	rootUse              = "srcpack"
	rootShortDescription = "srcpack command line interface"
	rootLongDescription  = `srcpack packages a filtered snapshot of a source tree into a compressed zip archive.
Exclusion presets and per-directory rule files control what is packaged.
Use --remove-comments to strip comments from recognized source files.`
	versionFlagDescription = "display application version"

	packUse              = "pack <source-directory> <output-archive>"
	packShortDescription = "package a source tree into a zip archive"
	packLongDescription  = `Package the source directory into the output zip archive.
Files are filtered through the selected preset and any per-directory rule files
found during traversal. Use --compression to pick the archive method and
--remove-comments to strip comments from recognized source files.`
	packUsageExample = `  # Package the current project with the default preset
  srcpack pack . project.zip

  # Strip comments and use lzma compression
  srcpack pack -r --compression lzma ./src src.zip

  # Use patterns from a custom file
  srcpack pack -p custom -c rules.conf . out.zip`

	presetsUse              = "presets"
	presetsShortDescription = "list the bundled exclusion presets"

	presetFlagDescription       = "exclusion preset to apply"
	configFlagDescription       = "pattern file for the custom preset"
	stripFlagDescription        = "strip comments from recognized source files"
	compressionFlagDescription  = "archive compression method (store, deflate, lzma, bzip2)"
	jobsFlagDescription         = "number of parallel file workers"
	tokensFlagDescription       = "include token counts in the report"
	modelFlagDescription        = "tokenizer model to use for token counting"
	copyFlagDescription         = "copy the report to the system clipboard"
	localRulesFlagDescription   = "per-directory rule file name consulted during traversal"
	noLocalRulesFlagDescription = "ignore per-directory rule files"
	verboseFlagDescription      = "enable debug logging"

	invalidCompressionMessage = "invalid compression method '%s': valid methods are store, deflate, lzma, bzip2"
	invalidPresetMessage      = "invalid preset '%s': valid presets are %s"
	invalidJobsMessage        = "invalid jobs value %d: must be at least 1"
	warningClipboardFormat    = "Warning: failed to copy report to clipboard: %v\n"
)

// Execute runs the srcpack application.
func Execute() error {
	rootCommand := createRootCommand()
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand() *cobra.Command {
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.AddCommand(
		createPackCommand(),
		createPresetsCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// packOptions stores the flag values of the pack command.
type packOptions struct {
	preset         string
	configFilePath string
	removeComments bool
	compression    string
	jobs           int
	tokensEnabled  bool
	tokenizerModel string
	copyReport     bool
	localRuleFile  string
	noLocalRules   bool
	verbose        bool
}

// createPackCommand returns the pack subcommand.
func createPackCommand() *cobra.Command {
	var options packOptions

	packCommand := &cobra.Command{
		Use:     packUse,
		Short:   packShortDescription,
		Long:    packLongDescription,
		Example: packUsageExample,
		Args:    cobra.ExactArgs(2),
		RunE: func(command *cobra.Command, arguments []string) error {
			return runPack(command, arguments[0], arguments[1], options)
		},
	}

	packCommand.Flags().StringVarP(&options.preset, presetFlagName, presetFlagShorthand, "", presetFlagDescription)
	packCommand.Flags().StringVarP(&options.configFilePath, configFlagName, configFlagShorthand, "", configFlagDescription)
	packCommand.Flags().BoolVarP(&options.removeComments, stripFlagName, stripFlagShorthand, false, stripFlagDescription)
	packCommand.Flags().StringVar(&options.compression, compressionFlagName, "", compressionFlagDescription)
	packCommand.Flags().IntVar(&options.jobs, jobsFlagName, 0, jobsFlagDescription)
	packCommand.Flags().BoolVar(&options.tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	packCommand.Flags().StringVar(&options.tokenizerModel, modelFlagName, "", modelFlagDescription)
	packCommand.Flags().BoolVar(&options.copyReport, copyFlagName, false, copyFlagDescription)
	packCommand.Flags().StringVar(&options.localRuleFile, localRulesFlagName, "", localRulesFlagDescription)
	packCommand.Flags().BoolVar(&options.noLocalRules, noLocalRulesFlagName, false, noLocalRulesFlagDescription)
	packCommand.Flags().BoolVarP(&options.verbose, verboseFlagName, verboseFlagShorthand, false, verboseFlagDescription)
	return packCommand
}

// createPresetsCommand returns the presets subcommand.
func createPresetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   presetsUse,
		Short: presetsShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			for _, definition := range config.Presets() {
				fmt.Printf("%-14s %s: %s\n", definition.Key, definition.Name, definition.Description)
			}
			return nil
		},
	}
}

// runPack resolves configuration, runs the packaging pipeline, and renders
// the report.
func runPack(command *cobra.Command, sourcePath string, outputPath string, options packOptions) error {
	loggerInstance, loggerError := utils.NewApplicationLogger(options.verbose)
	if loggerError != nil {
		return fmt.Errorf("initialize logger: %w", loggerError)
	}
	defer loggerInstance.Sync()

	resolved, resolveError := resolvePackSettings(command, options)
	if resolveError != nil {
		return resolveError
	}

	// A broken global pattern source is not fatal: packaging proceeds with
	// a permissive empty rule set.
	patterns, patternsError := loadPatterns(resolved.preset, resolved.configFilePath)
	if patternsError != nil {
		loggerInstance.Warn("global patterns unavailable, packaging without exclusions",
			zap.Error(patternsError))
		patterns = nil
	}

	var tokenCounter tokenizer.Counter
	tokenModelName := ""
	if resolved.tokensEnabled {
		counter, resolvedName, counterError := tokenizer.NewCounter(resolved.tokenizerModel)
		if counterError != nil {
			return counterError
		}
		tokenCounter = counter
		tokenModelName = resolvedName
	}

	localRuleFileName := resolved.localRuleFile
	if resolved.noLocalRules {
		localRuleFileName = ""
	}

	startTime := time.Now()
	stats, runError := packager.Run(packager.Options{
		SourceRoot:        sourcePath,
		OutputPath:        outputPath,
		GlobalPatterns:    utils.DeduplicatePatterns(patterns),
		LocalRuleFileName: localRuleFileName,
		RemoveComments:    resolved.removeComments,
		Compression:       resolved.compression,
		Jobs:              resolved.jobs,
		TokenCounter:      tokenCounter,
		TokenModel:        tokenModelName,
		Logger:            loggerInstance,
	})
	if runError != nil {
		return runError
	}

	rendered := report.Render(report.Summary{
		Stats:      stats,
		OutputPath: outputPath,
		Elapsed:    time.Since(startTime),
	})
	fmt.Print(rendered)

	if resolved.copyReport {
		copier := clipboard.NewService()
		if copyError := copier.Copy(rendered); copyError != nil {
			fmt.Fprintf(os.Stderr, warningClipboardFormat, copyError)
		}
	}
	return nil
}

// resolvePackSettings overlays configuration file defaults with flags. A flag
// the user set always wins over the configuration file.
func resolvePackSettings(command *cobra.Command, options packOptions) (packOptions, error) {
	applicationConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{})
	if loadError != nil {
		return packOptions{}, loadError
	}
	packConfiguration := applicationConfiguration.Pack

	resolved := options
	flags := command.Flags()

	if !flags.Changed(presetFlagName) && packConfiguration.Preset != "" {
		resolved.preset = packConfiguration.Preset
	}
	// Supplying a pattern file selects the custom preset unless a preset
	// was named explicitly.
	if flags.Changed(configFlagName) && !flags.Changed(presetFlagName) {
		resolved.preset = config.PresetCustom
	}
	if resolved.preset == "" {
		resolved.preset = config.DefaultPreset
	}
	if !config.IsValidPreset(resolved.preset) {
		return packOptions{}, fmt.Errorf(invalidPresetMessage, resolved.preset, strings.Join(config.PresetNames(), ", "))
	}

	if !flags.Changed(compressionFlagName) && packConfiguration.Compression != "" {
		resolved.compression = packConfiguration.Compression
	}
	if resolved.compression == "" {
		resolved.compression = types.CompressionDeflate
	}
	resolved.compression = strings.ToLower(resolved.compression)
	switch resolved.compression {
	case types.CompressionStore, types.CompressionDeflate, types.CompressionLZMA, types.CompressionBzip2:
	default:
		return packOptions{}, fmt.Errorf(invalidCompressionMessage, resolved.compression)
	}

	if !flags.Changed(stripFlagName) && packConfiguration.RemoveComments != nil {
		resolved.removeComments = *packConfiguration.RemoveComments
	}

	if !flags.Changed(jobsFlagName) {
		if packConfiguration.Jobs != nil {
			resolved.jobs = *packConfiguration.Jobs
		} else {
			resolved.jobs = defaultJobCount
		}
	}
	if resolved.jobs < 1 {
		return packOptions{}, fmt.Errorf(invalidJobsMessage, resolved.jobs)
	}

	if !flags.Changed(tokensFlagName) && packConfiguration.Tokens.Enabled != nil {
		resolved.tokensEnabled = *packConfiguration.Tokens.Enabled
	}
	if !flags.Changed(modelFlagName) && packConfiguration.Tokens.Model != "" {
		resolved.tokenizerModel = packConfiguration.Tokens.Model
	}
	if resolved.tokenizerModel == "" {
		resolved.tokenizerModel = defaultTokenizerModel
	}

	if !flags.Changed(copyFlagName) && packConfiguration.Clipboard != nil {
		resolved.copyReport = *packConfiguration.Clipboard
	}

	if !flags.Changed(localRulesFlagName) && packConfiguration.LocalRules != "" {
		resolved.localRuleFile = packConfiguration.LocalRules
	}
	if resolved.localRuleFile == "" {
		resolved.localRuleFile = types.DefaultLocalRuleFileName
	}
	if !flags.Changed(noLocalRulesFlagName) && packConfiguration.UseLocalRules != nil {
		resolved.noLocalRules = !*packConfiguration.UseLocalRules
	}

	return resolved, nil
}

// loadPatterns returns the pattern lines for the selected preset. The custom
// preset reads from the user-supplied file.
func loadPatterns(presetKey string, configFilePath string) ([]string, error) {
	if presetKey == config.PresetCustom {
		if configFilePath == "" {
			return nil, fmt.Errorf("preset %s requires a pattern file supplied via --%s", config.PresetCustom, configFlagName)
		}
		return config.ReadPatternLines(configFilePath)
	}
	return config.LoadPresetPatterns(presetKey)
}
