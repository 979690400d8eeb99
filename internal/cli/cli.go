// Package cli wires the graphpaths commands.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/graphpaths/internal/collector"
	"github.com/temirov/graphpaths/internal/config"
	"github.com/temirov/graphpaths/internal/services/clipboard"
	"github.com/temirov/graphpaths/internal/services/notify"
	"github.com/temirov/graphpaths/internal/types"
	"github.com/temirov/graphpaths/internal/utils"
	"github.com/temirov/graphpaths/internal/vault"
	"github.com/temirov/graphpaths/internal/workspace"
)

const (
	vaultFlagName    = "vault"
	basePathFlagName = "base-path"
	formatFlagName   = "format"
	excludeFlagName  = "exclude"
	printFlagName    = "print"
	configFlagName   = "config"
	outputFlagName   = "output"
	debounceFlagName = "debounce"
	globalFlagName   = "global"
	forceFlagName    = "force"

	versionTemplate      = "graphpaths version: {{.Version}}\n"
	rootUse              = "graphpaths"
	rootShortDescription = "graphpaths copies the files linked from a note"
	rootLongDescription  = `graphpaths reads a vault of markdown notes, resolves the outbound links of
the active note and copies the absolute paths of the linked files to the
clipboard, one per line or separated by semicolons.
Use --version to print the application version.`

	copyUse                 = "copy [document]"
	inspectUse              = "inspect [document]"
	watchUse                = "watch"
	copyAlias               = "c"
	inspectAlias            = "i"
	watchAlias              = "w"
	copyShortDescription    = "Copy local graph file paths (" + copyAlias + ")"
	inspectShortDescription = "show how every link of a note resolves (" + inspectAlias + ")"
	watchShortDescription   = "copy paths whenever the active note changes (" + watchAlias + ")"

	copyLongDescription = `Copy the absolute paths of the files linked from a note.
Without a document argument the active note is read from .obsidian/workspace.json.
Flags override the configured settings for this run only.`
	copyUsageExample = `  # Copy the links of the active note
  graphpaths c --base-path /home/me/vault

  # Print semicolon separated paths instead of using the clipboard
  graphpaths copy daily/today.md --format semicolon --print`

	inspectLongDescription = `List every outbound link of a note with its resolution status.
Use --output to select raw or json output.`
	inspectUsageExample = `  # Trace link resolution as JSON
  graphpaths inspect projects/plan.md --output json`

	watchLongDescription = `Watch the vault workspace and copy the linked paths each time a different
note becomes active. Stops on interrupt.`

	vaultFlagDescription    = "vault directory (defaults to the working directory)"
	basePathFlagDescription = "directory prepended to every linked file path"
	formatFlagDescription   = "delimiter between paths: newline or semicolon"
	excludeFlagDescription  = "comma separated folders to skip"
	printFlagDescription    = "write the paths to standard output instead of the clipboard"
	configFlagDescription   = "path to the local configuration file"
	outputFlagDescription   = "inspection output: raw or json"
	debounceFlagDescription = "quiet period before reading the workspace"

	invalidOutputMessage        = "Invalid output value '%s'"
	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	openVaultErrorFormat        = "open vault %s: %w"
)

// application carries the collaborators shared by every command.
type application struct {
	logger           *zap.Logger
	workingDirectory string
	configPath       string
	newClipboard     func() clipboard.Copier
}

// Execute runs the graphpaths application.
func Execute(logger *zap.Logger) error {
	app := &application{
		logger:       logger,
		newClipboard: func() clipboard.Copier { return clipboard.NewService() },
	}
	rootCommand := app.createRootCommand()
	rootCommand.SetArgs(normalizeToggleArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func (app *application) createRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Version:       utils.GetApplicationVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}
	rootCommand.SetVersionTemplate(versionTemplate)
	rootCommand.PersistentFlags().StringVar(&app.configPath, configFlagName, "", configFlagDescription)
	rootCommand.AddCommand(
		app.createCopyCommand(),
		app.createInspectCommand(),
		app.createWatchCommand(),
		app.createConfigCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// settingsOverrides stores the per-run setting flags.
type settingsOverrides struct {
	vault           string
	basePath        string
	outputFormat    collector.OutputFormat
	excludedFolders string
}

// addSettingsFlags registers the flags that override configured settings.
func addSettingsFlags(command *cobra.Command, overrides *settingsOverrides) {
	command.Flags().StringVar(&overrides.vault, vaultFlagName, "", vaultFlagDescription)
	command.Flags().StringVar(&overrides.basePath, basePathFlagName, "", basePathFlagDescription)
	registerOutputFormatFlag(command.Flags(), &overrides.outputFormat, formatFlagName, formatFlagDescription)
	command.Flags().StringVar(&overrides.excludedFolders, excludeFlagName, "", excludeFlagDescription)
}

// apply overlays the flags the user actually set.
func (overrides settingsOverrides) apply(flagSet *pflag.FlagSet, settings config.Settings) config.Settings {
	if flagSet.Changed(vaultFlagName) {
		settings.Vault = overrides.vault
	}
	if flagSet.Changed(basePathFlagName) {
		settings.BasePath = overrides.basePath
	}
	if flagSet.Changed(formatFlagName) {
		settings.OutputFormat = overrides.outputFormat.String()
	}
	if flagSet.Changed(excludeFlagName) {
		settings.ExcludedFolders = overrides.excludedFolders
	}
	return settings
}

// runContext is everything a command needs after settings are resolved.
type runContext struct {
	settings  collector.Settings
	vaultRoot string
}

func (app *application) resolveWorkingDirectory() (string, error) {
	if app.workingDirectory != "" {
		return app.workingDirectory, nil
	}
	workingDirectory, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf(workingDirectoryErrorFormat, err)
	}
	return workingDirectory, nil
}

func (app *application) store() (config.Store, error) {
	workingDirectory, err := app.resolveWorkingDirectory()
	if err != nil {
		return config.Store{}, err
	}
	return config.NewStore(config.LoadOptions{WorkingDirectory: workingDirectory, ExplicitFilePath: app.configPath})
}

// prepareRun loads configuration, applies flag overrides and locates the vault.
func (app *application) prepareRun(command *cobra.Command, overrides settingsOverrides) (runContext, error) {
	store, storeError := app.store()
	if storeError != nil {
		return runContext{}, storeError
	}
	loaded, loadError := store.Load()
	if loadError != nil {
		return runContext{}, loadError
	}
	merged := overrides.apply(command.Flags(), loaded)
	collectorSettings, settingsError := merged.CollectorSettings()
	if settingsError != nil {
		return runContext{}, settingsError
	}
	workingDirectory, workingDirectoryError := app.resolveWorkingDirectory()
	if workingDirectoryError != nil {
		return runContext{}, workingDirectoryError
	}
	vaultRoot := strings.TrimSpace(merged.Vault)
	switch {
	case vaultRoot == "":
		vaultRoot = workingDirectory
	case !filepath.IsAbs(vaultRoot):
		vaultRoot = filepath.Join(workingDirectory, vaultRoot)
	}
	absoluteVaultRoot, absoluteError := filepath.Abs(vaultRoot)
	if absoluteError != nil {
		return runContext{}, fmt.Errorf(openVaultErrorFormat, vaultRoot, absoluteError)
	}
	return runContext{settings: collectorSettings, vaultRoot: absoluteVaultRoot}, nil
}

func (app *application) openVault(vaultRoot string) (*vault.Index, error) {
	index, openError := vault.Open(vaultRoot)
	if openError != nil {
		return nil, fmt.Errorf(openVaultErrorFormat, vaultRoot, openError)
	}
	return index, nil
}

// documentProvider selects the explicit document when given and the vault
// workspace otherwise.
func documentProvider(vaultRoot string, arguments []string) workspace.Provider {
	if len(arguments) > 0 {
		return workspace.Static{VaultRoot: vaultRoot, DocumentPath: arguments[0]}
	}
	return workspace.ObsidianWorkspace{VaultRoot: vaultRoot}
}

func (app *application) copier(command *cobra.Command, printPaths bool) clipboard.Copier {
	if printPaths {
		return clipboard.NewWriterService(command.OutOrStdout())
	}
	return app.newClipboard()
}

func (app *application) notifier() notify.Notifier {
	return notify.NewLoggerNotifier(app.logger)
}

// isSupportedOutput reports whether the inspection output is recognized.
func isSupportedOutput(outputName string) bool {
	switch outputName {
	case types.RenderRaw, types.RenderJSON:
		return true
	default:
		return false
	}
}
