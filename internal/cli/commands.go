package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/temirov/graphpaths/internal/config"
	"github.com/temirov/graphpaths/internal/output"
	"github.com/temirov/graphpaths/internal/pathcopy"
	"github.com/temirov/graphpaths/internal/types"
	"github.com/temirov/graphpaths/internal/watch"
	"github.com/temirov/graphpaths/internal/workspace"
)

const (
	configUse                 = "config"
	configShowUse             = "show"
	configSetUse              = "set <key> <value>"
	configInitUse             = "init"
	configShortDescription    = "show and change settings"
	configShowDescription     = "print the effective settings"
	configSetDescription      = "store one setting"
	configInitDescription     = "write a configuration file with default values"
	globalFlagDescription     = "use the configuration file in the XDG configuration home"
	forceFlagDescription      = "overwrite an existing configuration file"
	configSetLongDescription  = "Store one setting. Supported keys: "
	configUpdatedFormat       = "Updated %s in %s\n"
	configInitializedFormat   = "Configuration written to %s\n"
	copiedPathsLogMessage     = "copied paths"
	fieldDocument             = "document"
	fieldPathCount            = "paths"
	skippedDocumentLogMessage = "skipped document"
)

// createCopyCommand returns the copy subcommand.
func (app *application) createCopyCommand() *cobra.Command {
	var overrides settingsOverrides
	var printPaths bool

	copyCommand := &cobra.Command{
		Use:     copyUse,
		Aliases: []string{copyAlias},
		Short:   copyShortDescription,
		Long:    copyLongDescription,
		Example: copyUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			prepared, prepareError := app.prepareRun(command, overrides)
			if prepareError != nil {
				return prepareError
			}
			index, openError := app.openVault(prepared.vaultRoot)
			if openError != nil {
				return openError
			}
			service := pathcopy.NewService(
				documentProvider(prepared.vaultRoot, arguments),
				index,
				app.copier(command, printPaths),
				app.notifier(),
			)
			result, runError := service.Run(command.Context(), prepared.settings)
			if runError != nil {
				return runError
			}
			app.logger.Debug(copiedPathsLogMessage, zap.String(fieldDocument, result.Document), zap.Int(fieldPathCount, len(result.Paths)))
			return nil
		},
	}

	addSettingsFlags(copyCommand, &overrides)
	registerToggleFlag(copyCommand.Flags(), &printPaths, printFlagName, false, printFlagDescription)
	return copyCommand
}

// createInspectCommand returns the inspect subcommand.
func (app *application) createInspectCommand() *cobra.Command {
	var overrides settingsOverrides
	var outputName string = types.RenderRaw

	inspectCommand := &cobra.Command{
		Use:     inspectUse,
		Aliases: []string{inspectAlias},
		Short:   inspectShortDescription,
		Long:    inspectLongDescription,
		Example: inspectUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			outputNameLower := strings.ToLower(outputName)
			if !isSupportedOutput(outputNameLower) {
				return fmt.Errorf(invalidOutputMessage, outputNameLower)
			}
			prepared, prepareError := app.prepareRun(command, overrides)
			if prepareError != nil {
				return prepareError
			}
			index, openError := app.openVault(prepared.vaultRoot)
			if openError != nil {
				return openError
			}
			service := pathcopy.NewService(documentProvider(prepared.vaultRoot, arguments), index, nil, app.notifier())
			report, inspectError := service.Inspect(prepared.settings)
			if inspectError != nil {
				return inspectError
			}
			return output.WriteInspection(command.OutOrStdout(), outputNameLower, output.NewInspection(report.Document, report.Outcomes))
		},
	}

	addSettingsFlags(inspectCommand, &overrides)
	inspectCommand.Flags().StringVar(&outputName, outputFlagName, types.RenderRaw, outputFlagDescription)
	return inspectCommand
}

// createWatchCommand returns the watch subcommand.
func (app *application) createWatchCommand() *cobra.Command {
	var overrides settingsOverrides
	var printPaths bool
	var debounce time.Duration

	watchCommand := &cobra.Command{
		Use:     watchUse,
		Aliases: []string{watchAlias},
		Short:   watchShortDescription,
		Long:    watchLongDescription,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			prepared, prepareError := app.prepareRun(command, overrides)
			if prepareError != nil {
				return prepareError
			}
			copier := app.copier(command, printPaths)
			notifier := app.notifier()
			runDocument := func(ctx context.Context, document string) error {
				index, openError := app.openVault(prepared.vaultRoot)
				if openError != nil {
					return openError
				}
				service := pathcopy.NewService(workspace.Fixed(document), index, copier, notifier)
				if _, runError := service.Run(ctx, prepared.settings); runError != nil {
					if pathcopy.IsReported(runError) {
						app.logger.Debug(skippedDocumentLogMessage, zap.String(fieldDocument, document), zap.Error(runError))
						return nil
					}
					return runError
				}
				return nil
			}
			return watch.Run(command.Context(), watch.Options{
				WorkspaceFile: workspace.WorkspaceFile(prepared.vaultRoot),
				Provider:      workspace.ObsidianWorkspace{VaultRoot: prepared.vaultRoot},
				Debounce:      debounce,
				Logger:        app.logger,
			}, runDocument)
		},
	}

	addSettingsFlags(watchCommand, &overrides)
	registerToggleFlag(watchCommand.Flags(), &printPaths, printFlagName, false, printFlagDescription)
	watchCommand.Flags().DurationVar(&debounce, debounceFlagName, watch.DefaultDebounce, debounceFlagDescription)
	return watchCommand
}

// createConfigCommand returns the config command group.
func (app *application) createConfigCommand() *cobra.Command {
	configCommand := &cobra.Command{
		Use:   configUse,
		Short: configShortDescription,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}
	configCommand.AddCommand(
		app.createConfigShowCommand(),
		app.createConfigSetCommand(),
		app.createConfigInitCommand(),
	)
	return configCommand
}

func (app *application) createConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   configShowUse,
		Short: configShowDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			store, storeError := app.store()
			if storeError != nil {
				return storeError
			}
			settings, loadError := store.Load()
			if loadError != nil {
				return loadError
			}
			encoded, encodeError := yaml.Marshal(settings)
			if encodeError != nil {
				return encodeError
			}
			_, writeError := command.OutOrStdout().Write(encoded)
			return writeError
		},
	}
}

func (app *application) createConfigSetCommand() *cobra.Command {
	var global bool

	setCommand := &cobra.Command{
		Use:   configSetUse,
		Short: configSetDescription,
		Long:  configSetLongDescription + strings.Join(config.Keys(), ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(command *cobra.Command, arguments []string) error {
			store, storeError := app.store()
			if storeError != nil {
				return storeError
			}
			target := configTarget(global)
			if _, setError := store.Set(target, arguments[0], arguments[1]); setError != nil {
				return setError
			}
			path, pathError := store.Path(target)
			if pathError != nil {
				return pathError
			}
			fmt.Fprintf(command.OutOrStdout(), configUpdatedFormat, arguments[0], path)
			return nil
		},
	}
	registerToggleFlag(setCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	return setCommand
}

func (app *application) createConfigInitCommand() *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   configInitUse,
		Short: configInitDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			store, storeError := app.store()
			if storeError != nil {
				return storeError
			}
			path, initError := config.InitializeConfiguration(config.InitOptions{
				Target: configTarget(global),
				Force:  force,
				Store:  store,
			})
			if initError != nil {
				return initError
			}
			fmt.Fprintf(command.OutOrStdout(), configInitializedFormat, path)
			return nil
		},
	}
	registerToggleFlag(initCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerToggleFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return initCommand
}

func configTarget(global bool) config.Target {
	if global {
		return config.TargetGlobal
	}
	return config.TargetLocal
}
