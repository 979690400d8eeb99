package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/temirov/graphpaths/internal/collector"
)

const (
	toggleFlagTypeName          = "bool"
	toggleFlagTrueLiteral       = "true"
	toggleFlagAcceptedValues    = "true, false, yes, no, on, off, 1, 0"
	toggleFlagInvalidValueLabel = "invalid boolean value"

	formatFlagTypeName      = "format"
	formatFlagInvalidFormat = "invalid value %q for --%s: %w"
)

var toggleFlagLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// toggleFlagValue is a boolean flag that also accepts yes/no/on/off and a
// separate value argument such as "--print no".
type toggleFlagValue struct {
	target   *bool
	flagName string
}

func (value *toggleFlagValue) Set(input string) error {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		normalized = toggleFlagTrueLiteral
	}
	parsed, known := toggleFlagLiterals[normalized]
	if !known {
		return fmt.Errorf("%s %q for --%s; accepted values: %s", toggleFlagInvalidValueLabel, input, value.flagName, toggleFlagAcceptedValues)
	}
	*value.target = parsed
	return nil
}

func (value *toggleFlagValue) String() string {
	if value == nil || value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *toggleFlagValue) Type() string {
	return toggleFlagTypeName
}

func registerToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	*target = defaultValue
	flagSet.Var(&toggleFlagValue{target: target, flagName: name}, name, usage)
	if lookup := flagSet.Lookup(name); lookup != nil {
		lookup.DefValue = strconv.FormatBool(defaultValue)
		lookup.NoOptDefVal = toggleFlagTrueLiteral
	}
}

// normalizeToggleArguments rewrites "--flag value" into "--flag=value" for
// toggle flags when value is a boolean literal, so that pflag does not treat
// the literal as a positional argument.
func normalizeToggleArguments(command *cobra.Command, arguments []string) []string {
	toggleNames := map[string]struct{}{}
	collectToggleFlagNames(command, toggleNames)
	if len(toggleNames) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == "--" {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		if strings.HasPrefix(argument, "--") && !strings.Contains(argument, "=") && index+1 < len(arguments) {
			flagName := strings.TrimPrefix(argument, "--")
			if _, isToggle := toggleNames[flagName]; isToggle {
				literal := strings.ToLower(strings.TrimSpace(arguments[index+1]))
				if _, known := toggleFlagLiterals[literal]; known {
					normalized = append(normalized, argument+"="+arguments[index+1])
					index++
					continue
				}
			}
		}
		normalized = append(normalized, argument)
	}
	return normalized
}

func collectToggleFlagNames(command *cobra.Command, target map[string]struct{}) {
	if command == nil {
		return
	}
	visit := func(flag *pflag.Flag) {
		if flag.Value != nil && flag.Value.Type() == toggleFlagTypeName {
			target[flag.Name] = struct{}{}
		}
	}
	command.PersistentFlags().VisitAll(visit)
	command.Flags().VisitAll(visit)
	for _, child := range command.Commands() {
		collectToggleFlagNames(child, target)
	}
}

// outputFormatFlagValue parses --format into a collector.OutputFormat.
type outputFormatFlagValue struct {
	target   *collector.OutputFormat
	flagName string
}

func (value *outputFormatFlagValue) Set(input string) error {
	parsed, parseError := collector.ParseOutputFormat(input)
	if parseError != nil {
		return fmt.Errorf(formatFlagInvalidFormat, input, value.flagName, parseError)
	}
	*value.target = parsed
	return nil
}

func (value *outputFormatFlagValue) String() string {
	if value == nil || value.target == nil {
		return collector.DefaultOutputFormat.String()
	}
	return value.target.String()
}

func (value *outputFormatFlagValue) Type() string {
	return formatFlagTypeName
}

func registerOutputFormatFlag(flagSet *pflag.FlagSet, target *collector.OutputFormat, name string, usage string) {
	*target = collector.DefaultOutputFormat
	flagSet.Var(&outputFormatFlagValue{target: target, flagName: name}, name, usage)
}
