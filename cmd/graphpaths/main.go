package main

import (
	"fmt"
	"os"

	"github.com/temirov/graphpaths/internal/cli"
	"github.com/temirov/graphpaths/internal/pathcopy"
	"github.com/temirov/graphpaths/internal/utils"
)

// main is the entry point for the graphpaths command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger()
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer loggerInstance.Sync()
	if applicationExecutionError := cli.Execute(loggerInstance); applicationExecutionError != nil {
		if pathcopy.IsReported(applicationExecutionError) {
			_ = loggerInstance.Sync()
			os.Exit(1)
		}
		loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage + ": " + applicationExecutionError.Error())
	}
}
