package utils

// LoggerInitializationFailedMessageFormat reports a logger that could not be built.
const LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"

// ApplicationExecutionFailedMessage prefixes unexpected command failures.
const ApplicationExecutionFailedMessage = "graphpaths failed"

// GitDirectoryName is the repository metadata directory consulted for version information.
const GitDirectoryName = ".git"
