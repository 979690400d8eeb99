// Package types defines every cross‑package constant used by the graphpaths CLI.
package types

const (
	CommandCopy    = "copy"
	CommandInspect = "inspect"
	CommandWatch   = "watch"
	CommandConfig  = "config"

	RenderRaw  = "raw"
	RenderJSON = "json"

	// ObsidianDirectoryName holds per-vault application state.
	ObsidianDirectoryName = ".obsidian"
	// WorkspaceFileName records the open panes of a vault.
	WorkspaceFileName = "workspace.json"
	// MarkdownExtension is appended to extensionless link targets.
	MarkdownExtension = ".md"
)

// Notice messages shown to the user after a copy attempt.
const (
	NoticeNoActiveFile    = "No active file."
	NoticeMissingBasePath = "Base path is not set. Please set it in the plugin settings."
	NoticeNoLinkedFiles   = "No linked files found."
	NoticeCopied          = "Copied local graph file paths to clipboard!"
)
