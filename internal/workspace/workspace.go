// Package workspace determines which vault document is currently active.
package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/graphpaths/internal/types"
	"github.com/temirov/graphpaths/internal/utils"
)

const (
	parentFolderPrefix         = "../"
	errorReadWorkspaceFormat   = "read workspace %s: %w"
	errorDecodeWorkspaceFormat = "decode workspace %s: %w"
	errorOutsideVaultFormat    = "document %s is outside the vault %s"
)

// ErrNoActiveDocument reports that no document is currently selected.
var ErrNoActiveDocument = errors.New("no active document")

// Provider returns the vault-relative path of the active document.
type Provider interface {
	ActiveDocument() (string, error)
}

// Static always returns one document, given on the command line.
type Static struct {
	VaultRoot    string
	DocumentPath string
}

// ActiveDocument returns the configured document as a vault-relative path.
// Paths that exist relative to the working directory inside the vault are
// converted; anything else is taken as already vault-relative.
func (provider Static) ActiveDocument() (string, error) {
	documentPath := strings.TrimSpace(provider.DocumentPath)
	if documentPath == "" {
		return "", ErrNoActiveDocument
	}
	if !filepath.IsAbs(documentPath) {
		if _, statError := os.Stat(documentPath); statError != nil {
			return strings.TrimPrefix(utils.ToSlashPath(filepath.Clean(documentPath)), "/"), nil
		}
		absolutePath, absoluteError := filepath.Abs(documentPath)
		if absoluteError != nil {
			return "", absoluteError
		}
		documentPath = absolutePath
	}
	relativePath := utils.RelativePathOrSelf(documentPath, provider.VaultRoot)
	if relativePath == "." || strings.HasPrefix(relativePath, parentFolderPrefix) || filepath.IsAbs(relativePath) {
		return "", fmt.Errorf(errorOutsideVaultFormat, documentPath, provider.VaultRoot)
	}
	return relativePath, nil
}

// Fixed is a document path that is already vault-relative.
type Fixed string

// ActiveDocument returns the fixed document.
func (document Fixed) ActiveDocument() (string, error) {
	if strings.TrimSpace(string(document)) == "" {
		return "", ErrNoActiveDocument
	}
	return string(document), nil
}

// ObsidianWorkspace reads the active pane from the vault's workspace file.
type ObsidianWorkspace struct {
	VaultRoot string
}

type workspaceNode struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Children []workspaceNode `json:"children"`
	State    *leafState      `json:"state"`
}

type leafState struct {
	Type  string `json:"type"`
	State struct {
		File string `json:"file"`
	} `json:"state"`
}

type workspaceDocument struct {
	Main          *workspaceNode `json:"main"`
	Left          *workspaceNode `json:"left"`
	Right         *workspaceNode `json:"right"`
	Active        string         `json:"active"`
	LastOpenFiles []string       `json:"lastOpenFiles"`
}

// WorkspaceFile returns the location of the workspace file inside vaultRoot.
func WorkspaceFile(vaultRoot string) string {
	return filepath.Join(vaultRoot, types.ObsidianDirectoryName, types.WorkspaceFileName)
}

// ActiveDocument returns the file shown by the active leaf. When the active
// leaf has no file the most recently opened file is used.
func (provider ObsidianWorkspace) ActiveDocument() (string, error) {
	workspacePath := WorkspaceFile(provider.VaultRoot)
	// #nosec G304
	content, readError := os.ReadFile(workspacePath)
	if readError != nil {
		if os.IsNotExist(readError) {
			return "", ErrNoActiveDocument
		}
		return "", fmt.Errorf(errorReadWorkspaceFormat, workspacePath, readError)
	}
	var document workspaceDocument
	if decodeError := json.Unmarshal(content, &document); decodeError != nil {
		return "", fmt.Errorf(errorDecodeWorkspaceFormat, workspacePath, decodeError)
	}
	if document.Active != "" {
		for _, root := range []*workspaceNode{document.Main, document.Left, document.Right} {
			if activeFile := findLeafFile(root, document.Active); activeFile != "" {
				return activeFile, nil
			}
		}
	}
	for _, recentFile := range document.LastOpenFiles {
		if strings.TrimSpace(recentFile) != "" {
			return recentFile, nil
		}
	}
	return "", ErrNoActiveDocument
}

func findLeafFile(node *workspaceNode, leafID string) string {
	if node == nil {
		return ""
	}
	if node.ID == leafID {
		if node.State == nil {
			return ""
		}
		return node.State.State.File
	}
	for childIndex := range node.Children {
		if file := findLeafFile(&node.Children[childIndex], leafID); file != "" {
			return file
		}
	}
	return ""
}

var (
	_ Provider = Static{}
	_ Provider = ObsidianWorkspace{}
	_ Provider = Fixed("")
)
