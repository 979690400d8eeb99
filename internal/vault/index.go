// Package vault lists the files of a note vault and resolves outbound links to
// vault-relative file paths.
package vault

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/temirov/graphpaths/internal/collector"
	"github.com/temirov/graphpaths/internal/types"
	"github.com/temirov/graphpaths/internal/utils"
)

const (
	subpathMarker        = "#"
	currentFolderPrefix  = "./"
	parentFolderPrefix   = "../"
	vaultRootPrefix      = "/"
	errorVaultRootFormat = "vault root %s: %w"
	errorNotDirFormat    = "vault root %s is not a directory"
	errorWalkVaultFormat = "walk vault %s: %w"
	errorReadNoteFormat  = "read document %s: %w"
)

// Index holds the vault-relative paths of every visible file in a vault.
type Index struct {
	root      string
	files     []string
	byKey     map[string]string
	byBaseKey map[string][]string
}

// Open walks root and indexes every regular file outside hidden directories.
func Open(root string) (*Index, error) {
	absoluteRoot, absoluteError := filepath.Abs(root)
	if absoluteError != nil {
		return nil, fmt.Errorf(errorVaultRootFormat, root, absoluteError)
	}
	info, statError := os.Stat(absoluteRoot)
	if statError != nil {
		return nil, fmt.Errorf(errorVaultRootFormat, absoluteRoot, statError)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf(errorNotDirFormat, absoluteRoot)
	}

	var files []string
	walkFunction := func(currentPath string, directoryEntry fs.DirEntry, walkError error) error {
		if walkError != nil {
			return walkError
		}
		if currentPath == absoluteRoot {
			return nil
		}
		if utils.IsHiddenName(directoryEntry.Name()) {
			if directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !directoryEntry.Type().IsRegular() {
			return nil
		}
		files = append(files, utils.RelativePathOrSelf(currentPath, absoluteRoot))
		return nil
	}
	if walkError := filepath.WalkDir(absoluteRoot, walkFunction); walkError != nil {
		return nil, fmt.Errorf(errorWalkVaultFormat, absoluteRoot, walkError)
	}
	return NewIndex(absoluteRoot, files), nil
}

// NewIndex builds an index over already known vault-relative slash paths.
func NewIndex(root string, files []string) *Index {
	index := &Index{
		root:      root,
		files:     make([]string, 0, len(files)),
		byKey:     make(map[string]string, len(files)),
		byBaseKey: make(map[string][]string, len(files)),
	}
	for _, file := range files {
		vaultPath := strings.TrimPrefix(utils.ToSlashPath(file), vaultRootPrefix)
		key := normalizeKey(vaultPath)
		if _, exists := index.byKey[key]; exists {
			continue
		}
		index.files = append(index.files, vaultPath)
		index.byKey[key] = vaultPath
		baseKey := path.Base(key)
		index.byBaseKey[baseKey] = append(index.byBaseKey[baseKey], vaultPath)
	}
	sort.Strings(index.files)
	return index
}

// Root returns the absolute vault directory.
func (index *Index) Root() string {
	return index.root
}

// Files returns the indexed vault-relative paths in lexical order.
func (index *Index) Files() []string {
	return append([]string(nil), index.files...)
}

// OutboundLinks reads documentPath, relative to the vault root, and returns its links in document order.
func (index *Index) OutboundLinks(documentPath string) ([]collector.OutboundLink, error) {
	absolutePath := filepath.Join(index.root, filepath.FromSlash(documentPath))
	// #nosec G304
	content, readError := os.ReadFile(absolutePath)
	if readError != nil {
		return nil, fmt.Errorf(errorReadNoteFormat, documentPath, readError)
	}
	return ParseLinks(string(content)), nil
}

// ResolveLink returns the vault path the link points at when written inside sourcePath.
// Matching ignores case and Unicode normalization form. A link naming only a
// file name resolves to the candidate in the source folder, otherwise to the
// one with the shortest path.
func (index *Index) ResolveLink(link collector.OutboundLink, sourcePath string) (string, bool) {
	linkPath := strings.TrimSpace(stripSubpath(string(link)))
	if linkPath == "" {
		return "", false
	}
	sourceFolder := path.Dir(utils.ToSlashPath(sourcePath))

	if strings.HasPrefix(linkPath, currentFolderPrefix) || strings.HasPrefix(linkPath, parentFolderPrefix) {
		relativeTarget := path.Join(sourceFolder, linkPath)
		if resolvedPath, found := index.lookupExact(relativeTarget); found {
			return resolvedPath, true
		}
		return "", false
	}

	linkPath = strings.TrimPrefix(linkPath, vaultRootPrefix)
	if resolvedPath, found := index.lookupExact(linkPath); found {
		return resolvedPath, true
	}
	candidates := index.suffixCandidates(linkPath)
	if len(candidates) == 0 {
		return "", false
	}
	return pickCandidate(candidates, sourceFolder), true
}

var _ collector.Resolver = (*Index)(nil)

func (index *Index) lookupExact(vaultPath string) (string, bool) {
	key := normalizeKey(path.Clean(vaultPath))
	if resolvedPath, found := index.byKey[key]; found {
		return resolvedPath, true
	}
	resolvedPath, found := index.byKey[key+types.MarkdownExtension]
	return resolvedPath, found
}

func (index *Index) suffixCandidates(linkPath string) []string {
	key := normalizeKey(path.Clean(linkPath))
	var candidates []string
	for _, candidateKey := range []string{key, key + types.MarkdownExtension} {
		for _, vaultPath := range index.byBaseKey[path.Base(candidateKey)] {
			if strings.HasSuffix(normalizeKey(vaultPath), vaultRootPrefix+candidateKey) {
				candidates = append(candidates, vaultPath)
			}
		}
		if len(candidates) > 0 {
			return candidates
		}
	}
	return candidates
}

func pickCandidate(candidates []string, sourceFolder string) string {
	sourceFolderKey := normalizeKey(sourceFolder)
	for _, candidate := range candidates {
		if normalizeKey(path.Dir(candidate)) == sourceFolderKey {
			return candidate
		}
	}
	sorted := append([]string(nil), candidates...)
	sort.Slice(sorted, func(left, right int) bool {
		if len(sorted[left]) != len(sorted[right]) {
			return len(sorted[left]) < len(sorted[right])
		}
		return sorted[left] < sorted[right]
	})
	return sorted[0]
}

func stripSubpath(link string) string {
	if markerIndex := strings.Index(link, subpathMarker); markerIndex >= 0 {
		return link[:markerIndex]
	}
	return link
}

func normalizeKey(vaultPath string) string {
	return strings.ToLower(norm.NFC.String(vaultPath))
}
