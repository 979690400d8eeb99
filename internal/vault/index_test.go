package vault

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/temirov/graphpaths/internal/collector"
)

func writeVaultFile(t *testing.T, root string, relativePath string, content string) {
	t.Helper()
	absolutePath := filepath.Join(root, filepath.FromSlash(relativePath))
	if err := os.MkdirAll(filepath.Dir(absolutePath), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", relativePath, err)
	}
	if err := os.WriteFile(absolutePath, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", relativePath, err)
	}
}

func TestOpenSkipsHiddenEntries(t *testing.T) {
	root := t.TempDir()
	writeVaultFile(t, root, "a.md", "")
	writeVaultFile(t, root, "notes/b.md", "")
	writeVaultFile(t, root, "assets/pic.png", "")
	writeVaultFile(t, root, ".obsidian/workspace.json", "{}")
	writeVaultFile(t, root, ".trash/old.md", "")
	writeVaultFile(t, root, "notes/.draft.md", "")

	index, err := Open(root)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	expected := []string{"a.md", "assets/pic.png", "notes/b.md"}
	if !reflect.DeepEqual(index.Files(), expected) {
		t.Fatalf("expected %v, got %v", expected, index.Files())
	}
}

func TestOpenRejectsFileRoot(t *testing.T) {
	root := t.TempDir()
	writeVaultFile(t, root, "file.md", "")
	if _, err := Open(filepath.Join(root, "file.md")); err == nil {
		t.Fatalf("expected error for non-directory root")
	}
}

func TestResolveLink(t *testing.T) {
	index := NewIndex("/vault", []string{
		"Home.md",
		"projects/Plan.md",
		"projects/Notes.md",
		"archive/Notes.md",
		"archive/deep/Notes.md",
		"daily/Notes.md",
		"assets/diagram.png",
		"R\u00e9sum\u00e9.md",
		"docs/v1.2.md",
	})

	testCases := []struct {
		name       string
		link       collector.OutboundLink
		sourcePath string
		expected   string
		resolved   bool
	}{
		{name: "exact_with_extension", link: "Home.md", sourcePath: "x.md", expected: "Home.md", resolved: true},
		{name: "markdown_extension_inferred", link: "Home", sourcePath: "x.md", expected: "Home.md", resolved: true},
		{name: "case_insensitive", link: "home", sourcePath: "x.md", expected: "Home.md", resolved: true},
		{name: "full_vault_path", link: "projects/Plan", sourcePath: "x.md", expected: "projects/Plan.md", resolved: true},
		{name: "leading_slash_is_vault_root", link: "/projects/Plan", sourcePath: "x.md", expected: "projects/Plan.md", resolved: true},
		{name: "basename_only", link: "Plan", sourcePath: "daily/today.md", expected: "projects/Plan.md", resolved: true},
		{name: "basename_prefers_source_folder", link: "Notes", sourcePath: "archive/today.md", expected: "archive/Notes.md", resolved: true},
		{name: "basename_prefers_shortest_path", link: "Notes", sourcePath: "other/today.md", expected: "daily/Notes.md", resolved: true},
		{name: "partial_folder_path", link: "deep/Notes", sourcePath: "x.md", expected: "archive/deep/Notes.md", resolved: true},
		{name: "attachment", link: "diagram.png", sourcePath: "x.md", expected: "assets/diagram.png", resolved: true},
		{name: "heading_stripped", link: "Plan#Goals", sourcePath: "x.md", expected: "projects/Plan.md", resolved: true},
		{name: "relative_current_folder", link: "./Notes.md", sourcePath: "projects/Plan.md", expected: "projects/Notes.md", resolved: true},
		{name: "relative_parent_folder", link: "../Home", sourcePath: "projects/Plan.md", expected: "Home.md", resolved: true},
		{name: "decomposed_unicode", link: "Re\u0301sume\u0301", sourcePath: "x.md", expected: "R\u00e9sum\u00e9.md", resolved: true},
		{name: "dotted_name", link: "v1.2", sourcePath: "x.md", expected: "docs/v1.2.md", resolved: true},
		{name: "missing_target", link: "Nowhere", sourcePath: "x.md", resolved: false},
		{name: "self_anchor", link: "#Heading", sourcePath: "x.md", resolved: false},
		{name: "relative_missing", link: "./Home", sourcePath: "projects/Plan.md", resolved: false},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			resolvedPath, resolved := index.ResolveLink(testCase.link, testCase.sourcePath)
			if resolved != testCase.resolved {
				t.Fatalf("expected resolved=%t, got %t (%q)", testCase.resolved, resolved, resolvedPath)
			}
			if resolvedPath != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, resolvedPath)
			}
		})
	}
}

func TestOutboundLinksAndCollect(t *testing.T) {
	root := t.TempDir()
	writeVaultFile(t, root, "daily/today.md", strings.Join([]string{
		"# Today",
		"- [[Plan]]",
		"- [[Missing]]",
		"- [notes](../projects/Notes.md)",
		"- [[Plan|again]]",
		"- [[Secret]]",
	}, "\n"))
	writeVaultFile(t, root, "projects/Plan.md", "")
	writeVaultFile(t, root, "projects/Notes.md", "")
	writeVaultFile(t, root, "private/Secret.md", "")

	index, err := Open(root)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	links, linksErr := index.OutboundLinks("daily/today.md")
	if linksErr != nil {
		t.Fatalf("OutboundLinks error: %v", linksErr)
	}
	output, collectErr := collector.CollectString(links, "daily/today.md", index, collector.Settings{
		BasePath:        "/mnt/vault",
		OutputFormat:    collector.FormatSemicolon,
		ExcludedFolders: "private",
	})
	if collectErr != nil {
		t.Fatalf("CollectString error: %v", collectErr)
	}
	expected := "/mnt/vault/projects/Plan.md;/mnt/vault/projects/Notes.md"
	if output != expected {
		t.Fatalf("expected %q, got %q", expected, output)
	}
}

func TestOutboundLinksMissingDocument(t *testing.T) {
	index := NewIndex(t.TempDir(), nil)
	if _, err := index.OutboundLinks("absent.md"); err == nil {
		t.Fatalf("expected error for missing document")
	}
}
