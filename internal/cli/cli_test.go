package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"go.uber.org/zap"

	"github.com/temirov/graphpaths/internal/pathcopy"
	"github.com/temirov/graphpaths/internal/services/clipboard"
)

const (
	testBasePath        = "/base"
	activeWorkspaceJSON = `{"main":{"id":"root","type":"split","children":[{"id":"leaf","type":"leaf","state":{"type":"markdown","state":{"file":"daily/today.md"}}}]},"active":"leaf"}`
)

type recordingClipboard struct {
	copied []string
}

func (recorder *recordingClipboard) Copy(text string) error {
	recorder.copied = append(recorder.copied, text)
	return nil
}

type cliFixture struct {
	vaultRoot string
	clipboard *recordingClipboard
	app       *application
}

func writeFixtureFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func newCLIFixture(t *testing.T) cliFixture {
	t.Helper()
	for _, key := range []string{"GRAPHPATHS_VAULT", "GRAPHPATHS_BASE_PATH", "GRAPHPATHS_OUTPUT_FORMAT", "GRAPHPATHS_EXCLUDED_FOLDERS"} {
		t.Setenv(key, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	vaultRoot := t.TempDir()
	writeFixtureFile(t, filepath.Join(vaultRoot, "daily", "today.md"), "See [[a]], [[sub/b|B]], [[missing]] and [[private/secret]].\n")
	writeFixtureFile(t, filepath.Join(vaultRoot, "a.md"), "# A\n")
	writeFixtureFile(t, filepath.Join(vaultRoot, "sub", "b.md"), "# B\n")
	writeFixtureFile(t, filepath.Join(vaultRoot, "private", "secret.md"), "# Secret\n")
	writeFixtureFile(t, filepath.Join(vaultRoot, ".obsidian", "workspace.json"), activeWorkspaceJSON)

	recorder := &recordingClipboard{}
	return cliFixture{
		vaultRoot: vaultRoot,
		clipboard: recorder,
		app: &application{
			logger:           zap.NewNop(),
			workingDirectory: vaultRoot,
			newClipboard:     func() clipboard.Copier { return recorder },
		},
	}
}

func (fixture cliFixture) execute(t *testing.T, arguments ...string) (string, error) {
	t.Helper()
	rootCommand := fixture.app.createRootCommand()
	var stdout bytes.Buffer
	rootCommand.SetOut(&stdout)
	rootCommand.SetErr(io.Discard)
	rootCommand.SetArgs(normalizeToggleArguments(rootCommand, arguments))
	executeError := rootCommand.Execute()
	return stdout.String(), executeError
}

func TestCopyCommand(t *testing.T) {
	testCases := []struct {
		name              string
		arguments         []string
		expectedStdout    string
		expectedClipboard []string
	}{
		{
			name:           "prints_explicit_document",
			arguments:      []string{"copy", "daily/today.md", "--base-path", testBasePath, "--exclude", "private", "--print"},
			expectedStdout: "/base/a.md\n/base/sub/b.md\n",
		},
		{
			name:              "alias_uses_active_document_and_clipboard",
			arguments:         []string{"c", "--base-path", testBasePath, "--format", "semicolon"},
			expectedClipboard: []string{"/base/a.md;/base/sub/b.md;/base/private/secret.md"},
		},
		{
			name:              "print_disabled_by_literal",
			arguments:         []string{"copy", "--print", "no", "--base-path", testBasePath, "--exclude", "secret"},
			expectedClipboard: []string{"/base/a.md\n/base/sub/b.md"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			fixture := newCLIFixture(t)
			stdout, err := fixture.execute(t, testCase.arguments...)
			if err != nil {
				t.Fatalf("execute error: %v", err)
			}
			if stdout != testCase.expectedStdout {
				t.Fatalf("expected stdout %q, got %q", testCase.expectedStdout, stdout)
			}
			if len(fixture.clipboard.copied) != len(testCase.expectedClipboard) {
				t.Fatalf("expected clipboard %q, got %q", testCase.expectedClipboard, fixture.clipboard.copied)
			}
			for index := range testCase.expectedClipboard {
				if fixture.clipboard.copied[index] != testCase.expectedClipboard[index] {
					t.Fatalf("expected clipboard %q, got %q", testCase.expectedClipboard, fixture.clipboard.copied)
				}
			}
		})
	}
}

func TestCopyCommandReportsMissingBasePath(t *testing.T) {
	fixture := newCLIFixture(t)
	_, err := fixture.execute(t, "copy")
	if err == nil || !pathcopy.IsReported(err) {
		t.Fatalf("expected reported error, got %v", err)
	}
	if len(fixture.clipboard.copied) != 0 {
		t.Fatalf("expected no clipboard write")
	}
}

func TestCopyCommandRejectsUnknownFormat(t *testing.T) {
	fixture := newCLIFixture(t)
	_, err := fixture.execute(t, "copy", "--base-path", testBasePath, "--format", "tabs")
	if err == nil || pathcopy.IsReported(err) {
		t.Fatalf("expected flag error, got %v", err)
	}
}

func TestCopyCommandUsesStoredSettings(t *testing.T) {
	fixture := newCLIFixture(t)
	if _, err := fixture.execute(t, "config", "set", "base-path", testBasePath); err != nil {
		t.Fatalf("config set error: %v", err)
	}
	if _, err := fixture.execute(t, "config", "set", "excluded_folders", "private,sub"); err != nil {
		t.Fatalf("config set error: %v", err)
	}
	stdout, err := fixture.execute(t, "copy", "--print")
	if err != nil {
		t.Fatalf("copy error: %v", err)
	}
	if stdout != "/base/a.md\n" {
		t.Fatalf("unexpected stdout %q", stdout)
	}

	overridden, overrideError := fixture.execute(t, "copy", "--print", "--exclude", "")
	if overrideError != nil {
		t.Fatalf("copy error: %v", overrideError)
	}
	if strings.Count(overridden, "\n") != 3 {
		t.Fatalf("expected the empty flag to clear exclusions, got %q", overridden)
	}
}

func TestInspectCommand(t *testing.T) {
	fixture := newCLIFixture(t)
	stdout, err := fixture.execute(t, "inspect", "--base-path", testBasePath, "--exclude", "private", "--output", "JSON")
	if err != nil {
		t.Fatalf("inspect error: %v", err)
	}
	var decoded struct {
		Document string `json:"document"`
		Links    []struct {
			Link   string `json:"link"`
			Status string `json:"status"`
		} `json:"links"`
	}
	if decodeError := json.Unmarshal([]byte(stdout), &decoded); decodeError != nil {
		t.Fatalf("invalid JSON %q: %v", stdout, decodeError)
	}
	if decoded.Document != "daily/today.md" {
		t.Fatalf("unexpected document %q", decoded.Document)
	}
	expectedStatuses := []string{"resolved", "resolved", "unresolved", "excluded"}
	if len(decoded.Links) != len(expectedStatuses) {
		t.Fatalf("unexpected links %+v", decoded.Links)
	}
	for index, expectedStatus := range expectedStatuses {
		if decoded.Links[index].Status != expectedStatus {
			t.Fatalf("link %d: expected %s, got %s", index, expectedStatus, decoded.Links[index].Status)
		}
	}

	raw, rawError := fixture.execute(t, "i", "daily/today.md", "--base-path", testBasePath)
	if rawError != nil {
		t.Fatalf("inspect error: %v", rawError)
	}
	if !strings.HasPrefix(raw, "daily/today.md\n") || !strings.Contains(raw, "[unresolved] missing") {
		t.Fatalf("unexpected raw output %q", raw)
	}

	if _, invalidError := fixture.execute(t, "inspect", "--output", "xml"); invalidError == nil {
		t.Fatalf("expected error for unsupported output")
	}
}

func TestConfigCommands(t *testing.T) {
	fixture := newCLIFixture(t)

	initOutput, initError := fixture.execute(t, "config", "init")
	if initError != nil {
		t.Fatalf("config init error: %v", initError)
	}
	localPath := filepath.Join(fixture.vaultRoot, "graphpaths.yaml")
	if !strings.Contains(initOutput, localPath) {
		t.Fatalf("expected init to report %s, got %q", localPath, initOutput)
	}
	if _, repeatError := fixture.execute(t, "config", "init"); repeatError == nil {
		t.Fatalf("expected init to refuse overwriting")
	}
	if _, forceError := fixture.execute(t, "config", "init", "--force"); forceError != nil {
		t.Fatalf("config init --force error: %v", forceError)
	}

	if _, setError := fixture.execute(t, "config", "set", "output_format", "semicolon", "--global"); setError != nil {
		t.Fatalf("config set --global error: %v", setError)
	}
	if _, statError := os.Stat(filepath.Join(xdg.ConfigHome, "graphpaths", "config.yaml")); statError != nil {
		t.Fatalf("expected global configuration file: %v", statError)
	}
	if _, invalidError := fixture.execute(t, "config", "set", "color", "blue"); invalidError == nil {
		t.Fatalf("expected unknown key error")
	}

	shown, showError := fixture.execute(t, "config", "show")
	if showError != nil {
		t.Fatalf("config show error: %v", showError)
	}
	if !strings.Contains(shown, "output_format: newline") {
		t.Fatalf("expected local template to win over global file, got %q", shown)
	}
}

func TestConfigFlagSelectsLocalFile(t *testing.T) {
	fixture := newCLIFixture(t)
	if _, err := fixture.execute(t, "--config", "custom.yaml", "config", "set", "base_path", testBasePath); err != nil {
		t.Fatalf("config set error: %v", err)
	}
	if _, statError := os.Stat(filepath.Join(fixture.vaultRoot, "custom.yaml")); statError != nil {
		t.Fatalf("expected custom configuration file: %v", statError)
	}
	stdout, err := fixture.execute(t, "--config", "custom.yaml", "copy", "daily/today.md", "--print")
	if err != nil {
		t.Fatalf("copy error: %v", err)
	}
	if !strings.HasPrefix(stdout, "/base/a.md") {
		t.Fatalf("unexpected stdout %q", stdout)
	}
}
