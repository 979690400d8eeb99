package vault

import (
	"reflect"
	"testing"

	"github.com/temirov/graphpaths/internal/collector"
)

func TestParseLinks(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected []collector.OutboundLink
	}{
		{
			name:     "wiki_links_in_order",
			content:  "See [[Alpha]] then [[beta/Gamma]].\nAnd [[Alpha]] again.",
			expected: []collector.OutboundLink{"Alpha", "beta/Gamma", "Alpha"},
		},
		{
			name:     "alias_and_heading",
			content:  "[[Note|shown text]] and [[Other#Section]] and [[Third#^block|x]]",
			expected: []collector.OutboundLink{"Note", "Other#Section", "Third#^block"},
		},
		{
			name:     "escaped_pipe_in_table",
			content:  "| [[Table Note\\|alias]] | cell |",
			expected: []collector.OutboundLink{"Table Note"},
		},
		{
			name:     "markdown_links_mixed_with_wiki",
			content:  "[one](one.md) [[two]] [three](<folder/three note.md>) [four](four%20note.md \"title\")",
			expected: []collector.OutboundLink{"one.md", "two", "folder/three note.md", "four note.md"},
		},
		{
			name:     "external_and_anchor_links_skipped",
			content:  "[web](https://example.com) [mail](mailto:a@b.c) [app](obsidian://open?x=1) [here](#heading) [ok](ok.md)",
			expected: []collector.OutboundLink{"ok.md"},
		},
		{
			name:     "embeds_skipped",
			content:  "![[image.png]] ![alt](pic.png) [[real]]",
			expected: []collector.OutboundLink{"real"},
		},
		{
			name:     "front_matter_skipped",
			content:  "---\nrelated: \"[[Hidden]]\"\ntags: [a]\n---\nBody [[Visible]]",
			expected: []collector.OutboundLink{"Visible"},
		},
		{
			name:     "fenced_code_skipped",
			content:  "```\n[[InFence]]\n```\n~~~md\n[[InTilde]]\n```\n~~~\n[[After]]",
			expected: []collector.OutboundLink{"After"},
		},
		{
			name:     "inline_code_skipped",
			content:  "`[[Code]]` and ``[[Double ` Code]]`` then [[Real]]",
			expected: []collector.OutboundLink{"Real"},
		},
		{
			name:     "windows_line_endings",
			content:  "---\r\ntitle: x\r\n---\r\n[[A]]\r\n[[B]]\r\n",
			expected: []collector.OutboundLink{"A", "B"},
		},
		{
			name:     "empty_wiki_link_skipped",
			content:  "[[ ]] [[|alias]]",
			expected: []collector.OutboundLink{},
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			links := ParseLinks(testCase.content)
			if len(links) == 0 && len(testCase.expected) == 0 {
				return
			}
			if !reflect.DeepEqual(links, testCase.expected) {
				t.Fatalf("expected %q, got %q", testCase.expected, links)
			}
		})
	}
}
