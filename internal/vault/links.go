package vault

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/temirov/graphpaths/internal/collector"
)

const (
	embedMarker         = "!"
	wikiAliasSeparator  = "|"
	escapedAliasMarker  = "\\"
	anchorPrefix        = "#"
	frontMatterFence    = "---"
	frontMatterEnd      = "..."
	backtickCharacter   = '`'
	codeFenceBackticks  = "```"
	codeFenceTildes     = "~~~"
	angleBracketOpening = "<"
	angleBracketClosing = ">"
)

var (
	wikiLinkPattern     = regexp.MustCompile(`(!?)\[\[([^\[\]\n]+?)\]\]`)
	markdownLinkPattern = regexp.MustCompile(`(!?)\[[^\[\]\n]*\]\(\s*(<[^<>\n]*>|[^\s()]*)(?:\s+(?:"[^"]*"|'[^']*'))?\s*\)`)
	urlSchemePattern    = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*:`)
)

type linkMatch struct {
	offset int
	link   collector.OutboundLink
}

// ParseLinks returns the outbound link targets of a markdown document in the
// order they appear. Embeds, external URLs, front matter and code are skipped.
func ParseLinks(content string) []collector.OutboundLink {
	body := stripFrontMatter(content)
	var links []collector.OutboundLink
	insideFence := false
	fenceMarker := ""
	for _, line := range strings.Split(body, "\n") {
		trimmedLine := strings.TrimSpace(line)
		if marker := fenceOpening(trimmedLine); marker != "" {
			if !insideFence {
				insideFence = true
				fenceMarker = marker
				continue
			}
			if strings.HasPrefix(trimmedLine, fenceMarker) {
				insideFence = false
				fenceMarker = ""
				continue
			}
		}
		if insideFence {
			continue
		}
		links = append(links, parseLine(stripInlineCode(line))...)
	}
	return links
}

func parseLine(line string) []collector.OutboundLink {
	var matches []linkMatch
	for _, indices := range wikiLinkPattern.FindAllStringSubmatchIndex(line, -1) {
		if line[indices[2]:indices[3]] == embedMarker {
			continue
		}
		target := wikiTarget(line[indices[4]:indices[5]])
		if target == "" {
			continue
		}
		matches = append(matches, linkMatch{offset: indices[0], link: collector.OutboundLink(target)})
	}
	for _, indices := range markdownLinkPattern.FindAllStringSubmatchIndex(line, -1) {
		if line[indices[2]:indices[3]] == embedMarker || insideWikiLink(line, indices[0]) {
			continue
		}
		target, internal := markdownTarget(line[indices[4]:indices[5]])
		if !internal {
			continue
		}
		matches = append(matches, linkMatch{offset: indices[0], link: collector.OutboundLink(target)})
	}
	sort.SliceStable(matches, func(left, right int) bool {
		return matches[left].offset < matches[right].offset
	})
	links := make([]collector.OutboundLink, 0, len(matches))
	for _, match := range matches {
		links = append(links, match.link)
	}
	return links
}

// wikiTarget drops the display alias of a wiki link. A pipe escaped for use
// inside a table leaves a trailing backslash on the target.
func wikiTarget(inner string) string {
	target := inner
	if separatorIndex := strings.Index(target, wikiAliasSeparator); separatorIndex >= 0 {
		target = target[:separatorIndex]
	}
	target = strings.TrimSuffix(target, escapedAliasMarker)
	return strings.TrimSpace(target)
}

func markdownTarget(rawTarget string) (string, bool) {
	target := strings.TrimSpace(rawTarget)
	if strings.HasPrefix(target, angleBracketOpening) && strings.HasSuffix(target, angleBracketClosing) {
		target = strings.TrimSpace(target[1 : len(target)-1])
	}
	if target == "" || strings.HasPrefix(target, anchorPrefix) {
		return "", false
	}
	if urlSchemePattern.MatchString(target) {
		return "", false
	}
	if decodedTarget, decodeError := url.PathUnescape(target); decodeError == nil {
		target = decodedTarget
	}
	return target, true
}

func insideWikiLink(line string, offset int) bool {
	opening := strings.LastIndex(line[:offset], "[[")
	if opening < 0 {
		return false
	}
	closing := strings.LastIndex(line[:offset], "]]")
	return closing < opening
}

func fenceOpening(trimmedLine string) string {
	switch {
	case strings.HasPrefix(trimmedLine, codeFenceBackticks):
		return codeFenceBackticks
	case strings.HasPrefix(trimmedLine, codeFenceTildes):
		return codeFenceTildes
	default:
		return ""
	}
}

// stripFrontMatter removes a leading YAML block delimited by --- lines.
func stripFrontMatter(content string) string {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(normalized, frontMatterFence+"\n") {
		return normalized
	}
	lines := strings.Split(normalized, "\n")
	for lineIndex := 1; lineIndex < len(lines); lineIndex++ {
		trimmedLine := strings.TrimRight(lines[lineIndex], " \t")
		if trimmedLine == frontMatterFence || trimmedLine == frontMatterEnd {
			return strings.Join(lines[lineIndex+1:], "\n")
		}
	}
	return normalized
}

// stripInlineCode blanks out inline code spans so links inside them are ignored.
// A span opened by a run of N backticks is closed by the next run of exactly N.
func stripInlineCode(line string) string {
	if !strings.ContainsRune(line, backtickCharacter) {
		return line
	}
	lineBytes := []byte(line)
	index := 0
	for index < len(lineBytes) {
		if lineBytes[index] != backtickCharacter {
			index++
			continue
		}
		openingLength := backtickRunLength(lineBytes, index)
		searchIndex := index + openingLength
		closingIndex := -1
		for searchIndex < len(lineBytes) {
			if lineBytes[searchIndex] != backtickCharacter {
				searchIndex++
				continue
			}
			runLength := backtickRunLength(lineBytes, searchIndex)
			if runLength == openingLength {
				closingIndex = searchIndex
				break
			}
			searchIndex += runLength
		}
		if closingIndex < 0 {
			index += openingLength
			continue
		}
		spanEnd := closingIndex + openingLength
		for blankIndex := index; blankIndex < spanEnd; blankIndex++ {
			lineBytes[blankIndex] = ' '
		}
		index = spanEnd
	}
	return string(lineBytes)
}

func backtickRunLength(data []byte, start int) int {
	length := 0
	for start+length < len(data) && data[start+length] == backtickCharacter {
		length++
	}
	return length
}
