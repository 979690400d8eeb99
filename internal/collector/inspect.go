package collector

// LinkStatus describes what happened to a single outbound link.
type LinkStatus string

const (
	// StatusResolved marks a link that contributed a path to the collection.
	StatusResolved LinkStatus = "resolved"
	// StatusUnresolved marks a link without an existing target.
	StatusUnresolved LinkStatus = "unresolved"
	// StatusExcluded marks a link whose full path matched an excluded folder.
	StatusExcluded LinkStatus = "excluded"
	// StatusDuplicate marks a link whose full path was already collected.
	StatusDuplicate LinkStatus = "duplicate"
)

// LinkOutcome records the resolution of one outbound link.
type LinkOutcome struct {
	Link     OutboundLink `json:"link"`
	Target   string       `json:"target,omitempty"`
	FullPath string       `json:"fullPath,omitempty"`
	Status   LinkStatus   `json:"status"`
}

// Inspect runs the collection pipeline and reports the outcome of every link
// in document order. It fails only when the base path is missing.
func Inspect(links []OutboundLink, sourcePath string, resolver Resolver, settings Settings) ([]LinkOutcome, error) {
	if settings.BasePath == "" {
		return nil, ErrMissingBasePath
	}
	exclusions := ParseExclusions(settings.ExcludedFolders)
	seenPaths := make(map[string]struct{}, len(links))
	outcomes := make([]LinkOutcome, 0, len(links))
	for _, link := range links {
		outcome := LinkOutcome{Link: link, Status: StatusUnresolved}
		target, resolved := resolver.ResolveLink(link, sourcePath)
		if !resolved {
			outcomes = append(outcomes, outcome)
			continue
		}
		outcome.Target = target
		outcome.FullPath = fullPathFor(settings.BasePath, target)
		switch {
		case len(exclusions) > 0 && isExcluded(outcome.FullPath, exclusions):
			outcome.Status = StatusExcluded
		case isSeen(seenPaths, outcome.FullPath):
			outcome.Status = StatusDuplicate
		default:
			seenPaths[outcome.FullPath] = struct{}{}
			outcome.Status = StatusResolved
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

func isSeen(seenPaths map[string]struct{}, fullPath string) bool {
	_, seen := seenPaths[fullPath]
	return seen
}
