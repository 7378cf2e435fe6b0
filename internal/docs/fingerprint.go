// Package docs implements the asynchronous user-manual generation workflow:
// job submission with idempotent deduplication, the worker that renders and
// stores manuals, signed download URLs, and the polling client that drives a
// job to completion from the caller's side.
package docs

import (
	"sort"
	"strings"
)

// Fingerprint computes the idempotency key for a (project, feature set)
// tuple. Feature ids are deduplicated and sorted before joining, so two
// semantically identical requests collide regardless of the order the UI
// held the ids in.
func Fingerprint(projectID string, featureIDs []string) string {
	seen := make(map[string]struct{}, len(featureIDs))
	ids := make([]string, 0, len(featureIDs))
	for _, id := range featureIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return projectID + ":" + strings.Join(ids, ",")
}
