package plugin

import "github.com/sirupsen/logrus"

// reconcileRetries collapses retried test cases sharing one name within a
// suite into a single representative, preserving first-occurrence order. A
// pass recorded by any retry replaces an earlier failure in the first
// sighting's slot; every other duplicate is dropped in favor of the first
// sighting, even when the later failure carries a different stack trace.
func reconcileRetries(cases []*xmlNode) []*xmlNode {
	index := make(map[string]int, len(cases))
	deduped := make([]*xmlNode, 0, len(cases))
	for _, tc := range cases {
		name := tc.attr("name")
		at, seen := index[name]
		if !seen {
			index[name] = len(deduped)
			deduped = append(deduped, tc)
			continue
		}
		if hasFailurePayload(deduped[at]) && !hasFailurePayload(tc) {
			deduped[at] = tc
			continue
		}
		logrus.WithField("Name", name).Debug("Dropping duplicate retried test case")
	}
	return deduped
}

// hasFailurePayload reports whether a test case carries a failure or error
// element.
func hasFailurePayload(tc *xmlNode) bool {
	return tc.has("failure") || tc.has("error")
}
