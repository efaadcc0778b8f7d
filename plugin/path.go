package plugin

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// defaultExcludeSources are path fragments never accepted as resolved source
// locations.
var defaultExcludeSources = []string{"/build/", "/__pycache__/"}

// resolvePath maps a bare file name to a repository-relative path by probing
// for "**/<name>.*" candidates under root. The first candidate whose path
// contains no excluded fragment wins. When nothing matches, the normalized
// input is returned unchanged and callers treat it as unresolved.
func resolvePath(root, fileName string, excludeSources []string, followSymlink bool) string {
	logrus.WithField("FileName", fileName).Debug("Resolving path")
	normalized := strings.TrimPrefix(fileName, "./")
	resolved := normalized

	pattern := "**/" + normalized + ".*"
	err := walkMatches(root, []string{pattern}, followSymlink, func(rel string) bool {
		for _, exclusion := range excludeSources {
			if strings.Contains("/"+rel, exclusion) {
				return false
			}
		}
		resolved = rel
		return true
	})
	if err != nil {
		logrus.WithError(err).WithField("FileName", normalized).Debug("Path candidate search failed, keeping the unresolved name")
	}
	return resolved
}
