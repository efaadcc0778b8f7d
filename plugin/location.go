package plugin

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// resolveFileAndLine recovers the source location implicated by one test
// case. Explicit file and line attributes always win. Otherwise the stack
// text is searched for the last space-delimited token that carries the file
// name followed by ":<line>". The key is the case's classname (or name); its
// last dot-segment is the file-name guess when no explicit file is given.
// This function never fails: resolution problems are logged as warnings and a
// best-effort position is returned.
func resolveFileAndLine(file, line, key, stackTrace string) Position {
	fileName := file
	if fileName == "" {
		segments := strings.Split(key, ".")
		fileName = segments[len(segments)-1]
	}
	explicitLine, hasExplicitLine := parseLine(line)
	if file != "" && hasExplicitLine {
		return Position{FileName: file, Line: explicitLine}
	}

	// "::" separates module paths in some ecosystems; on disk it is "/".
	escaped := strings.ReplaceAll(regexp.QuoteMeta(fileName), "::", "/")
	pattern, err := regexp.Compile(" [^\\s]*" + escaped + ".*?:\\d+")
	if err != nil {
		logrus.WithError(err).WithField("FileName", fileName).Warn("Failed to build location search pattern")
		return fallbackPosition(fileName, explicitLine, hasExplicitLine)
	}
	matches := pattern.FindAllString(stackTrace, -1)
	if len(matches) == 0 {
		return fallbackPosition(fileName, explicitLine, hasExplicitLine)
	}

	tokens := strings.Split(matches[len(matches)-1], ":")
	lineToken := strings.TrimFunc(tokens[len(tokens)-1], func(r rune) bool { return r < '0' || r > '9' })
	resolvedLine, err := strconv.Atoi(lineToken)
	if err != nil {
		logrus.WithField("Token", tokens[len(tokens)-1]).Warn("Unparseable line number in stack trace match")
		resolvedLine = -1
	}

	// A Rust trace references the file through its module path, which is
	// more precise than the classname-derived guess.
	if len(tokens) > 1 {
		if previous := tokens[len(tokens)-2]; strings.HasSuffix(previous, ".rs") {
			if words := strings.Fields(previous); len(words) > 0 {
				fileName = words[len(words)-1]
			}
		}
	}
	return Position{FileName: fileName, Line: resolvedLine}
}

// parseLine interprets an optional numeric line attribute. Absent or
// unparseable values report false rather than 0.
func parseLine(line string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, false
	}
	return n, true
}

// fallbackPosition is the no-match outcome: the explicit line when one was
// given, else line 1.
func fallbackPosition(fileName string, line int, hasLine bool) Position {
	if hasLine {
		return Position{FileName: fileName, Line: line}
	}
	return Position{FileName: fileName, Line: 1}
}
