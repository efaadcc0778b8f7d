package plugin

import (
	"path"
	"regexp"
	"strings"
)

const (
	levelFailure = "failure"
	levelNotice  = "notice"

	statusSuccess = "success"
	statusFailure = "failure"
	statusSkipped = "skipped"
)

// evaluateCase classifies one test case in the context of its owning suite
// and builds its annotation. The returned bool reports whether the case
// counts as skipped.
func (p *processor) evaluateCase(tc, suite *xmlNode, suiteName string) (Annotation, bool) {
	name := tc.attr("name")

	payload := tc.first("failure")
	if payload == nil {
		payload = tc.first("error")
	}
	testFailure := payload != nil
	status := tc.attr("status")
	skip := tc.has("skipped") || status == "disabled" || status == "ignored"
	failed := testFailure && !skip
	success := !testFailure

	stackTrace := payload.payload()
	messageText := stackTrace
	if p.args.TruncateStackTraces {
		messageText = firstLines(stackTrace, 2)
	}
	systemOut := tc.first("system-out").payload()

	message := strings.TrimSpace(firstNonEmpty(payload.attr("message"), messageText, name))

	key := tc.attr("classname")
	if key == "" {
		key = name
	}
	pos := resolveFileAndLine(
		firstNonEmpty(tc.attr("file"), payload.attr("file"), suite.attr("file")),
		firstNonEmpty(tc.attr("line"), payload.attr("line"), suite.attr("line")),
		key, stackTrace)

	fileName := p.applyTransforms(pos.FileName)
	resolvedPath := fileName
	// The filesystem probe only pays off for annotations that get posted.
	if failed || (p.args.AnnotatePassed && success) {
		resolvedPath = resolvePath(p.root, fileName, p.args.ExcludeSources, p.args.FollowSymlink)
	}
	if p.args.Workspace != "" {
		resolvedPath = strings.TrimPrefix(resolvedPath, strings.TrimSuffix(p.args.Workspace, "/")+"/")
	}
	if p.args.TestFilesPrefix != "" {
		resolvedPath = path.Join(p.args.TestFilesPrefix, resolvedPath)
	}

	rawDetails := stackTrace
	if systemOut != "" {
		rawDetails = stackTrace + "\n\n" + systemOut
	}

	level := levelNotice
	if failed {
		level = levelFailure
	}
	caseStatus := statusFailure
	if success {
		caseStatus = statusSuccess
	} else if skip {
		caseStatus = statusSkipped
	}

	return Annotation{
		Path:            resolvedPath,
		StartLine:       pos.Line,
		EndLine:         pos.Line,
		AnnotationLevel: level,
		Status:          caseStatus,
		Title:           removeEmoji(p.caseTitle(fileName, suiteName, name, key)),
		Message:         removeEmoji(message),
		RawDetails:      removeEmoji(rawDetails),
	}, skip
}

// caseTitle derives the annotation title, honoring the configured template.
// Without a template the title composes file, suite and test name, dropping
// the parts that would just repeat the test name.
func (p *processor) caseTitle(fileName, suiteName, testName, className string) string {
	if template := p.args.CheckTitleTemplate; template != "" {
		templateFile := fileName
		if templateFile == testName {
			templateFile = ""
		}
		segments := strings.Split(className, ".")
		return strings.NewReplacer(
			"{{FILE_NAME}}", templateFile,
			"{{SUITE_NAME}}", suiteName,
			"{{TEST_NAME}}", testName,
			"{{CLASS_NAME}}", segments[len(segments)-1],
		).Replace(template)
	}
	if fileName != testName {
		if suiteName != "" {
			return fileName + "." + suiteName + "/" + testName
		}
		return fileName + "." + testName
	}
	if suiteName != "" {
		return suiteName + "/" + testName
	}
	return testName
}

// applyTransforms runs the configured substitutions over a resolved file
// name, in order. A searchValue that does not compile as a regex is applied
// as a literal substring replacement.
func (p *processor) applyTransforms(fileName string) string {
	for _, transform := range p.args.Transformers {
		pattern, err := regexp.Compile(transform.SearchValue)
		if err != nil {
			fileName = strings.ReplaceAll(fileName, transform.SearchValue, transform.ReplaceValue)
			continue
		}
		fileName = pattern.ReplaceAllString(fileName, transform.ReplaceValue)
	}
	return fileName
}

// firstLines keeps at most n leading lines of s.
func firstLines(s string, n int) string {
	lines := strings.SplitN(s, "\n", n+1)
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}

// firstNonEmpty returns the first value that is not blank.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
