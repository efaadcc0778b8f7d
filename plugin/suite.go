package plugin

import (
	"regexp"

	"github.com/sirupsen/logrus"
)

// walkSuites folds counts and annotations over a suite tree, depth-first in
// document order. A node with neither testsuite nor testsuites children is a
// valid empty result. Nested suites are consumed before the owning suite's
// own test cases; once the annotation limit is met the remaining cases are
// skipped outright, before any reconciliation or resolution work.
func (p *processor) walkSuites(node *xmlNode, parentName string) suiteResult {
	var result suiteResult
	suites := node.children["testsuite"]
	if len(suites) == 0 {
		for _, wrapper := range node.children["testsuites"] {
			result.merge(p.walkSuites(wrapper, parentName))
		}
		return result
	}

	for _, suite := range suites {
		name := p.suiteDisplayName(parentName, suite.attr("name"))
		result.merge(p.walkSuites(suite, name))
		if p.capReached(result.Annotations) {
			return result
		}

		cases := suite.children["testcase"]
		if p.args.CheckRetries {
			cases = reconcileRetries(cases)
		}
		for _, tc := range cases {
			result.TotalCount++
			annotation, skipped := p.evaluateCase(tc, suite, name)
			if skipped {
				result.Skipped++
			}
			result.Annotations = append(result.Annotations, annotation)
		}
	}
	return result
}

// suiteDisplayName qualifies a suite name per the configured pattern. An
// empty pattern disables qualification entirely, "*" always uses the raw
// name, and a child suite inherits "parent/name". A pattern that does not
// compile or does not match falls back to the raw name.
func (p *processor) suiteDisplayName(parentName, rawName string) string {
	if p.args.SuiteRegex == "" {
		return ""
	}
	if parentName != "" {
		return parentName + "/" + rawName
	}
	if p.args.SuiteRegex == "*" {
		return rawName
	}
	pattern, err := regexp.Compile(p.args.SuiteRegex)
	if err != nil {
		logrus.WithError(err).WithField("SuiteRegex", p.args.SuiteRegex).Warn("Invalid suite regex, using the raw suite name")
		return rawName
	}
	if match := pattern.FindString(rawName); match != "" {
		return match
	}
	return rawName
}

// capReached reports whether the configured annotation limit is satisfied by
// the accumulated annotations. Only failure-level annotations count, unless
// passed cases are annotated too.
func (p *processor) capReached(annotations []Annotation) bool {
	if p.args.AnnotationsLimit <= 0 {
		return false
	}
	count := 0
	for _, annotation := range annotations {
		if p.args.AnnotatePassed || annotation.AnnotationLevel == levelFailure {
			count++
		}
	}
	return count >= p.args.AnnotationsLimit
}
