package plugin

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSuiteDisplayName(t *testing.T) {
	tests := []struct {
		name       string
		suiteRegex string
		parentName string
		rawName    string
		expected   string
	}{
		{name: "DisabledWithoutRegex", rawName: "Integration", expected: ""},
		{name: "WildcardUsesRawName", suiteRegex: "*", rawName: "Integration", expected: "Integration"},
		{name: "ParentQualifies", suiteRegex: "*", parentName: "Outer", rawName: "Inner", expected: "Outer/Inner"},
		{name: "PatternMatchWins", suiteRegex: "^[A-Z][a-z]+", rawName: "Integration tests", expected: "Integration"},
		{name: "PatternMissFallsBack", suiteRegex: "^unit", rawName: "Integration", expected: "Integration"},
		{name: "InvalidPatternFallsBack", suiteRegex: "[", rawName: "Integration", expected: "Integration"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := newProcessor(Args{SuiteRegex: tc.suiteRegex}, ".")
			if got := p.suiteDisplayName(tc.parentName, tc.rawName); got != tc.expected {
				t.Errorf("suiteDisplayName(%q, %q) = %q, want %q", tc.parentName, tc.rawName, got, tc.expected)
			}
		})
	}
}

func TestWalkSuitesQualifiesNestedNames(t *testing.T) {
	data, err := os.ReadFile("../testdata/junit-nested.xml")
	if err != nil {
		t.Fatal(err)
	}
	document, err := parseDocument(data)
	if err != nil {
		t.Fatal(err)
	}

	p := newProcessor(Args{SuiteRegex: "*"}, "../testdata")
	result := p.walkSuites(document, "")

	if result.TotalCount != 4 || result.Skipped != 2 {
		t.Fatalf("walkSuites() counts mismatch: %+v", result)
	}
	expectedTitles := []string{
		"inner.Outer/Inner/inner_ok",
		"outer.Outer/skipped_case",
		"outer.Outer/ignored_failure",
		"outer.Outer/broken",
	}
	for i, title := range expectedTitles {
		if result.Annotations[i].Title != title {
			t.Errorf("annotation %d title = %q, want %q", i, result.Annotations[i].Title, title)
		}
	}
}

func TestWalkSuitesEmptyDocument(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "UnrelatedRoot", doc: `<report><entry name="x"/></report>`},
		{name: "EmptyWrapper", doc: `<testsuites></testsuites>`},
		{name: "SuiteWithoutCases", doc: `<testsuite name="empty"></testsuite>`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := newProcessor(Args{}, ".")
			result := p.walkSuites(mustParse(t, tc.doc), "")
			if diff := cmp.Diff(suiteResult{}, result); diff != "" {
				t.Errorf("walkSuites() expected an empty result (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWalkSuitesStopsAtAnnotationLimit(t *testing.T) {
	data, err := os.ReadFile("../testdata/junit-cap.xml")
	if err != nil {
		t.Fatal(err)
	}
	document, err := parseDocument(data)
	if err != nil {
		t.Fatal(err)
	}

	p := newProcessor(Args{AnnotationsLimit: 1}, "../testdata")
	result := p.walkSuites(document, "")

	// Suite A fills the limit; suite B's case is neither evaluated nor counted.
	if len(result.Annotations) != 1 || result.TotalCount != 1 {
		t.Fatalf("walkSuites() should stop after the first suite: %+v", result)
	}
	if result.Annotations[0].AnnotationLevel != "failure" || result.Annotations[0].Message != "fa" {
		t.Errorf("walkSuites() kept the wrong annotation: %+v", result.Annotations[0])
	}
}

func TestWalkSuitesLimitCountsAllWhenAnnotatingPassed(t *testing.T) {
	doc := `<testsuites>
  <testsuite name="A"><testcase classname="c.a" name="a1"/></testsuite>
  <testsuite name="B"><testcase classname="c.b" name="b1"><failure message="fb">fb</failure></testcase></testsuite>
</testsuites>`

	p := newProcessor(Args{AnnotationsLimit: 1, AnnotatePassed: true}, ".")
	result := p.walkSuites(mustParse(t, doc), "")

	// With AnnotatePassed the passing annotation from suite A already meets
	// the limit, so suite B is skipped entirely.
	if len(result.Annotations) != 1 || result.Annotations[0].Status != "success" {
		t.Fatalf("walkSuites() expected only the passing annotation: %+v", result)
	}
}

func TestReconcileRetriesThroughTraversal(t *testing.T) {
	data, err := os.ReadFile("../testdata/junit-retries.xml")
	if err != nil {
		t.Fatal(err)
	}

	t.Run("Enabled", func(t *testing.T) {
		document, err := parseDocument(data)
		if err != nil {
			t.Fatal(err)
		}
		p := newProcessor(Args{CheckRetries: true}, "../testdata")
		result := p.walkSuites(document, "")

		if result.TotalCount != 2 {
			t.Fatalf("expected 2 reconciled cases, got %d", result.TotalCount)
		}
		// T retried into a pass and keeps its first-occurrence slot.
		if result.Annotations[0].Title != "T" || result.Annotations[0].Status != "success" {
			t.Errorf("expected the retried pass for T first: %+v", result.Annotations[0])
		}
		// Both U runs failed; the first sighting's payload stands.
		if result.Annotations[1].Status != "failure" || result.Annotations[1].Message != "u fail" {
			t.Errorf("expected the first failure for U: %+v", result.Annotations[1])
		}
	})

	t.Run("DisabledProcessesDuplicates", func(t *testing.T) {
		document, err := parseDocument(data)
		if err != nil {
			t.Fatal(err)
		}
		p := newProcessor(Args{}, "../testdata")
		result := p.walkSuites(document, "")

		if result.TotalCount != 4 || len(result.Annotations) != 4 {
			t.Errorf("expected every duplicate to be processed: %+v", result)
		}
	})
}

func TestReconcileRetries(t *testing.T) {
	doc := `<testsuite name="r">
  <testcase name="A"/>
  <testcase name="A"><failure message="flaky">f</failure></testcase>
  <testcase name="B"><failure message="b1">f</failure></testcase>
  <testcase name="B"/>
  <testcase name="C"/>
</testsuite>`
	cases := mustParse(t, doc).first("testsuite").children["testcase"]

	deduped := reconcileRetries(cases)
	if len(deduped) != 3 {
		t.Fatalf("expected 3 distinct cases, got %d", len(deduped))
	}
	// A's retried failure is absorbed by the earlier pass.
	if deduped[0].attr("name") != "A" || hasFailurePayload(deduped[0]) {
		t.Errorf("expected A to stay passing, got %+v", deduped[0])
	}
	// B's retried pass replaces the failure in the first-occurrence slot.
	if deduped[1].attr("name") != "B" || hasFailurePayload(deduped[1]) {
		t.Errorf("expected B to become passing, got %+v", deduped[1])
	}
	if deduped[2].attr("name") != "C" {
		t.Errorf("expected C last, got %q", deduped[2].attr("name"))
	}
}
