package plugin

import (
	"encoding/json"
	"strings"
)

// Annotation is a single file/line-anchored entry describing one test case's
// outcome. The JSON field names are the wire contract of the downstream
// annotation consumer and must not change.
type Annotation struct {
	Path            string `json:"path"`
	StartLine       int    `json:"start_line"`
	EndLine         int    `json:"end_line"`
	StartColumn     int    `json:"start_column"`
	EndColumn       int    `json:"end_column"`
	AnnotationLevel string `json:"annotation_level"`
	Status          string `json:"status"`
	Title           string `json:"title"`
	Message         string `json:"message"`
	RawDetails      string `json:"raw_details"`
}

// TestResult is the aggregate outcome across all matched report files.
type TestResult struct {
	CheckName   string       `json:"checkName"`
	Summary     string       `json:"summary"`
	TotalCount  int          `json:"totalCount"`
	Skipped     int          `json:"skipped"`
	Failed      int          `json:"failed"`
	Passed      int          `json:"passed"`
	FoundFiles  int          `json:"foundFiles"`
	Annotations []Annotation `json:"annotations"`
}

// Position is the resolved source location for one test case. Line is -1 when
// a heuristic search ran but produced no usable number.
type Position struct {
	FileName string
	Line     int
}

// Transform is one ordered substitution applied to a resolved file name
// before path resolution.
type Transform struct {
	SearchValue  string `json:"searchValue"`
	ReplaceValue string `json:"replaceValue"`
}

// Transforms holds the configured substitutions in application order.
type Transforms []Transform

// Decode implements envconfig.Decoder, accepting a JSON array of transforms.
func (t *Transforms) Decode(value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return json.Unmarshal([]byte(value), t)
}

// suiteResult folds counts and annotations over one suite subtree or report
// file. It is merged upward by the traversal and never persisted.
type suiteResult struct {
	TotalCount  int
	Skipped     int
	Annotations []Annotation
}

func (r *suiteResult) merge(other suiteResult) {
	r.TotalCount += other.TotalCount
	r.Skipped += other.Skipped
	r.Annotations = append(r.Annotations, other.Annotations...)
}
