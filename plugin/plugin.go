package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// defaultCheckName labels the result when no check name is configured.
const defaultCheckName = "Test Results"

// Args represents the plugin's configurable arguments.
type Args struct {
	CheckName           string     `envconfig:"PLUGIN_CHECK_NAME"`
	Summary             string     `envconfig:"PLUGIN_SUMMARY"`
	ReportPaths         []string   `envconfig:"PLUGIN_REPORT_PATHS"`
	SuiteRegex          string     `envconfig:"PLUGIN_SUITE_REGEX"`
	AnnotatePassed      bool       `envconfig:"PLUGIN_ANNOTATE_PASSED"`
	CheckRetries        bool       `envconfig:"PLUGIN_CHECK_RETRIES"`
	ExcludeSources      []string   `envconfig:"PLUGIN_EXCLUDE_SOURCES"`
	CheckTitleTemplate  string     `envconfig:"PLUGIN_CHECK_TITLE_TEMPLATE"`
	TestFilesPrefix     string     `envconfig:"PLUGIN_TEST_FILES_PREFIX"`
	Transformers        Transforms `envconfig:"PLUGIN_TRANSFORMERS"`
	FollowSymlink       bool       `envconfig:"PLUGIN_FOLLOW_SYMLINK"`
	AnnotationsLimit    int        `envconfig:"PLUGIN_ANNOTATIONS_LIMIT"`
	TruncateStackTraces bool       `envconfig:"PLUGIN_TRUNCATE_STACK_TRACES"`
	FailIfNoResults     bool       `envconfig:"PLUGIN_FAIL_IF_NO_RESULTS"`
	ResultFile          string     `envconfig:"PLUGIN_RESULT_FILE"`
	Workspace           string     `envconfig:"DRONE_WORKSPACE"`
	Level               string     `envconfig:"PLUGIN_LOG_LEVEL"`
}

// ValidateInputs ensures the user inputs meet the plugin requirements.
func ValidateInputs(args Args) error {
	if len(args.ReportPaths) == 0 {
		return errors.New("missing required parameter: ReportPaths. Please specify the glob pattern(s) to locate the JUnit report files")
	}
	return nil
}

// processor carries the per-run configuration shared by the traversal,
// evaluation and resolution steps. root is the directory report patterns and
// source candidates are resolved against.
type processor struct {
	args Args
	root string
}

func newProcessor(args Args, root string) *processor {
	if len(args.ExcludeSources) == 0 {
		args.ExcludeSources = defaultExcludeSources
	}
	if args.CheckName == "" {
		args.CheckName = defaultCheckName
	}
	return &processor{args: args, root: root}
}

// Exec ingests every JUnit report file matching the configured patterns and
// synthesizes the aggregate test result with its annotations.
func Exec(ctx context.Context, args Args) (TestResult, error) {
	result, err := newProcessor(args, ".").run()
	if err != nil {
		return TestResult{}, err
	}

	logrus.Infof("\n===============================================")
	logrus.Infof("\n%s: %d files | Total: %d | Passed: %d | Failed: %d | Skipped: %d", result.CheckName, result.FoundFiles, result.TotalCount, result.Passed, result.Failed, result.Skipped)
	logrus.Infof("\n===============================================")

	if args.ResultFile != "" {
		if err := writeResult(args.ResultFile, result); err != nil {
			return TestResult{}, err
		}
	}
	return result, nil
}

// run drives ingestion across all matched report files. A file that fails to
// read or parse contributes nothing and never aborts the run; accumulation
// stops early once the annotation limit is satisfied.
func (p *processor) run() (TestResult, error) {
	files, err := p.locateReports()
	if err != nil {
		return TestResult{}, err
	}
	if len(files) == 0 {
		if p.args.FailIfNoResults {
			return TestResult{}, errors.New("no JUnit report files found. Check the report paths pattern")
		}
		logrus.Warn("No JUnit report files found, continuing execution as FailIfNoResults is false")
	}

	var folded suiteResult
	for _, file := range files {
		result, err := p.processFile(file)
		if err != nil {
			logger := logrus.WithField("File", file).WithError(err)
			logger.Error("Error processing file")
			continue
		}
		folded.merge(result)
		if p.capReached(folded.Annotations) {
			logrus.WithField("File", file).Debug("Annotation limit reached, skipping remaining report files")
			break
		}
	}

	failed := 0
	for _, annotation := range folded.Annotations {
		if annotation.AnnotationLevel == levelFailure {
			failed++
		}
	}
	return TestResult{
		CheckName:   p.args.CheckName,
		Summary:     p.args.Summary,
		TotalCount:  folded.TotalCount,
		Skipped:     folded.Skipped,
		Failed:      failed,
		Passed:      folded.TotalCount - failed - folded.Skipped,
		FoundFiles:  len(files),
		Annotations: folded.Annotations,
	}, nil
}

// locateReports identifies report files matching the configured patterns, in
// walk order.
func (p *processor) locateReports() ([]string, error) {
	var files []string
	err := walkMatches(p.root, p.args.ReportPaths, p.args.FollowSymlink, func(rel string) bool {
		files = append(files, rel)
		return false
	})
	if err != nil {
		logger := logrus.WithError(err).WithField("Patterns", p.args.ReportPaths)
		logger.Error("Error occurred while searching for report files")
		return nil, errors.New("failed to search for report files: " + err.Error())
	}
	return files, nil
}

// processFile parses one JUnit XML report and folds its suite tree.
func (p *processor) processFile(filename string) (suiteResult, error) {
	logrus.Infof("Processing file: %s", filename)

	data, err := os.ReadFile(filepath.Join(p.root, filename))
	if err != nil {
		return suiteResult{}, errors.New("failed to read file: " + err.Error())
	}
	document, err := parseDocument(data)
	if err != nil {
		return suiteResult{}, errors.New("failed to parse JUnit XML: " + err.Error())
	}
	return p.walkSuites(document, ""), nil
}

// writeResult marshals the test result with its wire field names for the
// annotation-posting step.
func writeResult(filename string, result TestResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return errors.New("failed to encode the test result: " + err.Error())
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		logger := logrus.WithError(err).WithField("File", filename)
		logger.Error("Failed to write result file")
		return errors.New("failed to write result file: " + err.Error())
	}
	return nil
}
