package plugin

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolveFileAndLine(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		line     string
		key      string
		stack    string
		expected Position
	}{
		{
			name:     "ExplicitFileAndLineWin",
			file:     "src/a.py",
			line:     "42",
			key:      "pkg.a",
			stack:    " at somewhere/else.py:7",
			expected: Position{FileName: "src/a.py", Line: 42},
		},
		{
			name:     "ExplicitFileWithUnparseableLine",
			file:     "src/a.py",
			line:     "abc",
			key:      "pkg.a",
			stack:    "",
			expected: Position{FileName: "src/a.py", Line: 1},
		},
		{
			name:     "ClassnameDerivedJavaTrace",
			key:      "com.example.MyClass",
			stack:    "Exception in thread\n at com.example.MyClass.method(MyClass.java:13)",
			expected: Position{FileName: "MyClass", Line: 13},
		},
		{
			name:     "LastOccurrenceWins",
			key:      "x.App",
			stack:    " foo App.js:3 bar\n baz App.js:9",
			expected: Position{FileName: "App", Line: 9},
		},
		{
			name:     "RustModulePathOverridesGuess",
			key:      "mytest",
			stack:    "thread 'main' panicked at src/mytest.rs:120:9",
			expected: Position{FileName: "src/mytest.rs", Line: 120},
		},
		{
			name:     "NamespaceSeparatorMapsToSlash",
			file:     "tests::helpers",
			key:      "ignored",
			stack:    "failure at tests/helpers.rs:8:3",
			expected: Position{FileName: "tests/helpers.rs", Line: 8},
		},
		{
			name:     "NoNumericEvidenceFallsBackToLineOne",
			key:      "com.SomeClass",
			stack:    "at SomeClass.java line 42",
			expected: Position{FileName: "SomeClass", Line: 1},
		},
		{
			name:     "NoMatchKeepsExplicitLine",
			line:     "5",
			key:      "a.b",
			stack:    "nothing useful here",
			expected: Position{FileName: "b", Line: 5},
		},
		{
			name:     "EmptyEverything",
			key:      "solo",
			expected: Position{FileName: "solo", Line: 1},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := resolveFileAndLine(tc.file, tc.line, tc.key, tc.stack)
			if diff := cmp.Diff(tc.expected, got); diff != "" {
				t.Errorf("resolveFileAndLine() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
