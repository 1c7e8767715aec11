// SPDX-License-Identifier: Apache-2.0

// Package running holds the static test data model as it exists before
// execution starts. The execution engine builds this graph; the output
// subsystem only reads it.
package running

// BodyItemType identifies the kind of a keyword-level execution node.
type BodyItemType string

// Body item types. IF/ELSE and TRY/EXCEPT roots are synthetic containers
// grouping their branches; they never reach listeners as keyword events.
const (
	KeywordType       BodyItemType = "KEYWORD"
	SetupType         BodyItemType = "SETUP"
	TeardownType      BodyItemType = "TEARDOWN"
	ForType           BodyItemType = "FOR"
	WhileType         BodyItemType = "WHILE"
	IfElseRootType    BodyItemType = "IF/ELSE ROOT"
	TryExceptRootType BodyItemType = "TRY/EXCEPT ROOT"
)

// IsControlRoot reports whether the type is a synthetic control-flow
// container.
func (t BodyItemType) IsControlRoot() bool {
	return t == IfElseRootType || t == TryExceptRootType
}

// TestSuite is a suite as parsed from data, before any execution.
type TestSuite struct {
	Name   string
	Doc    string
	Source string
	Suites []*TestSuite
	Tests  []*TestCase
}

// TestCount returns the number of tests in this suite and all child suites.
func (s *TestSuite) TestCount() int {
	n := len(s.Tests)
	for _, sub := range s.Suites {
		n += sub.TestCount()
	}
	return n
}

// TestCase is a single test as parsed from data.
type TestCase struct {
	Name string
	Doc  string
	Tags []string
	Body []*BodyItem
}

// BodyItem is one keyword-level execution node inside a test or keyword.
type BodyItem struct {
	Type BodyItemType
	Name string
	Args []string
}

// NewKeyword creates a plain keyword body item.
func NewKeyword(name string, args ...string) *BodyItem {
	return &BodyItem{Type: KeywordType, Name: name, Args: args}
}
