// SPDX-License-Identifier: Apache-2.0

// Package result holds the live result model populated while execution
// advances. At event-start time most fields are still zero; listeners read
// them through the combined view, which falls back to the static model.
package result

import "time"

// Status is an execution verdict.
type Status string

const (
	StatusPass   Status = "PASS"
	StatusFail   Status = "FAIL"
	StatusSkip   Status = "SKIP"
	StatusNotRun Status = "NOT RUN"
)

// TestSuite is the result counterpart of a running suite.
type TestSuite struct {
	Name      string
	Status    Status
	Message   string
	StartTime time.Time
	EndTime   time.Time
	Suites    []*TestSuite
	Tests     []*TestCase
}

// Elapsed returns the suite execution duration, zero while still running.
func (s *TestSuite) Elapsed() time.Duration {
	if s.StartTime.IsZero() || s.EndTime.IsZero() {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}

// TestCase is the result counterpart of a running test.
type TestCase struct {
	Name      string
	Status    Status
	Message   string
	StartTime time.Time
	EndTime   time.Time
}

// BodyItem is the result counterpart of a keyword-level node.
type BodyItem struct {
	Name      string
	Status    Status
	StartTime time.Time
	EndTime   time.Time
}
