// SPDX-License-Identifier: Apache-2.0

package output

import (
	"github.com/miaopass-future/robotframework/pkg/model"
)

// LevelFilter decides whether log messages at a given severity are
// forwarded to listeners. The threshold is mutable; changing it only
// affects subsequent decisions.
type LevelFilter struct {
	threshold model.Level
}

// NewLevelFilter creates a filter with the given initial threshold.
func NewLevelFilter(threshold model.Level) *LevelFilter {
	return &LevelFilter{threshold: threshold}
}

// Enabled reports whether messages at level should be forwarded.
func (f *LevelFilter) Enabled(level model.Level) bool {
	return level >= f.threshold
}

// Level returns the current threshold.
func (f *LevelFilter) Level() model.Level {
	return f.threshold
}

// SetLevel parses name and replaces the threshold, returning the previous
// one. On a parse error the threshold is left unchanged.
func (f *LevelFilter) SetLevel(name string) (model.Level, error) {
	parsed, err := model.ParseLevel(name)
	if err != nil {
		return f.threshold, err
	}
	prev := f.threshold
	f.threshold = parsed
	return prev, nil
}
