// SPDX-License-Identifier: Apache-2.0

package listener

import (
	"log/slog"

	"github.com/miaopass-future/robotframework/pkg/model"
)

// SlogListener forwards every notification it receives to an slog logger.
// It declares API version 3, so it never sees keyword-level hooks.
type SlogListener struct {
	logger *slog.Logger
}

// NewSlogListener creates the listener. A nil logger uses slog.Default.
func NewSlogListener(logger *slog.Logger) *SlogListener {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogListener{logger: logger}
}

func (l *SlogListener) ListenerAPIVersion() any { return 3 }

func (l *SlogListener) Name() string { return "slog" }

func (l *SlogListener) StartSuite(v *Combined) error {
	l.logger.Info("suite started", l.nameAttr(v)...)
	return nil
}

func (l *SlogListener) EndSuite(v *Combined) error {
	l.logger.Info("suite ended", l.nameAttr(v)...)
	return nil
}

func (l *SlogListener) StartTest(v *Combined) error {
	l.logger.Info("test started", l.nameAttr(v)...)
	return nil
}

func (l *SlogListener) EndTest(v *Combined) error {
	l.logger.Info("test ended", l.nameAttr(v)...)
	return nil
}

func (l *SlogListener) LogMessage(m *model.Message) error {
	l.logger.Info("log message", "level", m.Level.String(), "text", m.Text)
	return nil
}

func (l *SlogListener) Message(m *model.Message) error {
	l.logger.Info("message", "level", m.Level.String(), "text", m.Text)
	return nil
}

func (l *SlogListener) Close() error {
	l.logger.Debug("listener closed", "listener", l.Name())
	return nil
}

func (l *SlogListener) nameAttr(v *Combined) []any {
	if name, ok := v.Attr("Name"); ok {
		return []any{"name", name}
	}
	return nil
}
