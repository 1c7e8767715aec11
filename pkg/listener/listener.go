// SPDX-License-Identifier: Apache-2.0

package listener

import (
	"github.com/miaopass-future/robotframework/pkg/model"
)

// Versioned is the mandatory marker every listener must expose. The value
// is read once at attachment time and must coerce to 2 or 3.
type Versioned interface {
	ListenerAPIVersion() any
}

// Named lets a listener override the display name otherwise derived from
// its runtime type.
type Named interface {
	Name() string
}

// Import describes one library, resource, or variable file import.
type Import struct {
	Name   string
	Source string
}

// Hook interfaces. A listener implements any subset of these; hooks it does
// not implement are simply never called. Keyword and import hooks are only
// honored for API version 2.

type SuiteStartHandler interface {
	StartSuite(v *Combined) error
}

type SuiteEndHandler interface {
	EndSuite(v *Combined) error
}

type TestStartHandler interface {
	StartTest(v *Combined) error
}

type TestEndHandler interface {
	EndTest(v *Combined) error
}

type KeywordStartHandler interface {
	StartKeyword(v *Combined) error
}

type KeywordEndHandler interface {
	EndKeyword(v *Combined) error
}

type LogMessageHandler interface {
	LogMessage(m *model.Message) error
}

type MessageHandler interface {
	Message(m *model.Message) error
}

type LibraryImportHandler interface {
	LibraryImport(imp *Import) error
}

type ResourceImportHandler interface {
	ResourceImport(imp *Import) error
}

type VariablesImportHandler interface {
	VariablesImport(imp *Import) error
}

type CloseHandler interface {
	Close() error
}

// Dynamic is the contract for listeners whose hook set is only known at
// load time, such as scripted listeners. Has must be stable for the
// listener's lifetime; a hook reported absent is never probed again.
type Dynamic interface {
	Versioned
	Has(kind Kind) bool
	Call(kind Kind, payload any) error
}
