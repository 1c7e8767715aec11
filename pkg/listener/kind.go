// SPDX-License-Identifier: Apache-2.0

// Package listener defines the contract external listeners implement to
// observe test execution: hook interfaces, the version marker, and the
// combined data/result view passed to hooks.
package listener

// Kind identifies one listener hook.
type Kind string

// Hook kinds recognized by the notification subsystem.
const (
	KindStartSuite      Kind = "start_suite"
	KindEndSuite        Kind = "end_suite"
	KindStartTest       Kind = "start_test"
	KindEndTest         Kind = "end_test"
	KindStartKeyword    Kind = "start_keyword"
	KindEndKeyword      Kind = "end_keyword"
	KindLogMessage      Kind = "log_message"
	KindMessage         Kind = "message"
	KindLibraryImport   Kind = "library_import"
	KindResourceImport  Kind = "resource_import"
	KindVariablesImport Kind = "variables_import"
	KindClose           Kind = "close"
)

// Kinds returns every hook kind in stable dispatch order.
func Kinds() []Kind {
	return []Kind{
		KindStartSuite, KindEndSuite,
		KindStartTest, KindEndTest,
		KindStartKeyword, KindEndKeyword,
		KindLogMessage, KindMessage,
		KindLibraryImport, KindResourceImport, KindVariablesImport,
		KindClose,
	}
}
