package output_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miaopass-future/robotframework/internal/output"
	"github.com/miaopass-future/robotframework/internal/result"
	"github.com/miaopass-future/robotframework/internal/running"
	"github.com/miaopass-future/robotframework/pkg/listener"
	"github.com/miaopass-future/robotframework/pkg/model"
)

func newRouter(t *testing.T, refs ...any) *output.LibraryListeners {
	t.Helper()
	imp := output.NewImporter(newTestRegistry())
	router := output.NewLibraryListeners(model.LevelInfo, imp)
	if len(refs) > 0 {
		require.NoError(t, router.Register(refs, "TestLib"))
	}
	return router
}

func TestLibraryListeners_StartSuiteOverrides(t *testing.T) {
	var seen *listener.Combined
	capture := &captureListener{onView: func(v *listener.Combined) { seen = v }}
	router := newRouter(t, capture)

	data := &running.TestSuite{
		Name:  "Root",
		Tests: []*running.TestCase{{Name: "t1"}},
		Suites: []*running.TestSuite{
			{Name: "Child", Tests: []*running.TestCase{{Name: "t2"}}},
		},
	}
	router.StartSuite(data, &result.TestSuite{Name: "Root"})

	require.NotNil(t, seen)
	count, ok := seen.Attr("TestCount")
	require.True(t, ok)
	assert.Equal(t, 2, count, "test count always reads from the static model")

	tests, ok := seen.Attr("Tests")
	require.True(t, ok)
	assert.Equal(t, data.Tests, tests, "tests collection pinned to the static model")
}

func TestLibraryListeners_ControlRootsFiltered(t *testing.T) {
	lst := newRecordingListener(2)
	router := newRouter(t, lst)

	router.StartBodyItem(&running.BodyItem{Type: running.IfElseRootType}, &result.BodyItem{})
	router.EndBodyItem(&running.BodyItem{Type: running.TryExceptRootType}, &result.BodyItem{})
	assert.Empty(t, lst.calls, "control-flow containers never reach listeners")

	router.StartBodyItem(running.NewKeyword("Log", "hi"), &result.BodyItem{})
	router.EndBodyItem(running.NewKeyword("Log", "hi"), &result.BodyItem{})
	assert.Equal(t, []string{"start_keyword", "end_keyword"}, lst.calls)
}

func TestLibraryListeners_ForLoopReachesListeners(t *testing.T) {
	lst := newRecordingListener(2)
	router := newRouter(t, lst)

	router.StartBodyItem(&running.BodyItem{Type: running.ForType}, &result.BodyItem{})
	assert.Equal(t, []string{"start_keyword"}, lst.calls)
}

func TestLibraryListeners_LogMessageLevelGate(t *testing.T) {
	lst := newRecordingListener(2)
	imp := output.NewImporter(newTestRegistry())
	router := output.NewLibraryListeners(model.LevelWarn, imp)
	require.NoError(t, router.Register([]any{lst}, "TestLib"))

	router.LogMessage(model.NewMessage("info", model.LevelInfo))
	assert.Empty(t, lst.calls, "INFO is below the WARN threshold")

	router.LogMessage(model.NewMessage("error", model.LevelError))
	assert.Equal(t, []string{"log_message"}, lst.calls)

	require.NoError(t, router.SetLogLevel("INFO"))
	router.LogMessage(model.NewMessage("info again", model.LevelInfo))
	assert.Equal(t, []string{"log_message", "log_message"}, lst.calls,
		"threshold change applies to subsequent events")
}

func TestLibraryListeners_SetLogLevel_Invalid(t *testing.T) {
	router := newRouter(t)
	require.Error(t, router.SetLogLevel("SHOUTY"))
}

func TestLibraryListeners_MessageIgnoresLevel(t *testing.T) {
	lst := newRecordingListener(2)
	imp := output.NewImporter(newTestRegistry())
	router := output.NewLibraryListeners(model.LevelNone, imp)
	require.NoError(t, router.Register([]any{lst}, "TestLib"))

	router.Message(model.NewMessage("trace detail", model.LevelTrace))
	assert.Equal(t, []string{"message"}, lst.calls, "generic messages bypass the level filter")
}

func TestLibraryListeners_SuiteAndTestEventsNotFiltered(t *testing.T) {
	lst := newRecordingListener(2)
	imp := output.NewImporter(newTestRegistry())
	router := output.NewLibraryListeners(model.LevelNone, imp)
	require.NoError(t, router.Register([]any{lst}, "TestLib"))

	router.StartSuite(&running.TestSuite{}, &result.TestSuite{})
	router.StartTest(&running.TestCase{}, &result.TestCase{})
	router.EndTest(&running.TestCase{}, &result.TestCase{})
	router.EndSuite(&running.TestSuite{}, &result.TestSuite{})

	assert.Equal(t, []string{"start_suite", "start_test", "end_test", "end_suite"}, lst.calls)
}

func TestLibraryListeners_RegisterFailFast(t *testing.T) {
	lst := newRecordingListener(2)
	router := newRouter(t)

	err := router.Register([]any{lst, "NoSuchListener"}, "TestLib")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NoSuchListener")

	router.LogMessage(model.NewMessage("hi", model.LevelInfo))
	assert.Empty(t, lst.calls, "no partial binding after a failed attach")
}

func TestLibraryListeners_UnregisterWithClose(t *testing.T) {
	a := newRecordingListener(2)
	b := newRecordingListener(2)
	b.fail["close"] = errors.New("close failed")
	c := newRecordingListener(2)
	router := newRouter(t)
	require.NoError(t, router.Register([]any{a, b, c}, "LibA"))

	other := newRecordingListener(2)
	require.NoError(t, router.Register([]any{other}, "LibB"))

	router.Unregister("LibA", true)

	assert.Equal(t, []string{"close"}, a.calls)
	assert.Equal(t, []string{"close"}, b.calls)
	assert.Equal(t, []string{"close"}, c.calls, "a failing close never blocks later closes")
	assert.Empty(t, other.calls, "close is scoped to the unregistered library")

	router.LogMessage(model.NewMessage("hi", model.LevelInfo))
	assert.NotContains(t, a.calls, "log_message")
	assert.Equal(t, []string{"log_message"}, other.calls)
}

func TestLibraryListeners_UnregisterWithoutClose(t *testing.T) {
	a := newRecordingListener(2)
	router := newRouter(t)
	require.NoError(t, router.Register([]any{a}, "LibA"))

	router.Unregister("LibA", false)
	assert.Empty(t, a.calls)
}

func TestLibraryListeners_SuiteScopeLifetime(t *testing.T) {
	router := newRouter(t)

	router.NewSuiteScope()
	scoped := newRecordingListener(2)
	require.NoError(t, router.Register([]any{scoped}, "ScopedLib"))
	router.DiscardSuiteScope()

	router.LogMessage(model.NewMessage("hi", model.LevelInfo))
	router.StartSuite(&running.TestSuite{}, &result.TestSuite{})
	assert.Empty(t, scoped.calls, "scoped listener receives nothing after its scope is discarded")
}

func TestLibraryListeners_ClosedListenerStaysGone(t *testing.T) {
	lst := newRecordingListener(2)
	router := newRouter(t)
	require.NoError(t, router.Register([]any{lst}, "LibA"))

	router.NewSuiteScope()
	router.Unregister("LibA", true)
	router.DiscardSuiteScope()

	router.LogMessage(model.NewMessage("hi", model.LevelInfo))
	router.StartSuite(&running.TestSuite{}, &result.TestSuite{})

	assert.Equal(t, []string{"close"}, lst.calls,
		"a closed listener receives nothing after its scope is discarded")
}

func TestLibraryListeners_ImportNotificationsV2Only(t *testing.T) {
	v2 := &importRecorder{version: 2}
	v3 := &importRecorder{version: 3}
	router := newRouter(t, v2, v3)

	router.LibraryImport(&listener.Import{Name: "Collections", Source: "builtin"})
	router.ResourceImport(&listener.Import{Name: "common.resource"})
	router.VariablesImport(&listener.Import{Name: "vars.py"})

	assert.Equal(t, []string{"Collections", "common.resource", "vars.py"}, v2.imports)
	assert.Empty(t, v3.imports, "import hooks are absent from the v3 contract")
}

// importRecorder implements only import hooks.
type importRecorder struct {
	version int
	imports []string
}

func (r *importRecorder) ListenerAPIVersion() any { return r.version }

func (r *importRecorder) LibraryImport(imp *listener.Import) error {
	r.imports = append(r.imports, imp.Name)
	return nil
}

func (r *importRecorder) ResourceImport(imp *listener.Import) error {
	r.imports = append(r.imports, imp.Name)
	return nil
}

func (r *importRecorder) VariablesImport(imp *listener.Import) error {
	r.imports = append(r.imports, imp.Name)
	return nil
}

// captureListener captures combined views from suite-level hooks.
type captureListener struct {
	onView func(*listener.Combined)
}

func (c *captureListener) ListenerAPIVersion() any { return 3 }

func (c *captureListener) StartSuite(v *listener.Combined) error {
	c.onView(v)
	return nil
}
