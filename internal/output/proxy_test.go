package output_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miaopass-future/robotframework/internal/output"
	"github.com/miaopass-future/robotframework/pkg/errutil"
	"github.com/miaopass-future/robotframework/pkg/listener"
	"github.com/miaopass-future/robotframework/pkg/model"
)

// recordingListener records every hook invocation. The declared version is
// configurable so the same fixture covers both contracts.
type recordingListener struct {
	version any
	calls   []string
	fail    map[string]error
	panics  map[string]bool
}

func newRecordingListener(version any) *recordingListener {
	return &recordingListener{
		version: version,
		fail:    make(map[string]error),
		panics:  make(map[string]bool),
	}
}

func (r *recordingListener) ListenerAPIVersion() any { return r.version }

func (r *recordingListener) record(method string) error {
	r.calls = append(r.calls, method)
	if r.panics[method] {
		panic("listener exploded")
	}
	return r.fail[method]
}

func (r *recordingListener) StartSuite(*listener.Combined) error   { return r.record("start_suite") }
func (r *recordingListener) EndSuite(*listener.Combined) error     { return r.record("end_suite") }
func (r *recordingListener) StartTest(*listener.Combined) error    { return r.record("start_test") }
func (r *recordingListener) EndTest(*listener.Combined) error      { return r.record("end_test") }
func (r *recordingListener) StartKeyword(*listener.Combined) error { return r.record("start_keyword") }
func (r *recordingListener) EndKeyword(*listener.Combined) error   { return r.record("end_keyword") }
func (r *recordingListener) LogMessage(*model.Message) error       { return r.record("log_message") }
func (r *recordingListener) Message(*model.Message) error          { return r.record("message") }
func (r *recordingListener) Close() error                          { return r.record("close") }

// versionOnly declares a version and nothing else.
type versionOnly struct{ version any }

func (v *versionOnly) ListenerAPIVersion() any { return v.version }

// markerless implements hooks but no version marker.
type markerless struct{}

func (m *markerless) StartSuite(*listener.Combined) error { return nil }

func TestNewListenerProxy_MissingVersion(t *testing.T) {
	_, err := output.NewListenerProxy(&markerless{}, "markerless")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "LISTENER_VERSION_MISSING")
	assert.Contains(t, err.Error(), "markerless")
}

func TestNewListenerProxy_NilVersion(t *testing.T) {
	_, err := output.NewListenerProxy(&versionOnly{version: nil}, "nilversion")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "LISTENER_VERSION_MISSING")
}

func TestNewListenerProxy_InvalidVersion(t *testing.T) {
	tests := []struct {
		name    string
		version any
	}{
		{"unsupported int", 4},
		{"version one", 1},
		{"non-numeric string", "latest"},
		{"fractional", 2.5},
		{"bool", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := output.NewListenerProxy(&versionOnly{version: tt.version}, "bad")
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, "LISTENER_VERSION_INVALID")
			assert.Contains(t, err.Error(), "bad")
		})
	}
}

func TestNewListenerProxy_CoercesVersions(t *testing.T) {
	for _, version := range []any{2, 3, int64(2), "3", 2.0, uint(3)} {
		proxy, err := output.NewListenerProxy(&versionOnly{version: version}, "ok")
		require.NoError(t, err, "version %v (%T)", version, version)
		assert.Contains(t, []int{2, 3}, proxy.Version())
	}
}

func TestListenerProxy_V2KeepsKeywordHooks(t *testing.T) {
	lst := newRecordingListener(2)
	proxy, err := output.NewListenerProxy(lst, "v2")
	require.NoError(t, err)

	assert.True(t, proxy.Has(listener.KindStartKeyword))
	require.NoError(t, proxy.Call(listener.KindStartKeyword, listener.NewCombined(nil, nil, nil)))
	assert.Equal(t, []string{"start_keyword"}, lst.calls)
}

func TestListenerProxy_V3DropsKeywordHooks(t *testing.T) {
	lst := newRecordingListener(3)
	proxy, err := output.NewListenerProxy(lst, "v3")
	require.NoError(t, err)

	assert.False(t, proxy.Has(listener.KindStartKeyword))
	assert.False(t, proxy.Has(listener.KindEndKeyword))

	// Calling an absent hook is a no-op, never a call into the listener.
	require.NoError(t, proxy.Call(listener.KindStartKeyword, listener.NewCombined(nil, nil, nil)))
	assert.Empty(t, lst.calls)

	// Hooks shared by both versions stay callable.
	assert.True(t, proxy.Has(listener.KindStartSuite))
	assert.True(t, proxy.Has(listener.KindLogMessage))
	assert.True(t, proxy.Has(listener.KindClose))
}

func TestListenerProxy_AbsentHook(t *testing.T) {
	proxy, err := output.NewListenerProxy(&versionOnly{version: 2}, "empty")
	require.NoError(t, err)

	for _, kind := range listener.Kinds() {
		assert.False(t, proxy.Has(kind), "kind %s", kind)
		assert.NoError(t, proxy.Call(kind, nil))
	}
}

func TestListenerProxy_PanicBecomesError(t *testing.T) {
	lst := newRecordingListener(2)
	lst.panics["start_suite"] = true
	proxy, err := output.NewListenerProxy(lst, "panicky")
	require.NoError(t, err)

	err = proxy.Call(listener.KindStartSuite, listener.NewCombined(nil, nil, nil))
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "LISTENER_PANIC")
	assert.Contains(t, err.Error(), "panicky")
}

func TestListenerProxy_HookErrorReturned(t *testing.T) {
	lst := newRecordingListener(2)
	lst.fail["log_message"] = errors.New("disk full")
	proxy, err := output.NewListenerProxy(lst, "failing")
	require.NoError(t, err)

	err = proxy.Call(listener.KindLogMessage, model.NewMessage("hi", model.LevelInfo))
	require.ErrorContains(t, err, "disk full")
}

// dynamicListener is a Dynamic contract fixture.
type dynamicListener struct {
	version any
	hooks   map[listener.Kind]bool
	calls   []listener.Kind
}

func (d *dynamicListener) ListenerAPIVersion() any { return d.version }

func (d *dynamicListener) Has(kind listener.Kind) bool { return d.hooks[kind] }

func (d *dynamicListener) Call(kind listener.Kind, _ any) error {
	d.calls = append(d.calls, kind)
	return nil
}

func TestListenerProxy_DynamicHooks(t *testing.T) {
	dyn := &dynamicListener{
		version: 2,
		hooks: map[listener.Kind]bool{
			listener.KindStartSuite:   true,
			listener.KindStartKeyword: true,
		},
	}
	proxy, err := output.NewListenerProxy(dyn, "script")
	require.NoError(t, err)

	assert.True(t, proxy.Has(listener.KindStartSuite))
	assert.True(t, proxy.Has(listener.KindStartKeyword))
	assert.False(t, proxy.Has(listener.KindEndSuite))

	require.NoError(t, proxy.Call(listener.KindStartSuite, nil))
	assert.Equal(t, []listener.Kind{listener.KindStartSuite}, dyn.calls)
}

func TestListenerProxy_DynamicV3DropsKeywordHooks(t *testing.T) {
	dyn := &dynamicListener{
		version: 3,
		hooks: map[listener.Kind]bool{
			listener.KindStartKeyword: true,
			listener.KindLogMessage:   true,
		},
	}
	proxy, err := output.NewListenerProxy(dyn, "script")
	require.NoError(t, err)

	assert.False(t, proxy.Has(listener.KindStartKeyword))
	assert.True(t, proxy.Has(listener.KindLogMessage))
}
