package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Kesomannen/gale/internal/backend"
	"github.com/Kesomannen/gale/internal/toast"
	"github.com/Kesomannen/gale/pkg/logger"
)

type fakeTransport struct {
	mu       sync.Mutex
	calls    []string
	notified []map[string]any
	result   json.RawMessage
	err      error

	notifyErr error
}

func (f *fakeTransport) Call(ctx context.Context, command string, args map[string]any) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, command)
	return f.result, f.err
}

func (f *fakeTransport) Notify(command string, args map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if command == backend.CmdLogErr {
		f.notified = append(f.notified, args)
	}
	return f.notifyErr
}

func (f *fakeTransport) logged() []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]map[string]any, len(f.notified))
	copy(out, f.notified)
	return out
}

func newTestBridge(transport *fakeTransport) (*Bridge, *toast.Buffer) {
	toasts := toast.NewBuffer(toast.Options{
		ErrorDuration: time.Minute,
		InfoDuration:  time.Minute,
	})
	return &Bridge{transport: transport, toasts: toasts}, toasts
}

func TestInvokeShapesCommandFailure(t *testing.T) {
	transport := &fakeTransport{err: &backend.CommandError{Command: "install_mod", Raw: "file not found"}}
	b, toasts := newTestBridge(transport)

	err := b.Invoke(context.Background(), "install_mod", nil, nil)
	require.Error(t, err)
	// The original error is re-thrown so the call site can still recover.
	var cmdErr *backend.CommandError
	require.ErrorAs(t, err, &cmdErr)
	require.Equal(t, "file not found", cmdErr.Raw)

	got := toasts.Snapshot()
	require.Len(t, got, 1)
	require.Equal(t, toast.TypeError, got[0].Type)
	require.Equal(t, "Failed to install mod", got[0].Name)
	require.Equal(t, "File not found.", got[0].Message)

	logged := transport.logged()
	require.Len(t, logged, 1)
	require.Equal(t, "Failed to install mod: File not found.", logged[0]["msg"])
}

func TestInvokeCorrelatesFailureWithIssuance(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.SetLevel(logger.LevelDebug)
	t.Cleanup(func() {
		logger.SetOutput(os.Stderr)
		logger.SetLevel(logger.LevelInfo)
	})

	transport := &fakeTransport{err: errors.New("file not found")}
	b, _ := newTestBridge(transport)

	require.Error(t, b.Invoke(context.Background(), "install_mod", nil, nil))

	// The issuance debug line and the error line carry the same id, so a
	// failed command can be traced back to its call.
	re := regexp.MustCompile(`corr=([0-9a-f]{8})`)
	ids := re.FindAllStringSubmatch(buf.String(), -1)
	require.Len(t, ids, 2)
	require.Equal(t, ids[0][1], ids[1][1])
	require.Contains(t, buf.String(), "invoke install_mod corr="+ids[0][1])
	require.Contains(t, buf.String(), "Failed to install mod: File not found. corr="+ids[0][1])
}

func TestInvokeKeepsExistingTerminalPunctuation(t *testing.T) {
	for _, raw := range []string{"is the file missing?", "out of disk space!", "already ended."} {
		transport := &fakeTransport{err: errors.New(raw)}
		b, toasts := newTestBridge(transport)

		require.Error(t, b.Invoke(context.Background(), "install_mod", nil, nil))

		got := toasts.Snapshot()
		require.Len(t, got, 1)
		msg := got[0].Message
		require.Equal(t, msg[1:], raw[1:], "only the first character may change")
		last := msg[len(msg)-1]
		require.Contains(t, []byte{'.', '?', '!'}, last)
	}
}

func TestInvokeUppercasesFirstCharacter(t *testing.T) {
	transport := &fakeTransport{err: errors.New("lowercase start")}
	b, toasts := newTestBridge(transport)

	require.Error(t, b.Invoke(context.Background(), "launch_game", nil, nil))

	got := toasts.Snapshot()
	require.Len(t, got, 1)
	require.Equal(t, "Lowercase start.", got[0].Message)
	require.Equal(t, "Failed to launch game", got[0].Name)
}

func TestInvokeLoggingFailureDoesNotMaskError(t *testing.T) {
	original := errors.New("boom")
	transport := &fakeTransport{err: original, notifyErr: errors.New("log sink gone")}
	b, toasts := newTestBridge(transport)

	err := b.Invoke(context.Background(), "install_mod", nil, nil)
	require.ErrorIs(t, err, original)
	require.Equal(t, 1, toasts.Len())
}

func TestInvokeDecodesResult(t *testing.T) {
	transport := &fakeTransport{result: json.RawMessage(`{"slug":"lethal-company","name":"Lethal Company"}`)}
	b, toasts := newTestBridge(transport)

	var out struct {
		Slug string `json:"slug"`
		Name string `json:"name"`
	}
	require.NoError(t, b.Invoke(context.Background(), "get_game_info", nil, &out))
	require.Equal(t, "lethal-company", out.Slug)
	require.Equal(t, 0, toasts.Len())
}

func TestInvokeNilOutSkipsDecoding(t *testing.T) {
	transport := &fakeTransport{result: json.RawMessage(`"ignored"`)}
	b, _ := newTestBridge(transport)
	require.NoError(t, b.Invoke(context.Background(), "set_active_game", map[string]any{"slug": "riskofrain2"}, nil))
}

func TestSentenceCase(t *testing.T) {
	cases := map[string]string{
		"install_mod":   "Install mod",
		"installMod":    "Install mod",
		"get_game_info": "Get game info",
		"login":         "Login",
		"set-active":    "Set active",
	}
	for in, want := range cases {
		require.Equal(t, want, sentenceCase(in), "input %q", in)
	}
}

func TestNormalizeMessage(t *testing.T) {
	cases := map[string]string{
		"":                "Unknown error.",
		"file not found":  "File not found.",
		"File not found.": "File not found.",
		"what?":           "What?",
		"no!":             "No!",
	}
	for in, want := range cases {
		require.Equal(t, want, normalizeMessage(in), "input %q", in)
	}
}
