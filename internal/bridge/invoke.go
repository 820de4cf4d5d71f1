package bridge

import (
	"context"
	"encoding/json"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/Kesomannen/gale/internal/backend"
	"github.com/Kesomannen/gale/internal/toast"
	"github.com/Kesomannen/gale/pkg/logger"
)

// Invoker issues named commands against the backend and decodes the typed
// reply into out (which may be nil for commands without a result).
//
// Implementations must surface failed commands to the user themselves;
// callers only get the error back for local recovery.
type Invoker interface {
	Invoke(ctx context.Context, command string, args map[string]any, out any) error
}

// transport is the subset of the backend client the bridge needs.
type transport interface {
	Call(ctx context.Context, command string, args map[string]any) (json.RawMessage, error)
	Notify(command string, args map[string]any) error
}

// Bridge is the invoke layer between domain code and the backend client.
//
// On failure it derives a user-facing error record from the command name
// and the backend's raw error string, pushes it to the toast buffer, logs
// it to the backend's own log sink, and returns the original error so the
// call site can still recover locally.
type Bridge struct {
	transport transport
	toasts    *toast.Buffer
}

// New creates a bridge over the given backend client.
func New(client *backend.Client, toasts *toast.Buffer) *Bridge {
	return &Bridge{transport: client, toasts: toasts}
}

// Invoke implements Invoker.
//
// Every call gets a correlation id; it is carried through the debug and
// error logs so a failed command can be matched back to its issuance line
// (the wire protocol itself carries no such id).
func (b *Bridge) Invoke(ctx context.Context, command string, args map[string]any, out any) error {
	corr := uuid.NewString()[:8]
	logger.Debugf("invoke %s corr=%s", command, corr)

	raw, err := b.transport.Call(ctx, command, args)
	if err != nil {
		b.surface(command, corr, err)
		return err
	}

	if out == nil || len(raw) == 0 {
		logger.Debugf("invoke %s corr=%s done", command, corr)
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		b.surface(command, corr, err)
		return err
	}
	logger.Debugf("invoke %s corr=%s done (%d bytes)", command, corr, len(raw))
	return nil
}

// surface turns a raw failure into a user-facing error record.
func (b *Bridge) surface(command, corr string, err error) {
	name := "Failed to " + strings.ToLower(sentenceCase(command))
	message := normalizeMessage(err.Error())

	b.toasts.PushError(name, message)
	logger.Errorf("%s: %s corr=%s", name, message, corr)

	// Fire and forget: a failure to log must not mask the original error.
	if logErr := b.transport.Notify(backend.CmdLogErr, map[string]any{
		"msg": name + ": " + message,
	}); logErr != nil {
		logger.Warnf("failed to forward error to backend log: %v", logErr)
	}
}

// sentenceCase turns a command identifier like "install_mod" or
// "installMod" into "Install mod".
func sentenceCase(s string) string {
	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, strings.ToLower(cur.String()))
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '_' || r == '-' || r == ' ':
			flush()
		case unicode.IsUpper(r):
			flush()
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	flush()

	joined := strings.Join(words, " ")
	return upperFirst(joined)
}

// normalizeMessage upper-cases the first character of a raw backend error
// string and makes sure it ends with terminal punctuation.
func normalizeMessage(raw string) string {
	if raw == "" {
		return "Unknown error."
	}
	msg := upperFirst(raw)
	switch msg[len(msg)-1] {
	case '.', '?', '!':
		return msg
	default:
		return msg + "."
	}
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// Invoke issues a command through inv and returns the decoded reply.
func Invoke[T any](ctx context.Context, inv Invoker, command string, args map[string]any) (T, error) {
	var out T
	err := inv.Invoke(ctx, command, args, &out)
	return out, err
}
