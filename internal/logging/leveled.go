package logging

import (
	"fmt"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

// retryLogger implements the retryablehttp.LeveledLogger interface.
type retryLogger struct {
	zl zerolog.Logger
}

// Leveled adapts zl for retryablehttp. Per-attempt debug chatter is kept at
// debug level so it stays out of info logs.
func Leveled(zl zerolog.Logger) retryablehttp.LeveledLogger {
	return retryLogger{zl: zl.With().Str("component", "http").Logger()}
}

func (l retryLogger) Error(msg string, kv ...interface{}) { fields(l.zl.Error(), kv).Msg(msg) }
func (l retryLogger) Warn(msg string, kv ...interface{}) { fields(l.zl.Warn(), kv).Msg(msg) }
func (l retryLogger) Info(msg string, kv ...interface{}) { fields(l.zl.Debug(), kv).Msg(msg) }
func (l retryLogger) Debug(msg string, kv ...interface{}) { fields(l.zl.Debug(), kv).Msg(msg) }

func fields(ev *zerolog.Event, kv []interface{}) *zerolog.Event {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		if err, ok := kv[i+1].(error); ok {
			ev = ev.AnErr(key, err)
			continue
		}
		ev = ev.Interface(key, kv[i+1])
	}
	if len(kv)%2 == 1 {
		ev = ev.Interface("extra", kv[len(kv)-1])
	}
	return ev
}
