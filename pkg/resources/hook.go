package resources

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/rs/zerolog"
	otelog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
)

var (
	_ zerolog.Hook = (*ZerologHook)(nil)
)

// ZerologHook forwards every zerolog event to the global OTel logger
// provider, so logs reach the collector while still being printed.
type ZerologHook struct {
	logger  otelog.Logger
	service []otelog.KeyValue
}

func NewZerologHook(serviceName string, serviceVersion string) *ZerologHook {
	return &ZerologHook{
		logger: global.GetLoggerProvider().Logger(serviceName),
		service: []otelog.KeyValue{
			otelog.String("service.name", serviceName),
			otelog.String("service.version", serviceVersion),
		},
	}
}

func (h *ZerologHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	fields := eventFields(e)

	var rec otelog.Record

	sev, sevText := severity(level)

	rec.SetTimestamp(timestampOf(fields))
	rec.SetObservedTimestamp(time.Now())
	rec.SetSeverity(sev)
	rec.SetSeverityText(sevText)
	rec.SetBody(otelog.StringValue(msg))
	rec.AddAttributes(h.service...)
	rec.AddAttributes(attributesOf(fields)...)

	h.logger.Emit(e.GetCtx(), rec)
}

func severity(level zerolog.Level) (otelog.Severity, string) {
	switch level {
	case zerolog.TraceLevel:
		return otelog.SeverityTrace, "TRACE"
	case zerolog.DebugLevel:
		return otelog.SeverityDebug, "DEBUG"
	case zerolog.WarnLevel:
		return otelog.SeverityWarn, "WARN"
	case zerolog.ErrorLevel:
		return otelog.SeverityError, "ERROR"
	case zerolog.FatalLevel:
		return otelog.SeverityFatal, "FATAL"
	case zerolog.PanicLevel:
		return otelog.SeverityFatal4, "FATAL"
	default:
		return otelog.SeverityInfo, "INFO"
	}
}

// eventFields decodes the fields already written to the event. zerolog does
// not expose its buffer, and hooks run before the closing brace is added.
func eventFields(e *zerolog.Event) map[string]any {
	if e == nil {
		return nil
	}

	buf := reflect.ValueOf(e).Elem().FieldByName("buf")
	if !buf.IsValid() || buf.Kind() != reflect.Slice || buf.Type().Elem().Kind() != reflect.Uint8 {
		return nil
	}

	b := append([]byte(nil), buf.Bytes()...)
	if len(b) == 0 {
		return nil
	}

	if b[len(b)-1] != '}' {
		b = append(b, '}')
	}

	var fields map[string]any

	err := json.Unmarshal(b, &fields)
	if err != nil {
		return nil
	}

	return fields
}

func attributesOf(fields map[string]any) []otelog.KeyValue {
	kvs := make([]otelog.KeyValue, 0, len(fields))

	for k, v := range fields {
		if k == zerolog.TimestampFieldName {
			continue
		}

		kvs = append(kvs, otelog.KeyValue{Key: k, Value: valueOf(v)})
	}

	return kvs
}

func valueOf(v any) otelog.Value {
	switch x := v.(type) {
	case string:
		return otelog.StringValue(x)
	case bool:
		return otelog.BoolValue(x)
	case float64:
		if x == float64(int64(x)) {
			return otelog.Int64Value(int64(x))
		}

		return otelog.Float64Value(x)
	case []any:
		values := make([]otelog.Value, len(x))
		for i, item := range x {
			values[i] = valueOf(item)
		}

		return otelog.SliceValue(values...)
	default:
		return otelog.StringValue(fmt.Sprintf("%v", x))
	}
}

func timestampOf(fields map[string]any) time.Time {
	s, ok := fields[zerolog.TimestampFieldName].(string)
	if !ok {
		return time.Now()
	}

	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		ts, err := time.Parse(layout, s)
		if err == nil {
			return ts
		}
	}

	return time.Now()
}
