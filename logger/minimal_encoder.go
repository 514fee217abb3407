package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// palette holds the ANSI colors for one theme
type palette struct {
	time      string
	component string
	message   string
	key       string
	number    string
	warn      string
	warnBg    string
	err       string
	errBg     string
}

// Everforest Dark: natural forest greens
var everforest = palette{
	time:      "\x1b[38;5;107m",
	component: "\x1b[38;5;108m",
	message:   "\x1b[38;5;223m",
	key:       "\x1b[38;5;65m",
	number:    "\x1b[38;5;108m",
	warn:      "\x1b[38;5;179m",
	warnBg:    "\x1b[48;5;58m",
	err:       "\x1b[38;5;167m",
	errBg:     "\x1b[48;5;52m",
}

// Gruvbox Dark: warm, muted
var gruvbox = palette{
	time:      "\x1b[38;5;108m",
	component: "\x1b[38;5;208m",
	message:   "\x1b[38;5;223m",
	key:       "\x1b[38;5;109m",
	number:    "\x1b[38;5;175m",
	warn:      "\x1b[38;5;214m",
	warnBg:    "\x1b[48;5;58m",
	err:       "\x1b[38;5;167m",
	errBg:     "\x1b[48;5;88m",
}

var currentTheme = "everforest"

// SetTheme configures the color scheme for log output.
// "none" disables colors entirely.
func SetTheme(theme string) {
	switch theme {
	case "everforest", "gruvbox", "none":
		currentTheme = theme
	}
}

func colors() (palette, bool) {
	switch currentTheme {
	case "none":
		return palette{}, false
	case "gruvbox":
		return gruvbox, true
	default:
		return everforest, true
	}
}

func paint(color string, s string, enabled bool) string {
	if !enabled || color == "" {
		return s
	}
	return color + s + colorReset
}

// minimalEncoder implements a calm, compact console encoder with theme support
// Format: "13:04:35  pipeline  Stage complete  stage=fit duration_ms=0"
type minimalEncoder struct {
	zapcore.Encoder // Embed a base encoder for field serialization
	fields          []zapcore.Field
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{
		Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{
		Encoder: enc.Encoder.Clone(),
		fields:  append([]zapcore.Field(nil), enc.fields...),
	}
}

// AddString and friends are routed through With(); keep a copy of context
// fields so they are rendered as key=value like per-entry fields.
func (enc *minimalEncoder) AddString(key, value string) {
	enc.fields = append(enc.fields, zap.String(key, value))
}

func (enc *minimalEncoder) AddInt64(key string, value int64) {
	enc.fields = append(enc.fields, zap.Int64(key, value))
}

func (enc *minimalEncoder) AddFloat64(key string, value float64) {
	enc.fields = append(enc.fields, zap.Float64(key, value))
}

func (enc *minimalEncoder) AddBool(key string, value bool) {
	enc.fields = append(enc.fields, zap.Bool(key, value))
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	p, enabled := colors()
	final := buffer.NewPool().Get()

	final.AppendString(paint(p.time, ent.Time.Format("15:04:05"), enabled))

	// Level: only show for WARN/ERROR
	if ent.Level != zapcore.InfoLevel {
		final.AppendString("  ")
		final.AppendString(levelString(ent.Level, p, enabled))
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(paint(p.component, ent.LoggerName, enabled))
	}

	final.AppendString("  ")
	final.AppendString(paint(p.message, ent.Message, enabled))

	all := append(append([]zapcore.Field(nil), enc.fields...), fields...)
	if rendered := renderFields(all, p, enabled); rendered != "" {
		final.AppendString("  ")
		final.AppendString(rendered)
	}

	final.AppendString("\n")
	return final, nil
}

func levelString(level zapcore.Level, p palette, enabled bool) string {
	switch level {
	case zapcore.DebugLevel:
		return "DEBUG"
	case zapcore.WarnLevel:
		if !enabled {
			return "WARN"
		}
		return colorBold + p.warnBg + p.warn + "WARN" + colorReset
	default:
		if !enabled {
			return level.CapitalString()
		}
		return colorBold + p.errBg + p.err + level.CapitalString() + colorReset
	}
}

// renderFields writes every field as key=value. Nothing is dropped: fields
// are materialised through a MapObjectEncoder so all zap field types work.
func renderFields(fields []zapcore.Field, p palette, enabled bool) string {
	var parts []string
	for _, field := range fields {
		if field.Type == zapcore.SkipType {
			continue
		}
		m := zapcore.NewMapObjectEncoder()
		field.AddTo(m)
		value, ok := m.Fields[field.Key]
		if !ok {
			continue
		}
		parts = append(parts, paint(p.key, field.Key+"=", enabled)+paint(p.number, fmt.Sprintf("%v", value), enabled))
	}
	return strings.Join(parts, " ")
}
