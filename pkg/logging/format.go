package logging

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Format represents the log output format
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// record is one log entry before encoding
type record struct {
	time   time.Time
	level  Level
	msg    string
	err    error
	fields Fields
}

func (r record) encodeJSON() ([]byte, error) {
	entry := make(map[string]interface{}, len(r.fields)+4)
	for k, v := range r.fields {
		entry[k] = v
	}
	entry["timestamp"] = r.time.UTC().Format(time.RFC3339)
	entry["level"] = r.level.String()
	entry["message"] = r.msg
	if r.err != nil {
		entry["error"] = r.err.Error()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// text renders "timestamp [LEVEL] message key=value ..." with keys sorted.
// paint colours the level when not nil.
func (r record) encodeText(paint func(Level, string) string) []byte {
	var b strings.Builder
	level := r.level.String()
	if paint != nil {
		level = paint(r.level, level)
	}
	fmt.Fprintf(&b, "%s [%s] %s", r.time.UTC().Format("2006-01-02T15:04:05.000Z"), level, r.msg)
	if r.err != nil {
		fmt.Fprintf(&b, " error=%q", r.err.Error())
	}

	keys := make([]string, 0, len(r.fields))
	for k := range r.fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, r.fields[k])
	}
	b.WriteByte('\n')
	return []byte(b.String())
}

var levelColors = map[Level]*color.Color{
	DebugLevel: color.New(color.FgHiBlack),
	InfoLevel:  color.New(color.FgCyan),
	WarnLevel:  color.New(color.FgYellow),
	ErrorLevel: color.New(color.FgRed, color.Bold),
}

func colorLevel(level Level, s string) string {
	if c, ok := levelColors[level]; ok {
		return c.Sprint(s)
	}
	return s
}
