package logging

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestStdoutLoggerJSONLines(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWriterLogger("TestComponent", &buf)

	logger.Info("something happened", Field{Key: "count", Value: 3})

	var entry struct {
		Level     string         `json:"level"`
		Msg       string         `json:"msg"`
		Component string         `json:"component"`
		Fields    map[string]any `json:"fields"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not a JSON line: %q", buf.String())
	}
	if entry.Level != "info" || entry.Msg != "something happened" || entry.Component != "TestComponent" {
		t.Errorf("entry = %+v", entry)
	}
	if entry.Fields["count"] != float64(3) {
		t.Errorf("fields = %v", entry.Fields)
	}
}

func TestWithOverridesComponent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWriterLogger("Parent", &buf)
	child := logger.With(Field{Key: "component", Value: "Child"})

	child.Warn("watch out")

	var entry struct {
		Component string `json:"component"`
		Level     string `json:"level"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatal(err)
	}
	if entry.Component != "Child" || entry.Level != "warn" {
		t.Errorf("entry = %+v", entry)
	}
}
