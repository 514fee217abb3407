package progress

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/iris/errors"
)

func init() {
	pterm.DisableColor()
}

func TestCLIEmitter_Quiet(t *testing.T) {
	var buf bytes.Buffer
	e := NewCLIEmitter(&buf, 0)

	e.EmitStage("load", "reading dataset")
	e.EmitProgress(150, map[string]interface{}{"type": "samples"})
	e.EmitInfo("hello")
	e.EmitComplete(map[string]interface{}{"accuracy": 0.97})
	assert.Empty(t, buf.String(), "progress needs -v")

	e.EmitError("fit", errors.New("k too large"))
	assert.Contains(t, buf.String(), "Error in fit: k too large")
}

func TestCLIEmitter_Verbose(t *testing.T) {
	var buf bytes.Buffer
	e := NewCLIEmitter(&buf, 1)

	e.EmitStage("load", "reading dataset")
	e.EmitProgress(150, map[string]interface{}{"type": "samples"})
	e.EmitProgress(3, nil)
	e.EmitInfo("hello")
	e.EmitComplete(map[string]interface{}{"accuracy": 0.97})

	out := buf.String()
	assert.Contains(t, out, "load: reading dataset")
	assert.Contains(t, out, "Processed 150 samples")
	assert.Contains(t, out, "Processed 3 items")
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "Run complete")
	assert.NotContains(t, out, "accuracy: 0.97", "summary needs -vv")
}

func TestCLIEmitter_Summary(t *testing.T) {
	var buf bytes.Buffer
	e := NewCLIEmitter(&buf, 2)

	e.EmitComplete(map[string]interface{}{"accuracy": 0.97, "k": 5})
	out := buf.String()
	assert.Contains(t, out, "accuracy: 0.97")
	assert.Contains(t, out, "k: 5")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("accuracy")), bytes.Index(buf.Bytes(), []byte("k: 5")), "keys sorted")
}

func TestJSONEmitter(t *testing.T) {
	var buf bytes.Buffer
	e := NewJSONEmitter(&buf)

	e.EmitStage("split", "stratified 80/20")
	e.EmitProgress(120, map[string]interface{}{"type": "train"})
	e.EmitInfo("note")
	e.EmitError("fit", errors.New("bad k"))
	e.EmitComplete(map[string]interface{}{"accuracy": 1.0})

	var events []Event
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var ev Event
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &ev))
		events = append(events, ev)
	}
	require.Len(t, events, 5)

	assert.Equal(t, "stage", events[0].Type)
	assert.Equal(t, "split", events[0].Data["stage"])
	assert.Equal(t, "progress", events[1].Type)
	assert.Equal(t, float64(120), events[1].Data["count"])
	assert.Equal(t, "train", events[1].Data["type"])
	assert.Equal(t, "info", events[2].Type)
	assert.Equal(t, "error", events[3].Type)
	assert.Equal(t, "bad k", events[3].Data["error"])
	assert.Equal(t, "complete", events[4].Type)
	assert.False(t, events[4].Timestamp.IsZero())
}

func TestNop(t *testing.T) {
	e := Nop()
	assert.NotPanics(t, func() {
		e.EmitStage("a", "b")
		e.EmitProgress(1, nil)
		e.EmitComplete(nil)
		e.EmitError("a", errors.New("x"))
		e.EmitInfo("x")
	})
}
