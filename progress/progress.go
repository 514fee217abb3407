// Package progress reports pipeline stages to the terminal or as JSON events.
package progress

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/pterm/pterm"

	"github.com/teranos/iris/logger"
)

// Emitter receives progress updates from the pipeline.
//
// Implementations:
//   - CLIEmitter: pterm output for terminals
//   - JSONEmitter: one JSON event per line
//   - Nop: discards everything
type Emitter interface {
	// EmitStage announces the start of a stage
	EmitStage(stage string, message string)

	// EmitProgress reports a count with optional metadata ("type" names the items)
	EmitProgress(count int, metadata map[string]interface{})

	// EmitComplete announces successful completion with a summary
	EmitComplete(summary map[string]interface{})

	// EmitError announces a failed stage
	EmitError(stage string, err error)

	// EmitInfo emits a general informational message
	EmitInfo(message string)
}

// Event is a structured JSON progress event
type Event struct {
	Type      string                 `json:"type"` // "stage", "progress", "complete", "error", "info"
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// CLIEmitter prints progress with pterm. Stages and counts need -v; errors
// always print.
type CLIEmitter struct {
	w         io.Writer
	verbosity int
}

// NewCLIEmitter creates a terminal emitter writing to w
func NewCLIEmitter(w io.Writer, verbosity int) *CLIEmitter {
	return &CLIEmitter{w: w, verbosity: verbosity}
}

func (e *CLIEmitter) enabled() bool {
	return logger.ShouldOutput(e.verbosity, logger.OutputProgress)
}

// EmitStage prints a stage announcement
func (e *CLIEmitter) EmitStage(stage string, message string) {
	if !e.enabled() {
		return
	}
	pterm.Fprintln(e.w, fmt.Sprintf("→ %s: %s", pterm.LightCyan(stage), message))
}

// EmitProgress prints a processed-items count
func (e *CLIEmitter) EmitProgress(count int, metadata map[string]interface{}) {
	if !e.enabled() {
		return
	}
	itemType, ok := metadata["type"].(string)
	if !ok {
		itemType = "items"
	}
	pterm.Fprintln(e.w, fmt.Sprintf("✓ Processed %s %s", pterm.Green(count), itemType))
}

// EmitComplete prints a completion line, and the summary at -vv
func (e *CLIEmitter) EmitComplete(summary map[string]interface{}) {
	if !e.enabled() {
		return
	}
	pterm.Success.WithWriter(e.w).Println("Run complete")
	if logger.ShouldOutput(e.verbosity, logger.OutputSummary) {
		for _, key := range slices.Sorted(maps.Keys(summary)) {
			pterm.Fprintln(e.w, fmt.Sprintf("  %s: %v", key, summary[key]))
		}
	}
}

// EmitError prints an error
func (e *CLIEmitter) EmitError(stage string, err error) {
	if !logger.ShouldOutput(e.verbosity, logger.OutputErrors) {
		return
	}
	pterm.Error.WithWriter(e.w).Printfln("Error in %s: %v", stage, err)
}

// EmitInfo prints an informational message
func (e *CLIEmitter) EmitInfo(message string) {
	if !e.enabled() {
		return
	}
	pterm.Info.WithWriter(e.w).Println(message)
}

// JSONEmitter writes one Event per line
type JSONEmitter struct {
	encoder *json.Encoder
}

// NewJSONEmitter creates a JSON emitter writing to w
func NewJSONEmitter(w io.Writer) *JSONEmitter {
	return &JSONEmitter{encoder: json.NewEncoder(w)}
}

func (e *JSONEmitter) emit(eventType string, data map[string]interface{}) {
	event := Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
	if err := e.encoder.Encode(event); err != nil {
		logger.Logger.Debugw("Failed to encode progress event", logger.FieldError, err)
	}
}

// EmitStage emits a stage event
func (e *JSONEmitter) EmitStage(stage string, message string) {
	e.emit("stage", map[string]interface{}{
		"stage":   stage,
		"message": message,
	})
}

// EmitProgress emits a progress event; metadata is merged into the data
func (e *JSONEmitter) EmitProgress(count int, metadata map[string]interface{}) {
	data := map[string]interface{}{"count": count}
	maps.Copy(data, metadata)
	e.emit("progress", data)
}

// EmitComplete emits a completion event
func (e *JSONEmitter) EmitComplete(summary map[string]interface{}) {
	e.emit("complete", summary)
}

// EmitError emits an error event
func (e *JSONEmitter) EmitError(stage string, err error) {
	e.emit("error", map[string]interface{}{
		"stage": stage,
		"error": err.Error(),
	})
}

// EmitInfo emits an info event
func (e *JSONEmitter) EmitInfo(message string) {
	e.emit("info", map[string]interface{}{"message": message})
}

type nopEmitter struct{}

func (nopEmitter) EmitStage(string, string)                {}
func (nopEmitter) EmitProgress(int, map[string]interface{}) {}
func (nopEmitter) EmitComplete(map[string]interface{})      {}
func (nopEmitter) EmitError(string, error)                  {}
func (nopEmitter) EmitInfo(string)                          {}

// Nop returns an emitter that discards everything
func Nop() Emitter {
	return nopEmitter{}
}
