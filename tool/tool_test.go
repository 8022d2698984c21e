package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maestro-agents/maestro/core"
	"github.com/maestro-agents/maestro/internal/util"
	"github.com/maestro-agents/maestro/logging"
)

// -------------------- Schema & Validation Tests --------------------

type sampleSchema struct {
	A string `json:"a" description:"Field A"`
	B *int   `json:"b" description:"Optional pointer field"`
	C int    `json:"c,omitempty" description:"Omit empty field"`
}

func TestCreateSchema(t *testing.T) {
	schema := util.CreateSchema(sampleSchema{})
	props, ok := schema["properties"].(map[string]any)
	assert.True(t, ok)
	// Properties present
	assert.Contains(t, props, "a")
	assert.Contains(t, props, "b")
	assert.Contains(t, props, "c")
	// Required only includes non-pointer, non-omitempty exported fields
	req, _ := schema["required"].([]string)
	assert.ElementsMatch(t, []string{"a"}, req)
}

func TestValidateParameters(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"x": map[string]any{"type": "integer"},
		},
		// Use []any to mirror possible JSON decoded schema shape
		"required": []any{"x"},
	}

	// Success
	err := util.ValidateParameters(map[string]any{"x": 5}, schema)
	assert.NoError(t, err)

	// Missing required
	err = util.ValidateParameters(map[string]any{}, schema)
	assert.Error(t, err)
	if vErr, ok := err.(*ValidationError); ok {
		assert.Equal(t, "x", vErr.Field)
	} else {
		t.Fatalf("expected ValidationError, got %T", err)
	}

	// Wrong type
	err = util.ValidateParameters(map[string]any{"x": "not-int"}, schema)
	assert.Error(t, err)
	if vErr, ok := err.(*ValidationError); ok {
		assert.Contains(t, vErr.Message, "expected type integer")
	} else {
		t.Fatalf("expected ValidationError, got %T", err)
	}
}

func TestValidateParameters_RequiredAsStringSlice(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"x": map[string]any{"type": "string"},
		},
		"required": []string{"x"},
	}

	err := util.ValidateParameters(map[string]any{}, schema)
	assert.Error(t, err)

	err = util.ValidateParameters(map[string]any{"x": "ok"}, schema)
	assert.NoError(t, err)
}

// -------------------- FunctionTool Tests --------------------

func dummyToolContext(callID string) *core.ToolContext {
	runCtx := core.NewRunContext(context.Background(), "thread-1", nil, logging.NoOpLogger{})
	return core.NewToolContext(runCtx, callID)
}

func TestFunctionTool_Success(t *testing.T) {
	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "number"},
			"b": map[string]any{"type": "number"},
		},
		"required": []string{"a", "b"},
	}

	sumTool := NewFunctionTool("sum", "Add numbers", params, func(_ *core.ToolContext, args map[string]any) (any, error) {
		a := args["a"].(float64)
		b := args["b"].(float64)
		return a + b, nil
	})

	tc := dummyToolContext("tc1")
	result, err := sumTool.Call(tc, map[string]any{"a": 2.0, "b": 3.0})
	assert.NoError(t, err)
	assert.Equal(t, 5.0, result)
}

func TestFunctionTool_ValidationError(t *testing.T) {
	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "number"},
		},
		"required": []any{"a"},
	}
	tTool := NewFunctionTool("test", "Test", params, func(_ *core.ToolContext, _ map[string]any) (any, error) {
		return 0, nil
	})
	tc := dummyToolContext("tc2")
	_, err := tTool.Call(tc, map[string]any{})
	assert.Error(t, err)
	toolErr, ok := err.(*ToolError)
	assert.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
}

func TestFunctionTool_ExecutionError(t *testing.T) {
	params := map[string]any{"type": "object", "properties": map[string]any{}}
	execTool := NewFunctionTool("fail", "Fails", params, func(_ *core.ToolContext, _ map[string]any) (any, error) {
		return nil, errors.New("boom")
	})
	tc := dummyToolContext("tc3")
	_, err := execTool.Call(tc, map[string]any{})
	assert.Error(t, err)
	toolErr, ok := err.(*ToolError)
	assert.True(t, ok)
	assert.Equal(t, "EXECUTION_ERROR", toolErr.Code)
}

func TestFunctionTool_CustomToolErrorForwarded(t *testing.T) {
	params := map[string]any{"type": "object", "properties": map[string]any{}}
	custom := NewToolError("custom", "rate limited", "RATE_LIMITED")
	customTool := NewFunctionTool("custom", "Custom failure", params, func(_ *core.ToolContext, _ map[string]any) (any, error) {
		return nil, custom
	})
	tc := dummyToolContext("tc4")
	_, err := customTool.Call(tc, map[string]any{})
	assert.Error(t, err)
	toolErr, ok := err.(*ToolError)
	assert.True(t, ok)
	assert.Equal(t, "RATE_LIMITED", toolErr.Code)
}

// -------------------- Handoff Tool Tests --------------------

func TestHandoffTool_RequestsTransfer(t *testing.T) {
	ht := NewHandoffTool("email_fetch_agent", "")
	assert.Equal(t, "transfer_to_email_fetch_agent", ht.Name())

	tc := dummyToolContext("tc-handoff")
	result, err := ht.Call(tc, map[string]any{"task": "check inbox"})
	assert.NoError(t, err)
	assert.Equal(t, "Successfully transferred to email_fetch_agent", result)

	h := tc.Handoff()
	assert.NotNil(t, h)
	assert.Equal(t, "email_fetch_agent", h.Target)
	assert.Equal(t, "check inbox", h.Task)
}

func TestHandoffTool_NoTask(t *testing.T) {
	ht := NewHandoffTool("notification_agent", "Send a notification")
	tc := dummyToolContext("tc-handoff-2")
	_, err := ht.Call(tc, map[string]any{})
	assert.NoError(t, err)
	h := tc.Handoff()
	assert.NotNil(t, h)
	assert.Equal(t, "notification_agent", h.Target)
	assert.Empty(t, h.Task)
}

func TestHandoffTool_FirstRequestWins(t *testing.T) {
	runCtx := core.NewRunContext(context.Background(), "thread-1", nil, logging.NoOpLogger{})
	tc := core.NewToolContext(runCtx, "tc-dup")

	first := NewHandoffTool("notification_agent", "")
	second := NewHandoffTool("event_scheduler_agent", "")

	_, err := first.Call(tc, map[string]any{})
	assert.NoError(t, err)
	_, err = second.Call(tc, map[string]any{})
	assert.NoError(t, err)

	h := tc.Handoff()
	assert.NotNil(t, h)
	assert.Equal(t, "notification_agent", h.Target)
}

// -------------------- ToolError Formatting --------------------

func TestToolErrorFormatting(t *testing.T) {
	err := NewToolError("demo", "something failed", "E123")
	assert.Contains(t, err.Error(), "E123")
	assert.Contains(t, err.Error(), "demo")
}
