package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openrouter "github.com/revrost/go-openrouter"
	"github.com/rs/zerolog/log"
)

const exhaustedReply = "I couldn't finish that request within the allowed number of steps. Please narrow it down or try again."

// Agent runs the bounded tool-calling loop: model turn, tool execution, next
// model turn, until the model produces a final text answer or the step cap is
// hit. Tool calls within one invocation run sequentially.
type Agent struct {
	llm        *Client
	dispatcher *Dispatcher
	maxSteps   int
}

// NewAgent constructs an Agent.
func NewAgent(llm *Client, dispatcher *Dispatcher, maxSteps int) *Agent {
	if maxSteps <= 0 {
		maxSteps = 6
	}
	return &Agent{llm: llm, dispatcher: dispatcher, maxSteps: maxSteps}
}

// ToolCallRecord traces one executed tool call for logging and API output.
type ToolCallRecord struct {
	Name       string         `json:"name"`
	Args       map[string]any `json:"args,omitempty"`
	DurationMS int64          `json:"durationMs"`
	OK         bool           `json:"ok"`
	Error      string         `json:"error,omitempty"`
}

// Reply is the outcome of one agent invocation. Messages holds the complete
// conversation including this exchange, ready to persist back to the session
// store.
type Reply struct {
	Text      string
	ToolCalls []ToolCallRecord
	Messages  []openrouter.ChatCompletionMessage
}

// Run executes the agent loop for one user message on top of the given
// history.
func (a *Agent) Run(ctx context.Context, tenant TenantContext, history []openrouter.ChatCompletionMessage, userText string) (*Reply, error) {
	if !a.llm.Enabled() {
		return nil, ErrLLMNotConfigured
	}

	messages := make([]openrouter.ChatCompletionMessage, 0, len(history)+2)
	if len(history) == 0 {
		messages = append(messages, openrouter.SystemMessage(systemPrompt))
	} else {
		messages = append(messages, history...)
	}
	messages = append(messages, openrouter.UserMessage(userText))

	var records []ToolCallRecord

	for step := 0; step < a.maxSteps; step++ {
		resp, err := a.llm.ChatWithMessages(ctx, messages, ToolSchemas())
		if err != nil {
			return nil, err
		}
		logUsage(resp)
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("llm returned no choices")
		}

		msg := resp.Choices[0].Message
		messages = append(messages, msg)

		if len(msg.ToolCalls) == 0 {
			return &Reply{
				Text:      strings.TrimSpace(msg.Content.Text),
				ToolCalls: records,
				Messages:  messages,
			}, nil
		}

		for _, call := range msg.ToolCalls {
			toolMsg, record := a.executeToolCall(ctx, tenant, call)
			records = append(records, record)
			messages = append(messages, toolMsg)
		}
	}

	messages = append(messages, openrouter.ChatCompletionMessage{
		Role:    openrouter.ChatMessageRoleAssistant,
		Content: openrouter.Content{Text: exhaustedReply},
	})
	return &Reply{
		Text:      exhaustedReply,
		ToolCalls: records,
		Messages:  messages,
	}, nil
}

// executeToolCall parses the call's arguments, dispatches it, and wraps the
// outcome as a tool message. Argument and domain failures become structured
// error payloads the model can react to; only infrastructure failures are
// reported as a generic tool failure.
func (a *Agent) executeToolCall(ctx context.Context, tenant TenantContext, call openrouter.ToolCall) (openrouter.ChatCompletionMessage, ToolCallRecord) {
	record := ToolCallRecord{Name: call.Function.Name}

	args := map[string]any{}
	if call.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			record.Error = fmt.Sprintf("invalid tool arguments: %v", err)
			logRecord(record)
			return openrouter.ToolMessage(call.ID, errorPayload(record.Error)), record
		}
	}
	record.Args = args

	start := time.Now()
	result, err := a.dispatcher.Dispatch(ctx, tenant, call.Function.Name, args)
	record.DurationMS = time.Since(start).Milliseconds()
	if err != nil {
		record.Error = err.Error()
		logRecord(record)
		return openrouter.ToolMessage(call.ID, errorPayload("the operation failed, try again later")), record
	}

	payload, err := json.Marshal(result)
	if err != nil {
		record.Error = err.Error()
		logRecord(record)
		return openrouter.ToolMessage(call.ID, errorPayload("the operation failed, try again later")), record
	}

	if toolErr, isErr := result.(toolError); isErr {
		record.Error = toolErr.Error
	} else {
		record.OK = true
	}
	logRecord(record)
	return openrouter.ToolMessage(call.ID, string(payload)), record
}

func errorPayload(message string) string {
	encoded, err := json.Marshal(toolError{Error: message})
	if err != nil {
		return `{"error":"internal error"}`
	}
	return string(encoded)
}

func logRecord(record ToolCallRecord) {
	log.Info().
		Str("tool", record.Name).
		Interface("args", record.Args).
		Int64("ms", record.DurationMS).
		Bool("ok", record.OK).
		Str("err", record.Error).
		Msg("tool call")
}

func logUsage(resp openrouter.ChatCompletionResponse) {
	if resp.Usage == nil {
		return
	}
	log.Info().
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Int("total_tokens", resp.Usage.TotalTokens).
		Msg("llm usage")
}
