// Package protocol defines the WebSocket message protocol between clients
// and the surrogate server.
package protocol

import "github.com/maliksaad1/ai-surrogate/internal/domain"

// Message types from client to server
const (
	TypeHello   = "hello"
	TypeChat    = "chat"
	TypeConfirm = "confirm"
)

// Message types from server to client
const (
	TypeHelloAck             = "hello_ack"
	TypeTrace                = "trace"
	TypeResponse             = "response"
	TypeConfirmationRequired = "confirmation_required"
	TypeToolResult           = "tool_result"
	TypeError                = "error"
)

// BaseMessage contains common fields for all messages.
type BaseMessage struct {
	Type      string `json:"type"`
	Ts        int64  `json:"ts"`
	SessionID string `json:"session_id,omitempty"`
}

// HelloMessage is sent by a client to establish a session. Omitting
// thread_id starts a fresh conversation thread.
type HelloMessage struct {
	BaseMessage
	UserID   string `json:"user_id,omitempty"`
	APIKey   string `json:"api_key,omitempty"`
	ThreadID string `json:"thread_id,omitempty"`
}

// HelloAckMessage confirms the session and names the bound thread.
type HelloAckMessage struct {
	BaseMessage
	UserID   string `json:"user_id"`
	ThreadID string `json:"thread_id"`
}

// ChatMessage carries one user turn into the bound thread.
type ChatMessage struct {
	BaseMessage
	Content string `json:"content"`
}

// ConfirmMessage resolves a pending confirmation gate by resubmitting the
// tool call. Params should echo what confirmation_required carried.
type ConfirmMessage struct {
	BaseMessage
	Tool      string         `json:"tool"`
	Params    map[string]any `json:"params"`
	Confirmed bool           `json:"confirmed"`
}

// TraceMessage streams one pipeline step while a turn is processed.
type TraceMessage struct {
	BaseMessage
	Entry domain.ExecutionTraceEntry `json:"entry"`
}

// ResponseMessage delivers the finished turn.
type ResponseMessage struct {
	BaseMessage
	ThreadID string                       `json:"thread_id"`
	Data     *domain.OrchestratorResponse `json:"data"`
}

// ConfirmationRequiredMessage asks the client to approve a gated tool
// call. Params carry everything needed to resubmit via confirm.
type ConfirmationRequiredMessage struct {
	BaseMessage
	Tool   string         `json:"tool"`
	Prompt string         `json:"prompt"`
	Params map[string]any `json:"params,omitempty"`
}

// ToolResultMessage reports the outcome of a confirm resubmission.
type ToolResultMessage struct {
	BaseMessage
	Tool   string            `json:"tool"`
	Result domain.ToolResult `json:"result"`
}

// ErrorMessage is sent by the server when a request cannot be served.
type ErrorMessage struct {
	BaseMessage
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrorCodeInvalidMessage  = "invalid_message"
	ErrorCodeUnauthorized    = "unauthorized"
	ErrorCodeSessionRequired = "session_required"
	ErrorCodeInternalError   = "internal_error"
	ErrorCodePipelineFail    = "pipeline_fail"
)
