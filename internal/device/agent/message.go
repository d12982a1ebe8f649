package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Message types posted by Frida on behalf of the agent.
const (
	MessageLog   = "log"
	MessageError = "error"
	MessageSend  = "send"
)

// Message is a message posted by the agent: console output, an uncaught
// exception, or a value passed to send().
type Message struct {
	Type        string `json:"type"`
	Level       string `json:"level,omitempty"`
	Payload     any    `json:"payload,omitempty"`
	Description string `json:"description,omitempty"`
	Stack       string `json:"stack,omitempty"`
}

// ParseMessage decodes a raw script message.
func ParseMessage(raw string) (*Message, error) {
	var msg Message

	err := json.Unmarshal([]byte(raw), &msg)
	if err != nil {
		return nil, fmt.Errorf("decode agent message: %w", err)
	}

	return &msg, nil
}

// Log writes the message to logger.
func (msg *Message) Log(logger *slog.Logger) {
	switch msg.Type {
	case MessageLog:
		logger.Log(context.Background(), consoleLevel(msg.Level), "Agent output", slog.Any("payload", msg.Payload))

	case MessageError:
		logger.Error("Agent error", slog.String("description", msg.Description), slog.String("stack", msg.Stack))

	default:
		logger.Debug("Agent message", slog.String("type", msg.Type), slog.Any("payload", msg.Payload))
	}
}

// consoleLevel maps a console level to a slog level.
func consoleLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
