package chat

import (
	"strings"

	"searchgate/core/types"
)

// Stream says which interceptor chain an input line belongs to
type Stream int

const (
	StreamUser Stream = iota
	StreamAgent
)

// agentPrefix marks terminal lines that stand in for the AI's replies
const agentPrefix = "@ai "

// Input is one parsed terminal line
type Input struct {
	Stream  Stream
	Message types.Message
}

// ParseInput classifies a line. Lines starting with "@ai " are agent messages.
func ParseInput(line, channel string) Input {
	if strings.HasPrefix(line, agentPrefix) {
		return Input{
			Stream: StreamAgent,
			Message: types.Message{
				Content: strings.TrimPrefix(line, agentPrefix),
				Author:  "AI",
				Channel: channel,
			},
		}
	}
	return Input{
		Stream: StreamUser,
		Message: types.Message{
			Content: line,
			Author:  "You",
			Channel: channel,
		},
	}
}
