package cli

import (
	"encoding/json"
	"fmt"

	"github.com/relayio/chatrelay/internal/protocol"
)

// Output handles formatting responses based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs the relay's responses in the configured format
func (o *Output) Print(responses []protocol.Response) {
	if o.format == "json" {
		for _, response := range responses {
			data, _ := json.Marshal(response)
			fmt.Println(string(data))
		}
		return
	}

	if len(responses) == 0 {
		fmt.Println("no response")
		return
	}
	for _, response := range responses {
		fmt.Println(formatResponse(response))
	}
}

func formatResponse(response protocol.Response) string {
	switch {
	case response.ErrorCode != "":
		return fmt.Sprintf("error: %s", response.ErrorCode)
	case response.SuccessCode != "":
		return fmt.Sprintf("ok: %s", response.SuccessCode)
	case response.InfoCode != "":
		return fmt.Sprintf("info: %s", response.InfoCode)
	default:
		data, _ := json.Marshal(response.Payload)
		return fmt.Sprintf("%s: %s", response.Event, string(data))
	}
}
