package app

import (
	"encoding/json"
	"strings"
)

// Delimiters of the embedded command protocol. The model wraps at most one
// JSON object in these markers; the exact spelling is a wire contract with
// the prompt and must not change.
const (
	commandOpen  = "[DB_COMMAND]"
	commandClose = "[/DB_COMMAND]"
)

// ExtractCommandBlock scans model output for one delimited command block:
// the first open delimiter, a JSON object, and the first close delimiter
// after it. It returns the decoded command and the span of the whole block
// within text so the caller can splice in the execution result.
//
// Any deviation (missing close delimiter, malformed JSON) degrades to "no
// command": the reply is then treated as plain text, never an error.
func ExtractCommandBlock(text string) (cmd Command, start, end int, ok bool) {
	start = strings.Index(text, commandOpen)
	if start < 0 {
		return nil, 0, 0, false
	}
	rest := text[start+len(commandOpen):]
	closeIdx := strings.Index(rest, commandClose)
	if closeIdx < 0 {
		return nil, 0, 0, false
	}

	payload := strings.TrimSpace(rest[:closeIdx])
	var decoded Command
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return nil, 0, 0, false
	}
	if decoded.Action() == "" {
		return nil, 0, 0, false
	}

	end = start + len(commandOpen) + closeIdx + len(commandClose)
	return decoded, start, end, true
}
