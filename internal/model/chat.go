package model

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// TranscriptCap is the maximum number of retained chat turns; oldest entries
// are discarded first.
const TranscriptCap = 20

// ChatTurn is a single transcript entry.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatMessage is one rendered widget message. HTML carries the escaped,
// <br>-joined body safe for direct insertion into markup.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	HTML    string `json:"html"`
}
