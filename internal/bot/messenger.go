package bot

// Action is one interactive control attached to an outgoing message. Data is
// the opaque callback payload delivered back on activation; the transport
// limits it to 64 bytes, which is why translations are referenced by cache
// token instead of being embedded.
type Action struct {
	Label string
	Data  string
}

// Messenger delivers outgoing messages to a requester. Implementations live
// under internal/platform; the orchestrator never touches transport details.
type Messenger interface {
	// SendMessage sends a Markdown-formatted message.
	SendMessage(chatID int64, text string) error

	// SendMessageWithActions sends a Markdown-formatted message with one
	// interactive control per action, stacked vertically.
	SendMessageWithActions(chatID int64, text string, actions []Action) error
}
