package domain

// ChatEvent represents one inbound channel message
type ChatEvent struct {
	ChannelID uint64
	AuthorID  uint64
	Author    string // Display name
	Content   string
}

// UIEvent is a render action for the presentation boundary
type UIEvent struct {
	Kind UIEventKind
	Text string // Set for UILine only
}

// UIEventKind discriminates UIEvent
type UIEventKind int

const (
	UILine UIEventKind = iota
	UIClear
	UIExit
)

// Line builds a text render action
func Line(text string) UIEvent {
	return UIEvent{Kind: UILine, Text: text}
}

// Clear builds a clear-screen render action
func Clear() UIEvent {
	return UIEvent{Kind: UIClear}
}

// Exit builds a terminate render action
func Exit() UIEvent {
	return UIEvent{Kind: UIExit}
}
