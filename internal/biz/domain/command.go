package domain

// Command is the closed set of parsed user commands. Each variant carries its
// validated arguments; construction happens only in the parser so that every
// consumer can switch exhaustively.
type Command interface {
	isCommand()
}

// HelpCommand shows command usage
type HelpCommand struct{}

// MeCommand shows the local gpg version and secret key fingerprints
type MeCommand struct{}

// KeysCommand lists public keys (recipients) from the keyring
type KeysCommand struct{}

// SendCommand posts plain text to the effective channel
type SendCommand struct {
	Message string
}

// LoadCommand replays recent channel history through the inbound path
type LoadCommand struct {
	Count int
}

// PgpListCommand lists captured armored blocks
type PgpListCommand struct{}

// PgpDecryptCommand decrypts a captured block by fingerprint
type PgpDecryptCommand struct {
	ID string
}

// PgpDecryptLastCommand decrypts the newest captured block
type PgpDecryptLastCommand struct{}

// PgpSendCommand encrypts a message and posts the armored result.
// Recipient is empty when the session default should be used.
type PgpSendCommand struct {
	Recipient string
	Message   string
}

// ExportRecipientCommand sets the session default recipient
type ExportRecipientCommand struct {
	Value string
}

// ExportChannelCommand overrides the channel for this session
type ExportChannelCommand struct {
	ID uint64
}

// ExportShowCommand shows the current session exports
type ExportShowCommand struct{}

// UnsetTarget names which session export to clear
type UnsetTarget string

const (
	UnsetRecipient UnsetTarget = "recipient"
	UnsetChannel   UnsetTarget = "channel"
)

// ExportUnsetCommand clears one session export
type ExportUnsetCommand struct {
	What UnsetTarget
}

// ClearCommand clears the screen
type ClearCommand struct{}

// QuitCommand exits the session
type QuitCommand struct{}

func (HelpCommand) isCommand()            {}
func (MeCommand) isCommand()              {}
func (KeysCommand) isCommand()            {}
func (SendCommand) isCommand()            {}
func (LoadCommand) isCommand()            {}
func (PgpListCommand) isCommand()         {}
func (PgpDecryptCommand) isCommand()      {}
func (PgpDecryptLastCommand) isCommand()  {}
func (PgpSendCommand) isCommand()         {}
func (ExportRecipientCommand) isCommand() {}
func (ExportChannelCommand) isCommand()   {}
func (ExportShowCommand) isCommand()      {}
func (ExportUnsetCommand) isCommand()     {}
func (ClearCommand) isCommand()           {}
func (QuitCommand) isCommand()            {}
