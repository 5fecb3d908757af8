package ui

import "strings"

// Completion candidates mirror the fixed command vocabulary.
var (
	completeCommands = []string{
		"help", "h", "?", "me", "keys", "send", "s", "load", "pgp", "export",
		"quit", "exit", "q", "clear",
	}
	completePgpSub      = []string{"list", "send", "decrypt", "decrypt-last"}
	completePgpSendFlag = []string{"-r"}
	completeExportSub   = []string{"recipient", "channel", "show", "unset"}
	completeExportUnset = []string{"recipient", "channel"}
)

// complete extends the current token when exactly one vocabulary candidate
// matches its prefix.
func (m *Model) complete() {
	before := m.input.Value()
	parts := strings.Fields(before)
	editingToken := len(before) > 0 && !strings.HasSuffix(before, " ")

	choices := candidatesFor(parts, editingToken)

	token := ""
	if editingToken && len(parts) > 0 {
		token = parts[len(parts)-1]
	}

	var matches []string
	for _, c := range choices {
		if strings.HasPrefix(c, token) {
			matches = append(matches, c)
		}
	}
	if len(matches) != 1 {
		return
	}

	completed := matches[0]
	if editingToken {
		before = before[:len(before)-len(token)]
	}
	m.input.SetValue(before + completed + " ")
	m.input.CursorEnd()
}

// candidatesFor mirrors the original shell helper: the completed tokens so
// far select which vocabulary applies to the token being typed.
func candidatesFor(parts []string, editingToken bool) []string {
	done := parts
	if editingToken && len(parts) > 0 {
		done = parts[:len(parts)-1]
	}

	switch {
	case len(done) == 0:
		return completeCommands

	case done[0] == "pgp":
		if len(done) == 1 {
			return completePgpSub
		}
		if done[1] == "send" {
			return completePgpSendFlag
		}
		return nil

	case done[0] == "export":
		if len(done) == 1 {
			return completeExportSub
		}
		if done[1] == "unset" {
			return completeExportUnset
		}
		return nil

	default:
		return nil
	}
}
