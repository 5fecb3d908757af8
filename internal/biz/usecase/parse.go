package usecase

import (
	"errors"
	"strconv"
	"strings"

	"github.com/anthropics/pgp-disc/internal/biz/domain"
)

const (
	usageSend          = "send <message...>"
	usageLoad          = "load <count>"
	usagePgp           = "pgp <list|send|decrypt <id>|decrypt-last>"
	usagePgpDecrypt    = "pgp decrypt <id>"
	usagePgpSend       = "pgp send <message...> OR pgp send -r <fpr|uid> <message...>"
	usagePgpSendR      = "pgp send -r <fpr|uid> <message...>"
	usageExport        = "export <recipient|channel|show|unset> ..."
	usageExportRecip   = "export recipient <fpr|uid>"
	usageExportChannel = "export channel <channel_id>"
	usageExportUnset   = "export unset <recipient|channel>"
)

// ParseCommand turns one input line into a validated Command. All argument
// count and type checks happen here, before any side effect can occur.
func ParseCommand(line string) (domain.Command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil, errors.New("empty command")
	}

	cmd, args := parts[0], parts[1:]

	switch cmd {
	case "help", "h", "?":
		return domain.HelpCommand{}, nil

	case "me":
		return domain.MeCommand{}, nil

	case "keys":
		return domain.KeysCommand{}, nil

	case "send", "s":
		if len(args) == 0 {
			return nil, domain.NewUsageError(usageSend)
		}
		return domain.SendCommand{Message: strings.Join(args, " ")}, nil

	case "load":
		if len(args) == 0 {
			return nil, domain.NewUsageError(usageLoad)
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return nil, domain.NewUsageError(usageLoad + " (count must be a non-negative number)")
		}
		return domain.LoadCommand{Count: n}, nil

	case "pgp":
		return parsePgp(args)

	case "export":
		return parseExport(args)

	case "clear":
		return domain.ClearCommand{}, nil

	case "quit", "exit", "q":
		return domain.QuitCommand{}, nil

	default:
		return nil, &domain.UnknownCommandError{Token: cmd}
	}
}

func parsePgp(args []string) (domain.Command, error) {
	if len(args) == 0 {
		return nil, domain.NewUsageError(usagePgp)
	}

	switch args[0] {
	case "list":
		return domain.PgpListCommand{}, nil

	case "decrypt-last":
		return domain.PgpDecryptLastCommand{}, nil

	case "decrypt":
		if len(args) < 2 {
			return nil, domain.NewUsageError(usagePgpDecrypt)
		}
		return domain.PgpDecryptCommand{ID: args[1]}, nil

	case "send":
		rest := args[1:]
		if len(rest) == 0 {
			return nil, domain.NewUsageError(usagePgpSend)
		}
		if rest[0] == "-r" {
			if len(rest) < 2 {
				return nil, domain.NewUsageError(usagePgpSendR)
			}
			recipient := rest[1]
			msg := rest[2:]
			if len(msg) == 0 {
				return nil, domain.NewUsageError(usagePgpSendR)
			}
			return domain.PgpSendCommand{Recipient: recipient, Message: strings.Join(msg, " ")}, nil
		}
		return domain.PgpSendCommand{Message: strings.Join(rest, " ")}, nil

	default:
		return nil, domain.NewUsageError(usagePgp)
	}
}

func parseExport(args []string) (domain.Command, error) {
	if len(args) == 0 {
		return nil, domain.NewUsageError(usageExport)
	}

	switch args[0] {
	case "recipient":
		value := strings.TrimSpace(strings.Join(args[1:], " "))
		if value == "" {
			return nil, domain.NewUsageError(usageExportRecip)
		}
		return domain.ExportRecipientCommand{Value: value}, nil

	case "channel":
		if len(args) < 2 {
			return nil, domain.NewUsageError(usageExportChannel)
		}
		id, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return nil, domain.NewUsageError(usageExportChannel + " (channel_id must be an integer)")
		}
		return domain.ExportChannelCommand{ID: id}, nil

	case "show":
		return domain.ExportShowCommand{}, nil

	case "unset":
		if len(args) < 2 {
			return nil, domain.NewUsageError(usageExportUnset)
		}
		switch args[1] {
		case "recipient":
			return domain.ExportUnsetCommand{What: domain.UnsetRecipient}, nil
		case "channel":
			return domain.ExportUnsetCommand{What: domain.UnsetChannel}, nil
		default:
			return nil, domain.NewUsageError(usageExportUnset)
		}

	default:
		return nil, domain.NewUsageError(usageExport)
	}
}
