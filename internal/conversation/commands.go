package conversation

import "strings"

// Command is a navigation or control command.
type Command string

const (
	CmdNone   Command = ""
	CmdStart  Command = "start"
	CmdBack   Command = "back"
	CmdSkip   Command = "skip"
	CmdCancel Command = "cancel"
	CmdHelp   Command = "help"
)

// commandWords maps English and Indonesian words to commands.
var commandWords = map[string]Command{
	"start":    CmdStart,
	"mulai":    CmdStart,
	"baru":     CmdStart,
	"back":     CmdBack,
	"kembali":  CmdBack,
	"balik":    CmdBack,
	"skip":     CmdSkip,
	"lewati":   CmdSkip,
	"lewat":    CmdSkip,
	"cancel":   CmdCancel,
	"batal":    CmdCancel,
	"batalkan": CmdCancel,
	"help":     CmdHelp,
	"bantuan":  CmdHelp,
}

// ParseCommand recognises a command in an explicit command field or in the
// whole message text. A leading slash and a bot suffix ("/start@bot") are
// accepted.
func ParseCommand(in Inbound) Command {
	if c := lookupCommand(in.Command); c != CmdNone {
		return c
	}
	if in.Attachment != nil {
		return CmdNone
	}
	return lookupCommand(in.Text)
}

func lookupCommand(s string) Command {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "/")
	if i := strings.IndexByte(s, '@'); i > 0 {
		s = s[:i]
	}
	return commandWords[s]
}
