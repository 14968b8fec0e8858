// Package chat implements an interactive console front end for the
// conversational intake.
package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/windhydevelop-sys/website-aksesoris-sub000/cmd/root"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/conversation"
)

const (
	photoPrefix = "photo:"
	quitCommand = "/quit"
)

// Dispatcher delivers one inbound message and returns the replies.
type Dispatcher interface {
	Dispatch(ctx context.Context, in conversation.Inbound) ([]conversation.Reply, error)
}

var chatID string

// Cmd represents the chat command
var Cmd = &cobra.Command{
	Use:   "chat",
	Short: "Enter a product record through the guided conversation",
	Long: `Run the guided data-entry conversation on the console.

Type /start and your field staff code to begin. Answer each question, or use
/skip, /back and /cancel. Send a photo with "photo:<path>". /quit exits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer(cmd.Context())
		if err != nil {
			return err
		}
		id := chatID
		if id == "" {
			id = c.GetConfig().Conversation.DefaultChatID
		}
		return Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), c.GetDriver(), id)
	},
}

func init() {
	Cmd.Flags().StringVar(&chatID, "chat-id", "", "Chat identifier (default: conversation.default_chat_id)")
}

// Run reads messages line by line from in until EOF or /quit and prints
// the replies to out.
func Run(ctx context.Context, in io.Reader, out io.Writer, d Dispatcher, chatID string) error {
	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, _ = fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			_, _ = fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == quitCommand {
			return nil
		}

		msg, err := inbound(chatID, line)
		if err != nil {
			_, _ = fmt.Fprintf(out, "! %v\n", err)
			continue
		}
		replies, err := d.Dispatch(ctx, msg)
		printReplies(out, replies)
		if err != nil {
			_, _ = fmt.Fprintf(out, "! %v\n", err)
		}
	}
}

func inbound(chatID, line string) (conversation.Inbound, error) {
	if !strings.HasPrefix(line, photoPrefix) {
		return conversation.Inbound{ChatID: chatID, Text: line}, nil
	}
	path := strings.TrimSpace(strings.TrimPrefix(line, photoPrefix))
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied photo path
	if err != nil {
		return conversation.Inbound{}, fmt.Errorf("cannot read photo: %w", err)
	}
	return conversation.Inbound{
		ChatID: chatID,
		Attachment: &conversation.Attachment{
			Filename:    filepath.Base(path),
			ContentType: http.DetectContentType(data),
			Data:        data,
		},
	}, nil
}

func printReplies(out io.Writer, replies []conversation.Reply) {
	for _, r := range replies {
		_, _ = fmt.Fprintln(out, r.Text)
		if len(r.Options) > 0 {
			_, _ = fmt.Fprintf(out, "  [%s]\n", strings.Join(r.Options, " | "))
		}
	}
}
