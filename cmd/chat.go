package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kestrelworks/pulseboard/internal/chat"
	"github.com/kestrelworks/pulseboard/internal/ingest"
)

var chatDoc string

var chatCmd = &cobra.Command{
	Use:   "chat --doc <file>",
	Short: "Chat with a document",
	Long: `Chat starts an interactive session grounded in one ingested document.
Answers come only from the document; off-topic and coding questions are
refused. Type 'exit' or press Ctrl-D to quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if chatDoc == "" {
			return fmt.Errorf("--doc is required")
		}
		c, err := requireConfig()
		if err != nil {
			return err
		}
		doc, err := ingest.ReadFile(chatDoc)
		if err != nil {
			return err
		}

		session := chat.NewDocSession(newAIClient(c), c.ChatModel, doc, c.ChatContextBudget, nil)
		fmt.Printf("✓ Chatting with %s (%d chars). Type 'exit' to quit.\n", chatDoc, len(doc))

		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "exit" || line == "quit" {
				break
			}

			ctx, cancel := contextWithTimeout(cmd, time.Duration(c.AnalysisTimeoutSec)*time.Second)
			var streamed bool
			reply, err := session.AskStream(ctx, line, func(delta string) {
				streamed = true
				fmt.Print(delta)
			})
			cancel()
			if err != nil {
				if streamed {
					fmt.Println()
				}
				fmt.Fprintf(os.Stderr, "✗ %v\n", err)
				continue
			}
			if streamed {
				fmt.Println()
			} else {
				// nothing arrived over the stream, show the fallback reply
				fmt.Println(reply)
			}
		}
		return scanner.Err()
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatDoc, "doc", "", "document to ground the conversation in")
	rootCmd.AddCommand(chatCmd)
}
