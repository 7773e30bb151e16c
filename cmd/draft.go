package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kestrelworks/pulseboard/internal/draft"
	"github.com/kestrelworks/pulseboard/internal/ingest"
	"github.com/kestrelworks/pulseboard/internal/utils"
)

var (
	draftEnhance     bool
	draftEnhanceOnly bool
	draftContextFile string
	draftOutput      string
)

var draftCmd = &cobra.Command{
	Use:   "draft <request>",
	Short: "Draft an executive email from a short request",
	Example: `  pulseboard draft "follow up with finance about the Q3 numbers"
  pulseboard draft "apologize for the shipping delay" --enhance
  pulseboard draft "summarize the attached report for the board" --context report.csv
  pulseboard draft "chase the overdue invoice" --enhance-only`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		request := args[0]
		c, err := requireConfig()
		if err != nil {
			return err
		}
		w := draft.NewWriter(newAIClient(c), c.DefaultModel, logger)

		ctx, cancel := contextWithTimeout(cmd, time.Duration(c.AnalysisTimeoutSec)*time.Second)
		defer cancel()

		if draftEnhanceOnly {
			fmt.Println(w.Enhance(ctx, request))
			return nil
		}

		docContext := ""
		if draftContextFile != "" {
			docContext, err = ingest.ReadFile(draftContextFile)
			if err != nil {
				return err
			}
			// same ceiling as chat context, expressed in tokens
			docContext = utils.TruncateToTokenLimit(docContext, c.ChatContextBudget/4)
		}

		email, err := w.Draft(ctx, request, draftEnhance, docContext)
		if err != nil {
			return err
		}
		if draftOutput != "" {
			if err := utils.SafeWriteFile(draftOutput, []byte(email+"\n")); err != nil {
				return err
			}
			fmt.Printf("✓ Draft written to %s\n", draftOutput)
			return nil
		}
		fmt.Println(email)
		return nil
	},
}

func init() {
	draftCmd.Flags().BoolVar(&draftEnhance, "enhance", false, "refine the request into a richer brief before drafting")
	draftCmd.Flags().BoolVar(&draftEnhanceOnly, "enhance-only", false, "print the enhanced prompt without drafting the email")
	draftCmd.Flags().StringVar(&draftContextFile, "context", "", "file whose content rides along as additional context")
	draftCmd.Flags().StringVar(&draftOutput, "output", "", "write the draft to a file instead of stdout")
	rootCmd.AddCommand(draftCmd)
}
