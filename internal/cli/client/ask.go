package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// AskRequest represents the ask API request.
type AskRequest struct {
	Company  string `json:"company"`
	Hint     string `json:"hint,omitempty"`
	Question string `json:"question"`
}

// AskSource represents one answer source.
type AskSource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// AskResponse represents the ask API response.
type AskResponse struct {
	Company  string      `json:"company"`
	Answer   string      `json:"answer"`
	Sources  []AskSource `json:"sources"`
	Question string      `json:"question"`
}

// AskCmd creates the ask command.
func AskCmd() *cobra.Command {
	var hint string

	cmd := &cobra.Command{
		Use:   "ask <company> <question...>",
		Short: "Ask about a company's interview process",
		Long: `Asks a question about a company's interview process. If the company is not
known yet, the server gathers and indexes content about it first, which can
take a while on the first ask.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			return runAsk(api, args[0], strings.Join(args[1:], " "), hint, outputJSON)
		},
	}

	cmd.Flags().StringVar(&hint, "hint", "", "Extra search context (e.g. role or location)")

	return cmd
}

func runAsk(api *APIClient, company, question, hint string, outputJSON bool) error {
	req := AskRequest{
		Company:  company,
		Hint:     hint,
		Question: question,
	}

	resp, err := api.Post("/ask", req)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	var askResp AskResponse
	if err := json.Unmarshal(resp.Data, &askResp); err != nil {
		return fmt.Errorf("failed to parse answer: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(askResp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Println(askResp.Answer)
	if len(askResp.Sources) > 0 {
		fmt.Printf("\nSources:\n")
		for i, src := range askResp.Sources {
			title := src.Title
			if title == "" {
				title = src.URL
			}
			fmt.Printf("%d. %s\n   %s\n", i+1, title, src.URL)
		}
	}

	return nil
}
