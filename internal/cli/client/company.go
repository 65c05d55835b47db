package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

// CompanyInfo represents a company record in API responses.
type CompanyInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// CompanyLookup represents the company lookup API response.
type CompanyLookup struct {
	Exists  bool         `json:"exists"`
	Company *CompanyInfo `json:"company,omitempty"`
}

// CompanyCmd creates the company command group.
func CompanyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "company",
		Short: "Manage company knowledge bases",
	}

	cmd.AddCommand(companyGetCmd())
	cmd.AddCommand(companyAddCmd())

	return cmd
}

func companyGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Check whether a company's knowledge base exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			return runCompanyGet(api, args[0], outputJSON)
		},
	}
}

func companyAddCmd() *cobra.Command {
	var hint string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Gather and index a company's interview content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			return runCompanyAdd(api, args[0], hint, outputJSON)
		},
	}

	cmd.Flags().StringVar(&hint, "hint", "", "Extra search context (e.g. role or location)")

	return cmd
}

func runCompanyGet(api *APIClient, name string, outputJSON bool) error {
	resp, err := api.Get("/companies/" + url.PathEscape(name))
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	var lookup CompanyLookup
	if err := json.Unmarshal(resp.Data, &lookup); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(lookup, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if !lookup.Exists {
		fmt.Printf("No knowledge base for '%s' yet. Run 'brief company add %s' to build one.\n", name, name)
		return nil
	}

	fmt.Printf("Company: %s\n", lookup.Company.Name)
	fmt.Printf("ID:      %s\n", lookup.Company.ID)
	fmt.Printf("Created: %s\n", lookup.Company.CreatedAt)
	return nil
}

func runCompanyAdd(api *APIClient, name, hint string, outputJSON bool) error {
	resp, err := api.Post("/companies", map[string]string{
		"name": name,
		"hint": hint,
	})
	if err != nil {
		return fmt.Errorf("add failed: %w", err)
	}

	var company CompanyInfo
	if err := json.Unmarshal(resp.Data, &company); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(company, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Created knowledge base for '%s' (id: %s)\n", company.Name, company.ID)
	return nil
}
