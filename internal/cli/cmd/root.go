package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rustpanel/pkg/sdk"
)

var (
	Client  *sdk.Client
	BaseURL string
	Token   string
)

var RootCmd = &cobra.Command{
	Use:   "rustpanel-cli",
	Short: "CLI for the Rust server panel",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		Client = sdk.NewClient(BaseURL)
		if Token == "" {
			Token = os.Getenv("RUSTPANEL_TOKEN")
		}
		if Token != "" {
			Client.SetToken(Token)
		}
	},
}

func Execute() {
	RootCmd.PersistentFlags().StringVar(&BaseURL, "url", "http://localhost:8080", "URL of the panel daemon")
	RootCmd.PersistentFlags().StringVar(&Token, "token", "", "API token (defaults to RUSTPANEL_TOKEN)")

	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
