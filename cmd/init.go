package cmd

import (
	"github.com/spf13/cobra"

	"flashdeck/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize flashdeck configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure flashdeck and generates a .flashdeck.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
