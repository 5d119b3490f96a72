package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "familyring",
	Short: "Family record keeper with generational person codes",
	Long: "familyring keeps a family as a set of people identified by generational codes, " +
		"renumbers siblings by birth order and tracks which ancestor a ring was inherited from.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil {
			log.Printf("Info: No .env file found or error loading: %v", err)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "database file (overrides DATABASE_PATH)")
}
