package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var envFile string
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "ez-rental",
		Short:         "Room rental marketplace: search, billing and moderation over a sample catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context(), envFile)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file")

	rootCmd.AddCommand(
		searchCmd(a),
		roomCmd(a),
		billCmd(a),
		batchBillCmd(a),
		payBillCmd(a),
		exportBillsCmd(a),
		signInCmd(a),
		signOutCmd(a),
		whoAmICmd(a),
		moderateCmd(a),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		a.close()
		os.Exit(1)
	}
}
