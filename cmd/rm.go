package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/winstoncvm/jcal/internal/storage"
)

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete an entry, goal or routine by ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

func runRm(cmd *cobra.Command, args []string) error {
	_, s := mustEnv()

	err := s.Delete(cmd.Context(), args[0])
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "No record with ID %q.\n", args[0])
		os.Exit(1)
	}
	if err != nil {
		fail(2, err)
	}
	fmt.Printf("Deleted %s\n", args[0])
	return nil
}
