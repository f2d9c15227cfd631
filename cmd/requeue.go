package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"contentpilot/internal/store"
)

var requeueCmd = &cobra.Command{
	Use:   "requeue <plan-id>",
	Short: "Move a dead-lettered plan back to pending",
	Long:  `Reset the attempt counter of a failed content plan so the next pass picks it up again.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRequeue,
}

func init() {
	rootCmd.AddCommand(requeueCmd)
}

func runRequeue(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid plan id %q", args[0])
	}

	a, err := buildApp(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = a.Close(context.Background()) }()

	err = a.Store().Requeue(cmd.Context(), uint(id))
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("content plan %d not found", id)
	case errors.Is(err, store.ErrNotFailed):
		return fmt.Errorf("content plan %d is not in the failed state", id)
	case err != nil:
		return err
	}

	fmt.Println(successStyle.Render(fmt.Sprintf("✓ Requeued content plan %d", id)))
	return nil
}
