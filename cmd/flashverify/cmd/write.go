package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javi11/flashverify/internal/utils"
)

var writeCmd = &cobra.Command{
	Use:   "write <target> <size>",
	Short: "Write a test file of the given size",
	Long: `Write a test file to target. Target is either a directory on the device,
in which case the configured file name is used, or a file path.

Size accepts plain byte counts or a kb, mb or gb suffix, for example 512mb or 1.5gb.`,
	Args: cobra.ExactArgs(2),
	RunE: runWrite,
}

func init() {
	rootCmd.AddCommand(writeCmd)
}

func runWrite(cmd *cobra.Command, args []string) error {
	size, err := utils.ParseSize(args[1])
	if err != nil {
		return err
	}

	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}

	path, err := rt.resolveTarget(args[0])
	if err != nil {
		return err
	}

	if _, err := writeTestFile(cmd, rt, path, size); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Unplug and re-insert the device, then run: flashverify verify %s\n", path)
	return nil
}

func writeTestFile(cmd *cobra.Command, rt *runtime, path string, size int64) (int64, error) {
	written, err := rt.session.Write(rt.ctx, path, size)
	if err != nil {
		return written, err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s bytes (%s) to %s\n",
		utils.FormatCount(written), utils.FormatBytes(written), path)
	return written, nil
}
