package cmd

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javi11/flashverify/internal/utils"
)

var (
	noPrompt bool
	removeOK bool
)

var checkCmd = &cobra.Command{
	Use:   "check <target> <size>",
	Short: "Write a test file, wait for the device to be re-inserted, then verify it",
	Long: `Check runs write and verify in one go. Between the two it asks for the device
to be unplugged and re-inserted so the read back comes from the device and not
from the operating system's cache.`,
	Args: cobra.ExactArgs(2),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&noPrompt, "no-prompt", false, "verify right after writing without waiting")
	checkCmd.Flags().BoolVar(&removeOK, "remove", false, "delete the test file when verification passes")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
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

	if !noPrompt && rt.cfg.GetPromptReinsert() {
		fmt.Fprint(cmd.OutOrStdout(), "Unplug and re-insert the device, then press Enter to verify...")
		if _, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n'); err != nil {
			rt.log.DebugContext(rt.ctx, "Prompt input closed", "err", err)
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}

	if err := verifyTestFile(cmd, rt, path); err != nil {
		return err
	}

	if removeOK || rt.cfg.Check.RemoveOnSuccess {
		if err := rt.session.Remove(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", path)
	}
	return nil
}
