package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javi11/flashverify/internal/progress"
	"github.com/javi11/flashverify/internal/utils"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <target>",
	Short: "Verify a previously written test file",
	Args:  cobra.ExactArgs(1),
	RunE:  runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}

	path, err := rt.resolveTarget(args[0])
	if err != nil {
		return err
	}

	return verifyTestFile(cmd, rt, path)
}

func verifyTestFile(cmd *cobra.Command, rt *runtime, path string) error {
	out := cmd.OutOrStdout()
	res, err := rt.session.Verify(rt.ctx, path)
	if err != nil {
		if u, ok := rt.progress.Last(progress.OpVerify); ok {
			fmt.Fprintf(out, "Verification stopped at %.2f%% (%s of %s bytes matched)\n",
				u.Percent, utils.FormatCount(u.Done), utils.FormatCount(u.Total))
		}
		return err
	}

	fmt.Fprintf(out, "OK: verified %s bytes (%s), the device stored the test file intact\n",
		utils.FormatCount(res.Verified), utils.FormatBytes(res.Verified))
	if res.Trailing {
		fmt.Fprintln(out, "Note: the file holds extra data past its declared size, which was ignored")
	}
	return nil
}
