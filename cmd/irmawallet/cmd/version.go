package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	irmamobile "github.com/privacybydesign/irmamobile"
)

func init() {
	RootCommand.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print irmawallet version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "irmawallet")
			fmt.Fprintln(out, "Version: ", irmamobile.Version)
			fmt.Fprintln(out, "OS/Arch: ", runtime.GOOS+"/"+runtime.GOARCH)
		},
	})
}
