package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/babelcloud/vcap/internal/version"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Info()
			fmt.Printf("vcap version %s, build %s (%s/%s)\n",
				info["Version"], info["GitCommit"], info["OS"], info["Arch"])
		},
	}
}
