package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
	"github.com/tliron/glsp/server"
	"github.com/tliron/kutil/logging"

	"github.com/influxdata/flux-lsp-go/implementation"
)

var (
	verbose int
	logPath string
	debug   bool
)

var rootCommand = &cobra.Command{
	Use:   "flux-lsp",
	Short: "Language server for the Flux data scripting language",
	Run: func(cmd *cobra.Command, args []string) {
		var path *string
		if logPath != "" {
			path = &logPath
		}
		logging.Configure(verbose, path)

		session := implementation.NewSession()
		server.NewServer(implementation.NewRouter(session), "flux-lsp", debug).RunStdio()
	},
}

func init() {
	rootCommand.Flags().CountVarP(&verbose, "verbose", "v", "increase logging verbosity")
	rootCommand.Flags().StringVarP(&logPath, "log", "l", "", "log to file instead of stderr")
	rootCommand.Flags().BoolVarP(&debug, "debug", "d", false, "enable transport debug logging")
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}
