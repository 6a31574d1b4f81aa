package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wasmkit/emsys/cmd/emsys/dump"
)

var version = "<unknown>"

func configureCLI() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           "emsys",
		Short:         "emsys guest syscall layer",
		Long:          "emsys - an emscripten-style guest syscall layer for WebAssembly hosts",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCommand.AddCommand(dump.Command())

	return rootCommand
}

func main() {
	rootCommand := configureCLI()

	if err := rootCommand.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
