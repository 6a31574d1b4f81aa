package dump

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/spf13/cobra"

	"github.com/wasmkit/emsys/emscripten"
)

// Command returns the dump command and its subcommands.
func Command() *cobra.Command {
	command := &cobra.Command{
		Use:   "dump",
		Short: "Dump dispatch tables, ABI layouts, and traces",
	}

	command.AddCommand(syscallsCommand())
	command.AddCommand(layoutCommand())
	command.AddCommand(traceCommand())

	return command
}

func syscallsCommand() *cobra.Command {
	var asCSV bool

	command := &cobra.Command{
		Use:   "syscalls",
		Short: "Dump the syscall dispatch table",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := emscripten.Table()

			if asCSV {
				csvWriter := csv.NewWriter(os.Stdout)
				defer csvWriter.Flush()

				encoder := csvutil.NewEncoder(csvWriter)
				for _, entry := range entries {
					if err := encoder.Encode(entry); err != nil {
						return err
					}
				}
				return nil
			}

			for _, entry := range entries {
				fmt.Printf("%4d  %-24s %s\n", entry.Num, entry.Import, entry.Name)
			}
			return nil
		},
	}

	command.Flags().BoolVar(&asCSV, "csv", false, "emit CSV instead of text")

	return command
}

func layoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Dump the guest stat record layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("stat record: %d bytes\n", emscripten.StatRecordSize)
			for _, field := range emscripten.StatLayout() {
				fmt.Printf("%4d  %d  %s\n", field.Offset, field.Width, field.Name)
			}
			return nil
		},
	}
}

func traceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "trace [path to JSON trace]",
		Short: "Convert a recorded syscall trace to CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("expected exactly one argument")
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			events, err := emscripten.ReadTrace(f)
			if err != nil {
				return err
			}
			return emscripten.WriteTraceCSV(os.Stdout, events)
		},
	}
}
