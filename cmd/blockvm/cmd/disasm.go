package cmd

import (
	"fmt"
	"os"

	"github.com/blocklang/blockvm/internal/asm"
	"github.com/blocklang/blockvm/internal/bytecode"
	"github.com/spf13/cobra"
)

var disasmEval string

var disasmCmd = &cobra.Command{
	Use:   "disasm [file]",
	Short: "Print a disassembly of a textual bytecode program",
	Long: `Assemble a program and print its constants pool and instruction
stream in human-readable form, one instruction per line with its offset.`,
	Args: cobra.MaximumNArgs(1),
	RunE: disasmProgram,
}

func init() {
	rootCmd.AddCommand(disasmCmd)
	disasmCmd.Flags().StringVarP(&disasmEval, "eval", "e", "", "assemble inline source instead of reading a file")
}

func disasmProgram(_ *cobra.Command, args []string) error {
	source, filename, err := readSource(disasmEval, args)
	if err != nil {
		return err
	}

	chunk, err := asm.Assemble(source)
	if err != nil {
		return fmt.Errorf("failed to assemble %s: %w", filename, err)
	}

	bytecode.NewDisassembler(chunk, os.Stdout).Disassemble()
	return nil
}
