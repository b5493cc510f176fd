package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/blocklang/blockvm/internal/asm"
	"github.com/blocklang/blockvm/internal/bytecode"
	"github.com/spf13/cobra"
)

var (
	evalSource      string
	varSlots        int
	listFlags       []string
	disableSafety   bool
	disableDegBug   bool
	enableCodePoint bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Assemble and run a textual bytecode program",
	Long: `Assemble a program written in the textual mnemonic form (see
internal/asm) and execute it to completion or early return, printing the
final program counter, return reason, operand stack and variable slots.

Examples:
  # Run a program from a file
  blockvm run program.asm

  # Run inline assembly
  blockvm run -e "program: p
code:
	LoadConst 0
"

  # Reserve 4 variable slots and seed list 0 with two items
  blockvm run program.asm --vars 4 --list 0=foo,bar`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProgram,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalSource, "eval", "e", "", "assemble inline source instead of reading a file")
	runCmd.Flags().IntVar(&varSlots, "vars", 0, "number of variable slots to reserve")
	runCmd.Flags().StringArrayVar(&listFlags, "list", nil, "seed a list as index=item1,item2,...")
	runCmd.Flags().BoolVar(&disableSafety, "no-safety-checks", false, "disable bounds/allocation-size checks")
	runCmd.Flags().BoolVar(&disableDegBug, "no-degrees-bug", false, "disable the degrees-conversion replication on Ln/Log/EPow/10Pow")
	runCmd.Flags().BoolVar(&enableCodePoint, "code-points", false, "use Unicode code points instead of bytes for string ops")
}

func runProgram(_ *cobra.Command, args []string) error {
	source, filename, err := readSource(evalSource, args)
	if err != nil {
		return err
	}

	chunk, err := asm.Assemble(source)
	if err != nil {
		return fmt.Errorf("failed to assemble %s: %w", filename, err)
	}

	lists, err := parseListFlags(listFlags)
	if err != nil {
		return err
	}

	opts := []bytecode.Option{
		bytecode.WithSafetyChecks(!disableSafety),
		bytecode.WithDegreesBugReplicated(!disableDegBug),
		bytecode.WithCodePointStrings(enableCodePoint),
	}
	vm := bytecode.NewVM(opts...)

	state := bytecode.NewState(make([]bytecode.Value, varSlots), lists)

	if verbose {
		fmt.Fprintf(os.Stderr, "[running %s: %d instructions, %d constants]\n", filename, len(chunk.Code), len(chunk.Constants))
	}

	result, err := vm.Run(chunk, state)
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}

	fmt.Printf("pc=%d reason=%s\n", result.PC, result.Reason)
	fmt.Printf("stack: %s\n", formatValues(state.Stack))
	for i, v := range state.Variables {
		fmt.Printf("var[%d] = %s\n", i, v.GoString())
	}
	return nil
}

func readSource(eval string, args []string) (source, filename string, err error) {
	if eval != "" {
		return eval, "<eval>", nil
	}
	if len(args) == 1 {
		content, readErr := os.ReadFile(args[0])
		if readErr != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], readErr)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e for inline source")
}

func formatValues(values []bytecode.Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.GoString()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func parseListFlags(flags []string) ([][]bytecode.Value, error) {
	if len(flags) == 0 {
		return nil, nil
	}

	maxIndex := -1
	parsed := make(map[int][]bytecode.Value, len(flags))
	for _, flag := range flags {
		idxStr, itemsStr, ok := strings.Cut(flag, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --list value %q, want index=item1,item2", flag)
		}
		idx, err := strconv.Atoi(idxStr)
		if err != nil {
			return nil, fmt.Errorf("invalid list index %q: %w", idxStr, err)
		}
		var items []bytecode.Value
		if itemsStr != "" {
			for _, item := range strings.Split(itemsStr, ",") {
				items = append(items, bytecode.FromHostString(item))
			}
		}
		parsed[idx] = items
		if idx > maxIndex {
			maxIndex = idx
		}
	}

	lists := make([][]bytecode.Value, maxIndex+1)
	for idx, items := range parsed {
		lists[idx] = items
	}
	return lists, nil
}
