package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"anyvm/imagefmt"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect IMAGE",
		Short: "Print an image's function table, static table, and section sizes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspectImage(args[0])
		},
	}
}

func inspectImage(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "inspect: opening %s", path)
	}
	defer f.Close()

	img, err := imagefmt.Decode(f)
	if err != nil {
		return errors.Wrap(err, "inspect: decoding image")
	}

	fmt.Printf("static section: %d bytes\n", len(img.StaticSection))
	fmt.Printf("text section:   %d bytes\n", len(img.TextSection))

	fmt.Println("function table:")
	for _, name := range sortedKeys(img.FunctionTable) {
		fmt.Printf("  %-24s %d\n", name, img.FunctionTable[name])
	}

	fmt.Println("static table:")
	for _, name := range sortedKeys(img.StaticTable) {
		fmt.Printf("  %-24s %d\n", name, img.StaticTable[name])
	}
	return nil
}

func sortedKeys(table map[string]int64) []string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
