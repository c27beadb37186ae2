package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"anyvm/imagefmt"
	"anyvm/internal/config"
	"anyvm/vm"
)

func newRunCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Mount an image and invoke its entry point",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImage(configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a TOML launch configuration (required)")
	cmd.MarkFlagRequired("config")
	return cmd
}

func runImage(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Image == "" {
		return errors.New("run: config has no image path")
	}

	f, err := os.Open(cfg.Image)
	if err != nil {
		return errors.Wrapf(err, "run: opening %s", cfg.Image)
	}
	defer f.Close()

	img, err := imagefmt.Decode(f)
	if err != nil {
		return errors.Wrap(err, "run: decoding image")
	}

	m := vm.NewMachine(cfg.Capacity)
	if err := m.Mount(img); err != nil {
		return errors.Wrap(err, "run: mounting image")
	}

	for _, ht := range cfg.HostTables {
		table, err := buildHostTable(ht.Kind, os.Stdout)
		if err != nil {
			return err
		}
		m.Register(ht.Name, table)
	}

	offset, ok := m.Lookup(img, cfg.Entry)
	if !ok {
		return errors.Errorf("run: entry symbol %q not found", cfg.Entry)
	}

	result, err := m.Invoke(offset)
	if err != nil {
		return errors.Wrap(err, "run: invocation failed")
	}

	fmt.Fprintf(os.Stdout, "exit: outcome=%v value=%d\n", result.Outcome, result.Value)
	return nil
}

func buildHostTable(kind string, w *os.File) (*vm.HostTable, error) {
	switch kind {
	case "stdabi":
		return vm.NewStdabiTable(w), nil
	case "stdio":
		return vm.NewStdioTable(w), nil
	default:
		return nil, errors.Errorf("run: unknown host table kind %q", kind)
	}
}
