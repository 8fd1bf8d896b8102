package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/DKingAlpha/NxDmntASM/api"
	"github.com/DKingAlpha/NxDmntASM/browser"
	"github.com/DKingAlpha/NxDmntASM/cheatfile"
	"github.com/DKingAlpha/NxDmntASM/config"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	rootCmd := &cobra.Command{
		Use:   "nxdmntasm",
		Short: "Convert between dmnt cheat-VM assembly and machine code",
		Long: `nxdmntasm assembles human-readable dmnt cheat-VM assembly into the
hex opcodes the Switch's cheat engine executes, and disassembles hex
opcodes back into that syntax.`,
		Version: fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date),
	}

	var indent int
	rootCmd.PersistentFlags().IntVar(&indent, "indent", cfg.Format.IndentWidth, "spaces per nesting level in disassembled output")

	rootCmd.AddCommand(newAsmCmd(&indent))
	rootCmd.AddCommand(newDismCmd(&indent))
	rootCmd.AddCommand(newServeCmd(cfg))
	rootCmd.AddCommand(newBrowseCmd(&indent))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newAsmCmd converts each .txt input (cheat-assembly source) into a
// sibling .asm file of hex machine code.
func newAsmCmd(indent *int) *cobra.Command {
	return &cobra.Command{
		Use:   "asm <file.txt>...",
		Short: "Assemble cheat-assembly source files into hex machine code",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return convertFiles(args, ".asm", *indent, func(f *cheatfile.File, name string, report cheatfile.ErrorHandler) string {
				f.Assemble(name, report)
				return f.Dump(*indent, true)
			})
		},
	}
}

// newDismCmd converts each hex-machine-code input into a sibling file
// of disassembled, indented cheat-assembly source.
func newDismCmd(indent *int) *cobra.Command {
	return &cobra.Command{
		Use:   "dism <file>...",
		Short: "Disassemble hex machine code into cheat-assembly source",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return convertFiles(args, ".dism.txt", *indent, func(f *cheatfile.File, name string, report cheatfile.ErrorHandler) string {
				f.Disassemble(name, report)
				return f.Dump(*indent, false)
			})
		},
	}
}

func convertFiles(paths []string, outExt string, indent int, run func(*cheatfile.File, string, cheatfile.ErrorHandler) string) error {
	for _, path := range paths {
		content, err := os.ReadFile(path) // #nosec G304 -- user-supplied CLI path
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		var msgs []string
		f := cheatfile.Load(string(content), func(e error) { msgs = append(msgs, e.Error()) })
		output := run(f, path, func(e error) { msgs = append(msgs, e.Error()) })

		outPath := strings.TrimSuffix(path, filepath.Ext(path)) + outExt
		if err := os.WriteFile(outPath, []byte(output), 0600); err != nil {
			return fmt.Errorf("%s: %w", outPath, err)
		}

		log.Printf("converted %s -> %s", path, outPath)
		for _, m := range msgs {
			log.Printf("  %s", m)
		}
	}
	return nil
}

// newServeCmd starts the HTTP API front end used by GUI/editor
// integrations (/dmnt_asm, /dmnt_dism).
func newServeCmd(cfg *config.Config) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP conversion API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := api.NewServer(port, cfg.Format.IndentWidth)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().IntVar(&port, "port", cfg.Server.Port, "API server port")
	return cmd
}

// newBrowseCmd opens the terminal entry viewer over a single cheat-text
// file without converting or writing anything.
func newBrowseCmd(indent *int) *cobra.Command {
	return &cobra.Command{
		Use:   "browse <file>",
		Short: "Browse a cheat file's entries in a terminal viewer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0]) // #nosec G304 -- user-supplied CLI path
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			f := cheatfile.Load(string(content), nil)
			return browser.New(f, *indent).Run()
		},
	}
}
