package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/toyz/visitgen/internal/cli"
	"github.com/toyz/visitgen/internal/utils"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the command line in args and returns the process exit code
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

// app carries the state shared by the subcommands of one invocation
type app struct {
	v          *viper.Viper
	configFile string
	stdout     io.Writer
	stderr     io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{v: cli.NewViper(), stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "visitgen",
		Short: "Generate visitor pattern code for C# type hierarchies",
		Long: `visitgen scans C# sources for interfaces marked [Visitable] and generates
the visitor interface, Accept extensions for every implementing class and the
Accept method of each visitable interface.

Directory Patterns:
  ./...              Scan current directory and all subdirectories recursively
  ./src/...          Scan src and all its subdirectories
  ./src/Shapes       Scan a single directory tree

Configuration is read from visitgen.yaml or visitgen.toml in the working
directory or the first input directory, then from VISITGEN_* environment
variables, then from flags.

Examples:
  visitgen generate ./...                 # Generate into ./Generated
  visitgen generate -o Visitors ./src     # Choose the output directory
  visitgen generate --dry-run ./...       # List the files that would change
  visitgen watch ./src                    # Regenerate on every save
  visitgen clean ./...                    # Remove generated files`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Config file (default: visitgen.yaml or visitgen.toml)")
	flags.StringP("output", "o", "", "Output directory (default: <first directory>/Generated)")
	flags.String("collisions", "qualify", "How to resolve clashing file names: qualify or error")
	flags.Bool("strict", false, "Fail on files that cannot be parsed instead of skipping them")
	flags.BoolP("verbose", "v", false, "Enable verbose output and detailed error reporting")
	flags.BoolP("quiet", "q", false, "Only show errors")
	flags.Bool("dry-run", false, "Report what would be written or removed without touching the disk")
	flags.StringSlice("exclude", nil, "Extra directory names to skip while scanning")

	for key, name := range map[string]string{
		cli.KeyOutput:     "output",
		cli.KeyCollisions: "collisions",
		cli.KeyStrict:     "strict",
		cli.KeyVerbose:    "verbose",
		cli.KeyQuiet:      "quiet",
		cli.KeyDryRun:     "dry-run",
		cli.KeyExclude:    "exclude",
	} {
		// the flags exist, so binding cannot fail
		_ = a.v.BindPFlag(key, flags.Lookup(name))
	}

	root.AddCommand(a.generateCmd(), a.cleanCmd(), a.watchCmd(), versionCmd())
	return root
}

func (a *app) generateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate [directories...]",
		Short: "Generate visitor code once",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, d, err := a.setup(args)
			if err != nil {
				return err
			}

			d.Header("Generating visitor code")
			d.SourcePath(g.Config().Directories...)

			if err := g.Run(cmd.Context()); err != nil {
				a.reporter(g.Config()).ReportError(err)
				return err
			}

			summary := g.GetSummary()
			d.Summary("Summary", summary.Stats())
			if g.Config().Verbose && len(summary.GeneratedFiles) > 0 {
				d.Subsection("Generated Files")
				d.Indent()
				for _, file := range summary.GeneratedFiles {
					d.List("%s", file)
				}
				d.Unindent()
			}
			d.GenerationComplete()
			return nil
		},
	}
}

func (a *app) cleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [directories...]",
		Short: "Remove generated files from the output directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, d, err := a.load(args)
			if err != nil {
				return err
			}

			d.Header("Cleaning generated files")
			removed, err := cli.NewCleaner(d).CleanGeneratedFiles(config)
			if err != nil {
				a.reporter(config).ReportError(err)
				return err
			}

			if config.DryRun {
				d.Success("%d files would be removed", len(removed))
			} else {
				d.Success("Removed %d files", len(removed))
			}
			return nil
		},
	}
}

func (a *app) watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [directories...]",
		Short: "Regenerate whenever a C# source changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, d, err := a.setup(args)
			if err != nil {
				return err
			}

			d.Header("Watching for changes (Ctrl+C to stop)")
			d.SourcePath(g.Config().Directories...)

			if err := cli.NewWatcher(g).Run(cmd.Context()); err != nil {
				a.reporter(g.Config()).ReportError(err)
				return err
			}
			return nil
		},
	}
	cmd.Flags().Duration("debounce", cli.DefaultDebounce, "Time to wait for file events to settle")
	// the flag exists, so binding cannot fail
	_ = a.v.BindPFlag(cli.KeyWatchDebounce, cmd.Flags().Lookup("debounce"))
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the visitgen version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "visitgen %s (manifest format %s)\n", version, cli.ManifestVersion)
		},
	}
}

// load resolves the configuration and builds the diagnostics system for it.
// Configuration errors are reported before they are returned.
func (a *app) load(args []string) (cli.Config, *utils.DiagnosticSystem, error) {
	config, err := cli.LoadConfig(a.v, a.configFile, args)
	if err != nil {
		a.reporter(config).ReportError(err)
		return cli.Config{}, nil, err
	}

	d := utils.NewDiagnosticSystem(config.DiagnosticLevel())
	if a.stdout != os.Stdout || a.stderr != os.Stderr {
		d.SetOutput(a.stdout, a.stderr)
	}
	if config.ConfigFile != "" {
		d.Verbose("Using config file %s", config.ConfigFile)
	}
	return config, d, nil
}

func (a *app) setup(args []string) (*cli.Generator, *utils.DiagnosticSystem, error) {
	config, d, err := a.load(args)
	if err != nil {
		return nil, nil, err
	}

	g, err := cli.NewGenerator(config, d)
	if err != nil {
		a.reporter(config).ReportError(err)
		return nil, nil, err
	}
	g.SetReporter(a.reporter(config))
	return g, d, nil
}

func (a *app) reporter(config cli.Config) *cli.DiagnosticReporter {
	return cli.NewDiagnosticReporterTo(a.stderr, config.Verbose)
}
