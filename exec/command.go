package exec

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// NewRootCommand builds the command tree. Settings end up in p: defaults,
// then the config file, then the flags that were given.
func NewRootCommand(name string, p *Params) *cobra.Command {
	var configFile string
	flags := NewConfig()

	root := &cobra.Command{
		Use:           name,
		Short:         name + " compiles lexical rules into a table-driven Go scanner.",
		SilenceErrors: true,
	}
	root.SetIn(p.Stdin)
	root.SetOut(p.Stdout)
	root.SetErr(p.Stderr)
	root.PersistentFlags().StringVar(&configFile, "config", "", "TOML config file")
	root.PersistentFlags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "log level (debug, info, warn, error)")

	// load resolves the settings once the flags are parsed.
	load := func(cmd *cobra.Command) error {
		if configFile != "" {
			if err := p.Config.Load(p.Fs, configFile); err != nil {
				return err
			}
		}
		cmd.Flags().Visit(func(f *pflag.Flag) {
			switch f.Name {
			case "package":
				p.Package = flags.Package
			case "prefix":
				p.Prefix = flags.Prefix
			case "strict":
				p.Strict = flags.Strict
			case "stats":
				p.Stats = flags.Stats
			case "log-level":
				p.LogLevel = flags.LogLevel
			case "nfa-dot":
				p.NfaDot = flags.NfaDot
			case "dfa-dot":
				p.DfaDot = flags.DfaDot
			}
		})
		// Errors past this point are not usage errors.
		cmd.SilenceUsage = true
		return nil
	}

	generate := &cobra.Command{
		Use:   "generate <inputRulesPath> -o <headerOutputPath> <sourceOutputPath>",
		Short: "Generate the token kinds header and the scanner source",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := load(cmd); err != nil {
				return err
			}
			p.InputFilename, p.SourceFilename = args[0], args[1]
			return ExecuteWithParams(p)
		},
	}
	f := generate.Flags()
	f.StringVarP(&p.HeaderFilename, "output", "o", "", "header output file")
	f.StringVar(&flags.Package, "package", flags.Package, "package name of the generated files")
	f.StringVar(&flags.Prefix, "prefix", "", "name prefix of the generated token kinds")
	f.StringVar(&flags.NfaDot, "nfa-dot", "", "write the NFA graph in DOT format")
	f.StringVar(&flags.DfaDot, "dfa-dot", "", "write the minimal DFA graph in DOT format")
	f.BoolVar(&flags.Strict, "strict", false, "fail when a rule can never match")
	f.BoolVar(&flags.Stats, "stats", false, "print automaton sizes and build times")
	_ = generate.MarkFlagRequired("output")

	scan := &cobra.Command{
		Use:   "scan <inputRulesPath> [text...]",
		Short: "Tokenize texts, or the standard input, with the rules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := load(cmd); err != nil {
				return err
			}
			p.InputFilename = args[0]
			return ScanWithParams(p, args[1:])
		},
	}
	scan.Flags().BoolVar(&flags.Strict, "strict", false, "fail when a rule can never match")

	root.AddCommand(generate, scan)
	return root
}

// Execute runs the command line args against the real file system.
func Execute(name string, args ...string) error {
	root := NewRootCommand(name, NewParams())
	root.SetArgs(args)
	return root.Execute()
}
