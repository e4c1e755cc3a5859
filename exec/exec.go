package exec

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cheynewallace/tabby"
	"github.com/liran-funaro/dfalex/graph"
	"github.com/liran-funaro/dfalex/logutil"
	"github.com/liran-funaro/dfalex/parser"
	"github.com/liran-funaro/dfalex/writer"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var ErrUnreachableRule = errors.New("rule can never match")

type Params struct {
	Config
	InputFilename  string
	HeaderFilename string
	SourceFilename string
	Fs             afero.Fs
	Stdin          io.Reader
	Stdout         io.Writer
	Stderr         io.Writer

	logger *zap.Logger
}

// NewParams returns params for the real file system and standard streams.
func NewParams() *Params {
	return &Params{
		Config: NewConfig(),
		Fs:     afero.NewOsFs(),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

func (p *Params) initLogger() error {
	logger, err := logutil.InitLogger(p.LogLevel, p.Stderr)
	if err != nil {
		return err
	}
	p.logger = logger
	return nil
}

// ExecuteWithParams generates the scanner of the input rule file. Nothing is
// written unless every stage succeeds.
func ExecuteWithParams(p *Params) error {
	if err := p.initLogger(); err != nil {
		return err
	}
	program, err := p.parseProgram()
	if err != nil {
		return errors.Wrap(err, "parse-program")
	}
	defer program.Destroy()

	if err = p.checkRules(program); err != nil {
		return err
	}

	b := &writer.ScannerBuilder{
		Package: p.Package,
		Prefix:  p.Prefix,
	}
	scanner, err := b.DumpFormattedScanner(program.DFA)
	if err != nil {
		return errors.Wrap(err, "dump scanner")
	}

	if err = p.writeOutputs(scanner); err != nil {
		return err
	}
	if err = p.writeGraphs(program); err != nil {
		return err
	}
	p.logger.Debug("scanner written",
		zap.String("header", p.HeaderFilename),
		zap.String("source", p.SourceFilename))

	if p.Stats {
		p.printStats(program)
	}
	return nil
}

func (p *Params) parseProgram() (*parser.Program, error) {
	infile, err := p.Fs.Open(p.InputFilename)
	if err != nil {
		return nil, errors.Wrap(err, "open input")
	}
	defer closeFile(infile)

	program, err := parser.ParseProgram(infile)
	if err != nil {
		return nil, errors.Wrap(err, p.InputFilename)
	}
	for _, s := range program.Stages {
		p.logger.Debug("built automaton",
			zap.String("stage", s.Name),
			zap.Int("states", s.States),
			zap.Duration("elapsed", s.Elapsed))
	}
	return program, nil
}

// checkRules warns about rules that cannot produce every string they match.
// In strict mode a rule that never matches is an error.
func (p *Params) checkRules(program *parser.Program) error {
	for _, s := range program.Nullable() {
		p.logger.Warn("rule matches the empty string; empty tokens are never returned",
			zap.String("symbol", s))
	}
	unreachable := program.Unreachable()
	for _, s := range unreachable {
		p.logger.Warn("rule can never match", zap.String("symbol", s))
	}
	if p.Strict && len(unreachable) > 0 {
		return errors.Wrap(ErrUnreachableRule, strings.Join(unreachable, ", "))
	}
	return nil
}

// writeOutputs writes the header and then the source. On failure neither
// file is left behind.
func (p *Params) writeOutputs(s *writer.Scanner) error {
	if err := afero.WriteFile(p.Fs, p.HeaderFilename, s.Header, 0o666); err != nil {
		_ = p.Fs.Remove(p.HeaderFilename)
		return errors.Wrap(err, "write header")
	}
	if err := afero.WriteFile(p.Fs, p.SourceFilename, s.Source, 0o666); err != nil {
		_ = p.Fs.Remove(p.SourceFilename)
		_ = p.Fs.Remove(p.HeaderFilename)
		return errors.Wrap(err, "write source")
	}
	return nil
}

// writeGraphs writes the requested DOT files once the outputs are written. On
// failure every file of the run is removed.
func (p *Params) writeGraphs(program *parser.Program) error {
	written := []string{p.HeaderFilename, p.SourceFilename}
	for _, g := range []struct {
		path  string
		write func(io.Writer) error
	}{
		{p.NfaDot, program.WriteNFADotGraph},
		{p.DfaDot, program.WriteDFADotGraph},
	} {
		if g.path == "" {
			continue
		}
		written = append(written, g.path)
		if err := writeWithWriter(p.Fs, g.path, g.write); err != nil {
			for _, f := range written {
				_ = p.Fs.Remove(f)
			}
			return errors.Wrap(err, "write graph")
		}
	}
	return nil
}

func (p *Params) printStats(program *parser.Program) {
	t := tabby.NewCustom(tabwriter.NewWriter(p.Stdout, 0, 0, 2, ' ', 0))
	t.AddHeader("STAGE", "STATES", "ELAPSED")
	for _, s := range program.Stages {
		t.AddLine(s.Name, s.States, s.Elapsed)
	}
	t.Print()
}

// ScanWithParams tokenizes every text, or the standard input if there is
// none, with the rules of the input file. It prints one token per line and
// fails at the first byte no rule matches.
func ScanWithParams(p *Params, texts []string) error {
	if err := p.initLogger(); err != nil {
		return err
	}
	program, err := p.parseProgram()
	if err != nil {
		return errors.Wrap(err, "parse-program")
	}
	defer program.Destroy()
	if err = p.checkRules(program); err != nil {
		return err
	}

	if len(texts) == 0 {
		in, err := io.ReadAll(p.Stdin)
		if err != nil {
			return errors.Wrap(err, "read input")
		}
		texts = []string{string(in)}
	}
	for _, text := range texts {
		tokens, err := program.DFA.Tokenize([]byte(text))
		p.printTokens(tokens)
		if err != nil {
			return errors.Wrapf(err, "scan %q", text)
		}
	}
	return nil
}

func (p *Params) printTokens(tokens []graph.Token) {
	var buf bytes.Buffer
	for _, tok := range tokens {
		fmt.Fprintf(&buf, "%d\t%s\t%q\n", tok.Offset, tok.Symbol, tok.Text)
	}
	_, _ = p.Stdout.Write(buf.Bytes())
}

func closeFile(f afero.File) {
	_ = f.Close()
}

func writeWithWriter(fs afero.Fs, filepath string, writer func(io.Writer) error) error {
	f, err := fs.Create(filepath)
	if err != nil {
		return err
	}
	defer closeFile(f)
	return writer(f)
}
