package exec

import (
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/liran-funaro/dfalex/logutil"
	"github.com/liran-funaro/dfalex/writer"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

var ErrUnknownConfigKey = errors.New("config file contained unknown options")

// Config holds the settings that may come from a config file. Command line
// flags override them.
type Config struct {
	Package  string `toml:"package"`
	Prefix   string `toml:"prefix"`
	Strict   bool   `toml:"strict"`
	Stats    bool   `toml:"stats"`
	LogLevel string `toml:"log-level"`
	NfaDot   string `toml:"nfa-dot"`
	DfaDot   string `toml:"dfa-dot"`
}

func NewConfig() Config {
	return Config{
		Package:  writer.DefaultPackage,
		LogLevel: logutil.DefaultLevel,
	}
}

// Load decodes the TOML file at path over c. Keys that match no field are an
// error.
func (c *Config) Load(fs afero.Fs, path string) error {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return errors.Wrap(err, "read config")
	}
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return errors.Wrap(err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return errors.Wrap(ErrUnknownConfigKey, strings.Join(keys, ", "))
	}
	return nil
}
