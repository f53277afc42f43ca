package driver

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/mikekucharski/COMP603-2015/pkg/compiler"
	"github.com/mikekucharski/COMP603-2015/pkg/interpreter"
	"github.com/mikekucharski/COMP603-2015/pkg/parser"
)

// Config is the tool configuration read from bf.toml. Command-line flags
// override it.
type Config struct {
	Path        string            `toml:"-"`
	Parser      ParserConfig      `toml:"parser"`
	Interpreter InterpreterConfig `toml:"interpreter"`
	Compiler    CompilerConfig    `toml:"compiler"`
	Cache       CacheConfig       `toml:"cache"`
}

type ParserConfig struct {
	Lenient bool `toml:"lenient"`
}

type InterpreterConfig struct {
	TapeSize int    `toml:"tape_size"`
	EOF      string `toml:"eof"`
}

type CompilerConfig struct {
	Target    string `toml:"target"`
	ClassName string `toml:"class_name"`
	Package   string `toml:"package"`
}

type CacheConfig struct {
	Dir string `toml:"dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Interpreter: InterpreterConfig{
			TapeSize: interpreter.DefaultTapeSize,
			EOF:      interpreter.EOFLeave.String(),
		},
		Compiler: CompilerConfig{
			Target:  string(compiler.TargetJava),
			Package: "main",
		},
	}
}

// LoadConfig decodes path over DefaultConfig, so omitted keys keep their
// defaults. Unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return nil, fmt.Errorf("config: %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs ValidationError
	if c.Interpreter.TapeSize <= 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("interpreter.tape_size must be positive (got %d)", c.Interpreter.TapeSize))
	}
	if _, err := interpreter.ParseEOFPolicy(c.Interpreter.EOF); err != nil {
		errs.Issues = append(errs.Issues, fmt.Sprintf("interpreter.eof: unknown policy %q", c.Interpreter.EOF))
	}
	if _, err := compiler.ParseTarget(c.Compiler.Target); err != nil {
		errs.Issues = append(errs.Issues, fmt.Sprintf("compiler.target: unknown target %q", c.Compiler.Target))
	}
	if len(errs.Issues) > 0 {
		return fmt.Errorf("config: %w", &errs)
	}
	return nil
}

func (c *Config) ParserOptions() parser.Options {
	return parser.Options{Lenient: c.Parser.Lenient}
}

// InterpreterOptions assumes a validated config.
func (c *Config) InterpreterOptions() interpreter.Options {
	policy, _ := interpreter.ParseEOFPolicy(c.Interpreter.EOF)
	return interpreter.Options{TapeSize: c.Interpreter.TapeSize, EOF: policy}
}

// CompilerOptions assumes a validated config.
func (c *Config) CompilerOptions() compiler.Options {
	target, _ := compiler.ParseTarget(c.Compiler.Target)
	return compiler.Options{
		Target:      target,
		ClassName:   c.Compiler.ClassName,
		PackageName: c.Compiler.Package,
		TapeSize:    c.Interpreter.TapeSize,
	}
}

// CacheDir prefers [cache] dir over $BF_HOME and ~/.bf. A relative dir is
// anchored at the config file.
func (c *Config) CacheDir() (string, error) {
	if dir := strings.TrimSpace(c.Cache.Dir); dir != "" {
		if !filepath.IsAbs(dir) && c.Path != "" {
			dir = filepath.Join(filepath.Dir(c.Path), dir)
		}
		return filepath.Abs(dir)
	}
	return DefaultCacheDir()
}
