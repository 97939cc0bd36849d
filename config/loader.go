package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/jmgilman/go/wrapper/errors"
	"github.com/jmgilman/go/wrapper/trace"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Extensions recognized by Load and Discover, in discovery order.
var Extensions = []string{".cue", ".json", ".yaml", ".yml"}

// Loader reads configuration files from a filesystem.
type Loader struct {
	fs     billy.Filesystem
	cueCtx *cue.Context
	log    *zap.Logger
}

// NewLoader creates a Loader. A nil logger disables logging.
func NewLoader(fs billy.Filesystem, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		fs:     fs,
		cueCtx: cuecontext.New(),
		log:    log,
	}
}

// Load reads the configuration file at path. The format is chosen by extension.
// A relative path is resolved against the process working directory.
//
// Returns CodeNotFound if the file does not exist, CodeConfigLoadFailed if it
// cannot be read or compiled and CodeConfigDecodeFailed if it violates the schema.
func (l *Loader) Load(path string) (*Config, error) {
	if !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, errors.WrapWithContext(err, errors.CodeConfigLoadFailed, "failed to resolve configuration path",
				map[string]interface{}{"path": path})
		}
		path = abs
	}
	ext := strings.ToLower(filepath.Ext(path))

	data, err := util.ReadFile(l.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithContext(err, errors.CodeNotFound, "configuration file does not exist",
				map[string]interface{}{"path": path})
		}
		return nil, errors.WrapWithContext(err, errors.CodeConfigLoadFailed, "failed to read configuration file",
			map[string]interface{}{"path": path})
	}

	var cfg *Config
	switch ext {
	case ".cue", ".json":
		cfg, err = l.decodeCUE(data, path)
	case ".yaml", ".yml":
		cfg, err = decodeYAML(data, path)
	default:
		return nil, errors.WithContext(
			errors.Newf(errors.CodeConfigLoadFailed, "unsupported configuration file extension %q", ext),
			"path", path,
		)
	}
	if err != nil {
		return nil, err
	}

	cfg.Source = path
	l.log.Debug("loaded configuration", zap.String("path", path), zap.Bool("executable", cfg.HasExecutable()))
	return cfg, nil
}

// Discover returns the first existing configuration file next to binary,
// named after it with one of Extensions, or "" if there is none.
func (l *Loader) Discover(binary string) (string, error) {
	base := strings.TrimSuffix(binary, filepath.Ext(binary))
	for _, candidate := range []string{binary, base} {
		for _, ext := range Extensions {
			path := candidate + ext
			_, err := l.fs.Stat(path)
			if err == nil {
				return path, nil
			}
			if !os.IsNotExist(err) {
				return "", errors.WrapWithContext(err, errors.CodeConfigLoadFailed, "failed to check configuration file",
					map[string]interface{}{"path": path})
			}
		}
		if base == binary {
			break
		}
	}
	return "", nil
}

func (l *Loader) decodeCUE(data []byte, path string) (*Config, error) {
	def := l.cueCtx.CompileString(schema).LookupPath(cue.ParsePath("#Config"))
	if err := def.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "configuration schema does not compile")
	}

	val := l.cueCtx.CompileBytes(data, cue.Filename(path))
	if err := val.Err(); err != nil {
		return nil, errors.WrapWithContext(err, errors.CodeConfigLoadFailed, "failed to compile configuration file",
			map[string]interface{}{"path": path})
	}

	unified := def.Unify(val)
	if err := unified.Validate(cue.Concrete(true), cue.Final(), cue.All()); err != nil {
		return nil, errors.WrapWithContext(err, errors.CodeConfigDecodeFailed, "configuration file does not match schema",
			map[string]interface{}{"path": path, "issues": schemaIssues(err)})
	}

	var cfg Config
	if err := unified.Decode(&cfg); err != nil {
		return nil, errors.WrapWithContext(err, errors.CodeConfigDecodeFailed, "failed to decode configuration file",
			map[string]interface{}{"path": path})
	}
	if err := validateDialect(cfg.TraceDialect); err != nil {
		return nil, errors.WithContext(err, "path", path)
	}
	return &cfg, nil
}

func decodeYAML(data []byte, path string) (*Config, error) {
	var cfg Config
	if len(bytes.TrimSpace(data)) == 0 {
		return &cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.WrapWithContext(err, errors.CodeConfigDecodeFailed, "failed to decode configuration file",
			map[string]interface{}{"path": path})
	}
	if err := validateDialect(cfg.TraceDialect); err != nil {
		return nil, errors.WithContext(err, "path", path)
	}
	return &cfg, nil
}

// validateDialect accepts exactly the names the trace package resolves.
func validateDialect(d string) error {
	if _, err := trace.DialectFor(d); err != nil {
		return errors.Wrap(err, errors.CodeConfigDecodeFailed, "invalid traceDialect")
	}
	return nil
}

// schemaIssues flattens CUE errors into "field: message" strings.
func schemaIssues(err error) []string {
	var issues []string
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		if p := e.Path(); len(p) > 0 {
			msg = strings.Join(p, ".") + ": " + msg
		}
		issues = append(issues, msg)
	}
	return issues
}
