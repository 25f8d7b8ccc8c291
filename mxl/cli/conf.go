package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/npillmayer/mxl"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
)

const appTag = "MXL"

// envPrefix selects environment variables: MXL_REPL_PROMPT sets repl.prompt.
const envPrefix = appTag + "_"

var defaults = map[string]interface{}{
	"repl.editmode": "emacs",
	"repl.prompt":   "mxl",
	"trace.root":    "Error",
}

// loadConfig is a callback function used by cobra's initialization mechanism.
// Unfortunately we're not allowed a return value.
func loadConfig() {
	k, err := newConfig()
	if err != nil {
		tracing.Errorf(err.Error())
		mxl.Exit(1)
	}
	mxl.Configuration = k // push the configuration to app-global scope
}

func newConfig() (*koanf.Koanf, error) {
	k := koanf.New(".") // '.' is hierarchy delimiter
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, err
	}
	// We locate mxl configuration with an application-key of 'MXL' and
	// use NestedText-format (nt) for config-files
	konf := koanfadapter.New(k, appTag, []string{"nt"})
	konf.InitDefaults()
	if err := loadConfigFile(konf); err != nil {
		return nil, err
	}
	if err := loadEnv(konf); err != nil {
		return nil, err
	}
	if err := mergeFlags(konf); err != nil {
		return nil, err
	}
	if err := configureTracing(konf); err != nil {
		return nil, err
	}
	return k, nil
}

// loadConfigFile loads a configuration file given by flag --config.
// NestedText and YAML are understood.
func loadConfigFile(konf *koanfadapter.KConf) error {
	path, err := rootCmd.PersistentFlags().GetString("config")
	if err != nil || path == "" {
		return nil
	}
	var parser koanf.Parser
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".nt":
		parser = koanfadapter.Parser()
	case ".yml", ".yaml":
		parser = yaml.Parser()
	default:
		return fmt.Errorf("config file %q: unknown format %q", path, ext)
	}
	if err := konf.Koanf().Load(file.Provider(path), parser); err != nil {
		return fmt.Errorf("config file %q: %w", path, err)
	}
	tracer().Infof("loaded configuration from %q", path)
	return nil
}

func loadEnv(konf *koanfadapter.KConf) error {
	return konf.Koanf().Load(env.Provider(envPrefix, ".", envKey), nil)
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
}

func mergeFlags(konf *koanfadapter.KConf) error {
	flags := rootCmd.PersistentFlags()
	err := konf.Koanf().Load(posflag.Provider(flags, ".", konf.Koanf()), nil)
	if err != nil {
		return err
	}
	if logname := konf.GetString("logfile"); logname != "" && logname != "stderr" {
		if strings.Contains(logname, ":/") {
			konf.Set("tracing.destination", logname)
		} else {
			konf.Set("tracing.destination", "file://"+logname)
		}
	}
	return err
}

func configureTracing(konf *koanfadapter.KConf) error {
	if a := konf.GetString("tracing.adapter"); a != "" && a != "go" {
		tracing.Errorf("tracing adapter type '%s' currently not supported", a)
	}
	konf.Set("tracing.adapter", "go") // use Go builtin logging facilities
	if dest := konf.GetString("tracing.destination"); dest != "" {
		// a bare file name from a configuration file is placed into the log directory
		if !strings.Contains(dest, ":") {
			if dir := locateLogDir(); dir != "" {
				konf.Set("tracing.destination", "file://"+filepath.Join(dir, dest))
			}
		}
	}
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	if err := trace2go.ConfigureRoot(konf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return err
	}
	tracing.SetTraceSelector(trace2go.Selector())
	tracing.Infof("mxl %s", version)
	return nil
}

func appPathsOrDefault() AppPaths {
	paths, err := DefaultAppPaths(appTag)
	if err != nil {
		tracing.Errorf("cannot configure paths: %v", err)
	}
	return paths
}

func locateLogDir() string {
	return appPathsOrDefault().LogDir()
}
