package cli

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/egg/cli/cmd"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config.yaml"

// loadYAML is a [kong.ConfigurationLoader] for YAML files such as the one
// written by "egg init".
//
// Keys are flag names. Underscores may stand in for hyphens, and a mapping
// nests the flags of a group under their common prefix, so these are
// equivalent:
//
//	log-level: debug
//	log_level: debug
//	log:
//	  level: debug
//
// Command-line flags override configured values.
func loadYAML(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, cmd.ErrParseConfig.Wrap(err)
	}

	settings := make(config)

	if len(bytes.TrimSpace(data)) == 0 {
		return settings, nil
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, cmd.ErrParseConfig.Wrap(err)
	}

	settings.flatten("", doc)

	return settings, nil
}

// config implements [kong.Resolver] over flag names in hyphenated form.
type config map[string]any

func (c config) flatten(prefix string, doc map[string]any) {
	for key, val := range doc {
		name := prefix + strings.ReplaceAll(key, "_", "-")

		if group, ok := val.(map[string]any); ok {
			c.flatten(name+"-", group)

			continue
		}

		c[name] = scalar(val)
	}
}

// scalar converts a decoded YAML value to one kong can map onto a flag.
// Numbers must arrive as strings.
func scalar(val any) any {
	switch v := val.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = scalar(e)
		}

		return out
	default:
		return v
	}
}

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if v, ok := c[flag.Name]; ok {
		return v, nil
	}

	return nil, nil //nolint:nilnil
}
