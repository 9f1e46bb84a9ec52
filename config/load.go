package config

import (
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/chisel/errors"
)

// DefaultPath is the configuration file used when none is given.
const DefaultPath = "chisel.yml"

// Load reads the file at path and parses it into a document tree.
func Load(path string) (*yaml.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.KindConfigOpenFailed).Path(path).Cause(err).Build()
	}
	Logger().Debug("config loaded", zap.String("path", path), zap.Int("bytes", len(data)))
	return Parse(data)
}

// Parse parses YAML text into a document tree.
func Parse(text []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(text, &doc); err != nil {
		return nil, errors.Wrap(errors.KindConfigParseFailed, err, "")
	}
	return &doc, nil
}

// LoadContext loads, parses and resolves the configuration at path.
func LoadContext(path string) (*ChiselContext, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}
	return Resolve(doc)
}
