package config

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/chisel/errors"
)

const (
	keyFile   = "file"
	keyPreset = "preset"
)

// Resolve turns a parsed document into a ChiselContext.
//
// The ruleset is the first top-level entry with a string key and a mapping
// value; later ruleset-shaped entries are ignored. Resolve checks shape only:
// whether a check name is known is decided at dispatch time.
func Resolve(doc *yaml.Node) (*ChiselContext, error) {
	root := deref(doc)
	if root != nil && root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, errors.New(errors.KindConfigInvalid).Detail("empty document").Build()
		}
		root = deref(root.Content[0])
	}
	if root == nil || root.Kind != yaml.MappingNode {
		return nil, errors.New(errors.KindConfigInvalid).Detail("top level is %s, not a mapping", describe(root)).Build()
	}

	var ctx *ChiselContext
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := deref(root.Content[i]), deref(root.Content[i+1])
		if !isString(key) || value.Kind != yaml.MappingNode {
			continue
		}
		if ctx != nil {
			Logger().Info("ignoring additional ruleset", zap.String("ruleset", key.Value), zap.Int("line", key.Line))
			continue
		}
		var err error
		ctx, err = resolveRuleset(key.Value, value)
		if err != nil {
			return nil, err
		}
	}
	if ctx == nil {
		return nil, errors.New(errors.KindConfigInvalid).Detail("no ruleset found").Build()
	}

	Logger().Debug("ruleset resolved",
		zap.String("ruleset", ctx.Ruleset),
		zap.String("file", ctx.File),
		zap.Int("modules", len(ctx.Modules)))
	return ctx, nil
}

func resolveRuleset(name string, rules *yaml.Node) (*ChiselContext, error) {
	if err := checkUniqueKeys(rules); err != nil {
		return nil, errors.New(errors.KindConfigParseFailed).Path(name).Cause(err).Build()
	}

	file, err := resolveFile(name, rules)
	if err != nil {
		return nil, err
	}

	ctx := &ChiselContext{Ruleset: name, File: file}
	for i := 0; i+1 < len(rules.Content); i += 2 {
		key, value := deref(rules.Content[i]), deref(rules.Content[i+1])
		if isString(key) && key.Value == keyFile {
			continue
		}
		mc, err := resolveModule(name, key, value)
		if err != nil {
			return nil, err
		}
		ctx.Modules = append(ctx.Modules, mc)
	}
	return ctx, nil
}

func resolveFile(ruleset string, rules *yaml.Node) (string, error) {
	value := lookup(rules, keyFile)
	if value == nil {
		return "", errors.New(errors.KindConfigMissingFile).Path(ruleset).Build()
	}
	if !isString(value) {
		return "", errors.TypeMismatch(errors.KindFileTypeMismatch, []string{ruleset, keyFile}, describe(value))
	}
	return value.Value, nil
}

func resolveModule(ruleset string, key, flags *yaml.Node) (ModuleConfig, error) {
	if !isString(key) {
		return ModuleConfig{}, errors.TypeMismatch(errors.KindModuleTypeMismatch, []string{ruleset, key.Value}, "key "+describe(key))
	}
	if flags.Kind != yaml.MappingNode {
		return ModuleConfig{}, errors.TypeMismatch(errors.KindModuleTypeMismatch, []string{ruleset, key.Value}, describe(flags))
	}

	mc := ModuleConfig{Name: key.Value}
	if preset := lookup(flags, keyPreset); preset != nil {
		if !isString(preset) {
			return ModuleConfig{}, errors.TypeMismatch(errors.KindPresetTypeMismatch, []string{ruleset, key.Value, keyPreset}, describe(preset))
		}
		p := preset.Value
		mc.Preset = &p
	}
	return mc, nil
}

// lookup returns the value of the first entry whose key is the string k.
func lookup(m *yaml.Node, k string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if key := deref(m.Content[i]); isString(key) && key.Value == k {
			return deref(m.Content[i+1])
		}
	}
	return nil
}

func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func isString(n *yaml.Node) bool {
	return n != nil && n.Kind == yaml.ScalarNode && n.ShortTag() == "!!str"
}

func describe(n *yaml.Node) string {
	if n == nil {
		return "nothing"
	}
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return n.ShortTag()
	case yaml.DocumentNode:
		return "document"
	default:
		return "unknown node"
	}
}

// checkUniqueKeys rejects mappings under n that define a key twice.
func checkUniqueKeys(n *yaml.Node) error {
	if n == nil {
		return nil
	}
	if n.Kind == yaml.MappingNode {
		seen := make(map[string]int, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yaml.ScalarNode {
				continue
			}
			id := k.ShortTag() + ":" + k.Value
			if line, dup := seen[id]; dup {
				return fmt.Errorf("line %d: mapping key %q already defined at line %d", k.Line, k.Value, line)
			}
			seen[id] = k.Line
		}
	}
	for _, c := range n.Content {
		if err := checkUniqueKeys(c); err != nil {
			return err
		}
	}
	return nil
}
