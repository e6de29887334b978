// Package envfile reads and writes conda environment files through the yaml.v3 node tree.
package envfile

import (
	"bytes"
	"errors"
	"io/fs"
	"os"

	"go.trai.ch/portable/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const (
	strTag  = "!!str"
	nullTag = "!!null"
	indent  = 2
)

// field keeps the decoded key node next to its value so key comments are
// written back unchanged.
type field struct {
	key   *yaml.Node
	value *yaml.Node
}

// Store implements ports.EnvironmentStore.
//
// Values the rewrite does not touch keep their original node, so key order,
// quoting and comments survive the round trip.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Read parses the environment file at path.
func (s *Store) Read(path string) (*domain.Document, error) {
	// #nosec G304 -- path is supplied by the user on the command line
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(domain.ErrEnvFileNotFound, "path", path)
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrEnvFileReadFailed.Error()), "path", path)
	}

	return Decode(data, path)
}

// Decode parses environment file content. path is only used for error context.
func Decode(data []byte, path string) (*domain.Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrEnvFileParseFailed.Error()), "path", path)
	}

	mapping := documentMapping(&root)
	if mapping == nil {
		return nil, zerr.With(domain.ErrMissingDependencies, "path", path)
	}

	doc := domain.NewDocument()
	var depsNode *yaml.Node

	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key, value := mapping.Content[i], mapping.Content[i+1]
		doc.Set(key.Value, field{key: key, value: value})
		if key.Value == domain.DependenciesKey {
			depsNode = value
		}
	}

	if depsNode == nil {
		return nil, zerr.With(domain.ErrMissingDependencies, "path", path)
	}

	entries, err := decodeDependencies(depsNode)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	doc.SetDependencies(entries)

	return doc, nil
}

// Write serializes doc to path.
func (s *Store) Write(path string, doc *domain.Document) error {
	data, err := Encode(doc)
	if err != nil {
		return zerr.With(err, "path", path)
	}

	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrEnvFileWriteFailed.Error()), "path", path)
	}
	return nil
}

// Encode renders doc as YAML in its key order.
func Encode(doc *domain.Document) ([]byte, error) {
	mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for _, key := range doc.Keys() {
		raw, _ := doc.Get(key)
		keyNode, value := stringNode(key), raw
		if f, ok := raw.(field); ok {
			keyNode, value = f.key, f.value
		}

		var node *yaml.Node
		if key == domain.DependenciesKey {
			original, _ := value.(*yaml.Node)
			node = encodeDependencies(doc.Dependencies(), original)
		} else {
			node = valueNode(value)
		}
		mapping.Content = append(mapping.Content, keyNode, node)
	}

	resolveDangling(mapping, make(map[*yaml.Node]bool))

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	if err := enc.Encode(mapping); err != nil {
		return nil, zerr.Wrap(err, domain.ErrEnvFileWriteFailed.Error())
	}
	if err := enc.Close(); err != nil {
		return nil, zerr.Wrap(err, domain.ErrEnvFileWriteFailed.Error())
	}

	return buf.Bytes(), nil
}

// documentMapping returns the top-level mapping, or nil if the document is not a mapping.
func documentMapping(root *yaml.Node) *yaml.Node {
	node := root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil
		}
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil
	}
	return node
}

func decodeDependencies(node *yaml.Node) ([]domain.Entry, error) {
	node = resolve(node)
	if node.Kind == yaml.ScalarNode && node.ShortTag() == nullTag {
		return nil, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, zerr.With(domain.ErrInvalidDependencies, "line", node.Line)
	}

	entries := make([]domain.Entry, 0, len(node.Content))
	for _, item := range node.Content {
		if pip := pipSequence(item); pip != nil || isPipRecord(item) {
			entries = append(entries, decodePip(pip, item))
			continue
		}
		entries = append(entries, decodeEntry(item))
	}
	return entries, nil
}

// decodeEntry classifies a single node as a spec string or an opaque value.
// Aliases are classified by their target but keep the alias node as source.
func decodeEntry(node *yaml.Node) domain.Entry {
	if target := resolve(node); isString(target) {
		return domain.Entry{Kind: domain.EntrySpec, Spec: target.Value, Source: node}
	}
	return domain.OpaqueEntry(node)
}

func decodePip(seq, record *yaml.Node) domain.Entry {
	entry := domain.PipEntry(nil)
	entry.Source = record
	if seq == nil {
		return entry
	}
	for _, item := range seq.Content {
		entry.Pip = append(entry.Pip, decodeEntry(item))
	}
	return entry
}

// isPipRecord reports whether node is a mapping with a pip key.
func isPipRecord(node *yaml.Node) bool {
	_, ok := mappingValue(node, domain.PipKey)
	return ok
}

// pipSequence returns the pip list of a pip record. A pip value that is not a
// sequence is treated as an empty list.
func pipSequence(node *yaml.Node) *yaml.Node {
	value, ok := mappingValue(node, domain.PipKey)
	if !ok {
		return nil
	}
	if value = resolve(value); value.Kind != yaml.SequenceNode {
		return nil
	}
	return value
}

func mappingValue(node *yaml.Node, key string) (*yaml.Node, bool) {
	node = resolve(node)
	if node.Kind != yaml.MappingNode {
		return nil, false
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1], true
		}
	}
	return nil, false
}

func encodeDependencies(entries []domain.Entry, original *yaml.Node) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	if original != nil {
		original = resolve(original)
	}
	if original != nil && original.Kind == yaml.SequenceNode {
		seq.Style = original.Style
		seq.HeadComment = original.HeadComment
		seq.LineComment = original.LineComment
		seq.FootComment = original.FootComment
	}

	for _, entry := range entries {
		seq.Content = append(seq.Content, encodeEntry(entry))
	}
	return seq
}

func encodeEntry(entry domain.Entry) *yaml.Node {
	source, _ := entry.Source.(*yaml.Node)

	switch entry.Kind {
	case domain.EntrySpec:
		if source != nil && resolve(source).Value == entry.Spec {
			return source
		}
		return stringNode(entry.Spec)
	case domain.EntryPip:
		inner := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range entry.Pip {
			inner.Content = append(inner.Content, encodeEntry(item))
		}
		return &yaml.Node{
			Kind:    yaml.MappingNode,
			Tag:     "!!map",
			Content: []*yaml.Node{stringNode(domain.PipKey), inner},
		}
	default:
		return valueNode(entry.Source)
	}
}

// valueNode converts a stored value back into a node. Values decoded by this
// package are nodes already; anything else is encoded through yaml.v3.
func valueNode(v any) *yaml.Node {
	if node, ok := v.(*yaml.Node); ok && node != nil {
		return node
	}
	node := &yaml.Node{}
	if err := node.Encode(v); err != nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: nullTag, Value: "null"}
	}
	return node
}

// resolve follows alias nodes to the node they reference.
func resolve(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

// resolveDangling replaces aliases whose anchor is not emitted before them,
// for example because the rewrite dropped the anchored entry, with a copy of
// the referenced value. seen holds the anchored nodes emitted so far.
func resolveDangling(node *yaml.Node, seen map[*yaml.Node]bool) *yaml.Node {
	if node.Kind == yaml.AliasNode && node.Alias != nil && !seen[node.Alias] {
		node = copyNode(node.Alias)
	}
	if node.Anchor != "" {
		seen[node] = true
	}
	for i, child := range node.Content {
		node.Content[i] = resolveDangling(child, seen)
	}
	return node
}

// copyNode deep-copies node without its anchor.
func copyNode(node *yaml.Node) *yaml.Node {
	dup := *node
	dup.Anchor = ""
	if node.Content != nil {
		dup.Content = make([]*yaml.Node, len(node.Content))
		for i, child := range node.Content {
			if child.Kind == yaml.AliasNode {
				// Left for resolveDangling, which checks it against the anchors already emitted.
				dup.Content[i] = child
				continue
			}
			dup.Content[i] = copyNode(child)
		}
	}
	return &dup
}

func stringNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: strTag, Value: s}
}

func isString(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == strTag
}
