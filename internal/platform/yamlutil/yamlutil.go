// Package yamlutil provides an insertion-ordered YAML mapping. yaml.v3
// sorts plain Go maps on marshal, which scrambles job declaration order
// in generated configs; Map keeps keys in the order they were added so
// output is stable and mirrors the source pipeline.
package yamlutil

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Pair is one key/value entry of an ordered mapping.
type Pair struct {
	Key   string
	Value any
}

// Map is an ordered YAML mapping. The zero value is empty and usable.
type Map []Pair

// Add appends a key/value pair and returns the extended map.
func (m Map) Add(key string, value any) Map {
	return append(m, Pair{Key: key, Value: value})
}

// Sorted builds a Map from a plain map with keys in sorted order, for
// deterministic output of unordered inputs like environment variables.
func Sorted(src map[string]string) Map {
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	m := make(Map, 0, len(src))
	for _, k := range keys {
		m = m.Add(k, src[k])
	}
	return m
}

// MarshalYAML renders the map as a mapping node with keys in insertion
// order.
func (m Map) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, p := range m {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Key}
		valNode := &yaml.Node{}
		if err := valNode.Encode(p.Value); err != nil {
			return nil, fmt.Errorf("encode value for key %q: %w", p.Key, err)
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}
