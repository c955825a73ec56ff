package yml

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type (
	Node yaml.Node
)

// Root unwraps a document node.
func (n *Node) Root() *Node {
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		return (*Node)(n.Content[0])
	}
	return n
}

// Lookup returns the value node for key (case-insensitive) or nil.
func (n *Node) Lookup(key string) *Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if strings.EqualFold(n.Content[i].Value, key) {
			return (*Node)(n.Content[i+1])
		}
	}
	return nil
}

func (n *Node) Items(callback func(index int, node *Node) error) error {
	if n.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: expected sequence", n.Line)
	}
	for i := 0; i < len(n.Content); i++ {
		if err := callback(i, (*Node)(n.Content[i])); err != nil {
			return err
		}
	}
	return nil
}

func (n *Node) Pairs(callback func(key string, node *Node) error) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected mapping", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		if err := callback(key, (*Node)(n.Content[i+1])); err != nil {
			return err
		}
	}
	return nil
}

// Int returns scalar value as int.
func (n *Node) Int() (int, error) {
	if n.Kind != yaml.ScalarNode {
		return 0, fmt.Errorf("line %d: expected integer scalar", n.Line)
	}
	v, err := strconv.Atoi(strings.TrimSpace(n.Value))
	if err != nil {
		return 0, fmt.Errorf("line %d: invalid integer %q: %w", n.Line, n.Value, err)
	}
	return v, nil
}

// Ints returns a sequence of integers; a flow sequence like [1, 2] is accepted as well.
func (n *Node) Ints() ([]int, error) {
	var result []int
	err := n.Items(func(_ int, item *Node) error {
		v, err := item.Int()
		if err != nil {
			return err
		}
		result = append(result, v)
		return nil
	})
	return result, err
}

// Strings returns a sequence of strings; a single scalar is treated as one element.
func (n *Node) Strings() ([]string, error) {
	if n.Kind == yaml.ScalarNode {
		return []string{n.Value}, nil
	}
	var result []string
	err := n.Items(func(_ int, item *Node) error {
		if item.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: expected string scalar", item.Line)
		}
		result = append(result, item.Value)
		return nil
	})
	return result, err
}

// Bool returns scalar value as bool.
func (n *Node) Bool() (bool, error) {
	if n.Kind != yaml.ScalarNode {
		return false, fmt.Errorf("line %d: expected boolean scalar", n.Line)
	}
	v, err := strconv.ParseBool(strings.TrimSpace(n.Value))
	if err != nil {
		return false, fmt.Errorf("line %d: invalid boolean %q: %w", n.Line, n.Value, err)
	}
	return v, nil
}

// Decode decodes the node into a tagged struct.
func (n *Node) Decode(target interface{}) error {
	return (*yaml.Node)(n).Decode(target)
}
