package compose

import (
	"errors"
	"strconv"

	"gopkg.in/yaml.v3"
)

// nodeError creates a ParseError remembering where node sits in the source,
// so that Unmarshal can later label it with a document path.
func nodeError(node *yaml.Node, message string, err error) *ParseError {
	pe := NewParseError("", message, err)
	pe.line, pe.column = node.Line, node.Column
	return pe
}

// labelNodeError gives a positioned ParseError without a Field the path of
// its node within root. Other errors are returned unchanged.
func labelNodeError(root *yaml.Node, err error) error {
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Field != "" || pe.line == 0 {
		return err
	}
	path, ok := nodePath(root, pe.line, pe.column, "")
	if !ok || path == "" {
		return err
	}
	return withField(path, err)
}

// nodePath finds the value node at line:column below n and returns its
// dotted path, e.g. "services.web.volumes[1]". Mapping keys are never
// matched, only values and sequence items.
func nodePath(n *yaml.Node, line, column int, prefix string) (string, bool) {
	if n.Line == line && n.Column == column && n.Kind != yaml.DocumentNode {
		return prefix, true
	}

	switch n.Kind {
	case yaml.DocumentNode:
		for _, child := range n.Content {
			if path, ok := nodePath(child, line, column, prefix); ok {
				return path, true
			}
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			if prefix != "" {
				key = prefix + "." + key
			}
			if path, ok := nodePath(n.Content[i+1], line, column, key); ok {
				return path, true
			}
		}
	case yaml.SequenceNode:
		for i, child := range n.Content {
			if path, ok := nodePath(child, line, column, prefix+"["+strconv.Itoa(i)+"]"); ok {
				return path, true
			}
		}
	}
	return "", false
}
