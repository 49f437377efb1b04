package compose

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Command is a command or entrypoint override. It keeps the form it was
// given in: a single shell string or an exec-form argument list.
type Command struct {
	shell string
	exec  []string
}

// ShellCommand creates a shell-form command.
func ShellCommand(s string) Command {
	return Command{shell: s}
}

// ExecCommand creates an exec-form command.
func ExecCommand(args ...string) Command {
	return Command{exec: args}
}

// IsZero reports whether the command is unset. Used by yaml omitempty.
func (c Command) IsZero() bool {
	return c.shell == "" && len(c.exec) == 0
}

// IsExec reports whether c is in exec form.
func (c Command) IsExec() bool {
	return len(c.exec) > 0
}

// Args returns the exec-form arguments, or the shell string as a single
// argument.
func (c Command) Args() []string {
	if c.IsExec() {
		return append([]string(nil), c.exec...)
	}
	if c.shell == "" {
		return nil
	}
	return []string{c.shell}
}

// String returns the shell string, or the exec arguments joined by spaces.
func (c Command) String() string {
	if !c.IsExec() {
		return c.shell
	}
	return strings.Join(c.exec, " ")
}

// MarshalYAML writes a string for shell form and a sequence for exec form.
func (c Command) MarshalYAML() (interface{}, error) {
	if c.IsExec() {
		return c.exec, nil
	}
	return c.shell, nil
}

// UnmarshalYAML accepts a string or a sequence of strings.
func (c *Command) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var args []string
		if err := node.Decode(&args); err != nil {
			return nodeError(node, "command list must contain strings", ErrInvalidArgument)
		}
		*c = ExecCommand(args...)
		return nil
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return nodeError(node, "command must be a string or a list", ErrInvalidArgument)
	}
	*c = ShellCommand(s)
	return nil
}
