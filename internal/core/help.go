package core

import (
	"strings"
)

func describe(prefix string, n *cmdNode) string {
	line := prefix + n.name
	if len(n.children) > 0 {
		line += " …"
	}
	if n.cmd != nil && n.cmd.Description != "" {
		line += " — " + n.cmd.Description
	}
	return line
}

func (m *CommandManager) helpText(path []string) string {
	// top level: list every root command
	if len(path) == 0 {
		lines := []string{"📚 *Commands* (use /help <cmd> ...):"}
		for _, name := range m.root.childNames() {
			n, _ := m.root.child(name)
			lines = append(lines, describe("- /", n))
		}
		return strings.Join(lines, "\n")
	}

	n := m.root.find(path)
	if n == nil {
		// single unknown token may be an alias; show its canonical route
		if len(path) == 1 {
			if leaf, ok := m.alias[path[0]]; ok && leaf != nil && leaf.cmd != nil {
				return m.helpText(splitRoute(leaf.cmd.Route))
			}
		}
		return "command not found. try /help"
	}

	// container without a handler of its own: list subcommands
	if n.cmd == nil {
		lines := []string{"📚 */" + strings.Join(path, " ") + "* subcommands:"}
		for _, child := range n.childNames() {
			cn, _ := n.child(child)
			lines = append(lines, describe("- /"+path[0]+" ", cn))
		}
		lines = append(lines, "Tip: /help "+strings.Join(path, " ")+" <subcommand>")
		return strings.Join(lines, "\n")
	}

	cmd := n.cmd
	lines := []string{"📌 *" + cmd.Route + "*", cmd.Description}
	if cmd.Usage != "" {
		lines = append(lines, "Usage: `"+cmd.Usage+"`")
	}
	if len(cmd.Aliases) > 0 {
		lines = append(lines, "Aliases: /"+strings.Join(cmd.Aliases, ", /"))
	}
	if len(n.children) > 0 {
		lines = append(lines, "", "Subcommands:")
		for _, child := range n.childNames() {
			cn, _ := n.child(child)
			lines = append(lines, describe("- ", cn))
		}
	}
	return strings.Join(filterEmpty(lines), "\n")
}

func filterEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
