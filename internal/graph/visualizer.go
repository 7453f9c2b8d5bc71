package graph

import (
	"fmt"
	"io"
	"strings"
)

// Visualizer renders a WiringGraph.
type Visualizer struct {
	graph *WiringGraph
}

// NewVisualizer creates a new graph visualizer
func NewVisualizer(graph *WiringGraph) *Visualizer {
	return &Visualizer{graph: graph}
}

// WriteDOT writes the graph in Graphviz DOT format
func (v *Visualizer) WriteDOT(w io.Writer) error {
	nodes := v.graph.Nodes()

	ew := &errWriter{w: w}
	ew.println("digraph wiring {")
	ew.println("  rankdir=LR;")
	ew.println("  node [shape=box];")

	ids := make(map[string]string, len(nodes))
	for i, node := range nodes {
		id := fmt.Sprintf("n%d", i)
		ids[node.Name] = id

		ew.printf("  %s [label=\"%s\", fillcolor=\"%s\", style=filled];\n",
			id, formatNodeLabel(node), nodeColor(node))
	}

	for _, node := range nodes {
		for _, e := range node.Edges {
			style := "solid"
			if !e.Resolved {
				style = "dashed"
			}
			label := e.Field
			if via := e.Via(); via != "" {
				label += "\\nvia " + shortName(via)
			}
			ew.printf("  %s -> %s [label=\"%s\", style=%s];\n", ids[e.From], ids[e.To], escape(label), style)
		}
	}

	ew.println("}")
	return ew.err
}

// WriteText writes a text representation of the graph
func (v *Visualizer) WriteText(w io.Writer) error {
	nodes := v.graph.Nodes()

	ew := &errWriter{w: w}
	ew.println("Wiring Graph:")
	ew.println("=============")
	ew.println("")

	for _, node := range nodes {
		if node.Missing {
			continue
		}
		writeNodeDetails(ew, node, "  ")
	}

	if missing := v.graph.Unresolved(); len(missing) > 0 {
		ew.println("Unresolved:")
		ew.println("-----------")
		for _, e := range missing {
			ew.printf("  %s.%s -> %s\n", e.From, e.Field, e.To)
		}
		ew.println("")
	}

	n, e := v.graph.Size()
	ew.println("Statistics:")
	ew.println("-----------")
	ew.printf("  Total nodes: %d\n", n)
	ew.printf("  Total edges: %d\n", e)

	return ew.err
}

func writeNodeDetails(ew *errWriter, node Node, indent string) {
	ew.printf("%s%s", indent, node.Name)
	if node.Type != "" {
		ew.printf(" (%s)", node.Type)
	}
	ew.println("")

	for _, e := range node.Edges {
		mark := ""
		if !e.Resolved {
			mark = " (unresolved)"
		}
		if via := e.Via(); via != "" {
			mark = " via " + via + mark
		}
		ew.printf("%s  %s -> %s%s\n", indent, e.Field, e.To, mark)
	}
}

// formatNodeLabel creates a label for a node
func formatNodeLabel(node Node) string {
	if node.Type == "" {
		return escape(node.Name)
	}

	return fmt.Sprintf("%s\\n%s", escape(node.Name), escape(shortName(node.Type)))
}

// shortName drops the package path: "example.com/app.A" becomes "app.A".
func shortName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}

func nodeColor(node Node) string {
	if node.Missing {
		return "lightgray"
	}
	return "lightblue"
}

func escape(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	ew.printf("%s\n", s)
}
