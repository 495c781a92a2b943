package graphdoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/taskgraph/pkg/taskgraph"
)

// Marshal converts a graph to indented JSON bytes.
// Node entries are keyed by ID, so output order is deterministic.
func Marshal(g *taskgraph.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes JSON bytes into a graph.
func Unmarshal(data []byte) (*taskgraph.Graph, error) {
	return Read(bytes.NewReader(data))
}

// Write encodes a graph as JSON to w.
func Write(g *taskgraph.Graph, w io.Writer) error {
	doc := FromGraph(g)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Read decodes a JSON graph document from r and rebuilds the graph.
func Read(r io.Reader) (*taskgraph.Graph, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToGraph(doc)
}

// WriteFile writes a graph to a JSON file with 0644 permissions.
func WriteFile(g *taskgraph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(g, f)
}

// ReadFile reads a JSON graph document from a file.
func ReadFile(path string) (*taskgraph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
