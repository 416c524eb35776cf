package roadmap

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Roadmap Serialization API
// =============================================================================

// Marshal converts a roadmap to pretty-printed JSON bytes.
func Marshal(r Roadmap) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Unmarshal deserializes JSON bytes to a Roadmap.
// A bare node list (`[{...}, ...]`) is accepted as well as the wrapped
// `{"nodes": [...]}` form returned by the roadmap API.
func Unmarshal(data []byte) (Roadmap, error) {
	var r Roadmap
	if err := json.Unmarshal(data, &r); err == nil && r.Nodes != nil {
		return r, nil
	}

	var nodes []Node
	if err := json.Unmarshal(data, &nodes); err != nil {
		return Roadmap{}, fmt.Errorf("unmarshal roadmap: %w", err)
	}
	return Roadmap{Nodes: nodes}, nil
}

// ReadFile reads a JSON file and returns the decoded roadmap.
func ReadFile(path string) (Roadmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return Roadmap{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Read decodes a JSON roadmap from an io.Reader.
func Read(r io.Reader) (Roadmap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Roadmap{}, fmt.Errorf("read roadmap: %w", err)
	}
	return Unmarshal(data)
}

// WriteFile writes a roadmap to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(r Roadmap, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(r, f)
}

// Write writes a roadmap as JSON to an io.Writer.
func Write(r Roadmap, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
