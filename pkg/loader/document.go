// Package loader reads tree documents from disk and manages the project's
// .gitignore entry for local state.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/checktree/pkg/model"
)

// ErrUnsupportedFormat is returned for files that are neither JSON nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension. "-" means JSON
// on stdin.
func FormatFromPath(path string) (Format, error) {
	if path == "-" {
		return FormatJSON, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
}

// Document is a forest of nodes plus the initial selection lists. On disk it
// is either a bare array of nodes or an object with a "nodes" key.
type Document struct {
	Path     string       `json:"-" yaml:"-"`
	Nodes    []model.Node `json:"nodes" yaml:"nodes"`
	Checked  []string     `json:"checked,omitempty" yaml:"checked,omitempty"`
	Expanded []string     `json:"expanded,omitempty" yaml:"expanded,omitempty"`
	Loading  []string     `json:"loading,omitempty" yaml:"loading,omitempty"`
}

// Lists returns the document's selection lists.
func (d *Document) Lists() model.Lists {
	return model.Lists{Checked: d.Checked, Expanded: d.Expanded, Loading: d.Loading}
}

// Parse decodes a document in the given format.
func Parse(data []byte, format Format) (*Document, error) {
	switch format {
	case FormatJSON:
		return parseJSON(data)
	case FormatYAML:
		return parseYAML(data)
	}
	return nil, fmt.Errorf("format %q: %w", format, ErrUnsupportedFormat)
}

func parseJSON(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	doc := &Document{}
	if len(trimmed) == 0 {
		return doc, nil
	}
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &doc.Nodes); err != nil {
			return nil, fmt.Errorf("decoding node array: %w", err)
		}
		return doc, nil
	}
	if err := json.Unmarshal(trimmed, doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return doc, nil
}

func parseYAML(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	doc := &Document{}
	if len(root.Content) == 0 {
		return doc, nil
	}
	body := root.Content[0]
	if body.Kind == yaml.SequenceNode {
		if err := body.Decode(&doc.Nodes); err != nil {
			return nil, fmt.Errorf("decoding node array: %w", err)
		}
		return doc, nil
	}
	if err := body.Decode(doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return doc, nil
}

// LoadReader reads and parses a whole document from r.
func LoadReader(r io.Reader, format Format) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return Parse(data, format)
}

// LoadFile reads one document. "-" reads JSON from stdin.
func LoadFile(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	var data []byte
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Path = path
	return doc, nil
}

// LoadAll loads every path concurrently and merges the results in argument
// order: forests are concatenated and so are their lists. The first failure
// cancels the remaining loads.
func LoadAll(ctx context.Context, paths ...string) (*Document, error) {
	if len(paths) == 0 {
		return nil, errors.New("no documents given")
	}

	docs := make([]*Document, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := LoadFile(path)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(docs) == 1 {
		return docs[0], nil
	}
	merged := &Document{Path: strings.Join(paths, ",")}
	for _, doc := range docs {
		merged.Nodes = append(merged.Nodes, doc.Nodes...)
		merged.Checked = append(merged.Checked, doc.Checked...)
		merged.Expanded = append(merged.Expanded, doc.Expanded...)
		merged.Loading = append(merged.Loading, doc.Loading...)
	}
	return merged, nil
}
