package policy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileDocument is the YAML shape of a policy document on disk. A file may
// hold a single document, a `policies:` list, or several YAML documents
// separated by `---`.
type FileDocument struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	Category string `yaml:"category"`
	Content  string `yaml:"content"`
}

type fileEnvelope struct {
	Policies     []FileDocument `yaml:"policies"`
	FileDocument `yaml:",inline"`
}

func (d FileDocument) input() AddInput {
	return AddInput{ID: d.ID, Title: d.Title, Content: d.Content, Category: d.Category}
}

// DecodeDocuments reads every policy document from a YAML stream.
func DecodeDocuments(r io.Reader) ([]FileDocument, error) {
	dec := yaml.NewDecoder(r)
	var out []FileDocument
	for {
		var env fileEnvelope
		err := dec.Decode(&env)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode policy yaml: %w", err)
		}
		out = append(out, env.Policies...)
		if env.ID != "" || env.Title != "" {
			out = append(out, env.FileDocument)
		}
	}
}

// LoadDir ingests every *.yaml and *.yml file in dir, in name order, and
// returns the number of documents stored. A bad file aborts the load; files
// read before it stay ingested.
func (s *Service) LoadDir(ctx context.Context, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read policy dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isPolicyFile(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	loaded := 0
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return loaded, err
		}
		n, err := s.LoadFile(ctx, filepath.Join(dir, name))
		loaded += n
		if err != nil {
			return loaded, err
		}
	}
	return loaded, nil
}

func (s *Service) LoadFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open policy file: %w", err)
	}
	defer f.Close()

	docs, err := DecodeDocuments(f)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	for i, d := range docs {
		if _, _, err := s.Add(ctx, d.input()); err != nil {
			return i, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
	}
	return len(docs), nil
}

// AddAll stores already-decoded documents, stopping at the first invalid one.
func (s *Service) AddAll(ctx context.Context, docs []FileDocument) (int, error) {
	for i, d := range docs {
		if _, _, err := s.Add(ctx, d.input()); err != nil {
			return i, err
		}
	}
	return len(docs), nil
}

func isPolicyFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
