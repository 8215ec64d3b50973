package bench

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Queries []QueryDef `yaml:"queries"`
}

// LoadCatalog reads a YAML query catalog that replaces the built-in one.
func LoadCatalog(path string) ([]QueryDef, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return nil, errors.Wrap(err, "read catalog")
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) ([]QueryDef, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "parse catalog")
	}
	if len(f.Queries) == 0 {
		return nil, errors.New("catalog defines no queries")
	}

	seen := make(map[string]bool, len(f.Queries))
	for i := range f.Queries {
		q := &f.Queries[i]
		q.Name = strings.TrimSpace(q.Name)
		q.Query = strings.TrimSpace(q.Query)
		if q.Name == "" {
			return nil, errors.Errorf("query #%d: name is required", i+1)
		}
		if q.Query == "" {
			return nil, errors.Errorf("query %q: query text is required", q.Name)
		}
		if seen[q.Name] {
			return nil, errors.Errorf("query %q: duplicate name", q.Name)
		}
		seen[q.Name] = true
		if q.Category == "" {
			q.Category = "Custom"
		}
	}
	return f.Queries, nil
}
