package core

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gopkg.in/yaml.v3"
)

// Source produces the contributions served for the lifetime of the process.
type Source interface {
	Load(ctx context.Context) ([]Contribution, error)
}

type fileSource struct {
	path string
}

// NewFileSource reads a seed document of the form {"contributions": [...]}.
// Files ending in .yaml or .yml are decoded as YAML, anything else as JSON.
func NewFileSource(path string) Source {
	return &fileSource{path: path}
}

type seedDocument struct {
	Contributions *[]seedRecord `json:"contributions" yaml:"contributions"`
}

type seedRecord struct {
	Id          *int64  `json:"id" yaml:"id"`
	Title       *string `json:"title" yaml:"title"`
	Description *string `json:"description" yaml:"description"`
	StartTime   *string `json:"startTime" yaml:"startTime"`
	EndTime     *string `json:"endTime" yaml:"endTime"`
	Owner       *string `json:"owner" yaml:"owner"`
}

func (s *fileSource) Load(ctx context.Context) ([]Contribution, error) {
	_, span := otel.GetTracerProvider().Tracer("contributions-viewer/core").Start(ctx, "source.LoadFile")
	defer span.End()

	span.SetAttributes(attribute.String("source.path", s.path))

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read contribution source %s: %w", s.path, err)
	}

	var doc seedDocument

	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedSource, s.path, err)
	}

	if doc.Contributions == nil {
		return nil, fmt.Errorf("%w: %s: 'contributions' is missing", ErrMalformedSource, s.path)
	}

	contributions := make([]Contribution, 0, len(*doc.Contributions))

	for i, record := range *doc.Contributions {
		contribution, err := record.toContribution()
		if err != nil {
			return nil, fmt.Errorf("%s: contribution #%d: %w", s.path, i, err)
		}

		contributions = append(contributions, contribution)
	}

	span.SetAttributes(attribute.Int("source.records", len(contributions)))

	return contributions, nil
}

func (r seedRecord) toContribution() (Contribution, error) {
	var missing []string

	if r.Id == nil {
		missing = append(missing, "id")
	}

	text := func(name string, value *string) string {
		if value == nil {
			missing = append(missing, name)
			return ""
		}

		return *value
	}

	contribution := Contribution{
		Title:       text("title", r.Title),
		Description: text("description", r.Description),
		StartTime:   text("startTime", r.StartTime),
		EndTime:     text("endTime", r.EndTime),
		Owner:       text("owner", r.Owner),
	}

	if len(missing) > 0 {
		return Contribution{}, fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}

	contribution.Id = *r.Id

	return contribution, nil
}

// LoadStore loads source and publishes the result as an immutable Store.
func LoadStore(ctx context.Context, source Source) (*Store, error) {
	contributions, err := source.Load(ctx)
	if err != nil {
		return nil, err
	}

	return NewStore(contributions)
}
