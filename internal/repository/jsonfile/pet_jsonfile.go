// Package jsonfile serves pets from an in-memory collection loaded once from
// a YAML or JSON file.
package jsonfile

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/maxviazov/openapi-skeleton/internal/model"
	"github.com/maxviazov/openapi-skeleton/internal/repository"
	"gopkg.in/yaml.v3"
)

// document is the on-disk shape: a top-level "pets" list.
type document struct {
	Pets []model.Pet `yaml:"pets"`
}

type petRepository struct {
	rows []model.Pet
	byID map[int64]int
}

// Load reads path and builds the repository. Rows without an explicit id are
// numbered after the highest id in the file.
func Load(path string) (repository.PetRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pets file: %w", err)
	}
	return Parse(data)
}

// Parse builds the repository from raw YAML or JSON.
func Parse(data []byte) (repository.PetRepository, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse pets file: %w", err)
	}
	return New(doc.Pets)
}

// New copies rows into a repository ordered by id.
func New(rows []model.Pet) (repository.PetRepository, error) {
	out := make([]model.Pet, len(rows))
	copy(out, rows)

	var maxID int64
	for _, p := range out {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	for i := range out {
		if out[i].ID == 0 {
			maxID++
			out[i].ID = maxID
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	byID := make(map[int64]int, len(out))
	for i, p := range out {
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate pet id %d", p.ID)
		}
		byID[p.ID] = i
	}
	return &petRepository{rows: out, byID: byID}, nil
}

func (r *petRepository) List(ctx context.Context, f repository.PetFilter) ([]model.Pet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]model.Pet, 0, len(r.rows))
	for _, p := range r.rows {
		if f.Species != "" && !strings.EqualFold(p.Species, f.Species) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *petRepository) GetByID(ctx context.Context, id int64) (model.Pet, error) {
	if err := ctx.Err(); err != nil {
		return model.Pet{}, err
	}
	i, ok := r.byID[id]
	if !ok {
		return model.Pet{}, repository.ErrNotFound
	}
	return r.rows[i], nil
}

// Ping always succeeds; the rows live in memory.
func (r *petRepository) Ping(context.Context) error { return nil }

var (
	_ repository.PetRepository = (*petRepository)(nil)
	_ repository.Pinger        = (*petRepository)(nil)
)
