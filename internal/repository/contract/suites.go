// Package contract holds behaviour suites every repository implementation
// must pass, independent of the storage behind it.
package contract

import (
	"context"
	"errors"
	"testing"

	"github.com/maxviazov/openapi-skeleton/internal/model"
	"github.com/maxviazov/openapi-skeleton/internal/repository"
)

// PetFactory returns a repository holding exactly seed, in that order, and
// reports the IDs the storage assigned to each seeded row.
type PetFactory func(t *testing.T, seed []model.Pet) (repo repository.PetRepository, ids []int64, cleanup func())

type PingerFactory func(t *testing.T) (repository.Pinger, func())

func strPtr(s string) *string { return &s }

// SamplePets is the fixture every suite seeds with.
func SamplePets() []model.Pet {
	return []model.Pet{
		{Name: "Rex", Species: "dog", Breed: strPtr("beagle"), Age: 3, Owner: strPtr("ana")},
		{Name: "Tom", Species: "cat", Age: 5},
		{Name: "Bolt", Species: "Dog", Breed: strPtr("husky"), Age: 1},
		{Name: "Nemo", Species: "fish", Age: 0},
		{Name: "Luna", Species: "cat", Breed: strPtr("siamese"), Age: 2, Owner: strPtr("bo")},
	}
}

func RunPetRepositoryContract(t *testing.T, makeRepo PetFactory) {
	t.Helper()

	t.Run("list_all_in_id_order", func(t *testing.T) {
		repo, _, cleanup := makeRepo(t, SamplePets())
		t.Cleanup(cleanup)
		got, err := repo.List(context.Background(), repository.PetFilter{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 5 {
			t.Fatalf("expected 5 pets, got %d", len(got))
		}
		for i := 1; i < len(got); i++ {
			if got[i-1].ID >= got[i].ID {
				t.Fatalf("rows not ordered by id: %d before %d", got[i-1].ID, got[i].ID)
			}
		}
		if got[0].Name != "Rex" || got[4].Name != "Luna" {
			t.Fatalf("unexpected order: first=%s last=%s", got[0].Name, got[4].Name)
		}
	})

	t.Run("filter_species_case_insensitive", func(t *testing.T) {
		repo, _, cleanup := makeRepo(t, SamplePets())
		t.Cleanup(cleanup)
		got, err := repo.List(context.Background(), repository.PetFilter{Species: "DOG"})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 2 || got[0].Name != "Rex" || got[1].Name != "Bolt" {
			t.Fatalf("unexpected dogs: %+v", got)
		}
	})

	t.Run("list_empty_is_not_nil", func(t *testing.T) {
		repo, _, cleanup := makeRepo(t, nil)
		t.Cleanup(cleanup)
		got, err := repo.List(context.Background(), repository.PetFilter{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("expected empty non-nil slice, got %#v", got)
		}
	})

	t.Run("get_by_id", func(t *testing.T) {
		repo, ids, cleanup := makeRepo(t, SamplePets())
		t.Cleanup(cleanup)
		got, err := repo.GetByID(context.Background(), ids[4])
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.ID != ids[4] || got.Name != "Luna" || got.Breed == nil || *got.Breed != "siamese" {
			t.Fatalf("mismatch: %+v", got)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, _, cleanup := makeRepo(t, SamplePets())
		t.Cleanup(cleanup)
		_, err := repo.GetByID(context.Background(), 999999)
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func RunPingerContract(t *testing.T, makePinger PingerFactory) {
	t.Helper()
	t.Run("ping_ok", func(t *testing.T) {
		p, cleanup := makePinger(t)
		t.Cleanup(cleanup)
		if err := p.Ping(context.Background()); err != nil {
			t.Fatalf("ping: %v", err)
		}
	})
}
