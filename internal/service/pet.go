package service

import (
	"context"
	"time"

	"github.com/maxviazov/openapi-skeleton/internal/model"
	"github.com/maxviazov/openapi-skeleton/internal/paginate"
	"github.com/maxviazov/openapi-skeleton/internal/repository"
	"github.com/rs/zerolog"
)

// petService holds pet use-case logic: validation + orchestration, no transport / storage details.
type petService struct {
	repo repository.PetRepository
	log  zerolog.Logger
}

func NewPetService(repo repository.PetRepository, logger zerolog.Logger) PetService {
	l := logger.With().Str("module", "service").Str("component", "pet").Logger()
	return &petService{repo: repo, log: l}
}

// ListPets loads the full filtered collection and cuts the requested window
// out of it. An out-of-range page is an empty result, not an error.
func (s *petService) ListPets(ctx context.Context, q PetQuery, page paginate.Page, link paginate.LinkFunc) (paginate.Result[model.Pet], error) {
	start := time.Now()
	if page.Size <= 0 {
		return paginate.Result[model.Pet]{}, NewInvalidInput([]FieldError{{Field: paginate.SizeParam, Message: "must be > 0"}})
	}

	rows, err := s.repo.List(ctx, repository.PetFilter{Species: normalizeSpecies(q.Species)})
	if err != nil {
		// Repository surfaces domain-level errors already, do not wrap.
		s.log.Error().Err(err).Str("species", q.Species).Msg("list pets failed")
		return paginate.Result[model.Pet]{}, err
	}

	res := paginate.Paginate(rows, page, link)
	s.log.Debug().
		Dur("took", time.Since(start)).
		Int("total", len(rows)).
		Int("page", page.Number).
		Int("size", page.Size).
		Int("returned", len(res.Rows)).
		Msg("pets listed")
	return res, nil
}

func (s *petService) GetPet(ctx context.Context, id int64) (model.Pet, error) {
	if id <= 0 {
		return model.Pet{}, NewInvalidInput([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	return s.repo.GetByID(ctx, id)
}
