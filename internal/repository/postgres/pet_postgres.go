package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/openapi-skeleton/internal/model"
	"github.com/maxviazov/openapi-skeleton/internal/repository"
)

// q is a minimal query executor implemented by both pgxpool.Pool and pgx.Tx.
type q interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const petColumns = `id, name, species, breed, age, owner, created_at`

type petRepository struct{ db q }

func NewPetRepository(pool *pgxpool.Pool) repository.PetRepository {
	return &petRepository{db: pool}
}

func (r *petRepository) List(ctx context.Context, f repository.PetFilter) ([]model.Pet, error) {
	if r.db == nil {
		return nil, errors.New("pgx pool is nil")
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+petColumns+`
		 FROM pets
		 WHERE ($1 = '' OR lower(species) = lower($1))
		 ORDER BY id`,
		f.Species,
	)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()

	out := make([]model.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, repository.MapPgError(err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapPgError(err)
	}
	return out, nil
}

func (r *petRepository) GetByID(ctx context.Context, id int64) (model.Pet, error) {
	if r.db == nil {
		return model.Pet{}, errors.New("pgx pool is nil")
	}
	row := r.db.QueryRow(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1`, id)
	p, err := scanPet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Pet{}, repository.ErrNotFound
		}
		return model.Pet{}, repository.MapPgError(err)
	}
	return p, nil
}

func scanPet(row pgx.Row) (model.Pet, error) {
	var p model.Pet
	err := row.Scan(&p.ID, &p.Name, &p.Species, &p.Breed, &p.Age, &p.Owner, &p.CreatedAt)
	return p, err
}

// InsertPet seeds a row; used by fixtures and the contract suite.
func InsertPet(ctx context.Context, pool *pgxpool.Pool, p model.Pet) (model.Pet, error) {
	row := pool.QueryRow(ctx,
		`INSERT INTO pets (name, species, breed, age, owner)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+petColumns,
		p.Name, p.Species, p.Breed, p.Age, p.Owner,
	)
	out, err := scanPet(row)
	if err != nil {
		return model.Pet{}, repository.MapPgError(err)
	}
	return out, nil
}

var _ repository.PetRepository = (*petRepository)(nil)
