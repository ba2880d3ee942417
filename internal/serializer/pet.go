// Package serializer shapes pets into JSON:API style documents: every
// resource carries id, type, attributes and a self link.
package serializer

import (
	"strconv"

	"github.com/maxviazov/openapi-skeleton/internal/model"
	"github.com/maxviazov/openapi-skeleton/internal/paginate"
)

const PetType = "pet"

type SelfLink struct {
	Self string `json:"self"`
}

// SetLinks are the navigation links of a collection document.
type SetLinks struct {
	Self  string  `json:"self"`
	First string  `json:"first"`
	Last  string  `json:"last"`
	Next  *string `json:"next"`
	Prev  *string `json:"prev"`
}

type PetAttributes struct {
	Name    string  `json:"name"`
	Species string  `json:"species"`
	Breed   *string `json:"breed"`
	Age     int     `json:"age"`
	Owner   *string `json:"owner"`
}

type PetResource struct {
	ID         string        `json:"id"`
	Type       string        `json:"type"`
	Attributes PetAttributes `json:"attributes"`
	Links      SelfLink      `json:"links"`
}

type PetSetDocument struct {
	Links SetLinks      `json:"links"`
	Data  []PetResource `json:"data"`
}

type PetDocument struct {
	Links SelfLink    `json:"links"`
	Data  PetResource `json:"data"`
}

// ResourceLink returns the canonical URI of a single pet.
type ResourceLink func(id string) string

// SerializePets renders one page of pets. Data is never null.
func SerializePets(res paginate.Result[model.Pet], self string, link ResourceLink) PetSetDocument {
	data := make([]PetResource, 0, len(res.Rows))
	for _, p := range res.Rows {
		data = append(data, resource(p, link))
	}
	return PetSetDocument{
		Links: SetLinks{
			Self:  self,
			First: res.Links.First,
			Last:  res.Links.Last,
			Next:  res.Links.Next,
			Prev:  res.Links.Prev,
		},
		Data: data,
	}
}

// SerializePet renders a single pet.
func SerializePet(p model.Pet, self string, link ResourceLink) PetDocument {
	return PetDocument{Links: SelfLink{Self: self}, Data: resource(p, link)}
}

func resource(p model.Pet, link ResourceLink) PetResource {
	id := strconv.FormatInt(p.ID, 10)
	return PetResource{
		ID:   id,
		Type: PetType,
		Attributes: PetAttributes{
			Name:    p.Name,
			Species: p.Species,
			Breed:   p.Breed,
			Age:     p.Age,
			Owner:   p.Owner,
		},
		Links: SelfLink{Self: link(id)},
	}
}
