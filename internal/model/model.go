// Package model contains domain entities shared across layers.
// Data shapes only, no behavior.
package model

import "time"

// Pet is a single registry entry.
type Pet struct {
	ID        int64     `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Species   string    `json:"species" yaml:"species"`
	Breed     *string   `json:"breed" yaml:"breed"`
	Age       int       `json:"age" yaml:"age"`
	Owner     *string   `json:"owner" yaml:"owner"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Meta is the build and runtime metadata exposed on the admin listener.
type Meta struct {
	Name          string `json:"name"`
	Time          string `json:"time"`
	UnixTime      int64  `json:"unixTime"`
	Commit        string `json:"commit"`
	Documentation string `json:"documentation"`
}
