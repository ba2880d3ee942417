// Package api embeds the OpenAPI document the server is built around.
package api

import _ "embed"

// Spec is the raw api/openapi.yaml.
//
//go:embed openapi.yaml
var Spec []byte

// SpecFile is the name Spec is served under.
const SpecFile = "openapi.yaml"
