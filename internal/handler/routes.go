package handler

// DefaultBasePath is used when the OpenAPI document declares no server path.
// Keep a single source of truth to avoid path drift across handlers and tests.
const DefaultBasePath = "/api/v1"

func basePathOr(p string) string {
	if p == "" {
		return DefaultBasePath
	}
	return p
}
