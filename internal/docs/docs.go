// Package docs embeds the OpenAPI descriptions of both services.
package docs

import _ "embed"

//go:embed catalog.yaml
var Catalog []byte

//go:embed shopping.yaml
var Shopping []byte
