// Package spec carries the OpenAPI description of the Fitbase HTTP API.
package spec

import _ "embed"

//go:embed openapi.yaml
var OpenAPI []byte
