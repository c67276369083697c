// Copyright Doctext Authors
// SPDX-License-Identifier: Apache-2.0

// Package docs embeds the OpenAPI description of the HTTP API.
package docs

import _ "embed"

//go:embed openapi.yaml
var OpenAPISpec []byte
