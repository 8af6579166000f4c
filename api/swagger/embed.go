// Package swagger embeds the OpenAPI document served at /apispec.json.
package swagger

import _ "embed"

//go:embed users.swagger.json
var OpenAPI []byte
