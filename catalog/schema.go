package catalog

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Schema returns the JSON schema of the catalog file format, so external
// scrapers can validate their output against the contract this tool consumes.
func Schema() ([]byte, error) {
	reflector := jsonschema.Reflector{DoNotReference: true}
	schema := reflector.Reflect(&Catalog{})
	return json.MarshalIndent(schema, "", "  ")
}
