package wpcom

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const postsSchemaSource = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["posts"],
  "properties": {
    "found": {"type": "integer"},
    "posts": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["ID", "date", "title", "excerpt", "URL", "attachments"],
        "properties": {
          "ID": {"type": "integer"},
          "date": {"type": "string"},
          "title": {"type": "string"},
          "excerpt": {"type": "string"},
          "URL": {"type": "string"},
          "attachments": {
            "type": "object",
            "additionalProperties": {
              "type": "object",
              "required": ["URL"],
              "properties": {
                "URL": {"type": "string"}
              }
            }
          }
        }
      }
    }
  }
}`

var postsSchema = jsonschema.MustCompileString("posts.schema.json", postsSchemaSource)

// validate checks the raw response body against the posts schema.
func validate(body []byte) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc any

	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("could not parse response: %w", err)
	}

	if err := postsSchema.Validate(doc); err != nil {
		return fmt.Errorf("response does not match the posts schema: %w", err)
	}

	return nil
}
