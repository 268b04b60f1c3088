package cmd

import (
	"encoding/json"
	"io"
	"reflect"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/maboroshi-cli/maboroshi/track"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// trackSchema describes the track list printed by the --json listings.
func trackSchema() *jsonschema.Schema {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.Mapper = func(t reflect.Type) *jsonschema.Schema {
		switch t {
		case reflect.TypeFor[track.Source]():
			return &jsonschema.Schema{
				Type: "string",
				Enum: lo.Map(track.Sources(), func(s track.Source, _ int) any { return s.String() }),
			}
		case reflect.TypeFor[mo.Option[time.Duration]]():
			return &jsonschema.Schema{
				OneOf: []*jsonschema.Schema{{Type: "integer"}, {Type: "null"}},
			}
		}

		return nil
	}

	return reflector.Reflect([]track.Track{})
}

func printTrackSchema(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(trackSchema())
}
