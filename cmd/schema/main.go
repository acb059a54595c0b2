package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"

	"github.com/invopop/jsonschema"

	engine "blockpath/engine"
	"blockpath/engine/worlddef"
)

func main() {
	var outPath string
	flag.StringVar(&outPath, "out", "", "output path for the JSON schema")
	flag.Parse()

	if outPath == "" {
		log.Fatal("schema: missing -out path")
	}

	schema, err := buildSchema()
	if err != nil {
		log.Fatalf("schema: %v", err)
	}

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		log.Fatalf("schema: marshal schema: %v", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		log.Fatalf("schema: create output dir: %v", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		log.Fatalf("schema: write schema: %v", err)
	}
}

func buildSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}

	configSchema := reflector.ReflectFromType(reflect.TypeOf(engine.Config{}))
	if configSchema == nil {
		return nil, fmt.Errorf("failed to reflect config schema")
	}
	configSchema.Version = ""
	configSchema.Title = "Engine Configuration"
	configSchema.Description = "Tuning knobs for the pathfinding engine."

	worldSchema := reflector.ReflectFromType(reflect.TypeOf(worlddef.Document{}))
	if worldSchema == nil {
		return nil, fmt.Errorf("failed to reflect world schema")
	}
	worldSchema.Version = ""
	worldSchema.Title = "World Document"
	worldSchema.Description = "Voxel world description consumed by the demo binaries."

	root := &jsonschema.Schema{
		Version:     jsonschema.Version,
		Title:       "Blockpath Documents",
		Description: "Schemas for the engine configuration and world documents.",
		OneOf: []*jsonschema.Schema{
			configSchema,
			worldSchema,
		},
	}

	return root, nil
}
