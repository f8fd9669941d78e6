package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"tactics-server/pkg/api"
)

// Генератор JSON-схем сетевого контракта. Схемы подхватывает клиент
// (валидация команд до отправки) и интеграционные тесты нарративного слоя.
func main() {
	var outDir string
	flag.StringVar(&outDir, "out", "schemas", "directory to write JSON schemas")
	flag.Parse()

	schemas := map[string]*jsonschema.Schema{
		"client_command.json":  buildSchema(new(api.ClientCommand), "Client Command", "Envelope for all client-to-server messages"),
		"server_response.json": buildSchema(new(api.ServerResponse), "Server Response", "Full combat snapshot broadcast after each tick"),
		"join_payload.json":    buildSchema(new(api.JoinPayload), "Join Payload", "Spawn parameters for the JOIN command"),
		"move_payload.json":    buildSchema(new(api.MovePayload), "Move Payload", "Target position for the MOVE command"),
		"attack_payload.json":  buildSchema(new(api.AttackPayload), "Attack Payload", "Target and dice notation for the ATTACK command"),
		"ability_payload.json": buildSchema(new(api.AbilityPayload), "Ability Payload", "Ability and targets for the ABILITY command"),
	}

	for name, schema := range schemas {
		if err := writeSchema(filepath.Join(outDir, name), schema); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", name, err)
			os.Exit(1)
		}
	}
}

func buildSchema(v any, title, description string) *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(v)
	schema.Title = title
	schema.Description = description
	return schema
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}

	return nil
}
