package document

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadChunks reads a chunk list from a JSON or YAML file. The format is
// chosen by extension; anything other than .yaml/.yml is parsed as JSON.
func LoadChunks(path string) ([]Chunk, error) {
	var chunks []Chunk
	if err := decodeFile(path, &chunks); err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}
	return chunks, nil
}

// LoadOutline reads a topic outline from a JSON or YAML file.
func LoadOutline(path string) ([]Topic, error) {
	var outline []Topic
	if err := decodeFile(path, &outline); err != nil {
		return nil, fmt.Errorf("load outline: %w", err)
	}
	return outline, nil
}

func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return nil
}
