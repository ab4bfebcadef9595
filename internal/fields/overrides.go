package fields

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// DefaultOverridesPath is the conventional location of the field override
// file, relative to the working directory.
const DefaultOverridesPath = ".trackr-fields.toml"

// OverrideFile is the on-disk form of user field definitions:
//
//	[[field]]
//	id = "customfield_10002"
//	name = "Story Points"
//	alias = "points"
//	display = "auto"
type OverrideFile struct {
	Fields []Definition `toml:"field"`
}

// LoadOverrides reads user field definitions from path. A missing file is
// not an error and yields no definitions.
func LoadOverrides(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var file OverrideFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return file.Fields, nil
}

// SaveOverrides writes definitions to path, creating parent directories as
// needed.
func SaveOverrides(path string, defs []Definition) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	data, err := toml.Marshal(OverrideFile{Fields: defs})
	if err != nil {
		return fmt.Errorf("marshaling field overrides: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
