package inventory

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Load reads a database from a JSON stream.
func Load(r io.Reader) (*Database, error) {
	var processes []*Process
	if err := json.NewDecoder(r).Decode(&processes); err != nil {
		return nil, fmt.Errorf("inventory: decode: %w", err)
	}
	return NewDatabase(processes...), nil
}

// LoadFile reads a database from a JSON file.
func LoadFile(path string) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("inventory: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Save writes the database as indented JSON.
func (db *Database) Save(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(db.processes)
}

// SaveFile writes the database to a JSON file.
func (db *Database) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("inventory: create %s: %w", path, err)
	}
	defer f.Close()
	return db.Save(f)
}
