package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// ImportSchema is the JSON plan interchange format. Nodes and edges link by
// user-chosen refs; real ids are allocated on conversion.
type ImportSchema struct {
	Plan  PlanSchema   `json:"plan"`
	Nodes []NodeSchema `json:"nodes"`
	Edges []EdgeSchema `json:"edges,omitempty"`
}

type PlanSchema struct {
	Name string `json:"name"`
}

type NodeSchema struct {
	Ref             string   `json:"ref"`
	Title           string   `json:"title"`
	Kind            string   `json:"kind,omitempty"` // defaults to "task"
	Start           *string  `json:"start,omitempty"`
	DurationDays    int      `json:"duration_days,omitempty"`
	PercentComplete int      `json:"percent_complete,omitempty"`
	CenterX         float64  `json:"center_x,omitempty"`
	CenterY         float64  `json:"center_y,omitempty"`
	Members         []string `json:"members,omitempty"` // group kind only
	Collapsed       bool     `json:"collapsed,omitempty"`
}

type EdgeSchema struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Type    string `json:"type,omitempty"` // defaults to "FS"
	LagDays int    `json:"lag_days,omitempty"`
}

// LoadImportSchema reads and decodes an import file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading import file: %w", err)
	}
	var schema ImportSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}

// WriteSchema encodes a schema to a file, pretty-printed.
func WriteSchema(schema *ImportSchema, path string) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding plan: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}
	return nil
}
