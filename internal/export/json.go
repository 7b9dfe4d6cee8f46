package export

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/klidoop/fire-calculation/internal/model"
	"github.com/klidoop/fire-calculation/internal/pipeline"
)

// Document is the JSON form of a comparison run.
type Document struct {
	RunID      string             `json:"run_id,omitempty"`
	Mode       model.Mode         `json:"mode"`
	Parameters model.Parameters   `json:"parameters"`
	Summaries  []pipeline.Summary `json:"summaries"`
	Points     []model.Point      `json:"points"`
}

// NewDocument flattens a comparison for encoding.
func NewDocument(runID string, c pipeline.Comparison) Document {
	return Document{
		RunID:      runID,
		Mode:       c.Mode,
		Parameters: c.Parameters,
		Summaries:  c.Summaries(),
		Points:     c.Points(),
	}
}

// WriteJSON encodes the comparison as indented JSON.
func WriteJSON(w io.Writer, c pipeline.Comparison) error {
	return EncodeDocument(w, NewDocument("", c))
}

// EncodeDocument encodes doc as indented JSON.
func EncodeDocument(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}
