package export

import (
	"notemap/document"
	"notemap/snapshot"
)

// JSONExporter exports the document envelope, the same shape the store
// persists and import accepts.
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export converts a document to indented JSON
func (e *JSONExporter) Export(d *document.Document) ([]byte, error) {
	data, err := snapshot.Encode(d.Envelope(), true)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// GetFileExtension returns the file extension for JSON
func (e *JSONExporter) GetFileExtension() string {
	return ".json"
}

// GetFormatName returns the format name
func (e *JSONExporter) GetFormatName() string {
	return "JSON"
}
