package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// FileSource reads both catalogs from a local JSON document of the form
// {"services": [...], "locations": [...]} using the marketplace row shapes.
// It backs offline quoting.
type FileSource struct {
	Path string
}

type catalogFile struct {
	Services  json.RawMessage `json:"services"`
	Locations json.RawMessage `json:"locations"`
}

func (f FileSource) read() (catalogFile, error) {
	var doc catalogFile
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return doc, fmt.Errorf("read catalog file: %w", err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("parse catalog file: %w", err)
	}
	return doc, nil
}

func (f FileSource) FetchServiceCatalog(ctx context.Context) ([]ServiceEntry, error) {
	doc, err := f.read()
	if err != nil {
		return nil, err
	}
	if len(doc.Services) == 0 {
		return nil, nil
	}
	return DecodeServices(doc.Services)
}

func (f FileSource) FetchLocationCatalog(ctx context.Context) ([]LocationEntry, error) {
	doc, err := f.read()
	if err != nil {
		return nil, err
	}
	if len(doc.Locations) == 0 {
		return nil, nil
	}
	return DecodeLocations(doc.Locations)
}
