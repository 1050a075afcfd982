package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/c360studio/codatagen/codata"
	"gopkg.in/yaml.v3"
)

// YAMLParser reads catalogs in the codatagen YAML layout:
//
//	revision: "2006"
//	source: CODATA 2006 recommended values
//	constants:
//	  - name: speed of light in vacuum
//	    value: 299792458.0
//	    uncertainty: 0.0
//	    unit: m s^-1
type YAMLParser struct{}

// NewYAMLParser creates a YAML catalog parser.
func NewYAMLParser() *YAMLParser {
	return &YAMLParser{}
}

// Format returns "yaml".
func (p *YAMLParser) Format() string {
	return "yaml"
}

// Extensions returns the YAML file extensions.
func (p *YAMLParser) Extensions() []string {
	return []string{".yaml", ".yml"}
}

type yamlCatalog struct {
	Revision  string         `yaml:"revision"`
	Source    string         `yaml:"source"`
	Constants []codata.Entry `yaml:"constants"`
}

// Parse decodes a YAML catalog. Unknown fields are rejected.
func (p *YAMLParser) Parse(filename string, content []byte) (*Catalog, error) {
	var yc yamlCatalog
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if err := decoder.Decode(&yc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s: empty document", ErrMalformed, filename)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, filename, err)
	}

	source := yc.Source
	if source == "" {
		source = filename
	}

	return &Catalog{
		Revision: yc.Revision,
		Source:   source,
		Entries:  yc.Constants,
	}, nil
}

// Encode writes c in the YAML layout read by Parse.
func (p *YAMLParser) Encode(c *Catalog, w io.Writer) error {
	yc := yamlCatalog{
		Revision:  c.Revision,
		Source:    c.Source,
		Constants: c.Entries,
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&yc); err != nil {
		return fmt.Errorf("failed to encode YAML catalog: %w", err)
	}
	return nil
}
