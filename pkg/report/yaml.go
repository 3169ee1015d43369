package report

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/mpapenbr/tyrestrat/pkg/pipeline"
)

func WriteYAML(w io.Writer, r *pipeline.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Document(r)); err != nil {
		return err
	}
	return enc.Close()
}
