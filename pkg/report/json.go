package report

import (
	"fmt"
	"io"

	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/mpapenbr/tyrestrat/pkg/pipeline"
)

var jsonOptions = ojg.Options{Indent: 2, Sort: true}

// WriteJSON writes the report as JSON. If query is not empty it is used as
// JSONPath expression and only the matching elements are written.
func WriteJSON(w io.Writer, r *pipeline.Report, query string) error {
	var data any = Document(r)
	if query != "" {
		path, err := jp.ParseString(query)
		if err != nil {
			return fmt.Errorf("invalid query %q: %w", query, err)
		}
		data = path.Get(data)
	}
	if err := oj.Write(w, data, &jsonOptions); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}
