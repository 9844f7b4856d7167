package schema

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// HeaderPlaceholder marks a declared header whose value is supplied at call
// time rather than by the schema.
const HeaderPlaceholder = "string"

// Endpoint is the immutable contract of one upstream API operation.
type Endpoint struct {
	ID             string            `yaml:"id"`
	Name           string            `yaml:"name"`
	URL            string            `yaml:"url"`
	Method         string            `yaml:"method"`
	Headers        map[string]string `yaml:"headers"`
	ExpectedStatus int               `yaml:"expected_status"`
	ResponseType   string            `yaml:"response_type"`

	QueryParams *Fields `yaml:"query_params"`
	PathParams  *Fields `yaml:"path_params"`
	Body        *Fields `yaml:"body"`

	ResponseRoot string  `yaml:"response_root_field_name"`
	Output       *Fields `yaml:"output_fields"`

	// Conflict names the detector run on the response root before
	// formatting. Empty disables detection.
	Conflict string `yaml:"conflict"`
}

var placeholderRe = regexp.MustCompile(`\{([^{}]+)\}`)

// Placeholders returns the {name} segments of the endpoint URL in order.
func (e *Endpoint) Placeholders() []string {
	var out []string
	for _, m := range placeholderRe.FindAllStringSubmatch(e.URL, -1) {
		out = append(out, m[1])
	}
	return out
}

// Mutating reports whether method carries a request body.
func Mutating(method string) bool {
	switch strings.ToUpper(method) {
	case "POST", "PUT", "PATCH", "DELETE":
		return true
	}
	return false
}

// Check rejects malformed endpoint schemas at load time.
func (e *Endpoint) Check() error {
	if e.ID == "" {
		return errors.New("endpoint: missing id")
	}
	if e.URL == "" {
		return fmt.Errorf("endpoint %s: missing url", e.ID)
	}
	switch strings.ToUpper(e.Method) {
	case "GET", "POST", "PUT", "PATCH", "DELETE":
	default:
		return fmt.Errorf("endpoint %s: unsupported method %q", e.ID, e.Method)
	}
	if e.ResponseType != "" && e.ResponseType != string(Object) && e.ResponseType != string(Array) {
		return fmt.Errorf("endpoint %s: response_type must be object or array, got %q", e.ID, e.ResponseType)
	}

	for _, part := range []struct {
		name   string
		fields *Fields
	}{
		{"query_params", e.QueryParams},
		{"path_params", e.PathParams},
		{"body", e.Body},
	} {
		if err := part.fields.CheckInput(""); err != nil {
			return fmt.Errorf("endpoint %s: %s: %w", e.ID, part.name, err)
		}
	}
	if e.Body.Len() > 0 && !Mutating(e.Method) {
		return fmt.Errorf("endpoint %s: body declared on %s", e.ID, e.Method)
	}

	placeholders := e.Placeholders()
	for _, name := range placeholders {
		if !e.PathParams.Has(name) {
			return fmt.Errorf("endpoint %s: url placeholder {%s} is not declared in path_params", e.ID, name)
		}
	}
	for _, name := range e.PathParams.Names() {
		if !strings.Contains(e.URL, "{"+name+"}") {
			return fmt.Errorf("endpoint %s: path param %s does not appear in url", e.ID, name)
		}
	}

	if err := e.Output.CheckOutput(""); err != nil {
		return fmt.Errorf("endpoint %s: output_fields: %w", e.ID, err)
	}
	if e.ResponseRoot == "" {
		return fmt.Errorf("endpoint %s: missing response_root_field_name", e.ID)
	}
	return nil
}
