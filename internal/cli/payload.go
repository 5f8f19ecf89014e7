package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alexanderramin/buildops/internal/domain"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// payloadFlags collects a record body from --file (YAML or JSON, "-" for
// stdin) overlaid with --set field=value pairs. Dotted fields address
// nested objects, e.g. --set client.id=CLT-002.
type payloadFlags struct {
	file string
	sets []string
}

func (p *payloadFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&p.file, "file", "f", "", "YAML or JSON document with the record fields (- for stdin)")
	fs.StringArrayVar(&p.sets, "set", nil, "Set a field, e.g. --set status=Approved (repeatable)")
}

// document merges the file and the --set overrides into a JSON object.
func (p *payloadFlags) document(stdin io.Reader) ([]byte, error) {
	doc := map[string]any{}
	if p.file != "" {
		raw, err := p.read(stdin)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, domain.Invalid("file", "cannot parse %s: %v", p.file, err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
	}
	for _, kv := range p.sets {
		field, value, ok := strings.Cut(kv, "=")
		if !ok || field == "" {
			return nil, domain.Invalid("set", "expected field=value, got %q", kv)
		}
		if err := setPath(doc, strings.Split(field, "."), scalar(value)); err != nil {
			return nil, err
		}
	}
	if len(doc) == 0 {
		return nil, domain.Invalid("payload", "no fields given; use --file or --set")
	}
	return json.Marshal(doc)
}

func (p *payloadFlags) read(stdin io.Reader) ([]byte, error) {
	if p.file == "-" {
		return io.ReadAll(stdin)
	}
	raw, err := os.ReadFile(p.file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", p.file, err)
	}
	return raw, nil
}

// scalar decodes a --set value the way YAML would, so "42" is a number
// and "true" a bool. Anything else stays a string.
func scalar(s string) any {
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	switch v.(type) {
	case int, float64, bool:
		return v
	}
	return s
}

func setPath(doc map[string]any, path []string, v any) error {
	for i, part := range path[:len(path)-1] {
		next, ok := doc[part].(map[string]any)
		if !ok {
			if _, taken := doc[part]; taken {
				return domain.Invalid(strings.Join(path[:i+1], "."), "is not an object")
			}
			next = map[string]any{}
			doc[part] = next
		}
		doc = next
	}
	doc[path[len(path)-1]] = v
	return nil
}

// decodeStrict unmarshals raw into v, rejecting unknown fields.
func decodeStrict(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return domain.Invalid("payload", "%v", err)
	}
	return nil
}

// jsonPatch overlays the fields present in raw onto a stored record.
func jsonPatch[T any](raw []byte) (domain.Patch[T], error) {
	var probe T
	if err := decodeStrict(raw, &probe); err != nil {
		return nil, err
	}
	return domain.PatchFunc[T](func(v *T) {
		_ = json.Unmarshal(raw, v)
	}), nil
}
