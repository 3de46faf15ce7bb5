package idl

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// Load reads an IDL document from a JSON file.
//
// The document is either a package ({"name", "modules", "dependencies"}) or
// a single module ({"id", "functions", ...}), which is wrapped in a package
// named after the file.
func Load(path string) (*Package, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open IDL %s", path)
	}
	defer f.Close()

	pkg, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load IDL %s", path)
	}
	if pkg.Name == "" {
		pkg.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return pkg, nil
}

// Decode reads an IDL document from r.
func Decode(r io.Reader) (*Package, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read IDL")
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, errors.WithHint(errors.Wrap(err, "decode IDL"), "the IDL document must be a JSON object")
	}

	if _, isModule := probe["id"]; isModule {
		if _, isPackage := probe["modules"]; !isPackage {
			var m Module
			if err := json.Unmarshal(data, &m); err != nil {
				return nil, errors.Wrap(err, "decode module")
			}
			return &Package{Modules: []Module{m}}, nil
		}
	}

	if _, ok := probe["modules"]; !ok {
		return nil, errors.WithHint(
			errors.New("IDL document has neither \"modules\" nor \"id\""),
			"expected a package document or a single module document")
	}

	var pkg Package
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, errors.Wrap(err, "decode package")
	}
	return &pkg, nil
}

// Encode writes pkg as indented JSON.
func Encode(w io.Writer, pkg *Package) error {
	data, err := json.Marshal(pkg)
	if err != nil {
		return errors.Wrap(err, "encode IDL")
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return errors.Wrap(err, "indent IDL")
	}
	buf.WriteByte('\n')
	_, err = w.Write(buf.Bytes())
	return err
}
