package idl

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const coinIDL = `{
  "name": "framework",
  "modules": [
    {
      "id": "0x1::coin",
      "functions": [
        {
          "name": "transfer",
          "doc": "Transfers coins.",
          "typeParams": ["CoinType"],
          "args": [
            {"name": "to", "type": "address"},
            {"name": "amount", "type": "u64"}
          ]
        }
      ]
    }
  ]
}`

func TestDecode_Package(t *testing.T) {
	pkg, err := Decode(strings.NewReader(coinIDL))
	require.NoError(t, err)

	assert.Equal(t, "framework", pkg.Name)
	require.Len(t, pkg.Modules, 1)
	fn := pkg.Modules[0].FindFunction("transfer")
	require.NotNil(t, fn)
	assert.True(t, fn.IsGeneric())
	assert.Equal(t, "Transfers coins.", fn.Doc)
}

func TestDecode_SingleModule(t *testing.T) {
	pkg, err := Decode(strings.NewReader(`{"id":"0x2::pool","functions":[{"name":"drain","args":[]}]}`))
	require.NoError(t, err)

	require.Len(t, pkg.Modules, 1)
	assert.Equal(t, ModuleID{Address: "0x2", Name: "pool"}, pkg.Modules[0].ID)
	assert.Empty(t, pkg.Name)
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode(strings.NewReader(`[1, 2]`))
	require.Error(t, err)
	assert.Contains(t, errors.FlattenHints(err), "JSON object")

	_, err = Decode(strings.NewReader(`{"name":"x"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "neither")

	_, err = Decode(strings.NewReader(`{"modules":[{"id":"0x1::m","functions":[{"name":"f","args":[{"name":"a","type":"float"}]}]}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown primitive type "float"`)
}

func TestLoad_NamesPackageAfterFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pool.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"id":"0x2::pool","functions":[]}`), 0o644))

	pkg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "pool", pkg.Name)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestEncode_RoundTrip(t *testing.T) {
	pkg, err := Decode(strings.NewReader(coinIDL))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, pkg))

	again, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, pkg, again)
}
