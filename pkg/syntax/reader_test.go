package syntax

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLegacy = `// sample
ARRAY
ALL
128
https://example.org/array-alloc
$0 = array alloc: size=$1
RetVar
Var/Number
END

PLAYER
X3|TC
180

$0 = get player money
RetVar/IF
END
`

func TestReadLegacy(t *testing.T) {
	decls, err := ReadLegacy(strings.NewReader(sampleLegacy))
	require.NoError(t, err)
	require.Len(t, decls, 2)

	assert.Equal(t, Declaration{
		Group:      "ARRAY",
		Versions:   VersionAll,
		ID:         128,
		HelpURL:    "https://example.org/array-alloc",
		Template:   "$0 = array alloc: size=$1",
		ParamTypes: []string{"RetVar", "Var/Number"},
	}, decls[0])

	assert.Equal(t, VersionReunion|VersionTerranConflict, decls[1].Versions)
	assert.Empty(t, decls[1].HelpURL)
	assert.Equal(t, []string{"RetVar/IF"}, decls[1].ParamTypes)
}

func TestReadLegacyCRLF(t *testing.T) {
	decls, err := ReadLegacy(strings.NewReader(strings.ReplaceAll(sampleLegacy, "\n", "\r\n")))
	require.NoError(t, err)
	require.Len(t, decls, 2)
	assert.Equal(t, "$0 = get player money", decls[1].Template)
}

func TestReadLegacyZeroPaddedID(t *testing.T) {
	for in, want := range map[string]uint32{"0100": 100, "0128": 128, "007": 7} {
		src := "ARRAY\n015\n" + in + "\n\n$0 = array alloc: size=$1\nRetVar\nVar/Number\nEND\n"
		decls, err := ReadLegacy(strings.NewReader(src))
		require.NoError(t, err, in)
		require.Len(t, decls, 1)
		assert.Equal(t, want, decls[0].ID, in)
		assert.Equal(t, VersionAll, decls[0].Versions, in)
	}
}

func TestReadLegacyErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"truncated header", "ARRAY\nALL\n128\n", "truncated"},
		{"missing terminator", "ARRAY\nALL\n128\n\ninc $0\nVar\n", "no END line"},
		{"bad id", "ARRAY\nALL\nabc\n\ninc $0\nVar\nEND\n", "line 3: invalid command id"},
		{"negative id", "ARRAY\nALL\n-4\n\ninc $0\nVar\nEND\n", "invalid command id"},
		{"bad version", "ARRAY\nX9\n128\n\ninc $0\nVar\nEND\n", "line 2: unknown game version"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadLegacy(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestWriteLegacyRoundTrip(t *testing.T) {
	decls, err := ReadLegacy(bytes.NewReader(defaultCatalog))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteLegacy(&buf, decls))

	again, err := ReadLegacy(&buf)
	require.NoError(t, err)
	assert.Equal(t, decls, again)
}

func TestReadLegacyFileMissing(t *testing.T) {
	_, err := ReadLegacyFile("does/not/exist.txt")
	assert.Error(t, err)
}
