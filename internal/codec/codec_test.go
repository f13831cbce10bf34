package codec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJSONCodec_KeepsNumbers(t *testing.T) {
	var out []any
	require.NoError(t, JSONCodec{}.Unmarshal([]byte(`[1, 2.5, 18446744073709551615]`), &out))

	require.Equal(t, []any{json.Number("1"), json.Number("2.5"), json.Number("18446744073709551615")}, out)
}

func TestJSONCodec_TrailingWhitespace(t *testing.T) {
	var out []any
	require.NoError(t, JSONCodec{}.Unmarshal([]byte("[\"a\"] \n\t"), &out))
	require.Equal(t, []any{"a"}, out)
}

func TestJSONCodec_RejectsTrailingData(t *testing.T) {
	for _, in := range []string{
		`["a", 1] ["garbage"`,
		`["a", 1] ["b"]`,
		`["a", 1] 2`,
		`["a", 1]]`,
	} {
		var out []any
		require.ErrorIs(t, JSONCodec{}.Unmarshal([]byte(in), &out), ErrTrailingData, in)
	}
}
