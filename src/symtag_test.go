package cccrack

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write_capture(t *testing.T, contents []byte) string {
	t.Helper()

	var path = filepath.Join(t.TempDir(), "capture.log")
	require.NoError(t, os.WriteFile(path, contents, 0644))

	return path
}

func collect_taggings(t *testing.T, path string, bps uint) ([][]byte, []bool) {
	t.Helper()

	var dicts [][]byte
	var grays []bool

	var st, err = symtag_new_from_file(path, bps, func(tg *tagging, bits []byte) error {
		dicts = append(dicts, append([]byte(nil), tg.dict...))
		grays = append(grays, tg.is_gray)

		return nil
	})
	require.NoError(t, err)
	defer st.destroy()

	require.NoError(t, st.tag())

	return dicts, grays
}

func Test_symtag_empty_file(t *testing.T) {
	var path = write_capture(t, nil)

	var _, err = symtag_new_from_file(path, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidCapture)
}

func Test_symtag_no_valid_prefix(t *testing.T) {
	var path = write_capture(t, []byte("!!!"))

	var _, err = symtag_new_from_file(path, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidCapture)
}

func Test_symtag_bps_autodetect(t *testing.T) {
	var path = write_capture(t, []byte("010213"))

	var st, err = symtag_new_from_file(path, 0, nil)
	require.NoError(t, err)
	defer st.destroy()

	assert.Equal(t, uint(2), st.tagging.bps)
	assert.Equal(t, byte(3), st.tagging.mask)
	assert.Len(t, st.tagging.dict, 4)
}

func Test_symtag_prefix_chop(t *testing.T) {
	// Parsing stops at the first out-of-range byte.
	var path = write_capture(t, []byte("0101!0101"))

	var st, err = symtag_new_from_file(path, 0, nil)
	require.NoError(t, err)
	defer st.destroy()

	assert.Equal(t, 4, len(st.sym_data))
	assert.Equal(t, uint(1), st.tagging.bps)
}

func Test_symtag_tagging_count(t *testing.T) {
	var path = write_capture(t, []byte("0101"))

	var st, err = symtag_new_from_file(path, 1, nil)
	require.NoError(t, err)
	defer st.destroy()

	assert.Equal(t, uint64(2), st.tagging_count())

	var path2 = write_capture(t, []byte("0123"))

	var st2, err2 = symtag_new_from_file(path2, 2, nil)
	require.NoError(t, err2)
	defer st2.destroy()

	assert.Equal(t, uint64(24), st2.tagging_count())
}

func Test_symtag_enumeration_order(t *testing.T) {
	var path = write_capture(t, []byte("0123"))

	var dicts, _ = collect_taggings(t, path, 2)

	require.Len(t, dicts, 24)

	// Every dictionary is a permutation...
	for _, dict := range dicts {
		var seen [4]bool
		for _, label := range dict {
			require.Less(t, int(label), 4)
			assert.False(t, seen[label])
			seen[label] = true
		}
	}

	// ...and they arrive in strictly lexicographic order.
	for i := 1; i < len(dicts); i++ {
		assert.Less(t, string(dicts[i-1]), string(dicts[i]))
	}

	assert.Equal(t, []byte{0, 1, 2, 3}, dicts[0])
	assert.Equal(t, []byte{0, 1, 3, 2}, dicts[1])
	assert.Equal(t, []byte{3, 2, 1, 0}, dicts[23])
}

func Test_symtag_gray_classification(t *testing.T) {
	var path = write_capture(t, []byte("0123"))

	var dicts, grays = collect_taggings(t, path, 2)

	for i, dict := range dicts {
		var want = true
		for j := 1; j < len(dict); j++ {
			var x = dict[j] ^ dict[j-1]
			if x != 1 && x != 2 { // Not a power of two.
				want = false
			}
		}

		assert.Equal(t, want, grays[i], "dict %v", dict)
	}

	// Natural binary is not Gray for 2 bits: 01 -> 10 flips both.
	assert.False(t, grays[0])
	// 0,1,3,2 is the binary-reflected Gray sequence.
	assert.True(t, grays[1])
}

func Test_symtag_demodulation(t *testing.T) {
	var path = write_capture(t, []byte("0123"))

	var got []byte

	var st, err = symtag_new_from_file(path, 2, func(tg *tagging, bits []byte) error {
		if tg.tagging_id == 0 {
			got = append([]byte(nil), bits...)
		}

		return nil
	})
	require.NoError(t, err)
	defer st.destroy()

	require.NoError(t, st.tag())

	// Identity dictionary, MSB first: 00 01 10 11.
	assert.Equal(t, []byte{0, 0, 0, 1, 1, 0, 1, 1}, got)
}

func Test_symtag_callback_error_aborts(t *testing.T) {
	var path = write_capture(t, []byte("01"))

	var calls = 0

	var st, err = symtag_new_from_file(path, 1, func(tg *tagging, bits []byte) error {
		calls++

		return os.ErrClosed
	})
	require.NoError(t, err)
	defer st.destroy()

	assert.Error(t, st.tag())
	assert.Equal(t, 1, calls)
}
