package cccrack

import (
	"math/bits"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func Test_conv_encoder_shape_validation(t *testing.T) {
	var _, err = NewConvEncoder(2, 2, 3, []uint64{7, 5, 7, 5})
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = NewConvEncoder(1, 2, 3, []uint64{7})
	assert.ErrorIs(t, err, ErrInvalidParams)

	// 17 octal needs 4 taps.
	_, err = NewConvEncoder(1, 2, 3, []uint64{0o17, 5})
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func Test_conv_encoder_75_impulse_response(t *testing.T) {
	var enc, err = NewConvEncoder(1, 2, 3, []uint64{7, 5})
	require.NoError(t, err)

	var out = enc.Encode([]byte{1, 0, 0, 0, 0})

	// G1 = 1+D+D^2, G2 = 1+D^2.
	assert.Equal(t, []byte{1, 1, 1, 0, 1, 1, 0, 0, 0, 0}, out)
}

func Test_conv_encoder_75_known_sequence(t *testing.T) {
	var enc, err = NewConvEncoder(1, 2, 3, []uint64{7, 5})
	require.NoError(t, err)

	// m = 1,1,0,1: c1(t) = m(t)+m(t-1)+m(t-2), c2(t) = m(t)+m(t-2).
	var out = enc.Encode([]byte{1, 1, 0, 1})

	assert.Equal(t, []byte{
		1, 1, // t=0: 1, 1
		0, 1, // t=1: 1+1, 1
		0, 1, // t=2: 0+1+1, 0+1
		0, 0, // t=3: 1+0+1, 1+1
	}, out)
}

func Test_conv_encoder_is_linear(t *testing.T) {
	var enc, err = NewConvEncoder(2, 3, 2, []uint64{2, 1, 3, 1, 2, 2})
	require.NoError(t, err)

	rapid.Check(t, func(t *rapid.T) {
		var n = rapid.IntRange(1, 40).Draw(t, "steps") * 2

		var m1 = make([]byte, n)
		var m2 = make([]byte, n)
		var sum = make([]byte, n)

		for i := range m1 {
			m1[i] = rapid.Byte().Draw(t, "m1") & 1
			m2[i] = rapid.Byte().Draw(t, "m2") & 1
			sum[i] = m1[i] ^ m2[i]
		}

		var c1 = enc.Encode(m1)
		var c2 = enc.Encode(m2)
		var cs = enc.Encode(sum)

		require.Equal(t, len(c1), len(cs))

		for i := range cs {
			assert.Equal(t, c1[i]^c2[i], cs[i])
		}
	})
}

func Test_gray_dict_is_gray(t *testing.T) {
	for bps := uint(1); bps <= 6; bps++ {
		var dict = GrayDict(bps)

		require.Len(t, dict, 1<<bps)

		for i := 1; i < len(dict); i++ {
			assert.Equal(t, 1, bits.OnesCount8(dict[i]^dict[i-1]))
		}
	}

	assert.Equal(t, []byte{0, 1, 3, 2}, GrayDict(2))
}

func Test_natural_dict(t *testing.T) {
	assert.Equal(t, []byte{0, 1, 2, 3, 4, 5, 6, 7}, NaturalDict(3))
}

func Test_bits_to_capture(t *testing.T) {
	var bits = []byte{0, 0, 0, 1, 1, 0, 1, 1}

	var natural, err = BitsToCapture(bits, 2, NaturalDict(2))
	require.NoError(t, err)
	assert.Equal(t, []byte("0123"), natural)

	var gray, grayErr = BitsToCapture(bits, 2, GrayDict(2))
	require.NoError(t, grayErr)
	assert.Equal(t, []byte("0132"), gray)

	var _, badErr = BitsToCapture(bits, 2, []byte{0, 0, 1, 2})
	assert.ErrorIs(t, badErr, ErrInvalidParams)
}

// Capture generation and the tagger are inverses: demodulating with the
// tagging whose dictionary equals the generation dictionary gives back
// the coded bits.
func Test_capture_round_trip(t *testing.T) {
	var enc, err = NewConvEncoder(1, 2, 3, []uint64{7, 5})
	require.NoError(t, err)

	var rng = rand.New(rand.NewSource(99))

	var msg = make([]byte, 64)
	for i := range msg {
		msg[i] = byte(rng.Intn(2))
	}

	var coded = enc.Encode(msg)

	var capture, capErr = BitsToCapture(coded, 2, GrayDict(2))
	require.NoError(t, capErr)

	var path = write_capture(t, capture)

	var got []byte

	var st, stErr = symtag_new_from_file(path, 2, func(tg *tagging, bits []byte) error {
		if string(tg.dict) == string(GrayDict(2)) {
			got = append([]byte(nil), bits...)
		}

		return nil
	})
	require.NoError(t, stErr)
	defer st.destroy()

	require.NoError(t, st.tag())

	assert.Equal(t, coded, got)
}
