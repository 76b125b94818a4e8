package cccrack

import (
	"testing"
)

func Test_rankdef_debug_listing(t *testing.T) {
	text_color_init(false)
	defer text_color_init(true)

	var rd = sample_rankdef()

	AssertOutputContains(t, rd.Debug, "RANK DEFICIENCY INFO (tagging ID: 1)")
	AssertOutputContains(t, rd.Debug, "Estimated code parameters: 1/2 (K=3)")
	AssertOutputContains(t, rd.Debug, "Tagging is Gray: YES")
	AssertOutputContains(t, rd.Debug, "Matches known code: Classic (7,5) rate 1/2")
	AssertOutputContains(t, rd.Debug, "Number of parity outputs: 1")
	AssertOutputContains(t, rd.Debug, "H[1] =   5   7")
	AssertOutputContains(t, rd.Debug, "G[1] =   7   5")
	// Binary tap matrix: 111 is 7, 101 is 5.
	AssertOutputContains(t, rd.Debug, "BIN:111 101")
}

func Test_rankdef_debug_not_gray(t *testing.T) {
	text_color_init(false)
	defer text_color_init(true)

	var rd = sample_rankdef()
	rd.tagging.is_gray = false
	rd.known = ""

	AssertOutputContains(t, rd.Debug, "Tagging is Gray: NO")
}

func Test_tagging_debug_table(t *testing.T) {
	var tg = tagging{dict: []byte{0, 1, 3, 2}, bps: 2, mask: 3}

	// Dictionary entries rendered MSB first: 3 prints as 11.
	AssertOutputContains(t, func() { tg.debug() }, "00 01")
	AssertOutputContains(t, func() { tg.debug() }, "11 10")
}
