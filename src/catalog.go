package cccrack

/*-------------------------------------------------------------
 *
 * Purpose:	Known convolutional code catalog.
 *
 *		Blind recovery often lands on a code somebody published
 *		decades ago.  When a retained candidate's parameters and
 *		generator set match a catalog entry, the listing says
 *		which standard the transmitter is probably speaking.
 *
 * Inputs:	knowncodes.yaml with a directory search list.  For
 *		flexibility the catalog is read at run time; when no
 *		file can be found a small built-in table of the usual
 *		suspects is used instead.
 *
 *--------------------------------------------------------------*/

import (
	"os"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"
)

type known_code_t struct {
	Name       string   `yaml:"name"`
	K          int      `yaml:"k"`
	N          int      `yaml:"n"`
	Constraint int      `yaml:"constraint"`
	Polys      []string `yaml:"polys"` // Octal, row-major, k*n entries.

	polys []uint64 // Parsed form of Polys.
}

type code_catalog_t struct {
	Codes []known_code_t `yaml:"codes"`
}

var catalog_search_locations = []string{
	"knowncodes.yaml", // Current working directory
	"data/knowncodes.yaml",
	"../data/knowncodes.yaml", // Source tree
	"/usr/local/share/borzoi/knowncodes.yaml",
	"/usr/share/borzoi/knowncodes.yaml",
}

// The fallback table.  Octal generator notation, tap 0 in the high bit.
var builtin_codes = []known_code_t{
	{Name: "Classic (7,5) rate 1/2", K: 1, N: 2, Constraint: 3, Polys: []string{"7", "5"}},
	{Name: "CCSDS / Voyager rate 1/2 K=7", K: 1, N: 2, Constraint: 7, Polys: []string{"171", "133"}},
	{Name: "GSM TCH/FS rate 1/2 K=5", K: 1, N: 2, Constraint: 5, Polys: []string{"23", "33"}},
	{Name: "DVB / 802.11 rate 1/2 K=7 (punctured parent)", K: 1, N: 2, Constraint: 7, Polys: []string{"155", "117"}},
	{Name: "Rate 1/3 K=7 (LTE tail-biting parent)", K: 1, N: 3, Constraint: 7, Polys: []string{"133", "171", "165"}},
}

func (self *known_code_t) parse() bool {
	self.polys = self.polys[:0]

	for _, s := range self.Polys {
		var v, err = strconv.ParseUint(s, 8, 64)
		if err != nil {
			return false
		}

		self.polys = append(self.polys, v)
	}

	return len(self.polys) == self.K*self.N
}

func catalog_from_codes(codes []known_code_t) *code_catalog_t {
	var self = &code_catalog_t{}

	for _, code := range codes {
		if code.parse() {
			self.Codes = append(self.Codes, code)
		}
	}

	return self
}

// Load the catalog from the first readable search location, falling
// back to the built-in table.  A missing or malformed file is not an
// error: annotation is advisory.
func catalog_load() *code_catalog_t {
	for _, location := range catalog_search_locations {
		var data, readErr = os.ReadFile(location)
		if readErr != nil {
			continue
		}

		var cat code_catalog_t

		if yaml.Unmarshal(data, &cat) != nil {
			continue
		}

		if len(cat.Codes) > 0 {
			return catalog_from_codes(cat.Codes)
		}
	}

	return catalog_from_codes(builtin_codes)
}

// Match compares (k, n, K) and the recovered generator set against
// each catalog entry.  Polynomial order within a generator is not
// meaningful to the transmitter (swapping outputs just relabels the
// wires), so the comparison is on sorted flattened sets.
func (self *code_catalog_t) match(rd *RankDef) string {
	if len(rd.g_poly) == 0 {
		return ""
	}

	var flat []uint64
	for _, list := range rd.g_poly {
		flat = append(flat, list...)
	}

	slices.Sort(flat)

	for i := range self.Codes {
		var code = &self.Codes[i]

		if code.K != rd.k || code.N != rd.n || code.Constraint != rd.K {
			continue
		}

		if len(code.polys) != len(flat) {
			continue
		}

		var want = append([]uint64(nil), code.polys...)
		slices.Sort(want)

		if slices.Equal(flat, want) {
			return code.Name
		}
	}

	return ""
}
