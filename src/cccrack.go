package cccrack

/*-------------------------------------------------------------
 *
 * Purpose:	Blind parameter recovery for convolutional encoders.
 *
 *		Given a stream of hard-decision symbols from an unknown
 *		convolutional encoder followed by an unknown symbol
 *		mapping, recover the rate parameters (k, n), the
 *		constraint length K, the parity-check polynomials H and
 *		the generator polynomials G.
 *
 *		The attack: every codeword of a (k, n, K) code satisfies
 *		n - k linear parity relations over GF(2).  Reshape the
 *		demodulated bit stream into matrices of increasing row
 *		width and column-reduce them; at row width n*(muT+1) the
 *		matrix goes rank deficient and the null space hands us
 *		the dual (parity-check) vectors.  A second deficiency n
 *		columns later pins down the codeword length.  The
 *		generators then fall out of a second linear system
 *		expressing G . H^T = 0.
 *
 *		A small number of bit errors in the capture will break
 *		the linear algebra; this is a noise-free attack.
 *
 *--------------------------------------------------------------*/

import (
	"errors"
	"fmt"
	"math"
	"os"
)

const CCCRACK_MAX_WIDTH = 100
const CCCRACK_MAX_REL_HEIGHT = 5

var ErrInvalidCapture = errors.New("not a valid symbol capture")
var ErrInvalidParams = errors.New("invalid parameters")
var ErrInternal = errors.New("internal invariant violated")

// Params configures a run.  A zero BPS, K, N or ConstraintLen means
// "infer it"; Tagging must be -1 to evaluate every tagging, so use
// DefaultParams for the canonical starting point.
type Params struct {
	BPS     uint   // Bits per symbol, 1..6.  0 = autodetect.
	Tagging int    // Evaluate only this tagging ID.  -1 = all.
	Dump    string // Dump demodulated bits here (strftime-expanded).
	Log     string // Append retained candidates to this CSV file.

	K             uint // Forced message length k.  0 = infer.
	N             uint // Forced codeword length n.  0 = infer.
	ConstraintLen uint // Forced constraint length K.  0 = infer.

	NoGray bool // Keep taggings that are not Gray-coded.
	All    bool // Keep candidates even when not likely.
}

func DefaultParams() Params {
	return Params{Tagging: -1}
}

func (p *Params) validate() error {
	if p.BPS > 6 {
		return fmt.Errorf("%w: too many bits per symbol (max is 6)", ErrInvalidParams)
	}

	if p.Tagging < -1 {
		return fmt.Errorf("%w: invalid tagging ID", ErrInvalidParams)
	}

	if p.K != 0 || p.N != 0 || p.ConstraintLen != 0 {
		if p.K >= p.N {
			return fmt.Errorf("%w: encoder rate is too big", ErrInvalidParams)
		}

		if p.ConstraintLen == 0 {
			return fmt.Errorf("%w: invalid constraint length", ErrInvalidParams)
		}
	}

	return nil
}

// RankDef is one complete hypothesis: a tagging, the window where rank
// went deficient, the conjectured code parameters, and the recovered
// dual and generator vectors in both bit-row and polynomial form.
type RankDef struct {
	tagging tagging

	h      [][]byte   // Dual rows, n_a cells each.  One per parity output.
	h_poly [][]uint64 // n polynomials per dual row, coefficient of D^t in bit t.

	g      [][]byte   // Generator rows, n*K cells each.  One per input.
	g_poly [][]uint64 // n polynomials per generator, tap t in bit K-t-1.

	n_a int // Row width of the first rank deficiency.
	n   int // Codeword length.
	k   int // Message length.
	K   int // Constraint length.
	muT int // Encoder memory, k*(K-1).

	likely bool
	known  string // Name from the known-code catalog, if any.
}

func (self *RankDef) IsLikely() bool {
	return self.likely
}

func (self *RankDef) IsGray() bool {
	return self.tagging.is_gray
}

func (self *RankDef) TaggingID() int {
	return self.tagging.tagging_id
}

// Code returns the estimated (k, n, K).
func (self *RankDef) Code() (int, int, int) {
	return self.k, self.n, self.K
}

func (self *RankDef) MuT() int {
	return self.muT
}

// Dict is the tagging dictionary: the bit label assigned to each
// symbol value.
func (self *RankDef) Dict() []byte {
	return self.tagging.dict
}

func (self *RankDef) HPolys() [][]uint64 {
	return self.h_poly
}

func (self *RankDef) GPolys() [][]uint64 {
	return self.g_poly
}

// GBits is the packed generator matrix: one row per generator, n*K
// cells of 0/1, cell n*t+j being tap t of output j.
func (self *RankDef) GBits() [][]byte {
	return self.g
}

func rankdef_new(tg *tagging) *RankDef {
	return &RankDef{tagging: tg.copy()}
}

// Read the dual vectors out of a reduced matrix: every null column i of
// R corresponds to row i of the transformation matrix B, which spells
// out the vanishing combination of the original columns.
func (self *RankDef) populate(R *gf2_matrix_t, B *gf2_matrix_t) {
	var l = R.cols

	self.n_a = l

	for i := 0; i < l; i++ {
		if R.col_is_null(i) {
			self.h = append(self.h, B.copy_row(i))
		}
	}
}

func rankdef_from_matrices(tg *tagging, R *gf2_matrix_t, B *gf2_matrix_t) *RankDef {
	var self = rankdef_new(tg)
	self.populate(R, B)

	return self
}

func (self *RankDef) set_second_deficiency(l int) {
	self.n = l - self.n_a
}

func (self *RankDef) dup() *RankDef {
	var dup = rankdef_new(&self.tagging)

	dup.n_a = self.n_a
	dup.n = self.n
	dup.k = self.k
	dup.K = self.K
	dup.muT = self.muT
	dup.likely = self.likely

	for _, row := range self.h {
		dup.h = append(dup.h, append([]byte(nil), row...))
	}

	for _, row := range self.g {
		dup.g = append(dup.g, append([]byte(nil), row...))
	}

	for _, list := range self.h_poly {
		dup.h_poly = append(dup.h_poly, append([]uint64(nil), list...))
	}

	for _, list := range self.g_poly {
		dup.g_poly = append(dup.g_poly, append([]uint64(nil), list...))
	}

	return dup
}

// Regroup each dual row into n polynomials: bit t of polynomial j is
// the coefficient at stride-n position n*t + j.
//
// With a user-forced n the dual row can be shorter than n*(muT+1);
// positions past its end read as zero.
func (self *RankDef) extract_duals() {
	for _, row := range self.h {
		var list = make([]uint64, self.n)

		for j := 0; j < self.n; j++ {
			var poly = uint64(0)
			for t := 0; t <= self.muT; t++ {
				var p = self.n*t + j
				if p < len(row) {
					poly |= uint64(row[p]) << uint(t)
				}
			}

			list[j] = poly
		}

		self.h_poly = append(self.h_poly, list)
	}
}

/*-------------------------------------------------------------
 *
 * Name:	compute_generators
 *
 * Purpose:	Solve G . H^T = 0 for the generator rows.
 *
 * Description:	Build a constraint matrix whose rows are shifted copies
 *		of each dual vector: row (d, i) places dual d shifted by
 *		(i - equations/2) codeword lengths.  The kernel of that
 *		system, read through the transformation matrix, is the
 *		set of generator rows consistent with the duals.
 *
 *		The system looks overdetermined but is not.  When it has
 *		fewer equations than unknowns the matrix is padded with
 *		zero rows, which leaves the null space alone but keeps
 *		the column reducer's cols <= rows precondition happy.
 *
 *--------------------------------------------------------------*/

func (self *RankDef) compute_generators() error {
	var unknowns = self.n * self.K
	var equations = self.K + self.muT /* TODO: Add more equations */

	var rows = max(unknowns, len(self.h)*equations)

	var A = gf2_matrix_new(rows, unknowns)

	var rowcnt = 0

	for d := 0; d < len(self.h); d++ {
		for i := 0; i < equations; i++ {
			// j walks the dual vector, p the unknown it lands on.
			for j := 0; j < len(self.h[d]); j++ {
				/* Compute shift of this vector */
				var p = (i-equations/2)*self.n + j

				if p >= 0 && p < unknowns {
					A.set(rowcnt, p, self.h[d][j])
				}
			}

			rowcnt++
		}
	}

	var B, err = A.gauss_jordan_cols(true)
	if err != nil {
		return err
	}

	for i := 0; i < unknowns; i++ {
		if A.col_is_null(i) {
			var row = B.copy_row(i)
			var list = make([]uint64, self.n)

			// Tap 0 is the high bit of the polynomial.
			for j := 0; j < self.n; j++ {
				var poly = uint64(0)
				for t := 0; t < self.K; t++ {
					poly |= uint64(row[self.n*t+j]) << uint(self.K-t-1)
				}

				list[j] = poly
			}

			self.g_poly = append(self.g_poly, list)
			self.g = append(self.g, row)
		}
	}

	self.likely = len(self.g_poly) == self.k

	return nil
}

// Cccrack runs the whole recovery: tagger, analyzer, evaluator, and
// the retained-candidate collection.
type Cccrack struct {
	params  Params
	capture string
	symtag  *symtag_t
	catalog *code_catalog_t

	rankdefs []*RankDef
}

func NewCccrack(path string, params Params) (*Cccrack, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	var self = &Cccrack{
		params:  params,
		capture: path,
		catalog: catalog_load(),
	}

	var symtag, err = symtag_new_from_file(path, params.BPS, self.on_tagging)
	if err != nil {
		return nil, err
	}

	self.symtag = symtag

	if err := cc_log_init(params.Log); err != nil {
		self.Destroy()
		return nil, err
	}

	return self, nil
}

func (self *Cccrack) Destroy() {
	cc_log_term()

	if self.symtag != nil {
		self.symtag.destroy()
		self.symtag = nil
	}
}

func (self *Cccrack) Run() error {
	return self.symtag.tag()
}

func (self *Cccrack) TaggingCount() uint64 {
	return self.symtag.tagging_count()
}

func (self *Cccrack) CandidateCount() int {
	return len(self.rankdefs)
}

func (self *Cccrack) Candidate(i int) *RankDef {
	return self.rankdefs[i]
}

func (self *Cccrack) push_rankdef(def *RankDef) {
	def.known = self.catalog.match(def)
	self.rankdefs = append(self.rankdefs, def)

	cc_log_write(self.capture, def)
}

// Evaluate one (k, n, K) hypothesis against the template.  A failed
// evaluation kills this candidate only; enumeration moves on.
func (self *Cccrack) eval_candidate(template *RankDef) {
	var dup = template.dup()

	dup.extract_duals()

	if err := dup.compute_generators(); err != nil {
		return
	}

	if self.params.All || dup.likely {
		self.push_rankdef(dup)
	}
}

// Sweep every (k, muT) consistent with the observed n_a and n.
func (self *Cccrack) enumerate_configs(template *RankDef) {
	var n = template.n
	var n_a = template.n_a

	for k := 1; k < n; k++ {
		for z := 1; z <= n-k; z++ {
			template.muT = n_a - (n_a*k)/n - z
			template.k = k

			if template.muT < 0 {
				continue
			}

			template.K = template.muT/template.k + 1

			/* This is something interesting. Study case when K = 1 */
			if template.K > 1 {
				self.eval_candidate(template)
			}
		}
	}
}

/*-------------------------------------------------------------
 *
 * Name:	on_tagging
 *
 * Purpose:	Per-tagging rank-deficiency analysis.
 *
 * Description:	Reshape the demodulated bits into height x l matrices
 *		for growing l and column-reduce each one.  The first
 *		rank deficiency fixes n_a and yields the dual vectors;
 *		the second one, n columns later, yields n itself (unless
 *		the caller forced it).  With both in hand, evaluate the
 *		(k, K) hypotheses.
 *
 *--------------------------------------------------------------*/

func (self *Cccrack) on_tagging(tg *tagging, bits []byte) error {
	if self.params.Tagging != -1 && self.params.Tagging != tg.tagging_id {
		return nil
	}

	if self.params.Dump != "" {
		if err := save_tagging(self.params.Dump, bits); err != nil {
			fmt.Fprintf(os.Stderr, "tagging %d: %s\n", tg.tagging_id, err)
		}
	}

	if !self.params.NoGray && !tg.is_gray {
		return nil
	}

	var width = int(math.Floor(math.Sqrt(float64(len(bits)))))
	if width > CCCRACK_MAX_WIDTH {
		width = CCCRACK_MAX_WIDTH
	}

	var rankdef *RankDef
	var done = false

	/* TODO: Repeat for several regions */
	for l := 2; !done && l < width; l++ {
		var height = len(bits) / l
		if height > width*CCCRACK_MAX_REL_HEIGHT {
			height = width * CCCRACK_MAX_REL_HEIGHT
		}

		/* Construct received code matrix */
		var R = gf2_matrix_new(height, l)

		var p = 0
		for i := 0; i < height; i++ {
			for j := 0; j < l; j++ {
				R.set(i, j, bits[p])
				p++
			}
		}

		var B, err = R.gauss_jordan_cols(true)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tagging %d: %s\n", tg.tagging_id, err)
			return nil
		}

		if R.rank < l {
			var have_n = false

			if rankdef == nil {
				rankdef = rankdef_from_matrices(tg, R, B)

				if self.params.N > 0 {
					rankdef.n = int(self.params.N)
					have_n = true
				}
			} else {
				/* No n found. This is the second iter */
				rankdef.set_second_deficiency(l)
				have_n = true
			}

			if have_n {
				/* We have guessed n now. How about k and K? */
				if self.params.K > 0 && self.params.ConstraintLen > 0 {
					rankdef.k = int(self.params.K)
					rankdef.K = int(self.params.ConstraintLen)
					rankdef.muT = rankdef.k * (rankdef.K - 1)

					self.eval_candidate(rankdef)
				} else {
					/* No k, K provided. Test them all */
					self.enumerate_configs(rankdef)
				}

				done = true
			}
		}
	}

	return nil
}
