package cccrack

/*-------------------------------------------------------------
 *
 * Purpose:	Dense bit-packed matrices over GF(2).
 *
 *		Each row is a packed sequence of 64-bit words, cell
 *		(r, c) being bit (c mod 64) of word (c div 64) of row r.
 *		Row operations are word-parallel XOR; column operations
 *		work bit-at-a-time over the rows.
 *
 *		The Gauss-Jordan reducers optionally record the sequence
 *		of elementary operations in a transformation matrix so
 *		that the null space of the original matrix can be read
 *		back out after reduction.
 *
 *--------------------------------------------------------------*/

import (
	"fmt"
)

func gf2_matrix_row_block(n int) int {
	return n >> 6
}

func gf2_matrix_row_blocks(n int) int {
	return gf2_matrix_row_block(n + 63)
}

func gf2_matrix_row_shift(n int) uint {
	return uint(n & 63)
}

type gf2_matrix_t struct {
	rows, cols int
	blocks     int
	rank       int
	row_data   [][]uint64
}

func gf2_matrix_new(rows int, cols int) *gf2_matrix_t {
	var self = &gf2_matrix_t{
		rows:     rows,
		cols:     cols,
		blocks:   gf2_matrix_row_blocks(cols),
		row_data: make([][]uint64, rows),
	}

	for i := 0; i < rows; i++ {
		self.row_data[i] = make([]uint64, self.blocks)
	}

	return self
}

func gf2_matrix_eye(rows int, cols int) *gf2_matrix_t {
	var self = gf2_matrix_new(rows, cols)

	var n = min(rows, cols)

	for i := 0; i < n; i++ {
		self.set(i, i, 1)
	}

	return self
}

func (self *gf2_matrix_t) set(row int, col int, bit byte) {
	var block = gf2_matrix_row_block(col)
	var off = gf2_matrix_row_shift(col)
	var mask = ^(uint64(1) << off)

	self.row_data[row][block] =
		(mask & self.row_data[row][block]) | (uint64(bit&1) << off)
}

// XOR bit into cell (row, col).
func (self *gf2_matrix_t) add(row int, col int, bit byte) {
	var block = gf2_matrix_row_block(col)
	var off = gf2_matrix_row_shift(col)

	self.row_data[row][block] ^= uint64(bit&1) << off
}

func (self *gf2_matrix_t) get(row int, col int) byte {
	var block = gf2_matrix_row_block(col)
	var off = gf2_matrix_row_shift(col)

	return byte((self.row_data[row][block] >> off) & 1)
}

func (self *gf2_matrix_t) swap_rows(a int, b int) {
	self.row_data[a], self.row_data[b] = self.row_data[b], self.row_data[a]
}

// Row a ^= row b, word-parallel.
func (self *gf2_matrix_t) add_rows(a int, b int) {
	for i := 0; i < self.blocks; i++ {
		self.row_data[a][i] ^= self.row_data[b][i]
	}
}

func (self *gf2_matrix_t) swap_cols(a int, b int) {
	for i := 0; i < self.rows; i++ {
		var prev = self.get(i, a)
		self.set(i, a, self.get(i, b))
		self.set(i, b, prev)
	}
}

// Column a ^= column b.
func (self *gf2_matrix_t) add_cols(a int, b int) {
	for i := 0; i < self.rows; i++ {
		self.add(i, a, self.get(i, b))
	}
}

func (self *gf2_matrix_t) col_is_null(col int) bool {
	var block = gf2_matrix_row_block(col)
	var mask = uint64(1) << gf2_matrix_row_shift(col)

	for i := 0; i < self.rows; i++ {
		if self.row_data[i][block]&mask != 0 {
			return false
		}
	}

	return true
}

func (self *gf2_matrix_t) row_is_null(row int) bool {
	for i := 0; i < self.blocks; i++ {
		if self.row_data[row][i] != 0 {
			return false
		}
	}

	return true
}

// Unpacked copy of one row, one byte per cell.
func (self *gf2_matrix_t) copy_row(row int) []byte {
	var rowdata = make([]byte, self.cols)

	for i := 0; i < self.cols; i++ {
		rowdata[i] = self.get(row, i)
	}

	return rowdata
}

func (self *gf2_matrix_t) copy_col(col int) []byte {
	var coldata = make([]byte, self.rows)

	for i := 0; i < self.rows; i++ {
		coldata[i] = self.get(i, col)
	}

	return coldata
}

func (self *gf2_matrix_t) transpose() *gf2_matrix_t {
	var mat = gf2_matrix_new(self.cols, self.rows)

	for j := 0; j < self.rows; j++ {
		for i := 0; i < self.cols; i++ {
			mat.set(i, j, self.get(j, i))
		}
	}

	return mat
}

/*-------------------------------------------------------------
 *
 * Name:	gauss_jordan_cols
 *
 * Purpose:	Column-form Gauss-Jordan reduction.
 *
 * Inputs:	track	- When true, also build a cols x cols
 *			  transformation matrix B, initialized to the
 *			  identity and mirroring every column operation
 *			  as a row operation.  At termination, for every
 *			  null column i of the reduced matrix, row i of
 *			  B expresses that column as a combination of
 *			  the original columns: B[i] . A_orig^T = 0.
 *
 * Outputs:	The receiver is reduced in place and its rank recorded.
 *
 * Returns:	The transformation matrix (nil when track is false).
 *
 *		Pivoting always takes the lowest-index row that does not
 *		already hold a pivot; columns are reduced left to right.  Row swaps do not touch B: they
 *		permute equations, not the column combination.
 *
 *--------------------------------------------------------------*/

func (self *gf2_matrix_t) gauss_jordan_cols(track bool) (*gf2_matrix_t, error) {
	if self.cols > self.rows {
		return nil, fmt.Errorf(
			"gauss_jordan_cols: %w: cols (%d) > rows (%d)",
			ErrInternal, self.cols, self.rows)
	}

	var b_m *gf2_matrix_t
	if track {
		b_m = gf2_matrix_eye(self.cols, self.cols)
	}

	var rank = 0

	for i := 0; i < self.cols; i++ {
		// Rows 0..rank-1 already hold pivots; this column's pivot
		// goes in row rank.
		var pivot = self.get(rank, i)

		if pivot == 0 {
			for j := rank + 1; j < self.rows; j++ {
				if self.get(j, i) != 0 {
					self.swap_rows(j, rank)
					pivot = 1
					break
				}
			}
		}

		if pivot != 0 {
			for j := i + 1; j < self.cols; j++ {
				if self.get(rank, j) != 0 {
					self.add_cols(j, i)
					if track {
						b_m.add_rows(j, i)
					}
				}
			}

			rank++
		}
	}

	self.rank = rank

	return b_m, nil
}

// Row-form dual of gauss_jordan_cols: pivots by column swap, reduces
// rows top to bottom, and tracks the row combination instead.
func (self *gf2_matrix_t) gauss_jordan_rows(track bool) (*gf2_matrix_t, error) {
	if self.rows > self.cols {
		return nil, fmt.Errorf(
			"gauss_jordan_rows: %w: rows (%d) > cols (%d)",
			ErrInternal, self.rows, self.cols)
	}

	var b_m *gf2_matrix_t
	if track {
		b_m = gf2_matrix_eye(self.rows, self.rows)
	}

	var rank = 0

	for i := 0; i < self.rows; i++ {
		// Columns 0..rank-1 already hold pivots; this row's pivot
		// goes in column rank.
		var pivot = self.get(i, rank)

		if pivot == 0 {
			for j := rank + 1; j < self.cols; j++ {
				if self.get(i, j) != 0 {
					self.swap_cols(rank, j)
					pivot = 1
					break
				}
			}
		}

		if pivot != 0 {
			for j := i + 1; j < self.rows; j++ {
				if self.get(j, rank) != 0 {
					self.add_rows(j, i)
					if track {
						b_m.add_rows(j, i)
					}
				}
			}

			rank++
		}
	}

	self.rank = rank

	return b_m, nil
}
