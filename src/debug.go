package cccrack

/*-------------------------------------------------------------
 *
 * Purpose:	Human-readable dumps of taggings and candidates.
 *
 *		The caller is expected to format candidates however it
 *		likes through the accessors; this is the reference
 *		listing the CLI prints.  H and G polynomials are shown
 *		in decimal and octal (octal is the conventional notation
 *		for convolutional code generators), G additionally as a
 *		binary tap matrix with K columns per coefficient.
 *
 *--------------------------------------------------------------*/

import (
	"fmt"
)

// Render the dictionary as a 2-D table, symbol values along the axes,
// bit labels in the cells.
func (self *tagging) debug() {
	var width_bits = self.bps/2 + self.bps&1
	var height_bits = self.bps - width_bits

	var width = 1 << width_bits
	var height = 1 << height_bits

	var left_width = int(height_bits>>2) + IfThenElse(height_bits&3 != 0, 1, 0) + 1

	fmt.Printf("%*c", 5+left_width, '+')
	for i := 0; i < width; i++ {
		fmt.Printf(" %*d", int(self.bps), i)
	}
	fmt.Println()

	fmt.Print("  ")

	for c := left_width + 2; c > 0; c-- {
		fmt.Print("-")
	}
	fmt.Print("+")

	for c := (1+int(self.bps))*width + 3; c > 0; c-- {
		fmt.Print("-")
	}
	fmt.Println()

	for j := 0; j < height; j++ {
		fmt.Print("  ")
		fmt.Printf(" %*d ", left_width, j*width)
		fmt.Print("|")
		for i := 0; i < width; i++ {
			fmt.Print(" ")
			for k := uint(0); k < self.bps; k++ {
				fmt.Printf("%d", (self.dict[i+j*width]>>(self.bps-k-1))&1)
			}
		}
		fmt.Println()
	}

	fmt.Print("  ")

	for c := left_width + 2; c > 0; c-- {
		fmt.Print("-")
	}
	fmt.Print("+")

	for c := (1+int(self.bps))*width + 3; c > 0; c-- {
		fmt.Print("-")
	}
	fmt.Println()
}

// Debug prints the full candidate listing on stdout.
func (self *RankDef) Debug() {
	fmt.Printf("RANK DEFICIENCY INFO (tagging ID: %d)\n", self.tagging.tagging_id)
	self.tagging.debug()
	fmt.Printf(
		"  Estimated code parameters: %d/%d (K=%d)\n",
		self.k,
		self.n,
		self.K)
	fmt.Printf(
		"  Tagging is Gray: %s%s%s\n",
		text_color(IfThenElse(self.tagging.is_gray, TEXT_GREEN, TEXT_RED)),
		IfThenElse(self.tagging.is_gray, "YES", "NO"),
		text_reset())

	if self.known != "" {
		fmt.Printf("  Matches known code: %s\n", self.known)
	}

	fmt.Printf("  Number of parity outputs: %d\n", len(self.h))

	for i, list := range self.h_poly {
		fmt.Printf("    H[%d] = ", i+1)
		for j := 0; j < self.n; j++ {
			fmt.Printf("%3d ", list[j])
		}
		fmt.Print(" | OCT:")
		for j := 0; j < self.n; j++ {
			fmt.Printf("%3o ", list[j])
		}
		fmt.Println()
	}

	fmt.Println()

	fmt.Printf("  Number of generator polynomials: %d\n", len(self.g))

	fmt.Print(text_bold())

	for i, list := range self.g_poly {
		fmt.Printf("    G[%d] = ", i+1)
		for j := 0; j < self.n; j++ {
			fmt.Printf("%3d ", list[j])
		}
		fmt.Print(" | OCT:")
		for j := 0; j < self.n; j++ {
			fmt.Printf("%3o ", list[j])
		}
		fmt.Print(" | BIN:")
		for j := 0; j < self.n; j++ {
			for k := 0; k < self.K; k++ {
				fmt.Printf("%d", self.g[i][j+self.n*k])
			}
			fmt.Print(" ")
		}
		fmt.Println()
	}

	fmt.Print(text_reset())

	fmt.Println()
}
