package cccrack

/*-------------------------------------------------------------
 *
 * Purpose:	Symbol tagger.
 *
 *		A capture file is a flat sequence of hard-decision
 *		symbols, one byte per symbol, encoded as ASCII digits
 *		'0'..'0'+63.  Nothing tells us which bit pattern the
 *		transmitter assigned to each symbol value, so blind
 *		recovery has to try every bijection ("tagging") from
 *		symbol value to bit label.
 *
 *		The tagger mmaps the capture, validates the symbol
 *		prefix, then enumerates all (2^bps)! taggings in
 *		lexicographic dictionary order.  For each one it
 *		demodulates the capture into a bit buffer and hands
 *		tagging plus bits to a callback.
 *
 *		The bit buffer is owned by the tagger and reused across
 *		callbacks; the callback must not keep a reference to it
 *		past the call.
 *
 *--------------------------------------------------------------*/

import (
	"fmt"
	"math/bits"
	"os"

	"golang.org/x/sys/unix"
)

type tagging struct {
	dict []byte

	tagging_id int
	bps        uint
	mask       byte

	is_gray bool
}

// Deep copy; the dictionary is owned by the tagger and keeps mutating
// during enumeration.
func (self *tagging) copy() tagging {
	var dup = *self
	dup.dict = make([]byte, len(self.dict))
	copy(dup.dict, self.dict)

	return dup
}

// A dictionary is Gray iff every pair of consecutive entries differs
// in exactly one bit.
func (self *tagging) compute_properties() {
	var is_gray = true

	for i := 1; is_gray && i < len(self.dict); i++ {
		is_gray = bits.OnesCount8(self.dict[i]^self.dict[i-1]) == 1
	}

	self.is_gray = is_gray
}

type symtag_tagging_cb_t func(tagging *tagging, bits []byte) error

type symtag_t struct {
	sym_data []byte // Valid symbol prefix, a view into map_data.
	map_data []byte // What remains mapped; released at destroy.
	bit_data []byte

	tagging  tagging
	sel_mask uint64

	on_tagging symtag_tagging_cb_t
}

func symtag_new(sym_data []byte, map_data []byte, bps uint, cb symtag_tagging_cb_t) *symtag_t {
	var self = &symtag_t{
		sym_data:   sym_data,
		map_data:   map_data,
		bit_data:   make([]byte, len(sym_data)*int(bps)),
		on_tagging: cb,
	}

	self.tagging.bps = bps
	self.tagging.mask = byte(1<<bps - 1)
	self.tagging.dict = make([]byte, 1<<bps)

	return self
}

/*-------------------------------------------------------------
 *
 * Name:	symtag_new_from_file
 *
 * Purpose:	Map a capture file and size up the symbol alphabet.
 *
 * Inputs:	file	- Path of the capture.
 *
 *		bps	- Bits per symbol.  0 means infer it from the
 *			  largest symbol value seen in the valid prefix.
 *
 * Description:	The file is mapped read-only.  The valid prefix runs up
 *		to the first byte outside '0'..'0'+63; everything after
 *		it is discarded, and whole trailing pages are unmapped
 *		eagerly.  An empty valid prefix is not a capture.
 *
 *--------------------------------------------------------------*/

func symtag_new_from_file(file string, bps uint, cb symtag_tagging_cb_t) (*symtag_t, error) {
	var sbuf, statErr = os.Stat(file)
	if statErr != nil {
		return nil, fmt.Errorf("cannot stat `%s': %w", file, statErr)
	}

	var sym_len = int(sbuf.Size())
	if sym_len == 0 {
		return nil, fmt.Errorf("`%s': %w", file, ErrInvalidCapture)
	}

	var fd, openErr = os.Open(file)
	if openErr != nil {
		return nil, fmt.Errorf("cannot open `%s': %w", file, openErr)
	}

	var sym_data, mmapErr = unix.Mmap(
		int(fd.Fd()), 0, sym_len, unix.PROT_READ, unix.MAP_PRIVATE)

	fd.Close()

	if mmapErr != nil {
		return nil, fmt.Errorf("cannot mmap `%s': %w", file, mmapErr)
	}

	var infer = bps == 0
	if infer {
		bps = 1
	}

	var symcnt = 2
	var valid = 0

	for i := 0; i < sym_len; i++ {
		if sym_data[i] < '0' || sym_data[i] >= '0'+64 {
			break
		}

		if infer {
			for int(sym_data[i]-'0') >= symcnt {
				bps++
				symcnt <<= 1
			}
		}

		valid++
	}

	if valid == 0 {
		unix.Munmap(sym_data)
		return nil, fmt.Errorf("`%s': %w", file, ErrInvalidCapture)
	}

	var map_data = sym_data

	if valid < sym_len {
		var page_size = os.Getpagesize()
		var chop_start = (valid + page_size - 1) / page_size * page_size

		if chop_start < sym_len {
			unix.Munmap(sym_data[chop_start:sym_len])
			map_data = sym_data[:chop_start]
		}
	}

	return symtag_new(sym_data[:valid], map_data, bps, cb), nil
}

func (self *symtag_t) destroy() {
	if self.map_data != nil {
		unix.Munmap(self.map_data)
		self.map_data = nil
		self.sym_data = nil
	}
}

// (2^bps)!
func (self *symtag_t) tagging_count() uint64 {
	var result = uint64(1)

	for val := uint64(len(self.tagging.dict)); val > 1; val-- {
		result *= val
	}

	return result
}

func (self *symtag_t) tag_internal(sym int) error {
	if sym < len(self.tagging.dict) {
		// Pick the next unused bit label for this symbol value.
		// Trying labels in ascending order makes the enumeration
		// strictly lexicographic in the dictionary, which is what
		// keeps tagging IDs stable across runs.
		for i := 0; i < len(self.tagging.dict); i++ {
			var bit = uint64(1) << uint(i)
			if self.sel_mask&bit == 0 {
				self.sel_mask |= bit
				self.tagging.dict[sym] = byte(i)

				if err := self.tag_internal(sym + 1); err != nil {
					return err
				}

				self.sel_mask &^= bit
			}
		}
	} else {
		// Dictionary complete: demodulate, MSB first.
		var p = 0
		for i := 0; i < len(self.sym_data); i++ {
			var d = self.tagging.dict[(self.sym_data[i]-'0')&self.tagging.mask]
			for j := self.tagging.bps; j > 0; j-- {
				self.bit_data[p] = (d >> (j - 1)) & 1
				p++
			}
		}

		self.tagging.compute_properties()

		if err := self.on_tagging(&self.tagging, self.bit_data); err != nil {
			return err
		}

		self.tagging.tagging_id++
	}

	return nil
}

func (self *symtag_t) tag() error {
	self.tagging.tagging_id = 0
	self.sel_mask = 0

	return self.tag_internal(0)
}
