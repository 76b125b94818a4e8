/* Generate symbol captures from a known convolutional encoder */
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	cccrack "github.com/doismellburning/borzoi/src"
)

var _output = pflag.StringP("output", "o", "", "Write the capture to FILE (required)")
var _params = pflag.StringP("params", "p", "1,2,3", "Encoder parameters k,n,K")
var _generators = pflag.StringP("generators", "g", "7,5", "Octal generator polynomials, row-major, k*n of them")
var _length = pflag.IntP("length", "l", 10000, "Number of random message bits to encode")
var _seed = pflag.Int64P("seed", "s", 1, "Seed for the message bit generator")
var _mapping = pflag.StringP("mapping", "m", "gray", "Symbol mapping: gray or natural")
var _bps = pflag.UintP("bps", "b", 0, "Bits per symbol (default: n, one symbol per codeword)")

func usage() {
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  borzoi-gen -o capture.log [OPTIONS]\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(
		os.Stderr,
		"Encodes random message bits with a known convolutional encoder and\n"+
			"writes the symbol capture, for feeding back into borzoi.\n\n")
	fmt.Fprintf(os.Stderr, "Example:\n")
	fmt.Fprintf(os.Stderr, "  borzoi-gen -o z.log -p 1,2,3 -g 7,5\n")
	fmt.Fprintf(os.Stderr, "  borzoi -b 2 z.log\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	pflag.PrintDefaults()
}

func main() {
	pflag.Usage = usage
	pflag.Parse()

	if *_output == "" {
		fmt.Fprintf(os.Stderr, "borzoi-gen: no output file provided\n\n")
		usage()
		os.Exit(1)
	}

	var k, n, K int
	if _, err := fmt.Sscanf(*_params, "%d,%d,%d", &k, &n, &K); err != nil {
		log.Fatalf("invalid parameters")
	}

	var polys []uint64
	for _, s := range strings.Split(*_generators, ",") {
		var v, err = strconv.ParseUint(strings.TrimSpace(s), 8, 64)
		if err != nil {
			log.Fatalf("invalid generator polynomial `%s'", s)
		}

		polys = append(polys, v)
	}

	var enc, encErr = cccrack.NewConvEncoder(k, n, K, polys)
	if encErr != nil {
		log.Fatalf("%s", encErr)
	}

	var bps = *_bps
	if bps == 0 {
		bps = uint(n)
	}

	if bps > 6 {
		log.Fatalf("too many bits per symbol! (max is 6)")
	}

	var dict []byte
	switch *_mapping {
	case "gray":
		dict = cccrack.GrayDict(bps)
	case "natural":
		dict = cccrack.NaturalDict(bps)
	default:
		log.Fatalf("unknown mapping `%s' (want gray or natural)", *_mapping)
	}

	var rng = rand.New(rand.NewSource(*_seed))

	var msg = make([]byte, *_length)
	for i := range msg {
		msg[i] = byte(rng.Intn(2))
	}

	var bits = enc.Encode(msg)

	var capture, capErr = cccrack.BitsToCapture(bits, bps, dict)
	if capErr != nil {
		log.Fatalf("%s", capErr)
	}

	if writeErr := os.WriteFile(*_output, capture, 0644); writeErr != nil {
		log.Fatalf("cannot write `%s': %s", *_output, writeErr)
	}

	log.Infof("wrote %d symbols (%d coded bits) to `%s'", len(capture), len(bits), *_output)
}
