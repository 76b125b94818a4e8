/* Blind parameter recovery for convolutional encoders */
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	cccrack "github.com/doismellburning/borzoi/src"
)

var _bps = pflag.UintP("bps", "b", 0, "Force the number of bits per symbol to be NUM")
var _tagging = pflag.IntP("tagging", "t", -1, "Compute only symbol tagging number ID")
var _dump = pflag.StringP("dump", "d", "", "Dump retagged input to FILE (use with --tagging; strftime conversions are expanded)")
var _params = pflag.StringP("params", "p", "", "Force the parameters of the encoder to be k,n,K")
var _noGray = pflag.BoolP("no-gray", "n", false, "Show candidates whose tagging is not Gray-coded")
var _all = pflag.BoolP("all", "a", false, "Show all candidates, even the unlikely ones")
var _logFile = pflag.StringP("log", "L", "", "Append retained candidates to FILE in CSV format")
var _version = pflag.BoolP("version", "V", false, "Print version and exit")

func usage() {
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  borzoi [OPTIONS] symbolfile.log\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(
		os.Stderr,
		"Attempts to blindly guess the parameters of convolutional encoders by\n"+
			"examining a stream of symbols.\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	pflag.PrintDefaults()
}

func work(file string, params cccrack.Params) {
	var cc, err = cccrack.NewCccrack(file, params)
	if err != nil {
		log.Fatalf("%s", err)
	}
	defer cc.Destroy()

	if params.Tagging == -1 {
		log.Infof("running on `%s' for all %d different taggings", file, cc.TaggingCount())
	}

	if runErr := cc.Run(); runErr != nil {
		log.Fatalf("%s: %s", file, runErr)
	}

	var count = cc.CandidateCount()

	if count == 0 {
		log.Errorf("no candidates found!")
		os.Exit(1)
	}

	for i := 0; i < count; i++ {
		cc.Candidate(i).Debug()
	}
}

func main() {
	pflag.Usage = usage
	pflag.Parse()

	if *_version {
		cccrack.PrintVersion()
		return
	}

	var params = cccrack.DefaultParams()

	if *_bps > 6 {
		log.Fatalf("too many bits per symbol! (max is 6)")
	}

	if *_tagging < -1 {
		log.Fatalf("invalid tagging ID")
	}

	params.BPS = *_bps
	params.Tagging = *_tagging
	params.Dump = *_dump
	params.Log = *_logFile
	params.NoGray = *_noGray
	params.All = *_all

	if *_params != "" {
		var k, n, K uint

		if _, err := fmt.Sscanf(*_params, "%d,%d,%d", &k, &n, &K); err != nil {
			log.Fatalf("invalid parameters")
		}

		if k >= n {
			log.Fatalf("encoder rate is too big")
		}

		if K == 0 {
			log.Fatalf("invalid constraint length")
		}

		params.K = k
		params.N = n
		params.ConstraintLen = K
	}

	if pflag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "borzoi: no files provided\n\n")
		usage()
		os.Exit(1)
	}

	for _, file := range pflag.Args() {
		work(file, params)
	}
}
