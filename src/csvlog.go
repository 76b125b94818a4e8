package cccrack

/*------------------------------------------------------------------
 *
 * Purpose:	Save retained candidates to a log file.
 *
 * Description:	Rather than asking anyone to parse the pretty-printed
 *		listing, write separated properties into CSV format for
 *		easy reading and later processing.  One row per retained
 *		candidate, appended across runs; typically logrotate
 *		would be used to keep size under control.
 *
 *------------------------------------------------------------------*/

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

var g_log_path string
var g_log_fp *os.File

func cc_log_init(path string) error {
	g_log_path = path
	g_log_fp = nil

	if len(path) == 0 {
		return nil
	}

	var stat, statErr = os.Stat(path)
	var need_header = statErr != nil || stat.Size() == 0

	var fp, openErr = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if openErr != nil {
		return fmt.Errorf("cannot open log file \"%s\": %w", path, openErr)
	}

	g_log_fp = fp

	if need_header {
		var w = csv.NewWriter(g_log_fp)
		w.Write([]string{
			"capture", "tagging_id", "is_gray",
			"k", "n", "K", "muT", "likely", "known", "g_oct", "h_oct",
		})
		w.Flush()
	}

	return nil
}

func oct_list(polys [][]uint64) string {
	var parts []string

	for _, list := range polys {
		for _, poly := range list {
			parts = append(parts, strconv.FormatUint(poly, 8))
		}
	}

	return strings.Join(parts, " ")
}

func cc_log_write(capture string, rd *RankDef) {
	if g_log_fp == nil {
		return
	}

	var w = csv.NewWriter(g_log_fp)

	w.Write([]string{
		capture,
		strconv.Itoa(rd.tagging.tagging_id),
		strconv.FormatBool(rd.tagging.is_gray),
		strconv.Itoa(rd.k),
		strconv.Itoa(rd.n),
		strconv.Itoa(rd.K),
		strconv.Itoa(rd.muT),
		strconv.FormatBool(rd.likely),
		rd.known,
		oct_list(rd.g_poly),
		oct_list(rd.h_poly),
	})

	w.Flush()
}

func cc_log_term() {
	if g_log_fp != nil {
		g_log_fp.Close()
		g_log_fp = nil
	}

	g_log_path = ""
}
