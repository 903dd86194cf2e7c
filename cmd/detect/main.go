package main

import (
	"bufio"
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"github.com/tomz197/collisions/internal/config"
	"github.com/tomz197/collisions/internal/wire"
	"golang.org/x/term"
)

func main() {
	pretty := flag.Bool("pretty", false, "indent the JSON output")
	flag.Parse()

	settings, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "Reading one JSON snapshot per line. Ctrl-D to finish.")
	}

	if err := run(os.Stdin, os.Stdout, settings.MaxSnapshotBytes, *pretty); err != nil {
		fmt.Fprintf(os.Stderr, "detect error: %v\n", err)
		os.Exit(1)
	}
}

// run answers every non-blank input line with one output record: the encoded
// events, or an {"error": ...} object for a bad or oversize snapshot.
func run(r io.Reader, w io.Writer, maxBytes int, pretty bool) error {
	fr := wire.NewFrameReader(r, maxBytes)
	out := bufio.NewWriter(w)
	defer out.Flush()

	for {
		line, err := fr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}

		var result []byte
		switch {
		case errors.Is(err, wire.ErrSnapshotTooLarge):
			result = errorRecord(err)
		case err != nil:
			return err
		default:
			if result, err = wire.Handle(line); err != nil {
				result = errorRecord(err)
			} else if pretty {
				result = []byte(gjson.GetBytes(result, "@pretty").Raw)
			}
		}

		out.Write(bytes.TrimSpace(result))
		out.WriteByte('\n')
		if err := out.Flush(); err != nil {
			return err
		}
	}
}

func errorRecord(err error) []byte {
	out, _ := sjson.SetBytes([]byte("{}"), "error", err.Error())
	return out
}
