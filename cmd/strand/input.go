package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dshills/strand/internal/strand"
	"github.com/dshills/strand/internal/strand/codec"
)

// inputOptions selects where text comes from and how it is decoded.
type inputOptions struct {
	file     string
	encoding string
	lossy    bool
}

// readInput returns the raw bytes of the first argument, the file, or
// standard input, in that order of preference.
func (a *app) readInput(opts inputOptions, args []string) ([]byte, error) {
	switch {
	case len(args) > 0:
		return []byte(args[0]), nil
	case opts.file != "":
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		return data, nil
	default:
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
}

// decodeInput reads and decodes the input text.
func (a *app) decodeInput(opts inputOptions, args []string) (*strand.String, codec.Encoding, error) {
	enc, err := codec.Lookup(opts.encoding)
	if err != nil {
		return nil, 0, err
	}
	data, err := a.readInput(opts, args)
	if err != nil {
		return nil, 0, err
	}

	decode := strand.Decode
	if opts.lossy {
		decode = strand.DecodeLossy
	}
	s, err := decode(data, enc)
	if err != nil {
		return nil, 0, fmt.Errorf("decode %s input: %w", enc, err)
	}
	return s, enc, nil
}
