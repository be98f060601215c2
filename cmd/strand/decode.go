package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/strand/internal/strand"
	"github.com/dshills/strand/internal/strand/codec"
)

type decodeOptions struct {
	input inputOptions
	to    string
}

func newDecodeCmd(a *app) *cobra.Command {
	opts := &decodeOptions{}
	cmd := &cobra.Command{
		Use:   "decode [text]",
		Short: "Transcode text between encodings",
		Long: `Decodes the input from --from and writes it to standard output encoded
as --to. Without --lossy malformed input is an error.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDecode(opts, args)
		},
	}
	cmd.Flags().StringVarP(&opts.input.file, "file", "f", "", "read input from a file")
	cmd.Flags().StringVar(&opts.input.encoding, "from", "utf-8", "encoding of the input")
	cmd.Flags().StringVar(&opts.to, "to", "utf-8", "encoding of the output")
	cmd.Flags().BoolVar(&opts.input.lossy, "lossy", false, "replace malformed input with U+FFFD")
	return cmd
}

func (a *app) runDecode(opts *decodeOptions, args []string) error {
	target, err := codec.Lookup(opts.to)
	if err != nil {
		return err
	}
	s, enc, err := a.decodeInput(opts.input, args)
	if err != nil {
		return err
	}
	defer s.Release()

	return s.WithCString(target, func(b strand.CBuffer) error {
		a.logger.Info("Transcoded",
			zap.Stringer("from", enc),
			zap.Stringer("to", target),
			zap.Int("characters", s.Count()),
			zap.Int("bytes", b.Len()))
		_, err := a.stdout.Write(b.Bytes())
		return err
	})
}
