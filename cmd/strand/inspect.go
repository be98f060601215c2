package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"

	"github.com/dshills/strand/internal/strand"
	"github.com/dshills/strand/internal/strand/storage"
)

var errWindowOutOfRange = errors.New("window out of range")

type inspectOptions struct {
	input inputOptions
	from  int
	to    int
}

func newInspectCmd(a *app) *cobra.Command {
	opts := &inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect [text]",
		Short: "Report the views of a text as JSON",
		Long: `Decodes the text given as an argument, read from --file, or read from
standard input, and prints a JSON report of its UTF-8, UTF-16, scalar and
character views. --from and --to select a window by character offset.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInspect(opts, args)
		},
	}
	cmd.Flags().StringVarP(&opts.input.file, "file", "f", "", "read text from a file")
	cmd.Flags().StringVarP(&opts.input.encoding, "encoding", "e", "utf-8", "encoding of the input")
	cmd.Flags().BoolVar(&opts.input.lossy, "lossy", false, "replace malformed input with U+FFFD")
	cmd.Flags().IntVar(&opts.from, "from", 0, "first character of the window")
	cmd.Flags().IntVar(&opts.to, "to", -1, "character offset ending the window (default: end)")
	return cmd
}

func (a *app) runInspect(opts *inspectOptions, args []string) error {
	s, enc, err := a.decodeInput(opts.input, args)
	if err != nil {
		return err
	}

	sub, err := characterWindow(s, opts.from, opts.to)
	if err != nil {
		return err
	}
	a.logger.Debug("Inspecting text",
		zap.Stringer("encoding", enc),
		zap.Int("bytes", sub.UTF8().Count()),
		zap.Stringer("lower", sub.StartIndex()),
		zap.Stringer("upper", sub.EndIndex()))

	report, err := inspectReport(sub)
	if err != nil {
		return err
	}
	report, err = sjson.SetBytes(report, "encoding", enc.String())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.stdout, string(report))
	return err
}

// characterWindow slices s to the characters [from, to). A negative to
// means the end of s.
func characterWindow(s *strand.String, from, to int) (*strand.Substring, error) {
	start, end := s.StartIndex(), s.EndIndex()
	lower, ok := s.IndexOffsetByLimitedBy(start, from, end)
	if !ok || from < 0 {
		return nil, fmt.Errorf("%w: --from %d", errWindowOutOfRange, from)
	}
	upper := end
	if to >= 0 {
		if to < from {
			return nil, fmt.Errorf("%w: --to %d precedes --from %d", errWindowOutOfRange, to, from)
		}
		upper, ok = s.IndexOffsetByLimitedBy(lower, to-from, end)
		if !ok {
			return nil, fmt.Errorf("%w: --to %d", errWindowOutOfRange, to)
		}
	}
	return s.Slice(strand.Range{Lower: lower, Upper: upper}), nil
}

// inspectReport renders the views of t as JSON.
func inspectReport(t strand.Text) ([]byte, error) {
	sum := storage.ComputeSummary([]byte(t.String()))
	fields := []struct {
		path  string
		value any
	}{
		{"text", t.String()},
		{"window.lower", t.StartIndex().Offset()},
		{"window.upper", t.EndIndex().Offset()},
		{"counts.utf8", t.UTF8().Count()},
		{"counts.utf16", t.UTF16().Count()},
		{"counts.scalars", t.UnicodeScalars().Count()},
		{"counts.characters", t.Count()},
		{"lines", sum.Lines},
		{"ascii", sum.IsASCII()},
	}

	report := []byte("{}")
	var err error
	for _, f := range fields {
		if report, err = sjson.SetBytes(report, f.path, f.value); err != nil {
			return nil, err
		}
	}

	report, err = sjson.SetRawBytes(report, "characters", []byte("[]"))
	if err != nil {
		return nil, err
	}
	chars := t.Characters()
	for i := chars.StartIndex(); i != chars.EndIndex(); i = chars.IndexAfter(i) {
		c := chars.At(i)
		var scalars []string
		for r := range c.UnicodeScalars() {
			scalars = append(scalars, fmt.Sprintf("U+%04X", r))
		}
		entry := map[string]any{
			"text":    string(c),
			"offset":  i.Offset(),
			"utf16":   c.UTF16Count(),
			"scalars": scalars,
		}
		if report, err = sjson.SetBytes(report, "characters.-1", entry); err != nil {
			return nil, err
		}
	}
	return report, nil
}
