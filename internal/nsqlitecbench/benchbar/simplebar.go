// Package benchbar provides a really simple progress bar for the benchmarking
// process.
package benchbar

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// Bar is a progress bar over a known number of items.
type Bar struct {
	pb          *progressbar.ProgressBar
	description string
	maxItems    int
}

// NewBar returns a bar for maxItems items that renders to out.
func NewBar(description string, maxItems int, out io.Writer) *Bar {
	pb := progressbar.NewOptions(
		maxItems,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionOnCompletion(func() {
			_, _ = io.WriteString(out, "\n")
		}),
	)
	_ = pb.Set(0)

	return &Bar{
		pb:          pb,
		description: description,
		maxItems:    maxItems,
	}
}

// Inc advances the bar by one item.
func (p *Bar) Inc() {
	_ = p.pb.Add(1)
}

// Finish fills the bar and releases it.
func (p *Bar) Finish() {
	_ = p.pb.Finish()
	_ = p.pb.Close()
}

// Done returns how many items were counted so far.
func (p *Bar) Done() int {
	return int(p.pb.State().CurrentNum)
}
