// Package benchbar provides a really simple progress bar for the benchmarking
// process.
package benchbar

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// ProgressBar is safe for concurrent use.
type ProgressBar struct {
	pb          *progressbar.ProgressBar
	description string
	maxItems    int
}

// NewBar starts a bar counting up to maxItems and draws it on w.
func NewBar(w io.Writer, description string, maxItems int) *ProgressBar {
	pb := progressbar.NewOptions64(
		int64(maxItems),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(10),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
	)
	_ = pb.Set(0)

	return &ProgressBar{
		pb:          pb,
		description: description,
		maxItems:    maxItems,
	}
}

func (p *ProgressBar) Inc() {
	_ = p.pb.Add(1)
}

// Count returns how many items were counted so far.
func (p *ProgressBar) Count() int {
	return int(p.pb.State().CurrentNum)
}

func (p *ProgressBar) Finish() {
	_ = p.pb.Finish()
	_ = p.pb.Close()
}
