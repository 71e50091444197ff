package benchbar

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressBar(t *testing.T) {
	out := &bytes.Buffer{}
	bar := NewBar(out, "Inserting 20 users", 20)

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 5 {
				bar.Inc()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, bar.Count())
	bar.Finish()
	assert.Contains(t, out.String(), "Inserting 20 users")
}
