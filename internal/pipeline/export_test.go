package pipeline

import "time"

// SetBackoff shortens the publish backoff in tests.
func (p *Pipeline) SetBackoff(d time.Duration) { p.backoff = d }
