package stream

import "context"

// Pump drains fragments from frags through the multiplexer and forwards
// answer increments on the returned channel. It follows the channel pair
// convention used by the generation client: the increment channel closes
// when the input stream ends, and at most one error is delivered on the
// error channel.
//
// An error received on errs aborts the pump; no partial error recovery is
// attempted. Cancelling ctx releases the pump even when the consumer has
// abandoned the increment channel, so early abandonment leaks nothing.
func Pump(ctx context.Context, m *Multiplexer, frags <-chan Fragment, errs <-chan error) (<-chan string, <-chan error) {
	out := make(chan string, 64)
	outErr := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(outErr)
		for {
			select {
			case f, ok := <-frags:
				if !ok {
					// Input exhausted; surface a trailing error if the
					// producer queued one before closing.
					select {
					case err, ok := <-errs:
						if ok && err != nil {
							outErr <- err
						}
					default:
					}
					return
				}
				inc := m.Consume(f)
				if inc == "" {
					continue
				}
				select {
				case out <- inc:
				case <-ctx.Done():
					outErr <- ctx.Err()
					return
				}
			case err, ok := <-errs:
				if ok && err != nil {
					outErr <- err
					return
				}
				if !ok {
					errs = nil
				}
			case <-ctx.Done():
				outErr <- ctx.Err()
				return
			}
		}
	}()

	return out, outErr
}
