package socket

import "github.com/renebarto/gonet/internal/sockapi"

// Send writes the entire buffer, looping until every byte is
// transmitted. EPIPE/ECONNRESET report a clean false/nil (peer gone, not
// a fatal error); any other error is fatal and returned.
func (s *Socket) Send(buf []byte) (bool, error) {
	h := s.Handle()
	remaining := buf
	for len(remaining) > 0 {
		n, err := s.api.Send(h, remaining)
		if err != nil {
			if sockapi.PeerClosed(err) {
				return false, nil
			}
			return false, err
		}
		remaining = remaining[n:]
	}
	return true, nil
}

// Recv reads up to len(buf) bytes. A return of n==0 with err==nil
// indicates the peer performed an orderly close; as a side effect, Recv
// closes the local handle so the caller's state machine can exit.
func (s *Socket) Recv(buf []byte) (int, error) {
	h := s.Handle()
	n, err := s.api.Recv(h, buf)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		_ = s.Close()
	}
	return n, nil
}
