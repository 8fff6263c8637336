package address

import "fmt"

// UnixPathMaxLen is the maximum UNIX-domain socket path length (the size
// of sockaddr_un's sun_path field on Linux).
const UnixPathMaxLen = 108

// UnixPath is a UNIX-domain socket path, stored as raw bytes, at most
// UnixPathMaxLen long. The empty path is UnixPathNone.
type UnixPath struct {
	path string
}

// UnixPathNone is the empty/unset UnixPath.
var UnixPathNone = UnixPath{}

// NewUnixPath constructs a UnixPath, rejecting paths longer than
// UnixPathMaxLen.
func NewUnixPath(path string) (UnixPath, error) {
	if len(path) > UnixPathMaxLen {
		return UnixPath{}, fmt.Errorf("unix path %q exceeds %d bytes: %w", path, UnixPathMaxLen, ErrInvalidAddress)
	}
	return UnixPath{path: path}, nil
}

// String returns the raw path text.
func (u UnixPath) String() string { return u.path }

// IsNone reports whether this is the empty/unset path.
func (u UnixPath) IsNone() bool { return u.path == "" }

// Equal reports byte-wise equality.
func (u UnixPath) Equal(o UnixPath) bool { return u.path == o.path }

// MarshalText implements encoding.TextMarshaler.
func (u UnixPath) MarshalText() ([]byte, error) {
	return []byte(u.path), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *UnixPath) UnmarshalText(text []byte) error {
	parsed, err := NewUnixPath(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// TryParseUnixPath parses text as a UnixPath, reporting ok=false instead
// of an error when the path is too long.
func TryParseUnixPath(text string) (UnixPath, bool) {
	u, err := NewUnixPath(text)
	return u, err == nil
}
