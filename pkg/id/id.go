package id

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
)

// ErrInvalidID is returned when text cannot be parsed into an ID.
var ErrInvalidID = errors.New("id: invalid id")

// ID is a 64-bit identifier. See the package documentation for the layout.
type ID uint64

// Parts is an ID split into its fields.
type Parts struct {
	// Timestamp is milliseconds since the generator's epoch.
	Timestamp    int64
	WorkerID     int64
	DataCenterID int64
	Sequence     int64
}

// Decode splits id into its fields.
func Decode(id ID) Parts {
	return Parts{
		Timestamp:    int64(id >> TimestampShift),
		WorkerID:     int64(id>>WorkerIDShift) & MaxWorkerID,
		DataCenterID: int64(id>>DataCenterShift) & MaxDataCenterID,
		Sequence:     int64(id) & MaxSequence,
	}
}

// Parts is shorthand for Decode(i).
func (i ID) Parts() Parts { return Decode(i) }

// Time returns the wall time of the timestamp field relative to epoch.
func (i ID) Time(epoch time.Time) time.Time {
	return time.UnixMilli(epoch.UnixMilli() + Decode(i).Timestamp)
}

// Int64 returns the ID as a signed integer; non-negative for in-range IDs.
func (i ID) Int64() int64 { return int64(i) }

// Bytes returns the 8-byte big-endian representation.
func (i ID) Bytes() []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(i))
	return b
}

// String returns the decimal form.
func (i ID) String() string { return strconv.FormatUint(uint64(i), 10) }

// Hex returns the 16-digit zero-padded hex form.
func (i ID) Hex() string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(i))
	return fmtHex(b[:])
}

// Base32 returns the z-base-32 form used by bwmarrin/snowflake.
func (i ID) Base32() string { return snowflake.ParseInt64(int64(i)).Base32() }

// Base36 returns the base-36 form.
func (i ID) Base36() string { return snowflake.ParseInt64(int64(i)).Base36() }

// Base58 returns the flickr base-58 form.
func (i ID) Base58() string { return snowflake.ParseInt64(int64(i)).Base58() }

// Compare returns -1, 0, 1 based on numeric comparison.
func (i ID) Compare(other ID) int {
	switch {
	case i < other:
		return -1
	case i > other:
		return 1
	default:
		return 0
	}
}

// Parse parses the decimal form.
func Parse(s string) (ID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return ID(v), nil
}

// ParseHex parses the hex form.
func ParseHex(s string) (ID, error) {
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil || v > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return ID(v), nil
}

// ParseBase32 parses the form produced by Base32.
func ParseBase32(s string) (ID, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidID)
	}
	sf, err := snowflake.ParseBase32([]byte(s))
	return canonical(s, sf, err, ID.Base32)
}

// ParseBase36 parses the form produced by Base36.
func ParseBase36(s string) (ID, error) {
	sf, err := snowflake.ParseBase36(s)
	return canonical(s, sf, err, ID.Base36)
}

// ParseBase58 parses the form produced by Base58.
func ParseBase58(s string) (ID, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidID)
	}
	sf, err := snowflake.ParseBase58([]byte(s))
	return canonical(s, sf, err, ID.Base58)
}

// canonical accepts a decoded value only if it is non-negative and encodes
// back to s. The snowflake decoders wrap silently on overflow.
func canonical(s string, sf snowflake.ID, err error, encode func(ID) string) (ID, error) {
	if err != nil || sf < 0 || encode(ID(sf)) != s {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return ID(sf), nil
}

// fmtHex is a small, allocation-lean hex encoder for fixed-size IDs.
func fmtHex(b []byte) string {
	const hexdigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[i*2] = hexdigits[v>>4]
		out[i*2+1] = hexdigits[v&0x0f]
	}
	return string(out)
}
