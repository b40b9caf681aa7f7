package id

import (
	"bytes"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
)

func TestDecodeFields(t *testing.T) {
	v := ID(123456<<TimestampShift | 17<<WorkerIDShift | 9<<DataCenterShift | 4000)
	want := Parts{Timestamp: 123456, WorkerID: 17, DataCenterID: 9, Sequence: 4000}
	if got := Decode(v); got != want {
		t.Fatalf("decode: %+v want %+v", got, want)
	}
	if got := v.Time(time.UnixMilli(0)); got.UnixMilli() != 123456 {
		t.Fatalf("time: %v", got)
	}
}

func TestBytesPreserveOrder(t *testing.T) {
	a, b := ID(1<<TimestampShift|0xfff), ID(2<<TimestampShift)
	if bytes.Compare(a.Bytes(), b.Bytes()) >= 0 {
		t.Fatalf("byte order should follow numeric order")
	}
	if len(a.Bytes()) != 8 {
		t.Fatalf("want 8 bytes")
	}
}

func TestTextForms(t *testing.T) {
	clock := newFakeClock(1_760_000_000_000)
	g := mustNew(t, 5, 3, WithClock(clock.Now))
	v := g.Next()

	forms := []struct {
		name   string
		encode func(ID) string
		parse  func(string) (ID, error)
	}{
		{name: "decimal", encode: ID.String, parse: Parse},
		{name: "hex", encode: ID.Hex, parse: ParseHex},
		{name: "base32", encode: ID.Base32, parse: ParseBase32},
		{name: "base36", encode: ID.Base36, parse: ParseBase36},
		{name: "base58", encode: ID.Base58, parse: ParseBase58},
	}
	for _, f := range forms {
		t.Run(f.name, func(t *testing.T) {
			s := f.encode(v)
			got, err := f.parse(s)
			if err != nil {
				t.Fatalf("parse %q: %v", s, err)
			}
			if got != v {
				t.Fatalf("parse(%q)=%d want %d", s, got, v)
			}
		})
	}
	if len(v.Hex()) != 16 {
		t.Fatalf("hex should be zero padded: %s", v.Hex())
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	parsers := map[string]func(string) (ID, error){
		"decimal": Parse,
		"hex":     ParseHex,
		"base32":  ParseBase32,
		"base36":  ParseBase36,
		"base58":  ParseBase58,
	}
	for name, parse := range parsers {
		for _, in := range []string{"", "!!", "-"} {
			if _, err := parse(in); !errors.Is(err, ErrInvalidID) {
				t.Fatalf("%s(%q): want ErrInvalidID, got %v", name, in, err)
			}
		}
	}
}

func TestParseRejectsOverflow(t *testing.T) {
	tests := []struct {
		name  string
		parse func(string) (ID, error)
		in    string
	}{
		{name: "decimal max uint64", parse: Parse, in: "18446744073709551615"},
		{name: "decimal too long", parse: Parse, in: "99999999999999999999999"},
		{name: "hex top bit", parse: ParseHex, in: "8000000000000000"},
		{name: "base32 wraps", parse: ParseBase32, in: "99999999999999999999999"},
		{name: "base36 too long", parse: ParseBase36, in: "zzzzzzzzzzzzzzzzzzzz"},
		{name: "base58 wraps", parse: ParseBase58, in: "zzzzzzzzzzzzzzzzzzzzzzzzzz"},
		{name: "base58 top bit", parse: ParseBase58, in: "CAxfHEanzxQ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, err := tt.parse(tt.in); !errors.Is(err, ErrInvalidID) {
				t.Fatalf("parse(%q) = %d, %v; want ErrInvalidID", tt.in, got, err)
			}
		})
	}
}

func TestParseAcceptsLargestID(t *testing.T) {
	v := ID(math.MaxInt64)
	for _, f := range []struct {
		encode func(ID) string
		parse  func(string) (ID, error)
	}{
		{ID.String, Parse},
		{ID.Hex, ParseHex},
		{ID.Base32, ParseBase32},
		{ID.Base36, ParseBase36},
		{ID.Base58, ParseBase58},
	} {
		s := f.encode(v)
		if got, err := f.parse(s); err != nil || got != v {
			t.Fatalf("parse(%q) = %d, %v", s, got, err)
		}
	}
}

// The 41/10/12 layout of bwmarrin/snowflake places our worker and datacenter
// fields side by side in its node field.
func TestSnowflakeNodeCompatibility(t *testing.T) {
	g := mustNew(t, 21, 10)
	for i := 0; i < 100; i++ {
		v := g.Next()
		sf := snowflake.ParseInt64(v.Int64())
		if sf.Node() != 21<<DataCenterBits|10 {
			t.Fatalf("node field %d", sf.Node())
		}
		if sf.Step() != v.Parts().Sequence {
			t.Fatalf("step %d want %d", sf.Step(), v.Parts().Sequence)
		}
	}
}
