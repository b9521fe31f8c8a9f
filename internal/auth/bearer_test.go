package auth

import (
	"errors"
	"testing"
)

func TestStripBearerPrefix(t *testing.T) {
	cases := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{raw: "Bearer  padded ", want: " padded "},
		{raw: "Bearer ", want: ""},
		{raw: "abc.def.ghi", wantErr: true},
		{raw: "bearer abc", wantErr: true},
		{raw: "BEARER abc", wantErr: true},
		{raw: "Bearer", wantErr: true},
		{raw: " Bearer abc", wantErr: true},
		{raw: "Basic dXNlcjpwYXNz", wantErr: true},
		{raw: "", wantErr: true},
	}
	for _, tc := range cases {
		got, err := StripBearerPrefix(tc.raw)
		if tc.wantErr {
			if !errors.Is(err, ErrMalformedCredential) {
				t.Fatalf("%q: expected ErrMalformedCredential, got %v", tc.raw, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("%q: expected %q, got %q", tc.raw, tc.want, got)
		}
	}
}
