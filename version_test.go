package k6x

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		title       string
		version     string
		expect      string
		expectError error
	}{
		{title: "canonical", version: "0.50.0", expect: "0.50.0"},
		{title: "with prefix", version: "v0.50.0", expect: "0.50.0"},
		{title: "missing patch", version: "0.46", expect: "0.46.0"},
		{title: "missing minor", version: "v1", expect: "1.0.0"},
		{title: "prerelease", version: "1.2.3-rc.1", expect: "1.2.3-rc.1"},
		{title: "surrounding blanks", version: " 0.3 ", expect: "0.3.0"},
		{title: "empty", version: "", expectError: ErrInvalidVersion},
		{title: "not a number", version: "v0.x", expectError: ErrInvalidVersion},
		{title: "too many components", version: "1.2.3.4", expectError: ErrInvalidVersion},
		{title: "leading zero", version: "01.2.3", expectError: ErrInvalidVersion},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.title, func(t *testing.T) {
			t.Parallel()

			v, err := ParseVersion(tc.version)
			if !errors.Is(err, tc.expectError) {
				t.Fatalf("expected %v got %v", tc.expectError, err)
			}

			if tc.expectError != nil {
				return
			}

			require.Equal(t, tc.expect, v.String())
			require.Equal(t, "v"+tc.expect, v.Tag())
		})
	}
}

func TestVersionCompare(t *testing.T) {
	t.Parallel()

	require.True(t, MustParseVersion("v0.46").Equal(MustParseVersion("0.46.0")))
	require.Equal(t, -1, MustParseVersion("0.9.0").Compare(MustParseVersion("0.10.0")))
	require.Equal(t, 1, MustParseVersion("1.0.0").Compare(MustParseVersion("1.0.0-rc.1")))
	require.Equal(t, 0, Version{}.Compare(MustParseVersion("0.0.0")))
	require.Equal(t, "0.0.0", Version{}.String())
}

func TestVersionText(t *testing.T) {
	t.Parallel()

	var v Version

	require.NoError(t, v.UnmarshalText([]byte("v0.3")))
	require.Equal(t, "0.3.0", v.String())

	text, err := v.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "0.3.0", string(text))

	require.ErrorIs(t, v.UnmarshalText([]byte("latest")), ErrInvalidVersion)
}
