package k6x

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePlatform(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		title           string
		platform        string
		expect          Platform
		expectSupported bool
		expectError     error
	}{
		{title: "linux amd64", platform: "linux/amd64", expect: Platform{OS: "linux", Arch: "amd64"}, expectSupported: true},
		{title: "darwin arm64", platform: "darwin/arm64", expect: Platform{OS: "darwin", Arch: "arm64"}, expectSupported: true},
		{title: "unsupported", platform: "plan9/386", expect: Platform{OS: "plan9", Arch: "386"}},
		{title: "missing arch", platform: "linux", expectError: ErrInvalidPlatform},
		{title: "empty arch", platform: "linux/", expectError: ErrInvalidPlatform},
		{title: "empty os", platform: "/amd64", expectError: ErrInvalidPlatform},
		{title: "extra component", platform: "linux/amd64/v2", expectError: ErrInvalidPlatform},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.title, func(t *testing.T) {
			t.Parallel()

			platform, err := ParsePlatform(tc.platform)
			if !errors.Is(err, tc.expectError) {
				t.Fatalf("expected %v got %v", tc.expectError, err)
			}

			if tc.expectError != nil {
				return
			}

			require.Equal(t, tc.expect, platform)
			require.Equal(t, tc.platform, platform.String())
			require.Equal(t, tc.expectSupported, platform.Supported())
		})
	}
}

func TestSupportedPlatforms(t *testing.T) {
	t.Parallel()

	platforms := SupportedPlatforms()
	require.Len(t, platforms, 6)

	for _, platform := range platforms {
		require.True(t, platform.Supported(), platform.String())
	}

	platforms[0] = Platform{OS: "plan9", Arch: "386"}
	require.False(t, platforms[0].Supported())
	require.Equal(t, "linux/amd64", SupportedPlatforms()[0].String())
}
