package k6x

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRequirement(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		title            string
		requirement      string
		expectError      error
		expectModule     string
		expectConstraint string
	}{
		{
			title:            "extension with canonical version",
			requirement:      "k6/x/faker@v0.3.0",
			expectModule:     "k6/x/faker",
			expectConstraint: ">=0.3.0",
		},
		{
			title:            "extension with incomplete version",
			requirement:      "k6/x/faker@v0.3",
			expectModule:     "k6/x/faker",
			expectConstraint: ">=0.3.0",
		},
		{
			title:            "version without prefix",
			requirement:      "k6/x/sql@0.4.1",
			expectModule:     "k6/x/sql",
			expectConstraint: ">=0.4.1",
		},
		{
			title:            "extension without version",
			requirement:      "k6/x/faker",
			expectModule:     "k6/x/faker",
			expectConstraint: "*",
		},
		{
			title:            "extension with latest version",
			requirement:      "k6/x/faker@latest",
			expectModule:     "k6/x/faker",
			expectConstraint: "*",
		},
		{
			title:            "runtime version",
			requirement:      "k6@v0.50.0",
			expectModule:     "k6",
			expectConstraint: ">=0.50.0",
		},
		{
			title:       "missing version",
			requirement: "k6/x/faker@",
			expectError: ErrInvalidDependencyFormat,
		},
		{
			title:       "missing name",
			requirement: "@v0.3.0",
			expectError: ErrInvalidDependencyFormat,
		},
		{
			title:       "invalid version",
			requirement: "k6/x/faker@v",
			expectError: ErrInvalidSemanticVersion,
		},
		{
			title:       "invalid version characters",
			requirement: "k6/x/faker@v0.3.x",
			expectError: ErrInvalidSemanticVersion,
		},
		{
			title:       "invalid path",
			requirement: "k6/x/@v0.3.0",
			expectError: ErrInvalidPath,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.title, func(t *testing.T) {
			t.Parallel()

			req, err := ParseRequirement(tc.requirement)
			if !errors.Is(err, tc.expectError) {
				t.Fatalf("expected %v got %v", tc.expectError, err)
			}

			if tc.expectError != nil {
				return
			}

			require.Equal(t, tc.expectModule, req.Module)
			require.Equal(t, tc.expectConstraint, req.Constraint.String())
		})
	}
}

func TestParseRequirements(t *testing.T) {
	t.Parallel()

	reqs, err := ParseRequirements("k6@v0.50", "k6/x/faker")
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	require.True(t, reqs[0].IsRuntime())
	require.True(t, reqs[1].Constraint.IsAny())

	_, err = ParseRequirements("k6/x/faker", "k6/x/sql@")
	require.ErrorIs(t, err, ErrInvalidDependencyFormat)
}
