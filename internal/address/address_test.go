package address

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLettersKnownValues(t *testing.T) {
	cases := map[int]string{
		1:     "A",
		2:     "B",
		26:    "Z",
		27:    "AA",
		28:    "AB",
		52:    "AZ",
		53:    "BA",
		702:   "ZZ",
		703:   "AAA",
		16384: "XFD",
	}

	for n, want := range cases {
		got, err := Letters(n)
		require.NoError(t, err)
		assert.Equal(t, want, got, "Letters(%d)", n)
	}
}

func TestLettersRejectsNonPositive(t *testing.T) {
	for _, n := range []int{0, -1, -27} {
		_, err := Letters(n)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Letters(%d) error = %v, want ErrInvalidArgument", n, err)
		}
	}
}

func TestLettersUniqueAndRoundTrip(t *testing.T) {
	seen := make(map[string]int)
	for n := 1; n <= 20000; n++ {
		s, err := Letters(n)
		require.NoError(t, err)

		if prev, ok := seen[s]; ok {
			t.Fatalf("Letters(%d) = %q collides with Letters(%d)", n, s, prev)
		}
		seen[s] = n

		back, err := Index(s)
		require.NoError(t, err)
		if back != n {
			t.Fatalf("Index(%q) = %d, want %d", s, back, n)
		}
	}
}

func TestIndexInvalid(t *testing.T) {
	for _, s := range []string{"", "a1", "A1", "Ä", "-"} {
		_, err := Index(s)
		assert.ErrorIs(t, err, ErrInvalidArgument, "Index(%q)", s)
	}
}

func TestReference(t *testing.T) {
	ref, err := Reference(1, 0)
	require.NoError(t, err)
	assert.Equal(t, "A0", ref)

	ref, err = Reference(28, 41)
	require.NoError(t, err)
	assert.Equal(t, "AB41", ref)

	_, err = Reference(0, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = Reference(1, -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
