package enum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("create a enum of string", func(t *testing.T) {
		type EnumString string

		bar := New(EnumString("bar"))
		require.Equal(t, EnumString("bar"), bar)

		v, err := ToEnum[EnumString]("bar")
		require.NoError(t, err)
		require.Equal(t, bar, v)

		_, err = ToEnum[EnumString]("Bar")
		require.Error(t, err)
	})

	t.Run("unregistered enum type", func(t *testing.T) {
		type EnumUnknown string

		_, err := ToEnum[EnumUnknown]("foo")
		require.Error(t, err)
	})
}

func TestValues(t *testing.T) {
	type Color string

	New(Color("red"))
	New(Color("blue"))
	New(Color("red"))

	require.Equal(t, []Color{"blue", "red"}, Values[Color]())

	type Empty string
	require.Empty(t, Values[Empty]())
}
