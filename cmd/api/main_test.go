package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"booksapi/internal/book"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApp_Commands(t *testing.T) {
	app := newApp()

	var names []string
	for _, cmd := range app.Commands {
		names = append(names, cmd.Name)
	}

	assert.Equal(t, []string{"serve", "seed"}, names)
	assert.NotNil(t, app.Action, "serve runs when no command is given")
}

func TestSampleBooks_PassValidation(t *testing.T) {
	seen := map[string]bool{}
	for _, b := range sampleBooks {
		body, err := json.Marshal(b)
		require.NoError(t, err)

		in, err := book.DecodeInput(bytes.NewReader(body), true)
		require.NoError(t, err, b.ISBN)
		assert.Equal(t, b, in.Book(*in.ISBN))

		assert.False(t, seen[b.ISBN], "duplicate sample isbn %s", b.ISBN)
		seen[b.ISBN] = true
	}
}
