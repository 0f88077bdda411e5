package artifact

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeTags(t *testing.T) {
	tags := []string{"golang", "read later", "ünïcode"}
	for _, format := range []TagFormat{TagsPlist, TagsComma} {
		data, err := EncodeTags(tags, format)
		require.NoError(t, err)
		got, err := DecodeTags(data, format)
		require.NoError(t, err)
		assert.Equal(t, tags, got)
	}

	data, err := EncodeTags([]string{"a", "b"}, TagsComma)
	require.NoError(t, err)
	assert.Equal(t, "a,b", string(data))

	_, err = EncodeTags(tags, TagFormat(9))
	assert.Error(t, err)
}

func TestFinderAnnotator_SetComment(t *testing.T) {
	var gotName string
	var gotArgs []string
	a := NewFinderAnnotator()
	a.run = func(name string, args ...string) error {
		gotName = name
		gotArgs = args
		return nil
	}

	text := "https://foo.example\n\nfoo \"quoted\"\n\n"
	require.NoError(t, a.SetComment("/tmp/foo.webloc", text))

	assert.Equal(t, "osascript", gotName)
	require.Len(t, gotArgs, len(finderScript)+2)
	assert.Equal(t, "/tmp/foo.webloc", gotArgs[len(gotArgs)-2])
	assert.Equal(t, text, gotArgs[len(gotArgs)-1])
}

func TestFinderAnnotator_SetCommentError(t *testing.T) {
	a := NewFinderAnnotator()
	a.run = func(string, ...string) error { return errors.New("exit status 1") }

	err := a.SetComment("/tmp/foo.webloc", "text")
	assert.ErrorContains(t, err, "Finder comment")
}

func TestNewAnnotator(t *testing.T) {
	assert.IsType(t, Noop{}, NewAnnotator(false, "darwin"))
	assert.IsType(t, &FinderAnnotator{}, NewAnnotator(true, "darwin"))

	linux, ok := NewAnnotator(true, "linux").(*XattrAnnotator)
	require.True(t, ok)
	assert.Equal(t, XDGTagAttr, linux.TagAttr)
	assert.Equal(t, TagsComma, linux.TagFormat)
	assert.Equal(t, XDGCommentAttr, linux.CommentAttr)
}
