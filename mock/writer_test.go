package mock_test

import (
	"testing"

	"github.com/jmendel/docpack"
	"github.com/jmendel/docpack/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveWriter_ImplementsInterface(t *testing.T) {
	t.Parallel()

	// Verify mock can be used where ArchiveWriter is expected
	var _ docpack.ArchiveWriter = &mock.ArchiveWriter{}
}

func TestArchiveWriter_AddItem(t *testing.T) {
	t.Parallel()

	t.Run("delegates to AddItemFn", func(t *testing.T) {
		t.Parallel()

		var calledWith *docpack.ArchiveItem
		w := &mock.ArchiveWriter{
			AddItemFn: func(item *docpack.ArchiveItem) error {
				calledWith = item
				return nil
			},
		}

		item := &docpack.ArchiveItem{
			Path:     "index",
			Title:    "Go Documentation",
			MimeType: "text/html",
			Content:  []byte("<h1>Go</h1>"),
		}

		err := w.AddItem(item)

		require.NoError(t, err)
		assert.Equal(t, item, calledWith)
	})
}
