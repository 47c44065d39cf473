package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kvasey/monday-label-sync/internal/label"
	"github.com/kvasey/monday-label-sync/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMonday struct {
	item      *models.Item
	fetchErr  error
	uploadErr error

	fetchedBoard int64
	fetchedItem  int64
	uploadedName string
	uploadedPDF  []byte
	uploads      int
}

func (f *fakeMonday) FetchItem(ctx context.Context, boardID, itemID int64) (*models.Item, error) {
	f.fetchedBoard, f.fetchedItem = boardID, itemID
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.item, nil
}

func (f *fakeMonday) UploadFile(ctx context.Context, itemID int64, fileName string, pdf []byte) error {
	f.uploads++
	f.uploadedName = fileName
	f.uploadedPDF = pdf
	return f.uploadErr
}

func shippingItem() *models.Item {
	client := models.ColumnValue{ID: "lookup_mkv6padj", Type: "mirror", Text: "", DisplayValue: "Acme"}
	client.Column.Title = "Client"
	po := models.ColumnValue{ID: "text_po", Type: "text", Text: "PO#900"}
	po.Column.Title = "PO#"
	return &models.Item{
		ID:           "2",
		Name:         "Widget A",
		ColumnValues: []models.ColumnValue{client, po},
	}
}

func TestRunEndToEnd(t *testing.T) {
	monday := &fakeMonday{item: shippingItem()}
	p := New(monday, t.TempDir())

	result, err := p.Run(context.Background(), map[string]any{"boardId": float64(1), "pulseId": float64(2)})
	require.NoError(t, err)

	assert.Equal(t, int64(1), monday.fetchedBoard)
	assert.Equal(t, int64(2), monday.fetchedItem)
	assert.Equal(t, label.Data{ClientName: "Acme", ItemDescription: "Widget A", PONumber: "PO#900"}, result.Data)
	assert.Equal(t, "Acme_PO#900_2.pdf", result.FileName)

	written, err := os.ReadFile(result.FilePath)
	require.NoError(t, err)
	assert.Equal(t, monday.uploadedPDF, written)
	assert.Equal(t, result.FileName, monday.uploadedName)
}

func TestRunMalformedPayload(t *testing.T) {
	monday := &fakeMonday{item: shippingItem()}
	p := New(monday, t.TempDir())

	_, err := p.Run(context.Background(), map[string]any{"foo": "bar"})
	assert.ErrorIs(t, err, models.ErrMalformedPayload)
	assert.Zero(t, monday.fetchedBoard, "fetch must not run on a malformed payload")
}

func TestRunFetchFailureAborts(t *testing.T) {
	fetchErr := errors.New("board gone")
	monday := &fakeMonday{fetchErr: fetchErr}
	p := New(monday, t.TempDir())

	_, err := p.Run(context.Background(), map[string]any{"boardId": float64(1), "pulseId": float64(2)})
	assert.ErrorIs(t, err, fetchErr)
	assert.Zero(t, monday.uploads, "upload must not run when fetch fails")
}

func TestRunUploadFailureIsPartialSuccess(t *testing.T) {
	monday := &fakeMonday{item: shippingItem(), uploadErr: errors.New("column rejected file")}
	p := New(monday, t.TempDir())

	result, err := p.Run(context.Background(), map[string]any{"boardId": float64(1), "pulseId": float64(2)})

	var uploadErr *UploadError
	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, "Acme_PO#900_2.pdf", uploadErr.FileName)

	// The document exists locally even though the remote update failed.
	require.NotNil(t, result)
	_, statErr := os.Stat(result.FilePath)
	assert.NoError(t, statErr)
}

func TestRunCreatesOutputDir(t *testing.T) {
	monday := &fakeMonday{item: shippingItem()}
	dir := filepath.Join(t.TempDir(), "nested", "labels")
	p := New(monday, dir)

	result, err := p.Run(context.Background(), map[string]any{"boardId": float64(1), "pulseId": float64(2)})
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(result.FilePath))
}

func TestRunUnsafeClientNameIsSanitised(t *testing.T) {
	item := shippingItem()
	item.ColumnValues[0].DisplayValue = `Acme/West:Co`
	monday := &fakeMonday{item: item}
	p := New(monday, t.TempDir())

	result, err := p.Run(context.Background(), map[string]any{"boardId": float64(1), "pulseId": float64(2)})
	require.NoError(t, err)
	assert.Equal(t, "Acme_West_Co_PO#900_2.pdf", result.FileName)
}
