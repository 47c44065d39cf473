package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kvasey/monday-label-sync/internal/label"
	"github.com/kvasey/monday-label-sync/internal/models"
	"go.uber.org/zap"
)

// MondayAPI is the slice of the Monday client the pipeline needs.
type MondayAPI interface {
	FetchItem(ctx context.Context, boardID, itemID int64) (*models.Item, error)
	UploadFile(ctx context.Context, itemID int64, fileName string, pdf []byte) error
}

// UploadError is the partial-success outcome: the label PDF exists on disk,
// but attaching it to the Monday item failed. Callers must be able to tell
// this apart from "nothing happened".
type UploadError struct {
	FileName string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("label %s created but upload to Monday failed: %v", e.FileName, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// Result describes a produced label document.
type Result struct {
	Data     label.Data
	FileName string
	FilePath string
}

// Pipeline runs one webhook notification end to end: parse, fetch, extract,
// render, upload. One synchronous run per delivery, no retries.
type Pipeline struct {
	Monday    MondayAPI
	OutputDir string
}

func New(monday MondayAPI, outputDir string) *Pipeline {
	return &Pipeline{Monday: monday, OutputDir: outputDir}
}

// Run processes one notification body. On upload failure it returns both the
// Result for the locally-created document and an *UploadError.
func (p *Pipeline) Run(ctx context.Context, body map[string]any) (*Result, error) {
	ref, err := models.ParseWebhookPayload(body)
	if err != nil {
		return nil, err
	}
	zap.L().Info("Processing webhook",
		zap.Int64("boardID", ref.BoardID),
		zap.Int64("itemID", ref.ItemID))

	item, err := p.Monday.FetchItem(ctx, ref.BoardID, ref.ItemID)
	if err != nil {
		return nil, err
	}

	data := label.Extract(item)
	zap.L().Info("Extracted label data",
		zap.String("clientName", data.ClientName),
		zap.String("poNumber", data.PONumber))

	if err := os.MkdirAll(p.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", p.OutputDir, err)
	}

	fileName := label.SafeFileName(fmt.Sprintf("%s_%s_%d", data.ClientName, data.PONumber, ref.ItemID)) + ".pdf"
	result := &Result{
		Data:     data,
		FileName: fileName,
		FilePath: filepath.Join(p.OutputDir, fileName),
	}

	pdf, err := label.Render(data)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(result.FilePath, pdf, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write label to %s: %w", result.FilePath, err)
	}
	zap.L().Info("Label PDF written", zap.String("path", result.FilePath))

	if err := p.Monday.UploadFile(ctx, ref.ItemID, fileName, pdf); err != nil {
		return result, &UploadError{FileName: fileName, Err: err}
	}
	return result, nil
}
