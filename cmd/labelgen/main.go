// labelgen generates a single label from a Monday.com item without going
// through the webhook. Useful for checking the API token and the rendered
// PDF before wiring up the board automation.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kvasey/monday-label-sync/integrations"
	"github.com/kvasey/monday-label-sync/internal/config"
	"github.com/kvasey/monday-label-sync/internal/label"
	"github.com/kvasey/monday-label-sync/internal/models"
	"github.com/kvasey/monday-label-sync/internal/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	var (
		boardID     int64
		itemID      int64
		outDir      string
		upload      bool
		dumpColumns bool
	)

	rootCmd := &cobra.Command{
		Use:           "labelgen",
		Short:         "Generate one shipping label from a Monday.com item",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = cfg.OutputDir
			}

			monday := integrations.NewMondayClient(cfg.APIToken, cfg.FileColumnID)
			ctx := context.Background()

			item, err := monday.FetchItem(ctx, boardID, itemID)
			if err != nil {
				return err
			}

			if dumpColumns {
				dumpColumnValues(cmd.OutOrStdout(), item)
			}

			data := label.Extract(item)
			fmt.Printf("Client name:      %s\n", data.ClientName)
			fmt.Printf("Item description: %s\n", data.ItemDescription)
			fmt.Printf("PO number:        %s\n", data.PONumber)

			pdf, err := label.Render(data)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory %s: %w", outDir, err)
			}
			fileName := label.SafeFileName(fmt.Sprintf("%s_%s_%d", data.ClientName, data.PONumber, itemID)) + ".pdf"
			outPath := filepath.Join(outDir, fileName)
			if err := os.WriteFile(outPath, pdf, 0o644); err != nil {
				return fmt.Errorf("failed to write label to %s: %w", outPath, err)
			}
			fmt.Printf("Label written to %s\n", outPath)

			if upload {
				if err := monday.UploadFile(ctx, itemID, fileName, pdf); err != nil {
					return &pipeline.UploadError{FileName: fileName, Err: err}
				}
				fmt.Println("Label uploaded to Monday")
			}
			return nil
		},
	}

	rootCmd.Flags().Int64Var(&boardID, "board", 0, "Monday.com board ID")
	rootCmd.Flags().Int64Var(&itemID, "item", 0, "Monday.com item ID")
	rootCmd.Flags().StringVar(&outDir, "out", "", "output directory (defaults to labels.output_dir)")
	rootCmd.Flags().BoolVar(&upload, "upload", false, "also attach the PDF to the item's file column")
	rootCmd.Flags().BoolVar(&dumpColumns, "dump-columns", false, "print every column's raw fields before extracting")
	_ = rootCmd.MarkFlagRequired("board")
	_ = rootCmd.MarkFlagRequired("item")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// dumpColumnValues prints each column's raw fields so the client-name
// fallback chain can be diagnosed against a real item.
func dumpColumnValues(w io.Writer, item *models.Item) {
	fmt.Fprintf(w, "Item %s: %s\n", item.ID, item.Name)
	for _, col := range item.ColumnValues {
		fmt.Fprintf(w, "  %s (type=%s, title=%q)\n", col.ID, col.Type, col.Title())
		fmt.Fprintf(w, "    text:          %q\n", col.Text)
		fmt.Fprintf(w, "    display_value: %q\n", col.DisplayValue)
		if col.Value != nil {
			fmt.Fprintf(w, "    value:         %s\n", *col.Value)
		}
		for _, mi := range col.MirroredItems {
			fmt.Fprintf(w, "    linked_item:   %s (%s)\n", mi.LinkedItem.Name, mi.LinkedItem.ID)
		}
	}
}
