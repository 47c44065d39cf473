package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/kvasey/monday-label-sync/internal/models"
	"go.uber.org/zap"
)

const (
	defaultAPIURL     = "https://api.monday.com/v2"
	defaultFileAPIURL = "https://api.monday.com/v2/file"

	apiVersion = "2024-01"

	queryTimeout  = 30 * time.Second
	uploadTimeout = 60 * time.Second
)

var (
	ErrBoardNotFound = errors.New("board not found or no access")
	ErrItemNotFound  = errors.New("item not found on board")
	ErrUpstream      = errors.New("monday API error")
)

// The board no longer exposes a bounded item list, only a cursor-paginated
// stream, so the first page is queried by board id and subsequent pages by
// cursor until the target item turns up.
const firstPageQuery = `
query ($boardId: ID!) {
  boards(ids: [$boardId]) {
    items_page(limit: 100) {
      cursor
      items {
        id
        name
        column_values {
          id
          type
          text
          value
          column { title }
          ... on MirrorValue {
            display_value
            mirrored_items { linked_item { id name } }
          }
        }
      }
    }
  }
}`

const nextPageQuery = `
query ($cursor: String!) {
  next_items_page(cursor: $cursor, limit: 100) {
    cursor
    items {
      id
      name
      column_values {
        id
        type
        text
        value
        column { title }
        ... on MirrorValue {
          display_value
          mirrored_items { linked_item { id name } }
        }
      }
    }
  }
}`

const addFileMutation = `mutation ($file: File!, $item_id: ID!, $column_id: String!) {` +
	` add_file_to_column(item_id: $item_id, column_id: $column_id, file: $file) { id }` +
	`}`

type MondayClient struct {
	Client       *http.Client
	UploadClient *http.Client
	APIURL       string
	FileAPIURL   string
	Token        string
	FileColumnID string
}

func NewMondayClient(token, fileColumnID string) *MondayClient {
	return &MondayClient{
		Client:       &http.Client{Timeout: queryTimeout},
		UploadClient: &http.Client{Timeout: uploadTimeout},
		APIURL:       defaultAPIURL,
		FileAPIURL:   defaultFileAPIURL,
		Token:        token,
		FileColumnID: fileColumnID,
	}
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

type itemsPage struct {
	Cursor string        `json:"cursor"`
	Items  []models.Item `json:"items"`
}

// FetchItem loads one item with its full column data, paginating through the
// board until the item is found or the cursor runs out.
func (mc *MondayClient) FetchItem(ctx context.Context, boardID, itemID int64) (*models.Item, error) {
	itemIDStr := strconv.FormatInt(itemID, 10)

	var first struct {
		Boards []struct {
			ItemsPage itemsPage `json:"items_page"`
		} `json:"boards"`
	}
	if err := mc.query(ctx, firstPageQuery, map[string]any{"boardId": boardID}, &first); err != nil {
		return nil, err
	}
	if len(first.Boards) == 0 {
		return nil, fmt.Errorf("%w: board %d", ErrBoardNotFound, boardID)
	}

	page := first.Boards[0].ItemsPage
	pages := 1
	for {
		for i := range page.Items {
			if page.Items[i].ID == itemIDStr {
				zap.L().Debug("Item found",
					zap.String("itemID", itemIDStr),
					zap.Int("pagesScanned", pages))
				return &page.Items[i], nil
			}
		}
		if page.Cursor == "" {
			break
		}

		var next struct {
			NextItemsPage itemsPage `json:"next_items_page"`
		}
		if err := mc.query(ctx, nextPageQuery, map[string]any{"cursor": page.Cursor}, &next); err != nil {
			return nil, err
		}
		page = next.NextItemsPage
		pages++
	}

	return nil, fmt.Errorf("%w: item %d on board %d", ErrItemNotFound, itemID, boardID)
}

// UploadFile attaches a rendered label PDF to the item's file column using a
// single multipart mutation. The file part is mapped to the mutation's $file
// variable via the "map" field, per the Monday file API contract.
func (mc *MondayClient) UploadFile(ctx context.Context, itemID int64, fileName string, pdf []byte) error {
	variables, err := json.Marshal(map[string]string{
		"item_id":   strconv.FormatInt(itemID, 10),
		"column_id": mc.FileColumnID,
	})
	if err != nil {
		return fmt.Errorf("failed to encode upload variables: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("query", addFileMutation); err != nil {
		return fmt.Errorf("failed to build multipart body: %w", err)
	}
	if err := writer.WriteField("variables", string(variables)); err != nil {
		return fmt.Errorf("failed to build multipart body: %w", err)
	}
	if err := writer.WriteField("map", `{"file": "variables.file"}`); err != nil {
		return fmt.Errorf("failed to build multipart body: %w", err)
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, fileName))
	header.Set("Content-Type", "application/pdf")
	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := part.Write(pdf); err != nil {
		return fmt.Errorf("failed to write file part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalise multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, mc.FileAPIURL, &body)
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Authorization", mc.Token)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := mc.UploadClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: upload request failed: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: upload returned %s, body: %s", ErrUpstream, resp.Status, string(bodyBytes))
	}

	var result graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("%w: failed to decode upload response: %v", ErrUpstream, err)
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("%w: file upload error: %s", ErrUpstream, joinErrors(result.Errors))
	}

	zap.L().Info("Label uploaded to Monday",
		zap.Int64("itemID", itemID),
		zap.String("file", fileName),
		zap.String("columnID", mc.FileColumnID))
	return nil
}

// query sends one GraphQL request and unmarshals the data payload into out.
func (mc *MondayClient) query(ctx context.Context, query string, variables map[string]any, out any) error {
	payload, err := json.Marshal(map[string]any{"query": query, "variables": variables})
	if err != nil {
		return fmt.Errorf("failed to encode GraphQL request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, mc.APIURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create GraphQL request: %w", err)
	}
	req.Header.Set("Authorization", mc.Token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("API-Version", apiVersion)

	resp, err := mc.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: returned %s, body: %s", ErrUpstream, resp.Status, string(bodyBytes))
	}

	var result graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrUpstream, err)
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("%w: %s", ErrUpstream, joinErrors(result.Errors))
	}

	if err := json.Unmarshal(result.Data, out); err != nil {
		return fmt.Errorf("%w: unexpected data shape: %v", ErrUpstream, err)
	}
	return nil
}

func joinErrors(errs []graphQLError) string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}
