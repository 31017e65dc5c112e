package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"workspace-be/internal/entity"
	"workspace-be/internal/pkg/serverutils"
	"workspace-be/pkg/notesync"
)

// NoteClient talks to the note API and satisfies notesync.RemoteNotes.
type NoteClient struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

var _ notesync.RemoteNotes = &NoteClient{}

func NewNoteClient(baseURL, token string) *NoteClient {
	return &NoteClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (n *NoteClient) CreateNote(ctx context.Context, draft notesync.Draft) (entity.Note, error) {
	var note entity.Note
	err := n.do(ctx, http.MethodPost, "/api/note/v1", draft, &note)
	return note, err
}

// DeleteNote sends the confirmed delete; callers obtain confirmation first.
func (n *NoteClient) DeleteNote(ctx context.Context, id string) error {
	return n.do(ctx, http.MethodDelete, "/api/note/v1/"+url.PathEscape(id)+"?confirm=true", nil, nil)
}

func (n *NoteClient) ListNotes(ctx context.Context) ([]entity.Note, error) {
	var notes []entity.Note
	if err := n.do(ctx, http.MethodGet, "/api/note/v1", nil, &notes); err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []entity.Note{}
	}
	return notes, nil
}

func (n *NoteClient) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payloadBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, n.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if n.Token != "" {
		req.Header.Set("Authorization", "Bearer "+n.Token)
	}

	resp, err := n.Client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("note request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var envelope serverutils.BaseResponse[json.RawMessage]
	decodeErr := json.Unmarshal(bodyBytes, &envelope)

	if resp.StatusCode >= http.StatusBadRequest || (decodeErr == nil && !envelope.Success) {
		// The server's message is shown to the user verbatim; an empty one
		// becomes the generic sync failure upstream.
		if decodeErr == nil {
			return errors.New(envelope.Message)
		}
		return fmt.Errorf("note api error: status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return fmt.Errorf("unmarshal response: %w", decodeErr)
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("unmarshal data: %w", err)
		}
	}
	return nil
}
