package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/NextMind-AI/voicenote-go/audio"

	"github.com/rs/zerolog/log"
)

var (
	ErrEmptyMediaID  = errors.New("whatsapp: media id is empty")
	ErrMissingURL    = errors.New("whatsapp: media metadata has no download url")
	ErrMediaTooLarge = errors.New("whatsapp: media exceeds size limit")
	ErrNotAudio      = errors.New("whatsapp: media is not audio")
)

// ResolveMedia exchanges a media id for its metadata and temporary download URL.
func (c *Client) ResolveMedia(ctx context.Context, mediaID string) (*MediaInfo, error) {
	if mediaID == "" {
		return nil, ErrEmptyMediaID
	}

	log.Debug().Str("media_id", mediaID).Msg("Resolving media URL")

	respBody, err := c.sendRequest(ctx, http.MethodGet, c.mediaURL(mediaID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve media %s: %w", mediaID, err)
	}

	var info MediaInfo
	if err := json.Unmarshal(respBody, &info); err != nil {
		return nil, fmt.Errorf("failed to parse media metadata: %w", err)
	}

	if info.URL == "" {
		return nil, ErrMissingURL
	}

	return &info, nil
}

// DownloadMedia performs the authenticated GET of a resolved media URL.
// It returns the body and the Content-Type the server reported.
func (c *Client) DownloadMedia(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create download request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download media: %w", err)
	}
	defer resp.Body.Close()

	if !c.isSuccessStatusCode(resp.StatusCode) {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, "", fmt.Errorf("failed to download media: %w", parseAPIError(resp.StatusCode, body))
	}

	limit := c.config.MaxMediaBytes
	if resp.ContentLength > limit {
		return nil, "", fmt.Errorf("%w: %d bytes", ErrMediaTooLarge, resp.ContentLength)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read media data: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, "", fmt.Errorf("%w: more than %d bytes", ErrMediaTooLarge, limit)
	}

	return data, resp.Header.Get("Content-Type"), nil
}

// FetchAudio resolves a media id and downloads it in one step.
// Nothing is cached: the temporary URL is used once and discarded.
func (c *Client) FetchAudio(ctx context.Context, mediaID string) (*Audio, error) {
	info, err := c.ResolveMedia(ctx, mediaID)
	if err != nil {
		return nil, err
	}

	data, contentType, err := c.DownloadMedia(ctx, info.URL)
	if err != nil {
		return nil, err
	}

	mimeType := info.MimeType
	if mimeType == "" {
		mimeType = contentType
	}
	// an unknown type is left for the caller to fill in from the webhook
	if mimeType != "" && !audio.IsAudioContent(mimeType) {
		return nil, fmt.Errorf("%w: %s", ErrNotAudio, mimeType)
	}

	log.Debug().
		Str("media_id", mediaID).
		Str("mime_type", mimeType).
		Int("file_size", len(data)).
		Msg("Audio file downloaded successfully")

	return &Audio{
		Data:     data,
		MimeType: mimeType,
	}, nil
}
