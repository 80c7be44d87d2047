package whatsapp

import "fmt"

type Config struct {
	AccessToken     string
	PhoneNumberID   string
	GraphAPIBaseURL string
	APIVersion      string
	MaxMediaBytes   int64
}

// MediaInfo is the metadata returned when resolving a media id.
// URL is short-lived and must be fetched with the same bearer token.
type MediaInfo struct {
	MessagingProduct string `json:"messaging_product"`
	ID               string `json:"id"`
	URL              string `json:"url"`
	MimeType         string `json:"mime_type"`
	SHA256           string `json:"sha256"`
	FileSize         int64  `json:"file_size"`
}

// Audio is a downloaded media payload.
type Audio struct {
	Data     []byte
	MimeType string
}

type Text struct {
	Body       string `json:"body"`
	PreviewURL bool   `json:"preview_url"`
}

type TextMessage struct {
	MessagingProduct string `json:"messaging_product"`
	RecipientType    string `json:"recipient_type"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             Text   `json:"text"`
}

type MarkAsReadPayload struct {
	MessagingProduct string `json:"messaging_product"`
	Status           string `json:"status"`
	MessageID        string `json:"message_id"`
}

type MessageContact struct {
	Input string `json:"input"`
	WaID  string `json:"wa_id"`
}

type SentMessage struct {
	ID string `json:"id"`
}

type MessageResponse struct {
	MessagingProduct string           `json:"messaging_product"`
	Contacts         []MessageContact `json:"contacts"`
	Messages         []SentMessage    `json:"messages"`
}

// MessageID returns the id of the first accepted message, if any.
func (r *MessageResponse) MessageID() string {
	if r == nil || len(r.Messages) == 0 {
		return ""
	}
	return r.Messages[0].ID
}

// Graph API error codes worth telling apart in logs.
const (
	ErrorCodePermission = 10
	ErrorCodeAuth       = 190
	ErrorCodeRateLimit  = 130429
)

// APIError is the Graph API error envelope plus the HTTP status it came with.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Type       string `json:"type"`
	Code       int    `json:"code"`
	ErrorData  struct {
		Details string `json:"details"`
	} `json:"error_data"`
	FBTraceID string `json:"fbtrace_id"`
}

type errorEnvelope struct {
	Error *APIError `json:"error"`
}

func (e *APIError) Error() string {
	if e.ErrorData.Details != "" {
		return fmt.Sprintf("WhatsApp API error (status %d, code %d): %s - %s", e.StatusCode, e.Code, e.Message, e.ErrorData.Details)
	}
	return fmt.Sprintf("WhatsApp API error (status %d, code %d): %s", e.StatusCode, e.Code, e.Message)
}

// IsPermissionError reports a token without whatsapp_business_messaging permission.
func (e *APIError) IsPermissionError() bool {
	return e.Code == ErrorCodePermission
}

// IsAuthError reports an expired or revoked access token.
func (e *APIError) IsAuthError() bool {
	return e.Code == ErrorCodeAuth
}

func (e *APIError) IsRateLimitError() bool {
	return e.Code == ErrorCodeRateLimit
}
