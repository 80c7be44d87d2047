package server

const healthStatus = "WhatsApp Voice Transcription Bot is running"

// StatusResponse is the body of webhook acknowledgements and the health check.
type StatusResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
