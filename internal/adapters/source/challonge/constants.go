package challonge

import "time"

const (
	defaultBaseURL     = "https://api.challonge.com/v1"
	defaultHTTPTimeout = 10 * time.Second
	maxErrorBody       = 512
)
