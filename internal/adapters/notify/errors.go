package notify

import "errors"

// ErrInvalidWebhookURL is returned for URLs that are not Discord webhook URLs.
var ErrInvalidWebhookURL = errors.New("invalid discord webhook url")
