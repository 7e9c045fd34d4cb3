package autoreply

import "WaiAutoReply/pkg/response"

var (
	ErrInvalidPayload = response.NewError(400, "invalid payload")
)
