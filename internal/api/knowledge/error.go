package knowledge

import "WaiAutoReply/pkg/response"

var (
	ErrInvalidPayload = response.NewError(400, "invalid payload")
	ErrIntentNotFound = response.NewError(404, "intent not found")
)
