package webhook

import "WaiAutoReply/pkg/response"

var (
	ErrVerificationFailed = response.NewError(403, "webhook verification failed")
	ErrInvalidSignature   = response.NewError(401, "invalid webhook signature")
	ErrVerifyTokenNotSet  = response.NewError(503, "webhook verify token is not configured")
)
