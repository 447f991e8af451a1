package utils

import (
	"context"

	"bitbucket.org/karoofoods/biltong_tracker/appctx"
)

var (
	ContextKeyCorrelationId = appctx.ContextKeyCorrelationId
	ContextKeyDeviceId      = appctx.ContextKeyDeviceId
)

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCorrelationId)
}

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return appctx.SetString(ctx, ContextKeyCorrelationId, correlationId)
}

func GetDeviceIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyDeviceId)
}

func SetDeviceIdInContext(ctx context.Context, deviceId string) context.Context {
	return appctx.SetString(ctx, ContextKeyDeviceId, deviceId)
}
