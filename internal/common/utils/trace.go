package utils

import (
	"context"
	"log"

	"github.com/aws/aws-xray-sdk-go/xray"
)

// StartSubsegment はX-Rayのサブセグメントを開始し、終了用の関数を返します
// 親セグメントが無い場合は何もしないので、トレース無効時やテストからも安全に呼び出せます
func StartSubsegment(ctx context.Context, name string) (context.Context, func(error)) {
	if xray.GetSegment(ctx) == nil {
		return ctx, func(error) {}
	}
	ctx, seg := xray.BeginSubsegment(ctx, name)
	if seg == nil {
		return ctx, func(error) {}
	}
	return ctx, func(err error) { seg.Close(err) }
}

// AddMetadata はコンテキスト中のセグメントにメタデータを追加します
func AddMetadata(ctx context.Context, key string, value interface{}) {
	seg := xray.GetSegment(ctx)
	if seg == nil {
		return
	}
	if err := seg.AddMetadata(key, value); err != nil {
		log.Printf("Failed to add %s metadata: %v", key, err)
	}
}
