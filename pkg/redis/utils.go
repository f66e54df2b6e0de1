package redis

import (
	"context"
	"fmt"
)

const scanBatchSize = 100

// ScanKeys returns every key matching pattern using SCAN, so large keyspaces do not block the server.
func ScanKeys(ctx context.Context, client *Client, pattern string) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := client.Scan(ctx, cursor, pattern, scanBatchSize)
		if err != nil {
			return nil, fmt.Errorf("scan %s failed: %w", pattern, err)
		}
		keys = append(keys, batch...)
		if next == 0 {
			return keys, nil
		}
		cursor = next
	}
}
