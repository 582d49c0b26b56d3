package common

import "fmt"

func RedisKeyRateLimit(scope, subject string, window int64) string {
	return fmt.Sprintf("ratelimit:%s:%s:%d", scope, subject, window)
}

func RedisKeyCronLock(job string, at int64) string {
	return fmt.Sprintf("cronlock:%s:%d", job, at)
}
