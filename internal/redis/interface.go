package redis

import (
	"github.com/redis/go-redis/v9"
)

//go:generate mockgen -destination=mocks/redis.go -package=redismocks -source=interface.go

// Client wraps redis.UniversalClient so single-node and cluster clients are
// interchangeable.
type Client interface {
	redis.UniversalClient
}
