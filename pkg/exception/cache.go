package exception

import "errors"

var (
	ErrCacheDuplicateOrder     = errors.New("cache: order already added")
	ErrCacheDuplicatePosition  = errors.New("cache: position already added")
	ErrCacheDuplicateOrderList = errors.New("cache: order list already added")
	ErrCacheUnknownOrder       = errors.New("cache: order not found")
	ErrCacheUnknownPosition    = errors.New("cache: position not found")
)
