// Package cache holds small in-process caches for values that are expensive
// to look up and change rarely, such as parameter store entries.
package cache

// Cache is a string-keyed cache.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
}
