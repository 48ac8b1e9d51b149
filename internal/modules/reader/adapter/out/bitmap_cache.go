package out

import (
	"image"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	readerout "folio/internal/modules/reader/port/out"
)

// BitmapCache keeps rasterized pages in memory. Keys start with the document
// id so a closed document can be purged in one sweep.
type BitmapCache struct {
	c *cache.Cache
}

func NewBitmapCache(ttl, cleanup time.Duration) readerout.BitmapCache {
	return &BitmapCache{c: cache.New(ttl, cleanup)}
}

func (b *BitmapCache) Get(key string) (*image.RGBA, bool) {
	v, ok := b.c.Get(key)
	if !ok {
		return nil, false
	}
	img, ok := v.(*image.RGBA)
	return img, ok
}

func (b *BitmapCache) Put(key string, bitmap *image.RGBA) {
	b.c.Set(key, bitmap, cache.DefaultExpiration)
}

func (b *BitmapCache) Purge(documentID string) {
	prefix := documentID + "|"
	for key := range b.c.Items() {
		if strings.HasPrefix(key, prefix) {
			b.c.Delete(key)
		}
	}
}
