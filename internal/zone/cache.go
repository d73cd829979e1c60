package zone

import (
	"crypto/sha256"
	"encoding/hex"
	"image"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache memoises zone sets per template. Masks depend only on the template
// pixels, so a key of identifier plus content digest is enough to reuse them
// across directions.
type Cache struct {
	detector *Detector
	sets     *lru.Cache[string, Set]
}

func NewCache(detector *Detector, size int) (*Cache, error) {
	if size <= 0 {
		size = 128
	}
	sets, err := lru.New[string, Set](size)
	if err != nil {
		return nil, err
	}
	return &Cache{detector: detector, sets: sets}, nil
}

// Zones returns the cached set for (id, raw) or detects and stores it.
func (c *Cache) Zones(id string, raw []byte, img image.Image) Set {
	key := cacheKey(id, raw)
	if set, ok := c.sets.Get(key); ok {
		return set
	}
	set := c.detector.DetectAll(img)
	c.sets.Add(key, set)
	return set
}

func (c *Cache) Len() int {
	return c.sets.Len()
}

func cacheKey(id string, raw []byte) string {
	sum := sha256.Sum256(raw)
	return id + ":" + hex.EncodeToString(sum[:])
}
