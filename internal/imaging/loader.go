package imaging

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	"github.com/ironsheep/rastertrace/internal/config"
	"github.com/ironsheep/rastertrace/internal/tracererr"
)

// ImageCache provides thread-safe caching of loaded images, kept for the
// CLI collaborator which may re-trace the same input at several detail
// levels in one invocation (see EnableMultipass in config.CommonConfig).
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates a new, empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{images: make(map[string]image.Image)}
}

// Load decodes an image from disk, validating it against the boundary
// rules in spec.md §6 (width/height must be positive, within size caps).
// WebP decoding depends on the registered image.RegisterFormat hook;
// ship with PNG/JPEG/GIF wired and let callers register WebP decoders
// (e.g. golang.org/x/image/webp) alongside their own main package, since
// image format sniffing itself is an out-of-scope collaborator per
// spec.md §1.
func (c *ImageCache) Load(path string) (image.Image, error) {
	const op = "imaging.Load"

	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, tracererr.Wrap(tracererr.InvalidConfig, op, fmt.Errorf("open image: %w", err))
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, tracererr.Wrap(tracererr.InvalidConfig, op, fmt.Errorf("decode image: %w", err))
	}

	b := img.Bounds()
	if err := config.ValidateDimensions(b.Dx(), b.Dy()); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}
