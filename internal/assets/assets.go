// Package assets rasterizes the embedded SVG piece artwork and memoizes
// the results. A Cache is owned by a rendering session rather than being
// package state, so concurrent renders never share mutable tables.
package assets

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

//go:embed svg
var files embed.FS

type cacheKey struct {
	name string
	size int
}

// Cache is a size-keyed memoization table of decoded asset rasters.
// Entries are immutable once inserted and never invalidated, which makes
// the cache safe to share across the frames of a single render.
type Cache struct {
	mu     sync.RWMutex
	images map[cacheKey]image.Image
}

func NewCache() *Cache {
	return &Cache{images: map[cacheKey]image.Image{}}
}

// Image returns the embedded SVG asset with the given logical name (for
// example "pieces/alpha/wq") rasterized to size x size pixels.
func (c *Cache) Image(name string, size int) (image.Image, error) {
	return c.ImageFunc(name, size, func() (image.Image, error) {
		return c.renderSVG(name, size)
	})
}

// ImageFunc memoizes an arbitrary raster under (name, size), building it
// with the supplied function on a cache miss. Renderers use this for
// icons that are drawn rather than decoded.
func (c *Cache) ImageFunc(name string, size int, build func() (image.Image, error)) (image.Image, error) {
	key := cacheKey{name: name, size: size}

	c.mu.RLock()
	if img, ok := c.images[key]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := build()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[key] = img
	c.mu.Unlock()

	return img, nil
}

func (c *Cache) renderSVG(name string, size int) (image.Image, error) {
	data, err := files.ReadFile("svg/" + name + ".svg")
	if err != nil {
		return nil, fmt.Errorf("read asset %s: %w", name, err)
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse asset svg %s: %w", name, err)
	}

	if icon.ViewBox.W <= 0 {
		icon.ViewBox.W = float64(size)
	}
	if icon.ViewBox.H <= 0 {
		icon.ViewBox.H = float64(size)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	return img, nil
}
