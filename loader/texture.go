package loader

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"log"
	"path"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/mogaika/gltfscene/registry"
	"github.com/mogaika/gltfscene/scene"
)

func decodeImage(data []byte, mimeType string) (image.Image, error) {
	r := bytes.NewReader(data)
	switch mimeType {
	case "image/png":
		return png.Decode(r)
	case "image/jpeg":
		return jpeg.Decode(r)
	case "image/bmp":
		return bmp.Decode(r)
	case "image/tiff":
		return tiff.Decode(r)
	case "image/webp":
		return webp.Decode(r)
	}
	return nil, &InvalidImageMimeTypeError{MimeType: mimeType}
}

func mimeTypeFromExtension(uri string) string {
	switch strings.ToLower(path.Ext(uri)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".bmp":
		return "image/bmp"
	case ".tif", ".tiff":
		return "image/tiff"
	case ".webp":
		return "image/webp"
	}
	return ""
}

func samplerDesc(sampler *gltf.Sampler) scene.SamplerDesc {
	desc := scene.SamplerDesc{
		AddressModeU: scene.AddressRepeat,
		AddressModeV: scene.AddressRepeat,
		MagFilter:    scene.FilterLinear,
		MinFilter:    scene.FilterLinear,
		MipmapFilter: scene.FilterNearest,
	}
	if sampler == nil {
		return desc
	}

	desc.AddressModeU = addressMode(sampler.WrapS)
	desc.AddressModeV = addressMode(sampler.WrapT)

	switch sampler.MagFilter {
	case gltf.MagNearest:
		desc.MagFilter = scene.FilterNearest
	case gltf.MagLinear:
		desc.MagFilter = scene.FilterLinear
	}

	switch sampler.MinFilter {
	case gltf.MinNearest, gltf.MinNearestMipMapNearest, gltf.MinNearestMipMapLinear:
		desc.MinFilter = scene.FilterNearest
	case gltf.MinLinear, gltf.MinLinearMipMapNearest, gltf.MinLinearMipMapLinear:
		desc.MinFilter = scene.FilterLinear
	}
	switch sampler.MinFilter {
	case gltf.MinNearestMipMapLinear, gltf.MinLinearMipMapLinear:
		desc.MipmapFilter = scene.FilterLinear
	case gltf.MinNearest, gltf.MinLinear, gltf.MinNearestMipMapNearest, gltf.MinLinearMipMapNearest:
		desc.MipmapFilter = scene.FilterNearest
	}
	return desc
}

func addressMode(wrap gltf.WrappingMode) scene.AddressMode {
	switch wrap {
	case gltf.WrapClampToEdge:
		return scene.AddressClampToEdge
	case gltf.WrapMirroredRepeat:
		return scene.AddressMirrorRepeat
	}
	return scene.AddressRepeat
}

// loadTexture decodes one texture into pixels plus sampler state. The
// caller decides whether a failure is fatal.
func loadTexture(doc *gltf.Document, index int, docPath string, linear map[int]bool, readBytes ReadBytesFunc) (*scene.Texture, error) {
	tex := doc.Textures[index]
	if tex.Source == nil || int(*tex.Source) >= len(doc.Images) {
		return nil, errors.Errorf("Texture %d has no image source", index)
	}
	img := doc.Images[*tex.Source]

	var data []byte
	var mimeType string
	switch {
	case img.BufferView != nil:
		if img.MimeType == "" {
			return nil, &InvalidImageMimeTypeError{MimeType: ""}
		}
		if int(*img.BufferView) >= len(doc.BufferViews) {
			return nil, errors.Errorf("Image of texture %d references a missing buffer view", index)
		}
		viewData, err := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to read image of texture %d", index)
		}
		data = viewData
		mimeType = img.MimeType

	case strings.HasPrefix(img.URI, "data:"):
		uri, ok := parseDataURI(img.URI)
		if !ok {
			return nil, errors.Errorf("Malformed data uri in image of texture %d", index)
		}
		decoded, err := uri.Decode()
		if err != nil {
			return nil, errors.Wrapf(err, "Image of texture %d", index)
		}
		data = decoded
		mimeType = uri.MimeType

	case img.URI != "":
		external, err := readExternalBytes(img.URI, docPath, readBytes)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to read image of texture %d", index)
		}
		data = external
		mimeType = img.MimeType
		if mimeType == "" {
			mimeType = mimeTypeFromExtension(img.URI)
		}

	default:
		return nil, errors.Errorf("Image of texture %d has no data source", index)
	}

	pixels, err := decodeImage(data, mimeType)
	if err != nil {
		return nil, err
	}

	var sampler *gltf.Sampler
	if tex.Sampler != nil && int(*tex.Sampler) < len(doc.Samplers) {
		sampler = doc.Samplers[*tex.Sampler]
	}

	return &scene.Texture{
		Name:    tex.Name,
		Image:   pixels,
		SRGB:    !linear[index],
		Sampler: samplerDesc(sampler),
	}, nil
}

// loadTexturesSerial decodes textures in declaration order. Any failure is
// fatal, matching single-texture loads where there is nothing to salvage.
func loadTexturesSerial(doc *gltf.Document, docPath string, linear map[int]bool, readBytes ReadBytesFunc, reg *registry.Registry) error {
	for i := range doc.Textures {
		tex, err := loadTexture(doc, i, docPath, linear, readBytes)
		if err != nil {
			return err
		}
		reg.Set(textureLabel(i), tex)
	}
	return nil
}

// loadTexturesConcurrent fans texture decoding out to one goroutine per
// texture and re-associates results in declaration order. A failed texture
// is reported and omitted, the rest of the document survives.
func loadTexturesConcurrent(doc *gltf.Document, docPath string, linear map[int]bool, readBytes ReadBytesFunc, reg *registry.Registry) {
	results := make([]*scene.Texture, len(doc.Textures))
	errs := make([]error, len(doc.Textures))

	var wg sync.WaitGroup
	for i := range doc.Textures {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = loadTexture(doc, i, docPath, linear, readBytes)
		}(i)
	}
	wg.Wait()

	for i := range results {
		if errs[i] != nil {
			log.Printf("Error loading glTF texture: %v", errs[i])
			continue
		}
		reg.Set(textureLabel(i), results[i])
	}
}
