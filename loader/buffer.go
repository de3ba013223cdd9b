package loader

import (
	"encoding/base64"
	"net/url"
	"path"
	"strings"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
)

// MIME types accepted for buffer data URIs.
var validBufferMimeTypes = []string{"application/octet-stream", "application/gltf-buffer"}

// dataURI is a parsed "data:<mime>[;base64],<payload>" resource.
type dataURI struct {
	MimeType string
	Base64   bool
	Data     string
}

func parseDataURI(uri string) (dataURI, bool) {
	if !strings.HasPrefix(uri, "data:") {
		return dataURI{}, false
	}
	mimeType, data, found := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !found {
		return dataURI{}, false
	}

	isBase64 := strings.HasSuffix(mimeType, ";base64")
	mimeType = strings.TrimSuffix(mimeType, ";base64")
	return dataURI{MimeType: mimeType, Base64: isBase64, Data: data}, true
}

func (d dataURI) Decode() ([]byte, error) {
	if d.Base64 {
		decoded, err := base64.StdEncoding.DecodeString(d.Data)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to decode base64 data")
		}
		return decoded, nil
	}
	return []byte(d.Data), nil
}

// resolveBuffers produces raw bytes for every buffer the document declares.
// Blob-backed buffers come from the decoded container, data URIs are decoded
// in-process, external URIs go through the injected byte-read capability
// relative to the document's own directory. Every failure here is fatal.
func resolveBuffers(doc *gltf.Document, docPath string, readBytes ReadBytesFunc) ([][]byte, error) {
	bufferData := make([][]byte, 0, len(doc.Buffers))
	for i, buffer := range doc.Buffers {
		switch {
		case buffer.URI == "":
			// The embedded blob, unwrapped by the container decoder.
			if len(buffer.Data) == 0 {
				return nil, ErrMissingBlob
			}
			bufferData = append(bufferData, buffer.Data)

		case strings.HasPrefix(buffer.URI, "data:"):
			uri, ok := parseDataURI(buffer.URI)
			if !ok {
				return nil, errors.Errorf("Malformed data uri in buffer %d", i)
			}
			if !isValidBufferMimeType(uri.MimeType) {
				return nil, ErrBufferFormatUnsupported
			}
			decoded, err := uri.Decode()
			if err != nil {
				return nil, errors.Wrapf(err, "Buffer %d", i)
			}
			bufferData = append(bufferData, decoded)

		default:
			data, err := readExternalBytes(buffer.URI, docPath, readBytes)
			if err != nil {
				return nil, errors.Wrapf(err, "Failed to read buffer %d", i)
			}
			bufferData = append(bufferData, data)
		}
	}
	return bufferData, nil
}

func isValidBufferMimeType(mimeType string) bool {
	for _, valid := range validBufferMimeTypes {
		if mimeType == valid {
			return true
		}
	}
	return false
}

func readExternalBytes(uri, docPath string, readBytes ReadBytesFunc) ([]byte, error) {
	if readBytes == nil {
		return nil, errors.New("No byte-read capability configured for external uri")
	}
	unescaped, err := url.PathUnescape(uri)
	if err != nil {
		unescaped = uri
	}
	return readBytes(path.Join(path.Dir(docPath), unescaped))
}
