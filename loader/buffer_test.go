package loader

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/qmuntal/gltf"
)

func TestParseDataURI(t *testing.T) {
	cases := []struct {
		uri      string
		ok       bool
		mimeType string
		base64   bool
		data     string
	}{
		{"data:application/octet-stream;base64,AAECAw==", true, "application/octet-stream", true, "AAECAw=="},
		{"data:application/gltf-buffer,raw", true, "application/gltf-buffer", false, "raw"},
		{"data:,empty-mime", true, "", false, "empty-mime"},
		{"data:nocomma", false, "", false, ""},
		{"buffer.bin", false, "", false, ""},
	}

	for _, c := range cases {
		parsed, ok := parseDataURI(c.uri)
		if ok != c.ok {
			t.Errorf("parseDataURI(%q) ok=%v, expected %v", c.uri, ok, c.ok)
			continue
		}
		if !ok {
			continue
		}
		if parsed.MimeType != c.mimeType || parsed.Base64 != c.base64 || parsed.Data != c.data {
			t.Errorf("parseDataURI(%q) = %+v", c.uri, parsed)
		}
	}
}

func TestResolveBuffersDataURI(t *testing.T) {
	payload := []byte{0, 1, 2, 3, 250}
	doc := &gltf.Document{Buffers: []*gltf.Buffer{{
		URI: "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(payload),
	}}}

	buffers, err := resolveBuffers(doc, "test.gltf", nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !bytes.Equal(buffers[0], payload) {
		t.Errorf("Decoded buffer mismatch: %v", buffers[0])
	}
}

func TestResolveBuffersRejectsUnknownMimeType(t *testing.T) {
	doc := &gltf.Document{Buffers: []*gltf.Buffer{{
		URI: "data:text/plain;base64,AAECAw==",
	}}}

	if _, err := resolveBuffers(doc, "test.gltf", nil); err != ErrBufferFormatUnsupported {
		t.Errorf("Expected unsupported buffer format, got %v", err)
	}
}

func TestResolveBuffersMissingBlob(t *testing.T) {
	doc := &gltf.Document{Buffers: []*gltf.Buffer{{URI: ""}}}

	if _, err := resolveBuffers(doc, "test.gltf", nil); err != ErrMissingBlob {
		t.Errorf("Expected missing blob, got %v", err)
	}
}

func TestResolveBuffersEmbeddedBlob(t *testing.T) {
	blob := []byte{9, 8, 7}
	doc := &gltf.Document{Buffers: []*gltf.Buffer{{URI: "", Data: blob}}}

	buffers, err := resolveBuffers(doc, "test.glb", nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !bytes.Equal(buffers[0], blob) {
		t.Errorf("Blob buffer mismatch: %v", buffers[0])
	}
}

func TestResolveBuffersExternal(t *testing.T) {
	var requested string
	readBytes := func(path string) ([]byte, error) {
		requested = path
		return []byte{42}, nil
	}

	doc := &gltf.Document{Buffers: []*gltf.Buffer{{URI: "my%20buffer.bin"}}}
	buffers, err := resolveBuffers(doc, "models/test.gltf", readBytes)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if requested != "models/my buffer.bin" {
		t.Errorf("External uri resolved to %q", requested)
	}
	if len(buffers[0]) != 1 || buffers[0][0] != 42 {
		t.Errorf("External buffer mismatch: %v", buffers[0])
	}
}

func TestResolveBuffersExternalWithoutReader(t *testing.T) {
	doc := &gltf.Document{Buffers: []*gltf.Buffer{{URI: "buffer.bin"}}}
	if _, err := resolveBuffers(doc, "test.gltf", nil); err == nil {
		t.Error("Expected error for external uri without a byte-read capability")
	}
}
