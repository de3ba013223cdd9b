package registry

import (
	"github.com/google/uuid"
)

// Registry is a label-keyed sink for decoded sub-assets. Labels are stable
// strings ("Mesh0/Primitive1", "MaterialDefault", ...) and may be referenced
// before the asset behind them is registered: Handle returns a forward
// reference that resolves lazily against the label table.
type Registry struct {
	labels map[string]uuid.UUID
	assets map[uuid.UUID]any
}

func New() *Registry {
	return &Registry{
		labels: make(map[string]uuid.UUID),
		assets: make(map[uuid.UUID]any),
	}
}

// Handle returns a reference to the asset registered under label. The handle
// is valid immediately even when nothing is registered under label yet.
func (r *Registry) Handle(label string) Handle {
	uid, ok := r.labels[label]
	if !ok {
		uid = uuid.New()
		r.labels[label] = uid
	}
	return Handle{registry: r, label: label, uid: uid}
}

// Set registers asset under label and returns a handle to it. Registering
// the same label twice replaces the previous asset; every outstanding
// forward reference observes the replacement.
func (r *Registry) Set(label string, asset any) Handle {
	h := r.Handle(label)
	r.assets[h.uid] = asset
	return h
}

// Has reports whether an asset has been registered under label.
func (r *Registry) Has(label string) bool {
	uid, ok := r.labels[label]
	if !ok {
		return false
	}
	_, loaded := r.assets[uid]
	return loaded
}

// Handle is a forward reference to a labeled sub-asset.
type Handle struct {
	registry *Registry
	label    string
	uid      uuid.UUID
}

func (h Handle) Label() string { return h.label }

func (h Handle) Uid() uuid.UUID { return h.uid }

// Exists reports whether the handle points at a registry at all. The zero
// Handle is used for optional references (no material, no skin).
func (h Handle) Exists() bool { return h.registry != nil }

// ResolveAny returns the registered asset, or nil when the label has not
// been materialized yet.
func (h Handle) ResolveAny() any {
	if h.registry == nil {
		return nil
	}
	return h.registry.assets[h.uid]
}

// Resolve returns the asset behind the handle casted to T.
func Resolve[T any](h Handle) (T, bool) {
	if casted, ok := h.ResolveAny().(T); ok {
		return casted, true
	}
	var nilT T
	return nilT, false
}
